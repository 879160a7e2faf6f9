package telegram

import (
	"context"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"time_recorder_bot/internal/app"
	tgdomain "time_recorder_bot/internal/domain/telegram"
)

// Inline buttons attached to notifications. The payload carries the stamp
// type or the notification id.
var (
	stampButton   = telebot.Btn{Unique: "stamp"}
	dismissButton = telebot.Btn{Unique: "dismiss"}
)

// Notifier delivers notifications to the owner's chat. A notification with an
// ID replaces the previous one with the same ID.
type Notifier struct {
	client tgdomain.Client
	chatID int64
	logger *logrus.Entry

	mu   sync.Mutex
	sent map[string]int // notification id -> message id
}

var _ app.NotificationSink = (*Notifier)(nil)

func NewNotifier(client tgdomain.Client, chatID int64, logger *logrus.Entry) *Notifier {
	return &Notifier{
		client: client,
		chatID: chatID,
		logger: logger,
		sent:   map[string]int{},
	}
}

func (n *Notifier) Notify(ctx context.Context, notification app.Notification) {
	if notification.ID != "" {
		n.Clear(ctx, notification.ID)
	}

	msg, err := n.client.SendMessage(n.chatID, FormatNotification(notification), &telebot.SendOptions{
		ReplyMarkup: notificationMarkup(notification),
	})
	if err != nil {
		n.logger.WithError(err).WithField("notification_id", notification.ID).Error("Failed to send notification")
		return
	}

	if notification.ID != "" && msg != nil {
		n.mu.Lock()
		n.sent[notification.ID] = msg.ID
		n.mu.Unlock()
	}
}

func (n *Notifier) Clear(_ context.Context, id string) {
	n.mu.Lock()
	messageID, ok := n.sent[id]
	delete(n.sent, id)
	n.mu.Unlock()
	if !ok {
		return
	}

	if err := n.client.DeleteMessage(n.chatID, messageID); err != nil {
		n.logger.WithError(err).WithField("notification_id", id).Warn("Failed to delete notification")
	}
}

// Dismiss clears the notification with id. When the id is unknown, e.g. the
// button belongs to a message sent before a restart, messageID is deleted
// directly.
func (n *Notifier) Dismiss(ctx context.Context, id string, messageID int) {
	n.mu.Lock()
	_, known := n.sent[id]
	n.mu.Unlock()
	if known || messageID == 0 {
		n.Clear(ctx, id)
		return
	}

	if err := n.client.DeleteMessage(n.chatID, messageID); err != nil {
		n.logger.WithError(err).WithField("message_id", messageID).Warn("Failed to delete dismissed message")
	}
}

// FormatNotification renders the message with its context line.
func FormatNotification(notification app.Notification) string {
	if notification.ContextMessage == "" {
		return notification.Message
	}
	return notification.Message + "\n" + notification.ContextMessage
}

func notificationMarkup(notification app.Notification) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	var row telebot.Row
	if label := notification.Stamp.Label(); label != "" {
		row = append(row, markup.Data(label, stampButton.Unique, strconv.Itoa(int(notification.Stamp))))
	}
	if notification.ID != "" {
		row = append(row, markup.Data("OK", dismissButton.Unique, notification.ID))
	}
	if len(row) == 0 {
		return nil
	}
	markup.Inline(row)
	return markup
}
