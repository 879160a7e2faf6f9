package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"

	"time_recorder_bot/internal/app"
	"time_recorder_bot/internal/domain/attendance"
)

type sentMessage struct {
	chatID int64
	text   string
	opts   *telebot.SendOptions
}

type fakeClient struct {
	nextID  int
	sent    []sentMessage
	deleted []int
	sendErr error
}

func (f *fakeClient) SendMessage(chatID int64, text string, opts *telebot.SendOptions) (*telebot.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, opts: opts})
	return &telebot.Message{ID: f.nextID}, nil
}

func (f *fakeClient) DeleteMessage(_ int64, messageID int) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func nullEntry() *logrus.Entry {
	l, _ := test.NewNullLogger()
	return logrus.NewEntry(l)
}

func TestNotifier_PlainMessage(t *testing.T) {
	client := &fakeClient{}
	n := NewNotifier(client, 42, nullEntry())

	n.Notify(context.Background(), app.Notification{Message: "出社しました。", ContextMessage: "09:05"})

	require.Len(t, client.sent, 1)
	assert.Equal(t, int64(42), client.sent[0].chatID)
	assert.Equal(t, "出社しました。\n09:05", client.sent[0].text)
	assert.Nil(t, client.sent[0].opts.ReplyMarkup)
}

func TestNotifier_ReplacesAndClearsByID(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	n := NewNotifier(client, 42, nullEntry())

	announce := app.Notification{ID: app.AnnounceID, Message: "今日はまだWeb勤怠をつけていません。", Stamp: attendance.StampOn}
	n.Notify(ctx, announce)
	n.Notify(ctx, announce)
	assert.Equal(t, []int{1}, client.deleted, "second notification replaces the first")

	n.Clear(ctx, app.AnnounceID)
	n.Clear(ctx, app.AnnounceID)
	assert.Equal(t, []int{1, 2}, client.deleted)

	markup := client.sent[0].opts.ReplyMarkup
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 1)
	row := markup.InlineKeyboard[0]
	require.Len(t, row, 2)
	assert.Equal(t, "出社", row[0].Text)
	assert.Equal(t, "OK", row[1].Text)
}

func TestNotifier_SendFailureIsNotRemembered(t *testing.T) {
	client := &fakeClient{sendErr: errors.New("blocked")}
	n := NewNotifier(client, 42, nullEntry())

	n.Notify(context.Background(), app.Notification{ID: "x", Message: "m"})
	n.Clear(context.Background(), "x")

	assert.Empty(t, client.deleted)
}

func TestNotifier_DismissUnknownIDDeletesMessage(t *testing.T) {
	client := &fakeClient{}
	n := NewNotifier(client, 42, nullEntry())

	n.Dismiss(context.Background(), app.AnnounceID, 77)

	assert.Equal(t, []int{77}, client.deleted)
}

func TestNotifier_DismissKnownID(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	n := NewNotifier(client, 42, nullEntry())

	n.Notify(ctx, app.Notification{ID: app.AnnounceID, Message: "m"})
	n.Dismiss(ctx, app.AnnounceID, 1)
	n.Dismiss(ctx, app.AnnounceID, 0)

	assert.Equal(t, []int{1}, client.deleted)
}
