package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"time_recorder_bot/internal/app"
	"time_recorder_bot/internal/domain/attendance"
)

// registerCallbackHandlers handles the inline buttons attached by Notifier.
func registerCallbackHandlers(ctx context.Context, g *telebot.Group, svc Services, baseLogger *logrus.Entry) {
	g.Handle(&stampButton, func(c telebot.Context) error {
		data := c.Callback().Data
		handlerLogger := baseLogger.WithFields(logrus.Fields{"callback": stampButton.Unique, "data": data})

		value, err := strconv.Atoi(data)
		stampType := attendance.StampType(value)
		if err != nil || stampType.Label() == "" {
			c.Bot().OnError(fmt.Errorf("invalid stamp callback data: %q", data), c)
			return c.Respond(&telebot.CallbackResponse{Text: "不明な操作です。"})
		}

		status, err := svc.Status.Stamp(ctx, stampType)
		if err != nil {
			handlerLogger.WithError(err).Error("Stamp from button failed")
			return c.Respond(&telebot.CallbackResponse{Text: app.UserMessage(err), ShowAlert: true})
		}

		stampedAt := status.Start
		if stampType == attendance.StampOff {
			stampedAt = status.Leave
		}
		return c.Respond(&telebot.CallbackResponse{Text: fmt.Sprintf("%s %s", stampType.Label(), stampedAt)})
	})

	g.Handle(&dismissButton, func(c telebot.Context) error {
		messageID := 0
		if m := c.Callback().Message; m != nil {
			messageID = m.ID
		}
		svc.Notifier.Dismiss(ctx, c.Callback().Data, messageID)
		return c.Respond()
	})
}
