// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"time_recorder_bot/internal/app"
	"time_recorder_bot/internal/domain/attendance"
)

// Services bundles what the command handlers need.
type Services struct {
	Status   *app.StatusService
	WorkInfo *app.WorkInfoService
	Prefs    *app.Preferences
	Notifier *Notifier
	Hosts    []string
}

const notOwnerReply = "このボットは所有者専用です。"

// ownerOnly rejects everyone but the configured owner.
func ownerOnly(ownerID int64, logger *logrus.Entry) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if c.Sender() == nil || c.Sender().ID != ownerID {
				logger.WithField("sender_id", senderID(c)).Warn("Unauthorized access attempt")
				if c.Callback() != nil {
					return c.Respond(&telebot.CallbackResponse{Text: notOwnerReply})
				}
				return c.Send(notOwnerReply)
			}
			return next(c)
		}
	}
}

func senderID(c telebot.Context) int64 {
	if c.Sender() == nil {
		return 0
	}
	return c.Sender().ID
}

// replyError sends the user-facing text for err.
func replyError(c telebot.Context, logCtx *logrus.Entry, err error) error {
	logCtx.WithError(err).Error("Command failed")
	return c.Send(app.ErrorTitle + "\n" + app.UserMessage(err))
}

func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	ownerID int64,
	svc Services,
	baseLogger *logrus.Entry,
) {
	logger := baseLogger.WithField("handler_group", "attendance")
	owner := b.Group()
	owner.Use(ownerOnly(ownerID, logger))

	owner.Handle("/start", func(c telebot.Context) error {
		logger.WithField("command", "/start").Info("Processing /start command")
		return c.Send("勤怠ボットです。/help でコマンド一覧を表示します。")
	})

	owner.Handle("/help", func(c telebot.Context) error {
		logger.WithField("command", "/help").Info("Processing /help command")
		var helpText strings.Builder
		helpText.WriteString("利用できるコマンド:\n\n")
		helpText.WriteString("/status - 現在の勤怠状況\n")
		helpText.WriteString("/refresh - ポータルから再取得\n")
		helpText.WriteString("/clockin - 出社を打刻\n")
		helpText.WriteString("/clockout - 退社を打刻\n")
		helpText.WriteString("/worktime - 今月の勤務時間\n")
		helpText.WriteString("/read - お知らせを既読にする\n")
		helpText.WriteString("/menus - ポータルのメニュー\n")
		helpText.WriteString("/holidays [項目...] - 休暇として数える列\n")
		helpText.WriteString("/site [番号] - 接続先サイト\n")
		helpText.WriteString("/messages [start|leave 文言] - リマインダーの文言\n")
		helpText.WriteString("/logout - ポータルからログアウト")
		return c.Send(helpText.String())
	})

	refresh := func(force bool) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			logCtx := logger.WithFields(logrus.Fields{"command": c.Text(), "force": force})
			logCtx.Info("Refreshing status")
			status, err := svc.Status.Refresh(ctx, force)
			if err != nil {
				return replyError(c, logCtx, err)
			}
			return c.Send(FormatStatus(status))
		}
	}
	owner.Handle("/status", refresh(false))
	owner.Handle("/refresh", refresh(true))

	stamp := func(stampType attendance.StampType) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			logCtx := logger.WithField("stamp", stampType.Label())
			logCtx.Info("Stamp requested")
			status, err := svc.Status.Stamp(ctx, stampType)
			if err != nil {
				return replyError(c, logCtx, err)
			}
			return c.Send(FormatStatus(status))
		}
	}
	owner.Handle("/clockin", stamp(attendance.StampOn))
	owner.Handle("/clockout", stamp(attendance.StampOff))

	owner.Handle("/worktime", func(c telebot.Context) error {
		logCtx := logger.WithField("command", "/worktime")
		logCtx.Info("Work time summary requested")
		projection, err := svc.WorkInfo.Summary(ctx)
		if err != nil {
			return replyError(c, logCtx, err)
		}
		return c.Send(FormatProjection(projection))
	})

	owner.Handle("/read", func(c telebot.Context) error {
		logCtx := logger.WithField("command", "/read")
		status, err := svc.Status.Refresh(ctx, false)
		if err != nil {
			return replyError(c, logCtx, err)
		}
		if !status.Information.Recent {
			return c.Send("新しいお知らせはありません。")
		}
		if err := svc.Status.Acknowledge(ctx, status); err != nil {
			return replyError(c, logCtx, err)
		}
		logCtx.Info("Notice acknowledged")
		return c.Send("お知らせを既読にしました。")
	})

	registerSettingsHandlers(ctx, owner, svc, logger)
	registerCallbackHandlers(ctx, owner, svc, logger)
}
