package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"time_recorder_bot/internal/app"
)

// registerSettingsHandlers registers the commands that change stored
// preferences or the portal session.
func registerSettingsHandlers(ctx context.Context, g *telebot.Group, svc Services, baseLogger *logrus.Entry) {
	g.Handle("/holidays", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithField("handler", "/holidays")

		args := c.Args()
		if len(args) == 0 {
			holidays, err := svc.Prefs.Holidays(ctx)
			if err != nil {
				return replyError(c, handlerLogger, err)
			}
			if len(holidays) == 0 {
				return c.Send("休暇として数える列は設定されていません。\n使い方: /holidays 有休 特別休暇")
			}
			return c.Send("休暇として数える列: " + strings.Join(holidays, ", "))
		}

		if err := svc.Prefs.SetHolidays(ctx, args); err != nil {
			return replyError(c, handlerLogger, err)
		}
		handlerLogger.WithField("holidays", args).Info("Holiday columns updated")
		return c.Send("休暇として数える列を更新しました: " + strings.Join(args, ", "))
	})

	g.Handle("/site", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithField("handler", "/site")

		args := c.Args()
		if len(args) == 0 {
			siteID, err := svc.Prefs.SiteID(ctx)
			if err != nil {
				return replyError(c, handlerLogger, err)
			}
			return c.Send(fmt.Sprintf("接続先: %d (%s)", siteID, svc.Hosts[siteIndex(siteID, len(svc.Hosts))]))
		}
		if len(args) != 1 {
			return c.Send("使い方: /site <番号>")
		}

		siteID, err := strconv.Atoi(args[0])
		if err != nil || siteID < 0 || siteID >= len(svc.Hosts) {
			handlerLogger.WithField("arg", args[0]).Warn("Invalid site id")
			return c.Send(fmt.Sprintf("番号は 0 から %d の範囲で指定してください。", len(svc.Hosts)-1))
		}
		if err := svc.Prefs.SetSiteID(ctx, siteID); err != nil {
			return replyError(c, handlerLogger, err)
		}
		if err := svc.Status.Invalidate(ctx); err != nil {
			handlerLogger.WithError(err).Warn("Failed to drop status cache after site change")
		}
		handlerLogger.WithField("site_id", siteID).Info("Site updated")
		return c.Send(fmt.Sprintf("接続先を %s に変更しました。", svc.Hosts[siteID]))
	})

	g.Handle("/messages", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithField("handler", "/messages")

		msgs, err := svc.Prefs.Messages(ctx)
		if err != nil {
			handlerLogger.WithError(err).Warn("Failed to read reminder texts, showing defaults")
		}

		args := c.Args()
		if len(args) == 0 {
			return c.Send(fmt.Sprintf("出社リマインダー: %s\n退社リマインダー: %s\n使い方: /messages start|leave <文言>", msgs.Start, msgs.Leave))
		}

		updated, err := applyMessageArgs(msgs, args)
		if err != nil {
			handlerLogger.WithField("args", args).Warn("Invalid messages arguments")
			return c.Send("使い方: /messages start|leave <文言>")
		}
		if err := svc.Prefs.SetMessages(ctx, updated); err != nil {
			return replyError(c, handlerLogger, err)
		}
		handlerLogger.WithField("target", args[0]).Info("Reminder text updated")
		return c.Send("リマインダーの文言を更新しました。")
	})

	g.Handle("/menus", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithField("handler", "/menus")

		menus, err := svc.Prefs.MenuList(ctx)
		if err != nil {
			return replyError(c, handlerLogger, err)
		}
		siteID, err := svc.Prefs.SiteID(ctx)
		if err != nil {
			handlerLogger.WithError(err).Warn("Failed to read site id")
		}
		return c.Send(FormatMenus(menus, svc.Hosts[siteIndex(siteID, len(svc.Hosts))]), &telebot.SendOptions{
			DisableWebPagePreview: true,
		})
	})

	g.Handle("/logout", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithField("handler", "/logout")

		if err := svc.Status.Logout(ctx); err != nil {
			return replyError(c, handlerLogger, err)
		}
		handlerLogger.Info("Logged out from portal")
		return c.Send("ログアウトしました。")
	})
}

// applyMessageArgs sets the start or leave text from "/messages <target> <text...>".
func applyMessageArgs(msgs app.Messages, args []string) (app.Messages, error) {
	if len(args) < 2 {
		return msgs, fmt.Errorf("expected a target and a text, got %d arguments", len(args))
	}
	text := strings.Join(args[1:], " ")
	switch strings.ToLower(args[0]) {
	case "start":
		msgs.Start = text
	case "leave":
		msgs.Leave = text
	default:
		return msgs, fmt.Errorf("unknown reminder %q", args[0])
	}
	return msgs, nil
}

// siteIndex clamps a stored site id to the host list.
func siteIndex(siteID, hosts int) int {
	if siteID < 0 || siteID >= hosts {
		return 0
	}
	return siteID
}
