package telegram

import "gopkg.in/telebot.v3"

// Client sends and withdraws bot messages. It keeps the notifier independent
// of the bot library's Bot type.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) (*telebot.Message, error)
	DeleteMessage(chatID int64, messageID int) error
}
