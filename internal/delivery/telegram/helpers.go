package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// esc escapes plain text for HTML parse mode.
func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

func bold(s string) string {
	return "<b>" + esc(s) + "</b>"
}

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// newKeyboardMessage creates an HTML message with an inline keyboard attached.
func newKeyboardMessage(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) tgbotapi.MessageConfig {
	msg := newHTMLMessage(chatID, text)
	msg.ReplyMarkup = kb
	return msg
}
