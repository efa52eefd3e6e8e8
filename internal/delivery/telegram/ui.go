package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

// buildOptionsKeyboard builds one button per answer option.
func buildOptionsKeyboard(seq int, options []entities.AnswerOption) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options))
	for i, opt := range options {
		button := tgbotapi.NewInlineKeyboardButtonData(opt.Label, buildOptionCallback(seq, i))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildNextKeyboard builds keyboard shown under answer feedback.
func buildNextKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Next ▶️", buildNextCallback()),
		),
	)
}

// buildRestartKeyboard builds keyboard for the failure screen.
func buildRestartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Reload", buildRestartCallback()),
		),
	)
}

// removeKeyboard strips the inline keyboard from an already sent message.
func removeKeyboard(chatID int64, messageID int) tgbotapi.EditMessageReplyMarkupConfig {
	return tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
}
