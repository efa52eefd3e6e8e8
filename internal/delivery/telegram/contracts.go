package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-quiz/internal/service"
)

// BotAPI is the subset of *tgbotapi.BotAPI used by the handler.
type BotAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Recorder observes quiz activity across all chats.
type Recorder interface {
	service.Recorder
	SessionStarted()
	SessionStopped()
}
