package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/service"
	"github.com/aliskhannn/trivia-quiz/internal/storage"
)

const outboxSize = 256

// chatSession is the live quiz of one chat.
type chatSession struct {
	quiz     *service.QuizService
	renderer *chatRenderer
	cancel   context.CancelFunc
}

type Handler struct {
	bot      BotAPI
	logger   *zap.Logger
	supplier service.QuestionSupplier
	recorder Recorder
	sessions *storage.SessionStorage[*chatSession]
	outbox   chan tgbotapi.Chattable
	wg       sync.WaitGroup
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	supplier service.QuestionSupplier,
	recorder Recorder,
) *Handler {
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &Handler{
		bot:      bot,
		logger:   logger,
		supplier: supplier,
		recorder: recorder,
		sessions: storage.NewSessionStorage[*chatSession](),
		outbox:   make(chan tgbotapi.Chattable, outboxSize),
	}
}

// Run polls updates until ctx is cancelled. Quiz sessions started by the
// handler live no longer than Run.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	ctx, cancel := context.WithCancel(ctx)

	outboxDone := make(chan struct{})
	go func() {
		defer close(outboxDone)
		h.runOutbox(ctx)
	}()

	defer func() {
		cancel()
		h.stopAll()
		<-outboxDone
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID

	if !update.Message.IsCommand() {
		h.push(newHTMLMessage(chatID, msgUnknownCommand))
		return
	}

	switch update.Message.Command() {
	case "start":
		h.push(newHTMLMessage(chatID, msgWelcome))

	case "quiz":
		_ = h.withErrorHandling(h.startQuiz)(ctx, chatID)

	case "stop":
		h.stopQuiz(chatID)

	default:
		h.push(newHTMLMessage(chatID, msgUnknownCommand))
	}
}

// push queues c for the outbox without blocking the caller.
func (h *Handler) push(c tgbotapi.Chattable) {
	select {
	case h.outbox <- c:
	default:
		h.logger.Warn("telegram outbox full, message dropped")
	}
}

func (h *Handler) runOutbox(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.outbox:
			h.send(c)
		}
	}
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Error("failed to answer callback",
			zap.String("callback_id", id),
			zap.Error(err),
		)
	}
}

type nopRecorder struct{}

func (nopRecorder) ObserveFetch(*entities.SupplyError) {}
func (nopRecorder) ObserveAnswer(string)               {}
func (nopRecorder) ObserveBatchCompleted()             {}
func (nopRecorder) SessionStarted()                    {}
func (nopRecorder) SessionStopped()                    {}
