package telegram

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/service"
)

// startQuiz starts the chat's quiz, or restarts it when one is already running.
func (h *Handler) startQuiz(ctx context.Context, chatID int64) error {
	if cs, ok := h.sessions.Get(chatID); ok {
		err := cs.quiz.Restart(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, service.ErrSessionStopped) {
			return fmt.Errorf("restart quiz: %w", err)
		}
		h.sessions.DeleteIf(chatID, cs)
	}

	h.startSession(ctx, chatID)
	return nil
}

func (h *Handler) startSession(ctx context.Context, chatID int64) {
	sctx, cancel := context.WithCancel(ctx)
	logger := h.logger.With(zap.Int64("chat_id", chatID))

	r := newChatRenderer(chatID, h.push)
	cs := &chatSession{
		quiz:     service.NewQuizService(h.supplier, r, h.recorder, logger),
		renderer: r,
		cancel:   cancel,
	}
	h.sessions.Store(chatID, cs)
	h.recorder.SessionStarted()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer h.recorder.SessionStopped()
		defer h.sessions.DeleteIf(chatID, cs)

		err := cs.quiz.Run(sctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("quiz session ended", zap.Error(err))
		}
	}()

	logger.Info("quiz session started")
}

func (h *Handler) stopQuiz(chatID int64) {
	cs, ok := h.sessions.Delete(chatID)
	if !ok {
		h.push(newHTMLMessage(chatID, msgNoActiveQuiz))
		return
	}

	cs.cancel()
	h.push(newHTMLMessage(chatID, msgStopped))
	h.logger.Info("quiz session stopped", zap.Int64("chat_id", chatID))
}

// stopAll cancels every session and waits for their loops to exit.
func (h *Handler) stopAll() {
	for _, cs := range h.sessions.Drain() {
		cs.cancel()
	}
	h.wg.Wait()
}
