package telegram

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling logs a failed or panicking handler and tells the chat
// something went wrong. The wrapped func always returns nil.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := runRecovered(ctx, chatID, fn); err != nil {
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.push(newHTMLMessage(chatID, msgInternalError))
		}
		return nil
	}
}

func runRecovered(ctx context.Context, chatID int64, fn HandlerFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, chatID)
}
