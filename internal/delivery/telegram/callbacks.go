package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	cd := decodeCallback(cb.Data)

	var notice string
	switch cd.Action {
	case actionOption:
		notice = h.handleOptionCallback(ctx, chatID, messageID, cd)
	case actionNext:
		notice = h.handleNextCallback(ctx, chatID, messageID)
	case actionRestart:
		h.push(removeKeyboard(chatID, messageID))
		_ = h.withErrorHandling(h.startQuiz)(ctx, chatID)
	default:
		h.logger.Debug("unknown callback", zap.String("data", cd.Raw))
	}

	// Remove the user's "clock".
	h.answerCallback(cb.ID, notice)
}

func (h *Handler) handleOptionCallback(ctx context.Context, chatID int64, messageID int, cd callbackData) string {
	cs, ok := h.sessions.Get(chatID)
	if !ok {
		return msgNoActiveQuiz
	}

	seq, index, ok := parseOptionCallback(cd)
	if !ok {
		h.logger.Debug("invalid option callback", zap.String("data", cd.Raw))
		return ""
	}

	label, ok := cs.renderer.optionLabel(seq, index)
	if !ok {
		return msgQuestionClosed
	}

	if err := cs.quiz.SelectOption(ctx, label); err != nil {
		h.logger.Debug("selection not delivered",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return msgNoActiveQuiz
	}

	h.push(removeKeyboard(chatID, messageID))
	return ""
}

func (h *Handler) handleNextCallback(ctx context.Context, chatID int64, messageID int) string {
	cs, ok := h.sessions.Get(chatID)
	if !ok {
		return msgNoActiveQuiz
	}

	if err := cs.quiz.RequestAdvance(ctx); err != nil {
		h.logger.Debug("advance not delivered",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return msgNoActiveQuiz
	}

	h.push(removeKeyboard(chatID, messageID))
	return ""
}
