package web

import (
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/service"
)

const outboxSize = 64

// wsRenderer turns render calls into frames for the connection's writer.
// A client too slow to drain its outbox has its session cancelled.
type wsRenderer struct {
	out      chan any
	overflow func()
	logger   *zap.Logger
	once     sync.Once
}

var _ service.Renderer = (*wsRenderer)(nil)

func newWSRenderer(overflow func(), logger *zap.Logger) *wsRenderer {
	return &wsRenderer{
		out:      make(chan any, outboxSize),
		overflow: overflow,
		logger:   logger,
	}
}

func (r *wsRenderer) push(frame any) {
	select {
	case r.out <- frame:
	default:
		r.once.Do(func() {
			r.logger.Warn("websocket client too slow, closing session")
			r.overflow()
		})
	}
}

func (r *wsRenderer) RenderLoading() {
	r.push(loadingFrame{Type: frameLoading})
}

func (r *wsRenderer) RenderQuestion(v service.QuestionView) {
	labels := make([]string, 0, len(v.Options))
	for _, opt := range v.Options {
		labels = append(labels, opt.Label)
	}

	r.push(questionFrame{
		Type:       frameQuestion,
		Number:     v.Number,
		Total:      v.Total,
		Text:       v.Text,
		Category:   v.Category,
		Difficulty: v.Difficulty,
		Options:    labels,
	})
}

func (r *wsRenderer) RenderScore(score int) {
	r.push(scoreFrame{Type: frameScore, Score: score})
}

func (r *wsRenderer) RenderTimeRemaining(seconds int) {
	r.push(timeFrame{Type: frameTime, Seconds: seconds})
}

func (r *wsRenderer) RenderAnswer(selected, correct string, isCorrect bool) {
	r.push(answerFrame{Type: frameAnswer, Selected: selected, Correct: correct, IsCorrect: isCorrect})
}

func (r *wsRenderer) RenderTimeExpired(correct string) {
	r.push(expiredFrame{Type: frameExpired, Correct: correct})
}

func (r *wsRenderer) RenderBatchComplete(score, total int) {
	r.push(completeFrame{Type: frameComplete, Score: score, Total: total})
}

func (r *wsRenderer) RenderFailure(err *entities.SupplyError) {
	r.push(failureFrame{
		Type:    frameFailure,
		Kind:    err.Kind.String(),
		Code:    err.Code,
		Message: err.Error(),
	})
}
