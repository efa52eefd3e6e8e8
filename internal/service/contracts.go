package service

import (
	"context"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

// QuestionSupplier fetches one batch of questions. Errors are *entities.SupplyError.
type QuestionSupplier interface {
	FetchBatch(ctx context.Context) ([]entities.Question, error)
}

// QuestionArchive persists fetched batches.
type QuestionArchive interface {
	SaveBatch(ctx context.Context, batch []entities.Question) error
}

// Renderer displays quiz state. Calls are made from the quiz loop goroutine
// and must return quickly.
type Renderer interface {
	RenderLoading()
	RenderQuestion(view QuestionView)
	RenderScore(score int)
	RenderTimeRemaining(seconds int)
	RenderAnswer(selected, correct string, isCorrect bool)
	RenderTimeExpired(correct string)
	RenderBatchComplete(score, total int)
	RenderFailure(err *entities.SupplyError)
}

// QuestionView is a decoded question ready for display.
type QuestionView struct {
	Number     int // 1-based position in the batch
	Total      int
	Text       string
	Category   string
	Difficulty string
	Options    []entities.AnswerOption
}

// Recorder receives quiz events for metrics.
type Recorder interface {
	ObserveFetch(err *entities.SupplyError)
	ObserveAnswer(result string)
	ObserveBatchCompleted()
}

type nopRecorder struct{}

func (nopRecorder) ObserveFetch(*entities.SupplyError) {}
func (nopRecorder) ObserveAnswer(string)               {}
func (nopRecorder) ObserveBatchCompleted()             {}
