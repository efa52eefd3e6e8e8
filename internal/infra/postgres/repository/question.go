package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/infra/postgres"
)

const createFetchedQuestions = `
	CREATE TABLE IF NOT EXISTS fetched_questions (
		id                BIGSERIAL PRIMARY KEY,
		question_text     TEXT        NOT NULL UNIQUE,
		correct_answer    TEXT        NOT NULL,
		incorrect_answers TEXT[]      NOT NULL DEFAULT '{}',
		category          TEXT        NOT NULL DEFAULT '',
		difficulty        TEXT        NOT NULL DEFAULT '',
		question_type     TEXT        NOT NULL DEFAULT '',
		times_seen        INTEGER     NOT NULL DEFAULT 1,
		first_seen_at     TIMESTAMPTZ NOT NULL,
		last_seen_at      TIMESTAMPTZ NOT NULL
	)
`

// QuestionRepository keeps a log of every question received from the question source.
type QuestionRepository struct {
	db postgres.DBTX
}

// NewQuestionRepository creates a new QuestionRepository on a pool or transaction.
func NewQuestionRepository(db postgres.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// EnsureSchema creates the fetched_questions table if it does not exist.
func (r *QuestionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createFetchedQuestions); err != nil {
		return fmt.Errorf("ensure fetched_questions schema: %w", err)
	}
	return nil
}

// Save inserts a question or bumps its seen counter if it was fetched before.
func (r *QuestionRepository) Save(ctx context.Context, q entities.Question, seenAt time.Time) error {
	query := `
		INSERT INTO fetched_questions (
			question_text, correct_answer, incorrect_answers,
			category, difficulty, question_type, first_seen_at, last_seen_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (question_text) DO UPDATE SET
			times_seen = fetched_questions.times_seen + 1,
			last_seen_at = EXCLUDED.last_seen_at
	`

	incorrect := q.IncorrectAnswers
	if incorrect == nil {
		incorrect = []string{}
	}

	_, err := r.db.Exec(
		ctx,
		query,
		q.Text,
		q.CorrectAnswer,
		incorrect,
		q.Category,
		q.Difficulty,
		q.Type,
		seenAt,
	)
	if err != nil {
		return fmt.Errorf("save fetched question: %w", err)
	}

	return nil
}

// Count returns the number of distinct questions archived so far.
func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM fetched_questions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count fetched questions: %w", err)
	}
	return n, nil
}

// QuestionArchive stores whole batches in a single transaction.
type QuestionArchive struct {
	tr  *postgres.Transactor
	now func() time.Time
}

func NewQuestionArchive(tr *postgres.Transactor) *QuestionArchive {
	return &QuestionArchive{tr: tr, now: time.Now}
}

// SaveBatch archives every question of batch or none of them.
func (a *QuestionArchive) SaveBatch(ctx context.Context, batch []entities.Question) error {
	seenAt := a.now().UTC()

	return a.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := NewQuestionRepository(tx)
		for _, q := range batch {
			if err := repo.Save(ctx, q, seenAt); err != nil {
				return err
			}
		}
		return nil
	})
}
