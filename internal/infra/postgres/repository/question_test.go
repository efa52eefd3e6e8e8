package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/infra/postgres"
)

type execCall struct {
	sql  string
	args []any
}

// fakeTx records statements. Methods not overridden panic through the nil embedded interface.
type fakeTx struct {
	pgx.Tx
	execs      []execCall
	failOn     int
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	if f.failOn > 0 && len(f.execs) == f.failOn {
		return pgconn.CommandTag{}, errors.New("insert failed")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

type fakeBeginner struct {
	tx *fakeTx
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	return b.tx, nil
}

func TestQuestionRepository_Save(t *testing.T) {
	tx := &fakeTx{}
	repo := NewQuestionRepository(tx)
	seenAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := repo.Save(context.Background(), entities.Question{
		Text:          "Q&amp;A?",
		CorrectAnswer: "yes",
		Category:      "General Knowledge",
	}, seenAt)
	require.NoError(t, err)

	require.Len(t, tx.execs, 1)
	call := tx.execs[0]
	assert.True(t, strings.Contains(call.sql, "INSERT INTO fetched_questions"))
	require.Len(t, call.args, 7)
	assert.Equal(t, "Q&amp;A?", call.args[0])
	assert.Equal(t, []string{}, call.args[2], "nil distractors are stored as an empty array")
	assert.Equal(t, seenAt, call.args[6])
}

func TestQuestionArchive_SaveBatchCommits(t *testing.T) {
	tx := &fakeTx{}
	archive := NewQuestionArchive(postgres.NewTransactor(&fakeBeginner{tx: tx}))

	batch := []entities.Question{
		{Text: "a", CorrectAnswer: "1"},
		{Text: "b", CorrectAnswer: "2"},
	}
	require.NoError(t, archive.SaveBatch(context.Background(), batch))

	assert.Len(t, tx.execs, 2)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestQuestionArchive_SaveBatchRollsBack(t *testing.T) {
	tx := &fakeTx{failOn: 2}
	archive := NewQuestionArchive(postgres.NewTransactor(&fakeBeginner{tx: tx}))

	batch := []entities.Question{
		{Text: "a", CorrectAnswer: "1"},
		{Text: "b", CorrectAnswer: "2"},
		{Text: "c", CorrectAnswer: "3"},
	}
	err := archive.SaveBatch(context.Background(), batch)
	require.Error(t, err)

	assert.Len(t, tx.execs, 2, "stops at the first failing insert")
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}
