package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is the part of *pgxpool.Pool the transactor needs.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Transactor struct {
	db TxBeginner
}

func NewTransactor(db TxBeginner) *Transactor {
	return &Transactor{db: db}
}

// WithinTx runs fn in a transaction, committing only if fn succeeds.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
