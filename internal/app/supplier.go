package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/config"
	"github.com/aliskhannn/trivia-quiz/internal/infra/opentdb"
	"github.com/aliskhannn/trivia-quiz/internal/infra/postgres"
	"github.com/aliskhannn/trivia-quiz/internal/infra/postgres/repository"
	"github.com/aliskhannn/trivia-quiz/internal/service"
)

// QuestionSource is the supplier shared by every quiz session of a process.
type QuestionSource struct {
	Supplier service.QuestionSupplier
	Archive  *repository.QuestionRepository // nil when the archive is disabled
	close    func()
}

// Close releases the database pool, if any.
func (s *QuestionSource) Close() {
	if s.close != nil {
		s.close()
	}
}

// StartReporter publishes archive size to gauge until ctx is cancelled.
// It does nothing when the archive is disabled.
func (s *QuestionSource) StartReporter(ctx context.Context, gauge service.ArchiveGauge, logger *zap.Logger) {
	if s.Archive == nil {
		return
	}
	go service.NewArchiveReporter(s.Archive, gauge, logger.Named("archive_reporter")).Start(ctx)
}

// NewQuestionSource builds the remote question supplier. When a database is
// configured every fetched batch is also archived.
func NewQuestionSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*QuestionSource, error) {
	client := opentdb.NewClient(
		&http.Client{Timeout: cfg.Source.Timeout},
		cfg.Source.URL,
		logger.Named("opentdb"),
	)

	dsn, err := cfg.DB.DSN()
	if errors.Is(err, config.ErrMissingEnvironmentVariables) {
		logger.Info("DATABASE_URL not set, question archive disabled")
		return &QuestionSource{Supplier: client}, nil
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repo := repository.NewQuestionRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	archive := repository.NewQuestionArchive(postgres.NewTransactor(pool))
	logger.Info("question archive enabled")

	return &QuestionSource{
		Supplier: service.NewArchivingSupplier(client, archive, logger.Named("archive")),
		Archive:  repo,
		close:    pool.Close,
	}, nil
}
