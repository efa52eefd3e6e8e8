package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

// ArchivingSupplier stores every successfully fetched batch before handing it on.
// Archive failures are logged and never turn a good batch into an error.
type ArchivingSupplier struct {
	next    QuestionSupplier
	archive QuestionArchive
	logger  *zap.Logger
}

func NewArchivingSupplier(next QuestionSupplier, archive QuestionArchive, logger *zap.Logger) *ArchivingSupplier {
	return &ArchivingSupplier{
		next:    next,
		archive: archive,
		logger:  logger,
	}
}

func (a *ArchivingSupplier) FetchBatch(ctx context.Context) ([]entities.Question, error) {
	batch, err := a.next.FetchBatch(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.archive.SaveBatch(ctx, batch); err != nil {
		a.logger.Warn("failed to archive question batch",
			zap.Int("size", len(batch)),
			zap.Error(err),
		)
	}

	return batch, nil
}
