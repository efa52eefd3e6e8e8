package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const archiveReportSpec = "*/5 * * * *"

type ArchiveCounter interface {
	Count(ctx context.Context) (int64, error)
}

type ArchiveGauge interface {
	SetArchivedQuestions(n int64)
}

// ArchiveReporter periodically publishes the size of the question archive.
type ArchiveReporter struct {
	counter ArchiveCounter
	gauge   ArchiveGauge
	logger  *zap.Logger
}

func NewArchiveReporter(counter ArchiveCounter, gauge ArchiveGauge, logger *zap.Logger) *ArchiveReporter {
	return &ArchiveReporter{counter: counter, gauge: gauge, logger: logger}
}

// Start reports once, then every five minutes until ctx is cancelled.
func (r *ArchiveReporter) Start(ctx context.Context) {
	r.logger.Info("archive reporter started")

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(archiveReportSpec, func() {
		r.report(ctx)
	})
	if err != nil {
		r.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	r.report(ctx)
	c.Start()

	<-ctx.Done()

	<-c.Stop().Done()
	r.logger.Info("archive reporter stopped")
}

func (r *ArchiveReporter) report(ctx context.Context) {
	n, err := r.counter.Count(ctx)
	if err != nil {
		r.logger.Warn("failed to count archived questions", zap.Error(err))
		return
	}

	r.gauge.SetArchivedQuestions(n)
	r.logger.Debug("archive size", zap.Int64("questions", n))
}
