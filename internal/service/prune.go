package service

import (
	"context"
	"runtime/debug"
	"time"

	"RouletteSync/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const pruneContext = "roulette prune"

// PruneService deletes facts older than the retention window. Calendar-month
// arithmetic, so the cutoff shifts by whole months rather than a fixed day
// count. Independent of the ingestion pipeline; idempotent.
type PruneService struct {
	logger          *logrus.Logger
	events          repository.RouletteEventRepository
	errLogs         repository.ErrorLogRepository
	retentionMonths int
	now             func() time.Time
}

func NewPruneService(db *gorm.DB, logger *logrus.Logger, retentionMonths int) *PruneService {
	return &PruneService{
		logger:          logger,
		events:          repository.NewRouletteEventRepository(db),
		errLogs:         repository.NewErrorLogRepository(db),
		retentionMonths: retentionMonths,
		now:             time.Now,
	}
}

type PruneResult struct {
	Deleted int64
}

func (s *PruneService) Prune(ctx context.Context) (*PruneResult, error) {
	cutoff := s.now().AddDate(0, -s.retentionMonths, 0)

	deleted, err := s.events.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		if logErr := s.errLogs.Record(ctx, err.Error(), string(debug.Stack()), pruneContext); logErr != nil {
			s.logger.WithError(logErr).Warn("error log write failed")
		}
		return nil, err
	}

	s.logger.Infof("pruned %d roulette events older than %s", deleted, cutoff.Format(time.RFC3339))
	return &PruneResult{Deleted: deleted}, nil
}
