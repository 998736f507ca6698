package rate

import (
	"context"
	"fmt"
	"fxsync/internal/domain"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Syncer locates the latest business day and hands its table to the store
// selected by the mode. It keeps no state between runs.
type Syncer struct {
	locator    *Locator
	current    *CurrentStore
	historical *HistoricalStore
	now        func() time.Time
}

func (s *Syncer) Run(ctx context.Context, mode domain.SyncMode) (domain.BatchSummary, error) {
	execID := uuid.NewString()
	log := logrus.WithFields(logrus.Fields{"exec_id": execID, "mode": mode})

	if mode == "" {
		mode = domain.ModeCurrent
	}
	if mode != domain.ModeCurrent && mode != domain.ModeHistorical {
		return domain.BatchSummary{}, fmt.Errorf("%w: %q", domain.ErrUnknownMode, mode)
	}

	log.Info("Sync started")
	table, err := s.locator.LocateLatest(ctx, execID)
	if err != nil {
		// nothing is written, existing rates stay as they are
		log.WithError(err).Error("No rates to store, sync aborted")
		return domain.BatchSummary{}, err
	}

	var summary domain.BatchSummary
	switch mode {
	case domain.ModeHistorical:
		summary, err = s.historical.AppendDay(ctx, execID, table.AsOf, table.Quotes)
	default:
		summary, err = s.current.ReplaceSnapshot(ctx, execID, table.AsOf, table.Quotes, s.now())
	}
	if err != nil {
		log.WithError(err).Error("Sync failed")
		return domain.BatchSummary{}, err
	}

	log.WithFields(logrus.Fields{
		"as_of":      table.AsOf.Format(domain.DateLayout),
		"written":    summary.Written,
		"skipped":    summary.Skipped,
		"duplicates": summary.Duplicates,
		"purged":     summary.Purged,
	}).Info("Sync finished")
	return summary, nil
}

func NewSyncer(locator *Locator, current *CurrentStore, historical *HistoricalStore, now func() time.Time) *Syncer {
	if now == nil {
		now = time.Now
	}
	return &Syncer{locator: locator, current: current, historical: historical, now: now}
}
