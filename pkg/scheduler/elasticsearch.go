package scheduler

import (
	"context"
	"time"

	"github.com/fadedpez/angeleyes/internal/logging"
	"github.com/fadedpez/angeleyes/pkg/repositories/round"
)

// syncBatchLimit caps how many recent rounds each sync pass re-indexes
const syncBatchLimit = 500

// RoundSyncScheduler periodically re-indexes recent rounds into
// Elasticsearch, catching up anything the write-through path missed while
// the cluster was unreachable.
type RoundSyncScheduler struct {
	scheduler   *Scheduler
	repo        *round.ElasticsearchRepository
	gamblerName string
	interval    time.Duration
	logger      *logging.Logger
}

// NewRoundSyncScheduler creates a scheduler syncing one gambler's rounds
func NewRoundSyncScheduler(repo *round.ElasticsearchRepository, gamblerName string, interval time.Duration) *RoundSyncScheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &RoundSyncScheduler{
		scheduler:   NewScheduler(),
		repo:        repo,
		gamblerName: gamblerName,
		interval:    interval,
		logger:      logging.Default,
	}
}

// Start initializes and starts the sync scheduler
func (s *RoundSyncScheduler) Start(ctx context.Context) {
	s.scheduler.AddTask("round_sync", s.interval, s.syncRounds)
	s.scheduler.Start(ctx)
}

// Stop stops the sync scheduler
func (s *RoundSyncScheduler) Stop() {
	s.scheduler.Stop()
}

func (s *RoundSyncScheduler) syncRounds(ctx context.Context) error {
	synced, err := s.repo.SyncGamblerRounds(ctx, s.gamblerName, syncBatchLimit)
	if err != nil {
		return err
	}
	s.logger.Debug("Synced %d rounds for %s", synced, s.gamblerName)
	return nil
}
