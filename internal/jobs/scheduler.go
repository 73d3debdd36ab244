package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// StatsRefresher recounts the dashboard counters into the cache.
type StatsRefresher interface {
	RefreshStats(ctx context.Context) error
}

type Scheduler struct {
	cron  *cron.Cron
	stats StatsRefresher
	log   zerolog.Logger
}

func NewScheduler(stats StatsRefresher, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		stats: stats,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 */5 * * * *", s.refreshStats); err != nil {
		return err
	}

	s.cron.Start()

	// Prime the snapshot so the first dashboard load hits the cache.
	go s.refreshStats()
	return nil
}

// Stop halts scheduling and waits up to five seconds for a running
// refresh to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) refreshStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.stats.RefreshStats(ctx); err != nil {
		s.log.Error().Err(err).Msg("stats refresh failed")
	}
}
