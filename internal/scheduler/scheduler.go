package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/city-recipes/internal/metrics"
	"github.com/i474232898/city-recipes/internal/store"
)

// CacheSweeper evicts expired upstream cache entries.
type CacheSweeper interface {
	SweepCache() int
	CacheSize() int
}

// StatsSource reports recipe store totals.
type StatsSource interface {
	Stats() store.Stats
}

// Scheduler periodically runs housekeeping: it sweeps the upstream cache
// and publishes recipe store gauges.
type Scheduler struct {
	scheduler *gocron.Scheduler
	cache     CacheSweeper
	stats     StatsSource
	interval  time.Duration
	log       zerolog.Logger
}

// New creates a new Scheduler.
func New(interval time.Duration, cache CacheSweeper, stats StatsSource, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		cache:     cache,
		stats:     stats,
		interval:  interval,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Start schedules the maintenance job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce performs a single maintenance pass.
func (s *Scheduler) RunOnce() {
	evicted := 0
	cached := 0
	if s.cache != nil {
		evicted = s.cache.SweepCache()
		cached = s.cache.CacheSize()
	}

	var st store.Stats
	if s.stats != nil {
		st = s.stats.Stats()
	}
	metrics.StoredRecipes.Set(float64(st.Recipes))
	metrics.CitiesWithRecipes.Set(float64(st.Cities))

	s.log.Debug().
		Int("evicted", evicted).
		Int("cached", cached).
		Int("cities", st.Cities).
		Int("recipes", st.Recipes).
		Msg("maintenance completed")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
