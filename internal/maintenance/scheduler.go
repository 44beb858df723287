// Package maintenance runs periodic SQLite housekeeping on a cron schedule.
package maintenance

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/saltyorg/contentdb/internal/config"
)

const (
	DefaultOptimizeSchedule = "@daily"
	DefaultVacuumSchedule   = "@weekly"

	// Off disables a schedule
	Off = "off"
)

// Maintainer is the database housekeeping surface used by the scheduler
type Maintainer interface {
	Optimize() error
	Vacuum() error
}

// Config controls which jobs run and when
type Config struct {
	Enabled          bool
	OptimizeSchedule string
	VacuumSchedule   string
}

// DefaultConfig returns the default maintenance configuration
func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		OptimizeSchedule: DefaultOptimizeSchedule,
		VacuumSchedule:   DefaultVacuumSchedule,
	}
}

// LoadConfig reads the maintenance.* settings
func LoadConfig(loader *config.Loader) Config {
	return Config{
		Enabled:          loader.Bool("maintenance.enabled", true),
		OptimizeSchedule: loader.String("maintenance.optimize_schedule", DefaultOptimizeSchedule),
		VacuumSchedule:   loader.String("maintenance.vacuum_schedule", DefaultVacuumSchedule),
	}
}

// Status reports the scheduler state
type Status struct {
	Running      bool       `json:"running"`
	Enabled      bool       `json:"enabled"`
	NextOptimize *time.Time `json:"next_optimize,omitempty"`
	NextVacuum   *time.Time `json:"next_vacuum,omitempty"`
}

// Scheduler runs optimize and vacuum jobs on cron schedules
type Scheduler struct {
	db         Maintainer
	config     Config
	cron       *cron.Cron
	optimizeID cron.EntryID
	vacuumID   cron.EntryID
	mu         sync.RWMutex
	running    bool
}

// New creates a scheduler; call Start to register jobs
func New(db Maintainer, cfg Config) *Scheduler {
	return &Scheduler{
		db:     db,
		config: cfg,
		cron:   cron.New(),
	}
}

// Start registers the configured jobs and starts the cron loop.
// It returns an error when a schedule cannot be parsed.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if s.config.Enabled {
		id, err := s.schedule(s.config.OptimizeSchedule, "optimize", s.db.Optimize)
		if err != nil {
			return err
		}
		s.optimizeID = id

		id, err = s.schedule(s.config.VacuumSchedule, "vacuum", s.db.Vacuum)
		if err != nil {
			s.cron.Remove(s.optimizeID)
			s.optimizeID = 0
			return err
		}
		s.vacuumID = id
	}

	s.cron.Start()
	s.running = true

	log.Info().
		Bool("enabled", s.config.Enabled).
		Str("optimize_schedule", s.config.OptimizeSchedule).
		Str("vacuum_schedule", s.config.VacuumSchedule).
		Msg("Maintenance scheduler started")

	return nil
}

func (s *Scheduler) schedule(expr, name string, job func() error) (cron.EntryID, error) {
	if expr == "" || expr == Off {
		return 0, nil
	}
	id, err := s.cron.AddFunc(expr, func() { s.run(name, job) })
	if err != nil {
		return 0, fmt.Errorf("invalid %s schedule %q: %w", name, expr, err)
	}
	return id, nil
}

func (s *Scheduler) run(name string, job func() error) {
	start := time.Now()
	if err := job(); err != nil {
		log.Error().Err(err).Str("job", name).Msg("Scheduled maintenance failed")
		return
	}
	log.Info().Str("job", name).Dur("took", time.Since(start)).Msg("Scheduled maintenance complete")
}

// Stop stops the cron loop and waits for running jobs
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.running = false
	log.Info().Msg("Maintenance scheduler stopped")
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Status returns the current scheduler status
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := Status{
		Running: s.running,
		Enabled: s.config.Enabled,
	}
	status.NextOptimize = s.next(s.optimizeID)
	status.NextVacuum = s.next(s.vacuumID)
	return status
}

func (s *Scheduler) next(id cron.EntryID) *time.Time {
	if id == 0 {
		return nil
	}
	entry := s.cron.Entry(id)
	if entry.Next.IsZero() {
		return nil
	}
	next := entry.Next
	return &next
}

// RunNow runs optimize, then vacuum when requested, outside the schedule
func (s *Scheduler) RunNow(vacuum bool) error {
	if err := s.db.Optimize(); err != nil {
		return err
	}
	if vacuum {
		return s.db.Vacuum()
	}
	return nil
}
