// Package scheduler decides, across repeated polls, when the daily price
// check fires. It owns the in-memory schedule and the per-slot run marker.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mhargreave/mattress-tracker/internal/checker"
	"github.com/mhargreave/mattress-tracker/internal/models"
)

// DefaultPollInterval bounds the worst-case trigger latency: a due minute is
// noticed at most this long after it begins.
const DefaultPollInterval = 10 * time.Second

const defaultRunTimeout = 90 * time.Second

type JobRunner interface {
	Run(ctx context.Context) (*checker.Result, error)
}

type Config struct {
	PollInterval time.Duration
	RunTimeout   time.Duration
	Now          func() time.Time // test hook for the poll loop clock
}

// Scheduler polls wall-clock time against the schedule and triggers at most
// one job run per (date, check time) slot. The run marker lives only for the
// process lifetime: after a restart inside a still-matching minute the job
// may fire once more for that slot.
type Scheduler struct {
	job JobRunner
	cfg Config
	log zerolog.Logger

	mu          sync.Mutex
	schedule    models.Schedule
	lastRunSlot string
	running     bool
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

func New(job JobRunner, initial models.Schedule, cfg Config, log zerolog.Logger) *Scheduler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = defaultRunTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Scheduler{
		job:      job,
		cfg:      cfg,
		log:      log.With().Str("component", "scheduler").Logger(),
		schedule: initial,
	}
}

// SlotKey names one eligible trigger window: a calendar date paired with the
// scheduled check time at minute resolution.
func SlotKey(day time.Time, checkTime string) string {
	return fmt.Sprintf("%s-%s", day.Format("2006-01-02"), checkTime)
}

// Schedule returns the live schedule.
func (s *Scheduler) Schedule() models.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule
}

// UpdateSchedule swaps both schedule fields together; the change takes
// effect on the next tick, no restart needed. Moving the check time to the
// current minute produces a fresh slot key, so the job fires on the next
// tick. That is intended.
func (s *Scheduler) UpdateSchedule(sched models.Schedule) {
	s.mu.Lock()
	s.schedule = sched
	s.mu.Unlock()
	s.log.Info().Str("check_time", sched.CheckTime).Bool("enabled", sched.Enabled).Msg("schedule updated")
}

// Tick evaluates one poll against now and runs the job synchronously when
// the slot is due. It reports whether the job ran. Calling Tick any number
// of times within the same matching minute runs the job exactly once: the
// slot is marked as run whether or not the job itself succeeded, and retry
// is left to the next day's slot.
func (s *Scheduler) Tick(now time.Time) bool {
	s.mu.Lock()
	sched := s.schedule
	last := s.lastRunSlot
	s.mu.Unlock()

	if !sched.Enabled {
		return false
	}

	hour, minute, err := sched.ClockTime()
	if err != nil {
		s.log.Warn().Err(err).Msg("unusable check time, skipping tick")
		return false
	}
	if now.Hour() != hour || now.Minute() != minute {
		return false
	}

	slot := SlotKey(now, sched.CheckTime)
	if slot == last {
		return false
	}

	s.log.Info().Str("slot", slot).Msg("scheduled time reached, running price check")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RunTimeout)
	defer cancel()
	if _, err := s.job.Run(ctx); err != nil {
		s.log.Error().Err(err).Str("slot", slot).Msg("scheduled price check failed")
	}

	s.mu.Lock()
	s.lastRunSlot = slot
	s.mu.Unlock()
	return true
}

// CheckNow runs the job immediately, outside the schedule. Manual runs do
// not consume the day's slot.
func (s *Scheduler) CheckNow(ctx context.Context) (*checker.Result, error) {
	s.log.Info().Msg("manual price check triggered")
	return s.job.Run(ctx)
}

// Start launches the poll loop. Safe to call once per process.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn().Msg("already running")
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.Tick(s.cfg.Now())
			}
		}
	}()

	s.log.Info().Dur("poll_interval", s.cfg.PollInterval).Msg("started")
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info().Msg("stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
