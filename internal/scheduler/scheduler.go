// Package scheduler runs the planner's periodic jobs on a cron schedule.
//
// Today there is one job: the daily streak rollover, which moves the
// profile streak up or down depending on yesterday's activity.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sakif/brightday/internal/calendar"
)

// DefaultRolloverSpec runs the rollover five minutes after local midnight.
const DefaultRolloverSpec = "5 0 * * *"

// jobTimeout bounds a single rollover, which is one snapshot write.
const jobTimeout = 30 * time.Second

// RollOverer is the profile store operation the rollover job drives.
type RollOverer interface {
	RollOver(ctx context.Context, today string) (bool, error)
}

// Scheduler owns the cron runner.
type Scheduler struct {
	cron     *cron.Cron
	profiles RollOverer
	clock    calendar.Clock
	logger   *slog.Logger
}

// New builds a scheduler that runs the streak rollover on spec (standard
// five-field cron syntax) in the clock's location. It does not start it.
func New(spec string, profiles RollOverer, clock calendar.Clock, logger *slog.Logger) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultRolloverSpec
	}
	loc := clock.Location
	if loc == nil {
		loc = time.UTC
	}

	cl := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		profiles: profiles,
		clock:    clock,
		logger:   logger,
	}

	if _, err := s.cron.AddFunc(spec, s.rollover); err != nil {
		return nil, fmt.Errorf("scheduler: invalid rollover spec %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("scheduled streak rollover", slog.Time("next", e.Next))
	}
}

// Stop halts the scheduler and waits for a running job to finish or ctx
// to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

// RunRollover performs the rollover for the clock's today immediately.
// It reports whether anything changed.
func (s *Scheduler) RunRollover(ctx context.Context) (bool, error) {
	today := s.clock.Today()
	ran, err := s.profiles.RollOver(ctx, today)
	if err != nil {
		return false, fmt.Errorf("scheduler: rollover for %s: %w", today, err)
	}
	if ran {
		s.logger.Info("streak rollover done", slog.String("day", today))
	} else {
		s.logger.Debug("streak rollover already done", slog.String("day", today))
	}
	return ran, nil
}

func (s *Scheduler) rollover() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.RunRollover(ctx); err != nil {
		s.logger.Error("streak rollover failed", slog.String("error", err.Error()))
	}
}

// cronLogger adapts slog to cron.Logger. cron's chatty Info lines go to
// Debug.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
