// Package jobs schedules the background maintenance work of the store.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job names, used in logs
const (
	JobOutboxRelay   = "outbox_relay"
	JobStaleCheckout = "stale_checkout_sweep"
	JobTokenCleanup  = "token_cleanup"
)

// OutboxRelayer publishes pending outbox events
type OutboxRelayer interface {
	RunOnce(ctx context.Context) (int, error)
}

// CheckoutSweeper abandons checkouts stuck in PENDING
type CheckoutSweeper interface {
	SweepStale(ctx context.Context) (int64, error)
}

// TokenPurger deletes dead refresh tokens
type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// Schedules holds a cron spec per job. Specs use the five-field format or
// descriptors such as "@every 5s".
type Schedules struct {
	OutboxRelay   string
	StaleCheckout string
	TokenCleanup  string
}

// Manager runs the scheduled jobs
type Manager struct {
	cron       *cron.Cron
	logger     zerolog.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	jobTimeout time.Duration
}

// NewManager creates a manager. Each run gets jobTimeout to finish; a run
// that is still going when its next tick fires is skipped.
func NewManager(logger zerolog.Logger, jobTimeout time.Duration) *Manager {
	logger = logger.With().Str("component", "cron").Logger()
	cl := cronLogger{logger}
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		cron:       cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		jobTimeout: jobTimeout,
	}
}

// Register schedules the three maintenance jobs
func (m *Manager) Register(s Schedules, relay OutboxRelayer, sweeper CheckoutSweeper, purger TokenPurger) error {
	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context) (int64, error)
	}{
		{JobOutboxRelay, s.OutboxRelay, func(ctx context.Context) (int64, error) {
			n, err := relay.RunOnce(ctx)
			return int64(n), err
		}},
		{JobStaleCheckout, s.StaleCheckout, sweeper.SweepStale},
		{JobTokenCleanup, s.TokenCleanup, purger.PurgeExpiredTokens},
	}

	for _, job := range jobs {
		if err := m.Add(job.name, job.spec, job.run); err != nil {
			return err
		}
	}
	m.logger.Info().Int("jobs", len(jobs)).Msg("Cron jobs registered")
	return nil
}

// Add schedules fn under name
func (m *Manager) Add(name, spec string, fn func(ctx context.Context) (int64, error)) error {
	if _, err := m.cron.AddFunc(spec, func() { m.run(name, fn) }); err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	return nil
}

func (m *Manager) run(name string, fn func(ctx context.Context) (int64, error)) {
	ctx, cancel := context.WithTimeout(m.ctx, m.jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := fn(ctx)
	if err != nil {
		m.logger.Error().Err(err).Str("job", name).Dur("took", time.Since(start)).Msg("Cron job failed")
		return
	}
	m.logger.Debug().Str("job", name).Int64("affected", n).Dur("took", time.Since(start)).Msg("Cron job completed")
}

// Start starts the scheduler in its own goroutine
func (m *Manager) Start() {
	m.cron.Start()
	m.logger.Info().Msg("Cron jobs started")
}

// Stop cancels running jobs and waits for them to return or ctx to expire
func (m *Manager) Stop(ctx context.Context) {
	m.cancel()
	done := m.cron.Stop()
	select {
	case <-done.Done():
		m.logger.Info().Msg("Cron jobs stopped")
	case <-ctx.Done():
		m.logger.Warn().Msg("Timed out waiting for cron jobs to stop")
	}
}

// cronLogger adapts zerolog to cron.Logger
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
