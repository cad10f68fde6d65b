package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJobs struct {
	relays, sweeps, purges atomic.Int32
}

func (c *countingJobs) RunOnce(context.Context) (int, error) {
	c.relays.Add(1)
	return 1, nil
}

func (c *countingJobs) SweepStale(context.Context) (int64, error) {
	c.sweeps.Add(1)
	return 0, nil
}

func (c *countingJobs) PurgeExpiredTokens(context.Context) (int64, error) {
	c.purges.Add(1)
	return 0, errors.New("db down")
}

func TestRegister_RejectsBadSpec(t *testing.T) {
	m := NewManager(zerolog.Nop(), time.Second)
	jobs := &countingJobs{}

	err := m.Register(Schedules{OutboxRelay: "not a spec", StaleCheckout: "@every 10m", TokenCleanup: "@every 1h"}, jobs, jobs, jobs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), JobOutboxRelay)
}

func TestManager_RunsJobs(t *testing.T) {
	m := NewManager(zerolog.Nop(), time.Second)
	jobs := &countingJobs{}

	require.NoError(t, m.Register(Schedules{
		OutboxRelay:   "@every 1s",
		StaleCheckout: "@every 1s",
		TokenCleanup:  "@every 1s",
	}, jobs, jobs, jobs))
	m.Start()

	assert.Eventually(t, func() bool {
		return jobs.relays.Load() > 0 && jobs.sweeps.Load() > 0 && jobs.purges.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	m.Stop(ctx)
}

func TestRun_PassesCancellableContext(t *testing.T) {
	m := NewManager(zerolog.Nop(), 50*time.Millisecond)

	var sawDeadline bool
	m.run("probe", func(ctx context.Context) (int64, error) {
		_, sawDeadline = ctx.Deadline()
		return 0, nil
	})
	assert.True(t, sawDeadline)

	m.Stop(context.Background())
	m.run("after-stop", func(ctx context.Context) (int64, error) {
		assert.Error(t, ctx.Err())
		return 0, ctx.Err()
	})
}
