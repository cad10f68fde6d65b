package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLWithJitter(t *testing.T) {
	base := 10 * time.Minute
	for i := 0; i < 100; i++ {
		ttl := TTLWithJitter(base, 2*time.Minute)
		assert.GreaterOrEqual(t, ttl, base)
		assert.Less(t, ttl, base+2*time.Minute)
	}
	assert.Equal(t, base, TTLWithJitter(base, 0))
}

func TestNoopCache(t *testing.T) {
	var c Cache = NoopCache{}
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", "v"))
	var out string
	assert.ErrorIs(t, c.Get(ctx, "k", &out), ErrCacheMiss)
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestRedisCache_KeyPrefix(t *testing.T) {
	c := NewRedisCache(nil, "coursestore", time.Minute)
	assert.Equal(t, "coursestore:courses", c.key("courses"))
	assert.Equal(t, 12*time.Second, c.maxJitter)
}
