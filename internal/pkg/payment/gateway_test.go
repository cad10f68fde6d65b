package payment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referencePattern = regexp.MustCompile(`^PAY_\d{13}_[0-9a-f]{8}$`)

func TestCharge_ReferenceFormat(t *testing.T) {
	g := NewSimulatedGateway(0, "PAY_", zerolog.Nop())

	first, err := g.Charge(context.Background(), decimal.NewFromInt(2999), "order")
	require.NoError(t, err)
	second, err := g.Charge(context.Background(), decimal.NewFromInt(2999), "order")
	require.NoError(t, err)

	assert.Regexp(t, referencePattern, first)
	assert.NotEqual(t, first, second)
}

func TestCharge_RejectsNonPositive(t *testing.T) {
	g := NewSimulatedGateway(0, "PAY_", zerolog.Nop())
	_, err := g.Charge(context.Background(), decimal.Zero, "empty")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCharge_HonoursCancellation(t *testing.T) {
	g := NewSimulatedGateway(time.Hour, "PAY_", zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Charge(ctx, decimal.NewFromInt(1), "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVoid(t *testing.T) {
	g := NewSimulatedGateway(0, "PAY_", zerolog.Nop())
	ref, err := g.Charge(context.Background(), decimal.NewFromInt(1), "x")
	require.NoError(t, err)

	assert.False(t, g.Voided(ref))
	require.NoError(t, g.Void(context.Background(), ref))
	assert.True(t, g.Voided(ref))
	assert.NoError(t, g.Void(context.Background(), ref))

	assert.ErrorIs(t, g.Void(context.Background(), "bogus"), ErrUnknownPayment)
	assert.ErrorIs(t, g.Void(context.Background(), "PAY_123_nothex!!"), ErrUnknownPayment)
}

func TestVoid_EarlierRunReference(t *testing.T) {
	g := NewSimulatedGateway(0, "PAY_", zerolog.Nop())

	require.NoError(t, g.Void(context.Background(), "PAY_1700000000000_deadbeef"))
	assert.True(t, g.Voided("PAY_1700000000000_deadbeef"))
}

func TestVoid_ForgetsExpiredEntries(t *testing.T) {
	g := NewSimulatedGateway(0, "PAY_", zerolog.Nop())
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return clock }

	require.NoError(t, g.Void(context.Background(), "PAY_1_aaaaaaaa"))
	clock = clock.Add(VoidRetention + time.Minute)
	assert.False(t, g.Voided("PAY_1_aaaaaaaa"))

	require.NoError(t, g.Void(context.Background(), "PAY_2_bbbbbbbb"))
	assert.Len(t, g.voided, 1)
	assert.True(t, g.Voided("PAY_2_bbbbbbbb"))
}

func TestCharge_DoesNotGrowLedger(t *testing.T) {
	g := NewSimulatedGateway(0, "PAY_", zerolog.Nop())
	for i := 0; i < 5; i++ {
		_, err := g.Charge(context.Background(), decimal.NewFromInt(1), "x")
		require.NoError(t, err)
	}
	assert.Empty(t, g.voided)
}
