// Package payment simulates the card processor used at checkout.
package payment

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for non-positive charges.
var ErrInvalidAmount = errors.New("charge amount must be positive")

// ErrUnknownPayment is returned when voiding a reference this gateway could
// not have issued.
var ErrUnknownPayment = errors.New("unknown payment reference")

// VoidRetention is how long a void is remembered by Voided.
const VoidRetention = 24 * time.Hour

// Gateway charges and voids payments.
type Gateway interface {
	Charge(ctx context.Context, amount decimal.Decimal, description string) (string, error)
	Void(ctx context.Context, paymentID string) error
}

// SimulatedGateway accepts every well-formed charge after a fixed delay and
// hands back a reference of the form <prefix><unix millis>_<8 hex>.
type SimulatedGateway struct {
	delay  time.Duration
	prefix string
	logger zerolog.Logger
	now    func() time.Time

	mu     sync.Mutex
	voided map[string]time.Time
}

// NewSimulatedGateway creates a gateway that waits delay before answering.
func NewSimulatedGateway(delay time.Duration, prefix string, logger zerolog.Logger) *SimulatedGateway {
	return &SimulatedGateway{
		delay:  delay,
		prefix: prefix,
		logger: logger.With().Str("component", "payment").Logger(),
		now:    time.Now,
		voided: make(map[string]time.Time),
	}
}

// Charge waits for the processing delay, honouring ctx, then returns a new reference.
func (g *SimulatedGateway) Charge(ctx context.Context, amount decimal.Decimal, description string) (string, error) {
	if !amount.IsPositive() {
		return "", ErrInvalidAmount
	}

	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("payment processing interrupted: %w", ctx.Err())
		case <-timer.C:
		}
	}

	ref := g.newReference()

	g.logger.Info().
		Str("paymentId", ref).
		Str("amount", amount.StringFixed(2)).
		Str("description", description).
		Msg("Payment charged")
	return ref, nil
}

// Void cancels a previous charge. Voiding twice is not an error. Only the
// reference format is checked, so charges from earlier runs can be voided.
func (g *SimulatedGateway) Void(_ context.Context, paymentID string) error {
	if !g.isReference(paymentID) {
		g.logger.Warn().Str("paymentId", paymentID).Msg("Void requested for malformed payment reference")
		return ErrUnknownPayment
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for ref, at := range g.voided {
		if now.Sub(at) > VoidRetention {
			delete(g.voided, ref)
		}
	}
	if _, ok := g.voided[paymentID]; !ok {
		g.voided[paymentID] = now
	}
	g.logger.Info().Str("paymentId", paymentID).Msg("Payment voided")
	return nil
}

// Voided reports whether paymentID was voided within VoidRetention.
func (g *SimulatedGateway) Voided(paymentID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	at, ok := g.voided[paymentID]
	return ok && g.now().Sub(at) <= VoidRetention
}

func (g *SimulatedGateway) isReference(paymentID string) bool {
	rest, ok := strings.CutPrefix(paymentID, g.prefix)
	if !ok {
		return false
	}
	millis, suffix, ok := strings.Cut(rest, "_")
	if !ok || millis == "" || len(suffix) != 8 {
		return false
	}
	if _, err := strconv.ParseInt(millis, 10, 64); err != nil {
		return false
	}
	_, err := hex.DecodeString(suffix)
	return err == nil
}

func (g *SimulatedGateway) newReference() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s%d_%s", g.prefix, g.now().UnixMilli(), suffix)
}
