package events

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/coursestore/internal/app/models"
)

// DefaultBatchSize is how many events one relay run handles at most
const DefaultBatchSize = 100

// OutboxStore is what the relay needs from the outbox table
type OutboxStore interface {
	FetchUnprocessed(ctx context.Context, limit uint64) ([]models.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
}

// Transactor runs fn in a transaction carried by ctx
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Relay moves outbox events to the publisher
type Relay struct {
	store     OutboxStore
	tx        Transactor
	publisher Publisher
	batchSize uint64
	logger    zerolog.Logger
}

// NewRelay creates a Relay
func NewRelay(store OutboxStore, tx Transactor, publisher Publisher, logger zerolog.Logger) *Relay {
	return &Relay{
		store:     store,
		tx:        tx,
		publisher: publisher,
		batchSize: DefaultBatchSize,
		logger:    logger.With().Str("component", "outbox-relay").Logger(),
	}
}

// RunOnce publishes one batch and returns how many events went out. The
// batch stays locked for the whole run so concurrent relays skip it. An
// event whose publish fails stays unprocessed for the next run.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	published := 0
	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		events, err := r.store.FetchUnprocessed(ctx, r.batchSize)
		if err != nil {
			return err
		}

		for _, event := range events {
			if err := r.publisher.Publish(ctx, event); err != nil {
				r.logger.Warn().Err(err).
					Str("eventID", event.ID.String()).
					Str("eventType", event.EventType).
					Msg("Failed to publish event")
				continue
			}
			if err := r.store.MarkProcessed(ctx, event.ID); err != nil {
				return err
			}
			published++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if published > 0 {
		r.logger.Debug().Int("count", published).Msg("Outbox events relayed")
	}
	return published, nil
}
