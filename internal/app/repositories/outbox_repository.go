package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/pkg/logger"
)

// OutboxRepository stores events waiting to be relayed
type OutboxRepository struct {
	baseRepository
}

// NewOutboxRepository creates a new OutboxRepository
func NewOutboxRepository(db *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{baseRepository: newBase(db)}
}

// Insert writes an event; call it in the transaction of the change it describes
func (r *OutboxRepository) Insert(ctx context.Context, e *models.OutboxEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	sql, args, err := r.sb.Insert("outbox_events").
		Columns("id", "aggregate_type", "aggregate_id", "event_type", "payload").
		Values(e.ID, e.AggregateType, e.AggregateID, e.EventType, string(e.Payload)).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert outbox event SQL")
		return fmt.Errorf("failed to build insert outbox event query: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&e.CreatedAt); err != nil {
		logger.Error().Err(err).Str("eventType", e.EventType).Msg("Error executing insert outbox event query")
		return fmt.Errorf("error inserting outbox event: %w", err)
	}
	return nil
}

// FetchUnprocessed returns up to limit pending events, oldest first. Rows
// are locked with SKIP LOCKED so concurrent relays never pick the same
// event; call it inside a transaction.
func (r *OutboxRepository) FetchUnprocessed(ctx context.Context, limit uint64) ([]models.OutboxEvent, error) {
	sql, args, err := r.sb.Select("id", "aggregate_type", "aggregate_id", "event_type", "payload", "created_at").
		From("outbox_events").
		Where(squirrel.Eq{"processed_at": nil}).
		OrderBy("created_at ASC").
		Limit(limit).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build fetch outbox query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error fetching outbox events")
		return nil, fmt.Errorf("error fetching outbox events: %w", err)
	}
	defer rows.Close()

	var events []models.OutboxEvent
	for rows.Next() {
		var e models.OutboxEvent
		var payload []byte
		if err := rows.Scan(&e.ID, &e.AggregateType, &e.AggregateID, &e.EventType, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning outbox row: %w", err)
		}
		e.Payload = payload
		events = append(events, e)
	}
	return events, rows.Err()
}

// MarkProcessed stamps an event as relayed
func (r *OutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.sb.Update("outbox_events").
		Set("processed_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark processed query: %w", err)
	}

	if _, err := r.conn(ctx).Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("eventID", id.String()).Msg("Error marking outbox event processed")
		return fmt.Errorf("error marking outbox event processed: %w", err)
	}
	return nil
}
