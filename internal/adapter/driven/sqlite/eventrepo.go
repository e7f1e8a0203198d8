package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"
	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.EventStore = (*EventRepo)(nil)

// EventRepo is the SQLite implementation of the EventStore port interface.
// Events are append-only; the autoincrement id preserves delivery order.
type EventRepo struct {
	db *DB
}

// NewEventRepo creates a new EventRepo backed by the given DB.
func NewEventRepo(db *DB) *EventRepo {
	return &EventRepo{db: db}
}

// Append stores one raw event at the end of the item's stream. The body is
// stored as JSON so replay reproduces the wire payload exactly.
func (r *EventRepo) Append(ctx context.Context, item model.ItemRef, deliveryID string, ev model.RawEvent) error {
	body, err := json.Marshal(ev.Body)
	if err != nil {
		return fmt.Errorf("marshal event body for %s: %w", item, err)
	}

	const query = `
		INSERT INTO events (repo, number, delivery_id, kind, body)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := r.db.Writer.ExecContext(ctx, query,
		item.Repo, item.Number, deliveryID, ev.Kind, string(body),
	); err != nil {
		return fmt.Errorf("insert event for %s: %w", item, err)
	}

	return nil
}

// ListByItem returns the item's events in append order.
func (r *EventRepo) ListByItem(ctx context.Context, item model.ItemRef) ([]model.RawEvent, error) {
	const query = `
		SELECT kind, body
		FROM events
		WHERE repo = ? AND number = ?
		ORDER BY id
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, item.Repo, item.Number)
	if err != nil {
		return nil, fmt.Errorf("query events for %s: %w", item, err)
	}
	defer rows.Close()

	var events []model.RawEvent
	for rows.Next() {
		var kind, body string
		if err := rows.Scan(&kind, &body); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		ev := model.RawEvent{Kind: kind}
		if err := json.Unmarshal([]byte(body), &ev.Body); err != nil {
			return nil, fmt.Errorf("unmarshal event body for %s: %w", item, err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// CountByItem returns the number of stored events for the item.
func (r *EventRepo) CountByItem(ctx context.Context, item model.ItemRef) (int, error) {
	const query = `SELECT COUNT(*) FROM events WHERE repo = ? AND number = ?`

	var count int
	if err := r.db.Reader.QueryRowContext(ctx, query, item.Repo, item.Number).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events for %s: %w", item, err)
	}

	return count, nil
}
