package driven

import (
	"context"

	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"
)

// EventStore defines the driven port for the append-only raw event log. The
// log preserves delivery order per item; the classifier depends on it.
type EventStore interface {
	// Append stores one raw event for the item at the end of its stream.
	// deliveryID is the ingestion source's delivery identifier (may be empty).
	Append(ctx context.Context, item model.ItemRef, deliveryID string, ev model.RawEvent) error
	// ListByItem returns the item's events in append order.
	ListByItem(ctx context.Context, item model.ItemRef) ([]model.RawEvent, error)
	// CountByItem returns the number of stored events for the item.
	CountByItem(ctx context.Context, item model.ItemRef) (int, error)
}
