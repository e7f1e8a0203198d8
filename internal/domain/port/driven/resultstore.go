package driven

import (
	"context"

	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"
)

// ResultStore defines the driven port for classification result persistence.
// Each item holds at most one result, replaced wholesale on reclassification.
type ResultStore interface {
	// Upsert stores the latest classification for the item, replacing any
	// previous result and its attention entries atomically.
	Upsert(ctx context.Context, item model.ItemRef, res model.Result) error
	// Get returns the stored classification for the item, or nil when the
	// item has never been classified.
	Get(ctx context.Context, item model.ItemRef) (*model.Result, error)
	// ListOpen returns the classifications of all open items.
	ListOpen(ctx context.Context) ([]model.ClassifiedItem, error)
	// ListNeedingAttention returns the open items on which the given login
	// owns the next action, with the reason.
	ListNeedingAttention(ctx context.Context, login string) ([]model.AttentionItem, error)
}
