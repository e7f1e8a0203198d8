// Package application wires the pure classifier to the persistence and
// status collaborators.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Kub3rn3tesofficial/test-infra/internal/classify"
	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"
	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/port/driven"
	"github.com/Kub3rn3tesofficial/test-infra/internal/metrics"
)

const resultCacheSize = 512

// ClassifyService reruns classification for items as their event streams
// grow, and persists the outcome for the dashboard API.
type ClassifyService struct {
	events     driven.EventStore
	results    driven.ResultStore
	statuses   driven.StatusSource // nil when no status collaborator is configured
	classifier *classify.Classifier
	cache      *lru.Cache[string, cacheEntry]
	logger     *slog.Logger
}

// cacheEntry memoizes one classification keyed by the event count at which it
// was computed. Classification is a pure function of the event sequence, so
// as long as the count is unchanged the cached result is current.
type cacheEntry struct {
	eventCount int
	result     model.Result
}

// NewClassifyService creates a ClassifyService. statuses may be nil, in which
// case classification runs with an empty status map and results are served
// from the cache while an item's event stream is unchanged.
func NewClassifyService(
	events driven.EventStore,
	results driven.ResultStore,
	statuses driven.StatusSource,
	classifier *classify.Classifier,
) *ClassifyService {
	cache, err := lru.New[string, cacheEntry](resultCacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}

	return &ClassifyService{
		events:     events,
		results:    results,
		statuses:   statuses,
		classifier: classifier,
		cache:      cache,
		logger:     slog.Default(),
	}
}

// Reclassify loads the item's event stream, classifies it, and stores the
// result. A degraded status fetch is non-fatal: classification proceeds with
// an empty status map rather than going stale.
func (s *ClassifyService) Reclassify(ctx context.Context, item model.ItemRef) (*model.Result, error) {
	start := time.Now()

	count, err := s.events.CountByItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("count events for %s: %w", item, err)
	}

	key := item.String()
	// CI status changes outside the event stream, so the cache only answers
	// when no status collaborator is configured.
	if s.statuses == nil {
		if entry, ok := s.cache.Get(key); ok && entry.eventCount == count {
			result := entry.result
			return &result, nil
		}
	}

	events, err := s.events.ListByItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("list events for %s: %w", item, err)
	}

	var status map[string]model.CheckStatus
	if s.statuses != nil {
		if head := classify.Merge(events).HeadSHA(); head != "" {
			status, err = s.statuses.CombinedStatus(ctx, item.Repo, head)
			if err != nil {
				s.logger.Warn("status fetch failed, classifying without status",
					"item", key, "error", err)
				status = nil
			}
		}
	}

	result, err := s.classifier.Classify(events, status)
	if err != nil {
		metrics.Classifications.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("classify %s: %w", item, err)
	}

	if err := s.results.Upsert(ctx, item, *result); err != nil {
		return nil, fmt.Errorf("store result for %s: %w", item, err)
	}

	s.cache.Add(key, cacheEntry{eventCount: count, result: *result})
	metrics.Classifications.WithLabelValues("ok").Inc()
	metrics.ClassifyDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("item classified",
		"item", key,
		"events", count,
		"is_pull_request", result.IsPullRequest,
		"is_open", result.IsOpen,
		"attn", len(result.Payload.Attention),
	)

	return result, nil
}
