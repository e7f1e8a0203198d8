// Package webhook ingests GitHub webhook deliveries. It owns the wire: it
// validates signatures, decodes payloads, and hands the classifier core an
// ordered stream of (kind, body) records — the core never sees HTTP.
package webhook

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	gh "github.com/google/go-github/v82/github"

	"github.com/Kub3rn3tesofficial/test-infra/internal/application"
	"github.com/Kub3rn3tesofficial/test-infra/internal/classify"
	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"
	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/port/driven"
	"github.com/Kub3rn3tesofficial/test-infra/internal/metrics"
)

// Handler is the HTTP driving adapter that receives webhook deliveries,
// appends them to the event log, and reclassifies the affected item.
type Handler struct {
	events driven.EventStore
	svc    *application.ClassifyService
	secret []byte // nil disables signature validation
	logger *slog.Logger
}

// NewHandler creates a webhook Handler. An empty secret disables signature
// validation (local development only).
func NewHandler(events driven.EventStore, svc *application.ClassifyService, secret string, logger *slog.Logger) *Handler {
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}
	return &Handler{
		events: events,
		svc:    svc,
		secret: key,
		logger: logger,
	}
}

// Receive handles POST /webhook.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	payload, err := gh.ValidatePayload(r, h.secret)
	if err != nil {
		h.logger.Warn("rejected webhook delivery", "error", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	kind := gh.WebHookType(r)
	deliveryID := gh.DeliveryID(r)

	var body map[string]any
	if err := json.Unmarshal(payload, &body); err != nil {
		h.logger.Warn("undecodable webhook delivery", "kind", kind, "delivery", deliveryID, "error", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	item, ok := itemFromBody(body)
	if !ok {
		// Deliveries that name no issue or pull request (pings, repository
		// events) are acknowledged and dropped.
		metrics.DeliveriesIgnored.Inc()
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if err := h.events.Append(r.Context(), item, deliveryID, model.RawEvent{Kind: kind, Body: body}); err != nil {
		h.logger.Error("failed to store event", "item", item.String(), "kind", kind, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	metrics.DeliveriesReceived.WithLabelValues(kind).Inc()

	if _, err := h.svc.Reclassify(r.Context(), item); err != nil {
		if errors.Is(err, classify.ErrCannotClassify) {
			// The stream may still be a prefix with no snapshot event; the
			// event is stored, so a later delivery will complete the picture.
			h.logger.Info("item not yet classifiable", "item", item.String(), "kind", kind)
			w.WriteHeader(http.StatusAccepted)
			return
		}
		h.logger.Error("reclassification failed", "item", item.String(), "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// itemFromBody locates the subject item of a delivery: the repository full
// name plus the issue or pull-request number.
func itemFromBody(body map[string]any) (model.ItemRef, bool) {
	repository, ok := body["repository"].(map[string]any)
	if !ok {
		return model.ItemRef{}, false
	}
	repo, _ := repository["full_name"].(string)
	if repo == "" {
		return model.ItemRef{}, false
	}

	for _, key := range []string{"issue", "pull_request"} {
		if sub, ok := body[key].(map[string]any); ok {
			if n, ok := numberField(sub); ok {
				return model.ItemRef{Repo: repo, Number: n}, true
			}
		}
	}
	if n, ok := numberField(body); ok {
		return model.ItemRef{Repo: repo, Number: n}, true
	}
	return model.ItemRef{}, false
}

func numberField(m map[string]any) (int, bool) {
	n, ok := m["number"].(float64)
	if !ok {
		return 0, false
	}
	return int(n), true
}
