// Package httphandler serves the read-only REST API the dashboard consumes.
package httphandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kub3rn3tesofficial/test-infra/internal/application"
	"github.com/Kub3rn3tesofficial/test-infra/internal/classify"
	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"
	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	results driven.ResultStore
	svc     *application.ClassifyService
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(results driven.ResultStore, svc *application.ClassifyService, logger *slog.Logger) *Handler {
	return &Handler{
		results: results,
		svc:     svc,
		logger:  logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware. hook is the webhook receiver; nil
// leaves ingestion unmounted.
func NewServeMux(h *Handler, hook http.Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/items", h.ListItems)
	mux.HandleFunc("GET /api/v1/items/{owner}/{repo}/{number}", h.GetItem)
	mux.HandleFunc("POST /api/v1/items/{owner}/{repo}/{number}/reclassify", h.ReclassifyItem)
	mux.HandleFunc("GET /api/v1/attention/{login}", h.ListAttention)
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	if hook != nil {
		mux.Handle("POST /webhook", hook)
	}

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// ListItems returns the classifications of all open items.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.results.ListOpen(r.Context())
	if err != nil {
		h.logger.Error("failed to list open items", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toItemResponse(item.Item, item.Result))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetItem returns the stored classification of one item.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := itemFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item number")
		return
	}

	res, err := h.results.Get(r.Context(), item)
	if err != nil {
		h.logger.Error("failed to get item", "item", item.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if res == nil {
		writeError(w, http.StatusNotFound, "item not classified")
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item, *res))
}

// ReclassifyItem reruns classification over the item's stored event stream.
func (h *Handler) ReclassifyItem(w http.ResponseWriter, r *http.Request) {
	item, ok := itemFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item number")
		return
	}

	res, err := h.svc.Reclassify(r.Context(), item)
	if err != nil {
		if errors.Is(err, classify.ErrCannotClassify) {
			writeError(w, http.StatusUnprocessableEntity, "cannot classify: stream has no issue or pull_request record")
			return
		}
		h.logger.Error("failed to reclassify item", "item", item.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item, *res))
}

// ListAttention returns the open items on which the login owns the next
// action.
func (h *Handler) ListAttention(w http.ResponseWriter, r *http.Request) {
	login := r.PathValue("login")

	entries, err := h.results.ListNeedingAttention(r.Context(), login)
	if err != nil {
		h.logger.Error("failed to list attention items", "login", login, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]AttentionResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, AttentionResponse{
			Repo:   entry.Item.Repo,
			Number: entry.Item.Number,
			Reason: entry.Reason,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func itemFromPath(r *http.Request) (model.ItemRef, bool) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		return model.ItemRef{}, false
	}
	return model.ItemRef{
		Repo:   r.PathValue("owner") + "/" + r.PathValue("repo"),
		Number: number,
	}, true
}
