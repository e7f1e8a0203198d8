package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and
// message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// ItemResponse is the JSON representation of one classified item. The nested
// payload keeps the classifier's compatibility field names untouched.
type ItemResponse struct {
	Repo          string        `json:"repo"`
	Number        int           `json:"number"`
	IsPullRequest bool          `json:"is_pull_request"`
	IsOpen        bool          `json:"is_open"`
	Involved      []string      `json:"involved"`
	Payload       model.Payload `json:"payload"`
}

// AttentionResponse is one pending attention entry for a login.
type AttentionResponse struct {
	Repo   string `json:"repo"`
	Number int    `json:"number"`
	Reason string `json:"reason"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// toItemResponse converts a stored classification to its JSON representation.
func toItemResponse(item model.ItemRef, res model.Result) ItemResponse {
	involved := res.Involved
	if involved == nil {
		involved = []string{}
	}

	return ItemResponse{
		Repo:          item.Repo,
		Number:        item.Number,
		IsPullRequest: res.IsPullRequest,
		IsOpen:        res.IsOpen,
		Involved:      involved,
		Payload:       res.Payload,
	}
}
