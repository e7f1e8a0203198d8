package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"
)

func newTestClient(t *testing.T, handler http.Handler) *StatusClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewStatusClientWithHTTPClient(srv.Client(), srv.URL+"/")
	require.NoError(t, err)
	return client
}

func TestCombinedStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/commits/abcdef/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"state": "failure",
			"statuses": [
				{"context": "e2e", "state": "failure", "target_url": "https://ci.example.com/1", "description": "stuff is broken"},
				{"context": "unit", "state": "success", "target_url": "", "description": "all green"}
			]
		}`)
	}))

	status, err := client.CombinedStatus(context.Background(), "octocat/hello-world", "abcdef")
	require.NoError(t, err)

	assert.Equal(t, map[string]model.CheckStatus{
		"e2e":  {"failure", "https://ci.example.com/1", "stuff is broken"},
		"unit": {"success", "", "all green"},
	}, status)
}

func TestCombinedStatus_APIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.CombinedStatus(context.Background(), "octocat/hello-world", "abcdef")
	assert.Error(t, err)
}

func TestCombinedStatus_InvalidRepoName(t *testing.T) {
	client := NewStatusClient("")

	_, err := client.CombinedStatus(context.Background(), "not-a-full-name", "abcdef")
	assert.Error(t, err)
}
