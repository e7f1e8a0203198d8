package webhook_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kub3rn3tesofficial/test-infra/internal/adapter/driving/webhook"
	"github.com/Kub3rn3tesofficial/test-infra/internal/application"
	"github.com/Kub3rn3tesofficial/test-infra/internal/classify"
	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"
)

// --- Fake stores (shared with the application tests' shape) ---

type fakeEventStore struct {
	events map[string][]model.RawEvent
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: map[string][]model.RawEvent{}}
}

func (f *fakeEventStore) Append(_ context.Context, item model.ItemRef, _ string, ev model.RawEvent) error {
	f.events[item.String()] = append(f.events[item.String()], ev)
	return nil
}

func (f *fakeEventStore) ListByItem(_ context.Context, item model.ItemRef) ([]model.RawEvent, error) {
	return f.events[item.String()], nil
}

func (f *fakeEventStore) CountByItem(_ context.Context, item model.ItemRef) (int, error) {
	return len(f.events[item.String()]), nil
}

type fakeResultStore struct {
	upserted map[string]model.Result
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{upserted: map[string]model.Result{}}
}

func (f *fakeResultStore) Upsert(_ context.Context, item model.ItemRef, res model.Result) error {
	f.upserted[item.String()] = res
	return nil
}

func (f *fakeResultStore) Get(_ context.Context, _ model.ItemRef) (*model.Result, error) {
	return nil, nil
}

func (f *fakeResultStore) ListOpen(_ context.Context) ([]model.ClassifiedItem, error) {
	return nil, nil
}

func (f *fakeResultStore) ListNeedingAttention(_ context.Context, _ string) ([]model.AttentionItem, error) {
	return nil, nil
}

func newTestHandler(secret string) (*webhook.Handler, *fakeEventStore, *fakeResultStore) {
	events := newFakeEventStore()
	results := newFakeResultStore()
	svc := application.NewClassifyService(events, results, nil, classify.Default())
	return webhook.NewHandler(events, svc, secret, slog.Default()), events, results
}

func deliver(t *testing.T, h *webhook.Handler, kind, payload string, sign func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", kind)
	req.Header.Set("X-GitHub-Delivery", "d-1")
	if sign != nil {
		sign(req)
	}

	rec := httptest.NewRecorder()
	h.Receive(rec, req)
	return rec
}

const prPayload = `{
	"action": "opened",
	"repository": {"full_name": "octocat/hello-world"},
	"pull_request": {
		"number": 7,
		"state": "open",
		"user": {"login": "a"},
		"assignees": [{"login": "b"}],
		"title": "some fix",
		"head": {"sha": "abcdef"}
	}
}`

func TestReceive_StoresEventAndClassifies(t *testing.T) {
	h, events, results := newTestHandler("")

	rec := deliver(t, h, "pull_request", prPayload, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	item := model.ItemRef{Repo: "octocat/hello-world", Number: 7}
	require.Len(t, events.events[item.String()], 1)
	assert.Equal(t, "pull_request", events.events[item.String()][0].Kind)

	res, ok := results.upserted[item.String()]
	require.True(t, ok)
	assert.True(t, res.IsPullRequest)
	assert.Equal(t, map[string]string{"b": "needs review"}, res.Payload.Attention)
}

func TestReceive_IgnoresDeliveriesWithoutAnItem(t *testing.T) {
	h, events, _ := newTestHandler("")

	rec := deliver(t, h, "ping", `{"zen": "Keep it logically awesome."}`, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, events.events)
}

func TestReceive_AcceptsUnclassifiablePrefix(t *testing.T) {
	h, events, results := newTestHandler("")

	// A comment delivery can precede any snapshot-bearing delivery.
	payload := `{
		"action": "created",
		"repository": {"full_name": "octocat/hello-world"},
		"issue": {"number": 3},
		"sender": {"login": "aaa"},
		"comment": {"id": 1, "user": {"login": "aaa"}, "body": "hi", "created_at": "2016-01-01T00:00:00Z"}
	}`
	rec := deliver(t, h, "issue_comment", payload, nil)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	item := model.ItemRef{Repo: "octocat/hello-world", Number: 3}
	assert.Len(t, events.events[item.String()], 1)
	assert.Empty(t, results.upserted)
}

func TestReceive_RejectsBadSignature(t *testing.T) {
	h, events, _ := newTestHandler("s3cret")

	rec := deliver(t, h, "pull_request", prPayload, func(req *http.Request) {
		req.Header.Set("X-Hub-Signature-256", "sha256=deadbeef")
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, events.events)
}

func TestReceive_AcceptsValidSignature(t *testing.T) {
	h, _, results := newTestHandler("s3cret")

	rec := deliver(t, h, "pull_request", prPayload, func(req *http.Request) {
		mac := hmac.New(sha256.New, []byte("s3cret"))
		mac.Write([]byte(prPayload))
		req.Header.Set("X-Hub-Signature-256", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, results.upserted, 1)
}
