package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"
)

func makeResult(author string, open bool, attn map[string]string) model.Result {
	involved := []string{author}
	for login := range attn {
		if login != author {
			involved = append(involved, login)
		}
	}
	return model.Result{
		IsPullRequest: true,
		IsOpen:        open,
		Involved:      involved,
		Payload: model.Payload{
			Author:    author,
			Assignees: []string{},
			Attention: attn,
			Title:     "some fix",
			Labels:    map[string]string{"lgtm": "green"},
			Head:      "abcdef",
			Status:    map[string]model.CheckStatus{"e2e": {"success", "", ""}},
			XRefs:     []string{},
		},
	}
}

func TestResultRepo_UpsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepo(db)
	ctx := context.Background()
	item := model.ItemRef{Repo: "octocat/hello-world", Number: 1}

	res := makeResult("a", true, map[string]string{"a": "fix tests", "b": "needs review"})
	require.NoError(t, repo.Upsert(ctx, item, res))

	got, err := repo.Get(ctx, item)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, res, *got)
}

func TestResultRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepo(db)

	got, err := repo.Get(context.Background(), model.ItemRef{Repo: "nobody/nothing", Number: 9})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResultRepo_UpsertReplacesAttention(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepo(db)
	ctx := context.Background()
	item := model.ItemRef{Repo: "octocat/hello-world", Number: 2}

	require.NoError(t, repo.Upsert(ctx, item, makeResult("a", true,
		map[string]string{"a": "fix tests", "b": "needs review"})))
	// Reclassification: b acted, only a remains on the hook.
	require.NoError(t, repo.Upsert(ctx, item, makeResult("a", true,
		map[string]string{"a": "address comments"})))

	forB, err := repo.ListNeedingAttention(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, forB)

	forA, err := repo.ListNeedingAttention(ctx, "a")
	require.NoError(t, err)
	require.Len(t, forA, 1)
	assert.Equal(t, item, forA[0].Item)
	assert.Equal(t, "address comments", forA[0].Reason)
}

func TestResultRepo_ListOpen(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepo(db)
	ctx := context.Background()

	openItem := model.ItemRef{Repo: "octocat/hello-world", Number: 3}
	closedItem := model.ItemRef{Repo: "octocat/hello-world", Number: 4}
	require.NoError(t, repo.Upsert(ctx, openItem, makeResult("a", true, map[string]string{"b": "needs review"})))
	require.NoError(t, repo.Upsert(ctx, closedItem, makeResult("a", false, nil)))

	items, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, openItem, items[0].Item)
	assert.True(t, items[0].Result.IsOpen)
}

func TestResultRepo_AttentionIgnoresClosedItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepo(db)
	ctx := context.Background()

	item := model.ItemRef{Repo: "octocat/hello-world", Number: 5}
	require.NoError(t, repo.Upsert(ctx, item, makeResult("a", false, map[string]string{"b": "needs review"})))

	items, err := repo.ListNeedingAttention(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, items)
}
