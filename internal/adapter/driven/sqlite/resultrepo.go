package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"
	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ResultStore = (*ResultRepo)(nil)

// ResultRepo is the SQLite implementation of the ResultStore port interface.
// Attention entries are denormalized into their own table so the dashboard's
// "needs my action" filter is a single indexed query.
type ResultRepo struct {
	db *DB
}

// NewResultRepo creates a new ResultRepo backed by the given DB.
func NewResultRepo(db *DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// Upsert replaces the item's classification and its attention entries in a
// single transaction.
func (r *ResultRepo) Upsert(ctx context.Context, item model.ItemRef, res model.Result) error {
	involved, err := json.Marshal(res.Involved)
	if err != nil {
		return fmt.Errorf("marshal involved for %s: %w", item, err)
	}
	payload, err := json.Marshal(res.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload for %s: %w", item, err)
	}

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	const upsertQuery = `
		INSERT INTO results (repo, number, is_pull_request, is_open, involved, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (repo, number) DO UPDATE SET
			is_pull_request = excluded.is_pull_request,
			is_open = excluded.is_open,
			involved = excluded.involved,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, upsertQuery,
		item.Repo, item.Number, boolToInt(res.IsPullRequest), boolToInt(res.IsOpen),
		string(involved), string(payload), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("upsert result for %s: %w", item, err)
	}

	const deleteQuery = `DELETE FROM attention WHERE repo = ? AND number = ?`
	if _, err := tx.ExecContext(ctx, deleteQuery, item.Repo, item.Number); err != nil {
		return fmt.Errorf("delete attention for %s: %w", item, err)
	}

	const insertQuery = `INSERT INTO attention (repo, number, login, reason) VALUES (?, ?, ?, ?)`
	for login, reason := range res.Payload.Attention {
		if _, err := tx.ExecContext(ctx, insertQuery, item.Repo, item.Number, login, reason); err != nil {
			return fmt.Errorf("insert attention for %s login %s: %w", item, login, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit result for %s: %w", item, err)
	}

	return nil
}

// Get returns the stored classification for the item, or nil when absent.
func (r *ResultRepo) Get(ctx context.Context, item model.ItemRef) (*model.Result, error) {
	const query = `
		SELECT is_pull_request, is_open, involved, payload
		FROM results
		WHERE repo = ? AND number = ?
	`

	res, err := scanResult(r.db.Reader.QueryRowContext(ctx, query, item.Repo, item.Number))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get result for %s: %w", item, err)
	}

	return res, nil
}

// ListOpen returns the classifications of all open items, ordered by repo and
// number for stable output.
func (r *ResultRepo) ListOpen(ctx context.Context) ([]model.ClassifiedItem, error) {
	const query = `
		SELECT repo, number, is_pull_request, is_open, involved, payload
		FROM results
		WHERE is_open = 1
		ORDER BY repo, number
	`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query open results: %w", err)
	}
	defer rows.Close()

	items := []model.ClassifiedItem{}
	for rows.Next() {
		var item model.ItemRef
		var isPR, isOpen int
		var involved, payload string
		if err := rows.Scan(&item.Repo, &item.Number, &isPR, &isOpen, &involved, &payload); err != nil {
			return nil, fmt.Errorf("scan open result: %w", err)
		}

		res, err := decodeResult(isPR, isOpen, involved, payload)
		if err != nil {
			return nil, fmt.Errorf("decode result for %s: %w", item, err)
		}
		items = append(items, model.ClassifiedItem{Item: item, Result: *res})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate open results: %w", err)
	}

	return items, nil
}

// ListNeedingAttention returns the open items whose next action belongs to
// the given login.
func (r *ResultRepo) ListNeedingAttention(ctx context.Context, login string) ([]model.AttentionItem, error) {
	const query = `
		SELECT a.repo, a.number, a.reason
		FROM attention a
		JOIN results r ON r.repo = a.repo AND r.number = a.number
		WHERE a.login = ? AND r.is_open = 1
		ORDER BY a.repo, a.number
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, login)
	if err != nil {
		return nil, fmt.Errorf("query attention for %s: %w", login, err)
	}
	defer rows.Close()

	items := []model.AttentionItem{}
	for rows.Next() {
		var entry model.AttentionItem
		if err := rows.Scan(&entry.Item.Repo, &entry.Item.Number, &entry.Reason); err != nil {
			return nil, fmt.Errorf("scan attention entry: %w", err)
		}
		items = append(items, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attention entries: %w", err)
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(s rowScanner) (*model.Result, error) {
	var isPR, isOpen int
	var involved, payload string
	if err := s.Scan(&isPR, &isOpen, &involved, &payload); err != nil {
		return nil, err
	}
	return decodeResult(isPR, isOpen, involved, payload)
}

func decodeResult(isPR, isOpen int, involved, payload string) (*model.Result, error) {
	res := model.Result{
		IsPullRequest: isPR != 0,
		IsOpen:        isOpen != 0,
	}
	if err := json.Unmarshal([]byte(involved), &res.Involved); err != nil {
		return nil, fmt.Errorf("unmarshal involved: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &res.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &res, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
