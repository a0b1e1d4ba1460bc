// Package postgres stores score archives in a Postgres table, one row per
// match record.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"dominoscore/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS score_history (
		owner_id   TEXT        NOT NULL,
		position   INTEGER     NOT NULL,
		record_id  TEXT        NOT NULL,
		played_at  TIMESTAMPTZ NOT NULL,
		record     JSONB       NOT NULL,
		PRIMARY KEY (owner_id, position)
	)
`

// Store implements ports.HistoryStore using pgx.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool and makes sure the table exists.
func Connect(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := NewStore(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create score_history: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Load(ctx context.Context, ownerID string) ([]domain.MatchRecord, error) {
	const q = `
		SELECT record
		FROM score_history
		WHERE owner_id = $1
		ORDER BY position
	`
	rows, err := s.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.MatchRecord{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rec domain.MatchRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Save replaces the owner's rows in one transaction.
func (s *Store) Save(ctx context.Context, ownerID string, records []domain.MatchRecord) error {
	rows, err := encodeRows(ownerID, records)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM score_history WHERE owner_id = $1`, ownerID); err != nil {
		return err
	}
	if len(rows) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"score_history"},
			[]string{"owner_id", "position", "record_id", "played_at", "record"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy records: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) Clear(ctx context.Context, ownerID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM score_history WHERE owner_id = $1`, ownerID)
	return err
}

func encodeRows(ownerID string, records []domain.MatchRecord) ([][]any, error) {
	rows := make([][]any, 0, len(records))
	for i, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("encode record %s: %w", rec.ID, err)
		}
		rows = append(rows, []any{ownerID, i, rec.ID, rec.Timestamp, raw})
	}
	return rows, nil
}
