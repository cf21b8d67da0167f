package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"

	model "newsdesk/internal/content"
)

// PostgresStore keeps drafts in a single news_drafts table. The bundle is
// stored as JSONB so the schema survives bundle changes.
type PostgresStore struct {
	db     *sql.DB
	schema schemaGuard
}

// schemaGuard runs a schema setup until it succeeds once. A failed attempt,
// such as a cancelled request or a database still starting, is retried on
// the next call.
type schemaGuard struct {
	mu   sync.Mutex
	done bool
}

func (g *schemaGuard) ensure(ctx context.Context, setup func(context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		return nil
	}
	if err := setup(ctx); err != nil {
		return err
	}
	g.done = true
	return nil
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("database url is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open draft db: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	return s.schema.ensure(ctx, s.createSchema)
}

func (s *PostgresStore) createSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS news_drafts (
  id BIGSERIAL PRIMARY KEY,
  news_id TEXT NOT NULL,
  revision BIGINT NOT NULL DEFAULT 0,
  bundle JSONB NOT NULL,
  saved_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_news_drafts_news_id ON news_drafts (news_id);
`)
	return err
}

func (s *PostgresStore) Append(ctx context.Context, d Draft) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure draft schema: %w", err)
	}
	id := normalizeID(d.NewsID)
	if id == "" {
		return fmt.Errorf("news id is required")
	}
	raw, err := json.Marshal(d.Bundle)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO news_drafts (news_id, revision, bundle, saved_at)
VALUES ($1, $2, $3, $4)`, id, d.Revision, raw, d.SavedAt)
	return err
}

func (s *PostgresStore) List(ctx context.Context, newsID string) ([]Draft, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure draft schema: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT news_id, revision, bundle, saved_at
FROM news_drafts WHERE news_id = $1 ORDER BY saved_at, id`, normalizeID(newsID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Draft, 0, 8)
	for rows.Next() {
		var (
			d   Draft
			raw []byte
		)
		if err := rows.Scan(&d.NewsID, &d.Revision, &raw, &d.SavedAt); err != nil {
			return nil, err
		}
		var b model.Bundle
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("decode draft %s: %w", d.NewsID, err)
		}
		d.Bundle = b
		out = append(out, d)
	}
	return out, rows.Err()
}
