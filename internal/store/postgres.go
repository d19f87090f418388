package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/fraglink/internal/recent"
)

const recentSchema = `
	CREATE TABLE IF NOT EXISTS recent_links (
		id         BIGSERIAL PRIMARY KEY,
		owner      TEXT        NOT NULL,
		short_url  TEXT        NOT NULL,
		url        TEXT        NOT NULL,
		slug       TEXT        NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS recent_links_owner_idx ON recent_links (owner, id DESC);
`

// RecentPostgresStore is a PostgreSQL implementation of recent.Repository.
type RecentPostgresStore struct {
	pool  *pgxpool.Pool
	limit int
}

// NewRecentPostgresStore creates a PostgreSQL-backed history keeping at most limit entries per owner.
func NewRecentPostgresStore(pool *pgxpool.Pool, limit int) *RecentPostgresStore {
	return &RecentPostgresStore{pool: pool, limit: limit}
}

// EnsureSchema creates the recent_links table when missing.
func (p *RecentPostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, recentSchema)

	return err
}

func (p *RecentPostgresStore) Add(ctx context.Context, owner string, entry recent.Entry) error {
	if err := recent.ValidateOwner(owner); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO recent_links (owner, short_url, url, slug, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, owner, entry.ShortURL, entry.URL, entry.Slug, entry.CreatedAt)

	if p.limit > 0 {
		batch.Queue(`
			DELETE FROM recent_links
			WHERE owner = $1 AND id NOT IN (
				SELECT id FROM recent_links WHERE owner = $1 ORDER BY id DESC LIMIT $2
			)
		`, owner, p.limit)
	}

	return p.pool.SendBatch(ctx, batch).Close()
}

func (p *RecentPostgresStore) List(ctx context.Context, owner string) ([]recent.Entry, error) {
	if err := recent.ValidateOwner(owner); err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, `
		SELECT short_url, url, slug, created_at
		FROM recent_links
		WHERE owner = $1
		ORDER BY id DESC
	`, owner)
	if err != nil {
		return nil, err
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (recent.Entry, error) {
		var e recent.Entry

		err := row.Scan(&e.ShortURL, &e.URL, &e.Slug, &e.CreatedAt)

		return e, err
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (p *RecentPostgresStore) Delete(ctx context.Context, owner, shortURL string) error {
	if err := recent.ValidateOwner(owner); err != nil {
		return err
	}

	_, err := p.pool.Exec(ctx, `DELETE FROM recent_links WHERE owner = $1 AND short_url = $2`, owner, shortURL)

	return err
}

// Compile-time check.
var _ recent.Repository = (*RecentPostgresStore)(nil)
