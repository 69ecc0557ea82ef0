package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres stores documents in the kv_documents table created by the
// database migrations. Close closes the underlying pool.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Store on top of a migrated database.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Get(ctx context.Context, key string) (*Entry, error) {
	var value string
	var version int64
	err := p.db.QueryRowContext(ctx,
		`SELECT value::text, version FROM kv_documents WHERE key = $1`, key,
	).Scan(&value, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %s: %w", key, err)
	}
	return &Entry{Value: []byte(value), Version: version}, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO kv_documents (key, value, version, updated_at)
		VALUES ($1, $2::jsonb, 1, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, version = kv_documents.version + 1, updated_at = now()
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) CompareAndSet(ctx context.Context, key string, value []byte, expected int64) (int64, error) {
	var next int64
	var err error
	if expected == 0 {
		err = p.db.QueryRowContext(ctx, `
			INSERT INTO kv_documents (key, value, version, updated_at)
			VALUES ($1, $2::jsonb, 1, now())
			ON CONFLICT (key) DO NOTHING
			RETURNING version
		`, key, string(value)).Scan(&next)
	} else {
		err = p.db.QueryRowContext(ctx, `
			UPDATE kv_documents
			SET value = $2::jsonb, version = version + 1, updated_at = now()
			WHERE key = $1 AND version = $3
			RETURNING version
		`, key, string(value), expected).Scan(&next)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrVersionMismatch
	}
	if err != nil {
		return 0, fmt.Errorf("kv compare-and-set %s: %w", key, err)
	}
	return next, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
