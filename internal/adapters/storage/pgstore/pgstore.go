// Package pgstore implements the storage port on a single PostgreSQL
// key/content table, for deployments without a shared filesystem.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/planloop/trip_planner_app/internal/apperrors"
	portsrepo "github.com/planloop/trip_planner_app/internal/core/ports/repositories"
)

// Store persists blobs in the blobs table created by the migrations.
type Store struct {
	pool *pgxpool.Pool
}

var _ portsrepo.Storage = (*Store)(nil)

// New returns a store backed by the given connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM blobs WHERE key = $1);`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check blob %s: %w", key, err)
	}
	return exists, nil
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	var content []byte
	err := s.pool.QueryRow(ctx,
		`SELECT content FROM blobs WHERE key = $1;`, key).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("key %s: %w", key, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return content, nil
}

func (s *Store) Write(ctx context.Context, key string, content []byte) error {
	query := `
		INSERT INTO blobs (key, content, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			content = EXCLUDED.content,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := s.pool.Exec(ctx, query, key, content); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key FROM blobs WHERE key LIKE $1 || '%' ORDER BY key;`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs under %s: %w", prefix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan blob key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blob keys: %w", err)
	}
	return keys, nil
}
