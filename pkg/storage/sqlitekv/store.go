// Package sqlitekv stores key-value blobs in a single SQLite table.
package sqlitekv

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/agalitsyn/sqlite"
	"github.com/felixgeelhaar/hilal/pkg/domain"
)

//go:embed *.sql
var migrations embed.FS

type Store struct {
	db *sql.DB
}

var _ domain.Store = (*Store)(nil)

// Open connects to the database at path and applies pending migrations.
func Open(path string) (*Store, error) {
	db, err := sqlite.Connect(path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.MigrateUp(db, migrations); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `SELECT value FROM kv WHERE key = ?`
	var value string
	err := s.db.QueryRowContext(ctx, q, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := domain.ValidateKey(key); err != nil {
		return err
	}
	const q = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	_, err := s.db.ExecContext(ctx, q, key, value)
	return err
}

// Keys lists every stored key in order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	const q = `SELECT key FROM kv ORDER BY key`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // read-only

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
