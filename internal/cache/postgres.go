// internal/cache/postgres.go
package cache

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore keeps the cache in a two-column key/value table. Save runs
// DELETE + INSERT inside one transaction so a reader never observes a
// half-written document.
type PostgresStore struct {
	db    *sql.DB
	table string
}

func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	if table == "" {
		table = "style_descriptions"
	}
	return &PostgresStore{db: db, table: table}
}

// EnsureSchema creates the backing table if it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (style_key TEXT PRIMARY KEY, description TEXT NOT NULL)`,
		s.table,
	)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure cache table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (map[string]string, error) {
	query := fmt.Sprintf(`SELECT style_key, description FROM %s`, s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load cache table: %w", err)
	}
	defer rows.Close()

	entries := map[string]string{}
	for rows.Next() {
		var key, description string
		if err := rows.Scan(&key, &description); err != nil {
			return nil, fmt.Errorf("scan cache row: %w", err)
		}
		entries[key] = description
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache rows: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) Save(ctx context.Context, entries map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, s.table)); err != nil {
		return fmt.Errorf("clear cache table: %w", err)
	}

	insert := fmt.Sprintf(`INSERT INTO %s (style_key, description) VALUES ($1, $2)`, s.table)
	for key, description := range entries {
		if _, err := tx.ExecContext(ctx, insert, key, description); err != nil {
			return fmt.Errorf("insert cache row %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache save: %w", err)
	}
	return nil
}
