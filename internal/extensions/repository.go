package extensions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository defines the interface for extension persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByName retrieves an extension by name.
	// Returns ErrNotFound if the extension does not exist.
	GetByName(ctx context.Context, name string) (*Entry, error)

	// List retrieves all extensions ordered by registration time.
	List(ctx context.Context) ([]Entry, error)

	// Upsert inserts a new extension or updates URL/version for an
	// existing name, keeping the original ID and registration time.
	Upsert(ctx context.Context, entry *Entry) error

	// Delete removes an extension by name.
	// Returns ErrNotFound if the extension does not exist.
	Delete(ctx context.Context, name string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByName retrieves an extension by name.
func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*Entry, error) {
	query := `
		SELECT id, name, url, version, registered_at
		FROM legacy_extensions
		WHERE name = ?`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying extension by name: %w", err)
	}
	return entry, nil
}

// List retrieves all extensions ordered by registration time.
func (r *SQLiteRepository) List(ctx context.Context) ([]Entry, error) {
	query := `
		SELECT id, name, url, version, registered_at
		FROM legacy_extensions
		ORDER BY registered_at, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying extensions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning extension row: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Upsert inserts a new extension or updates URL/version for an existing name.
func (r *SQLiteRepository) Upsert(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO legacy_extensions (id, name, url, version, registered_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			url = excluded.url,
			version = excluded.version`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Name,
		entry.URL,
		entry.Version,
		entry.RegisteredAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting extension: %w", err)
	}
	return nil
}

// Delete removes an extension by name.
func (r *SQLiteRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM legacy_extensions WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting extension: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanEntry reads a single extension row.
func scanEntry(s scanner) (*Entry, error) {
	var (
		entry        Entry
		registeredAt string
	)
	if err := s.Scan(&entry.ID, &entry.Name, &entry.URL, &entry.Version, &registeredAt); err != nil {
		return nil, err
	}

	// Timestamp format is controlled by Upsert.
	entry.RegisteredAt, _ = time.Parse(time.RFC3339, registeredAt) //nolint:errcheck // Format is controlled
	return &entry, nil
}
