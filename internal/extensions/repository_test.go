package extensions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the
// legacy_extensions table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE legacy_extensions (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL UNIQUE,
			url           TEXT NOT NULL,
			version       TEXT NOT NULL,
			registered_at TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func testEntry(name string, registeredAt time.Time) *Entry {
	return &Entry{
		ID:           "id-" + name,
		Name:         name,
		URL:          "https://extensions.example.org/" + name + ".js",
		Version:      "1.0.0",
		RegisteredAt: registeredAt,
	}
}

func TestSQLiteRepository_UpsertAndGet(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.Upsert(ctx, testEntry("custom-cards", now)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := repo.GetByName(ctx, "custom-cards")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if got.URL != "https://extensions.example.org/custom-cards.js" {
		t.Errorf("URL = %q", got.URL)
	}
	if !got.RegisteredAt.Equal(now) {
		t.Errorf("RegisteredAt = %v, want %v", got.RegisteredAt, now)
	}
}

func TestSQLiteRepository_UpsertUpdatesInPlace(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	entry := testEntry("custom-cards", now)
	if err := repo.Upsert(ctx, entry); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}

	entry.Version = "2.0.0"
	if err := repo.Upsert(ctx, entry); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	entries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Version != "2.0.0" {
		t.Errorf("Version = %q, want 2.0.0", entries[0].Version)
	}
}

func TestSQLiteRepository_ListOrdering(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	// Insert out of order; List must come back in registration order.
	for i, name := range []string{"charlie", "alpha", "bravo"} {
		offsets := []time.Duration{2 * time.Minute, 0, time.Minute}
		if err := repo.Upsert(ctx, testEntry(name, base.Add(offsets[i]))); err != nil {
			t.Fatalf("Upsert(%s) error = %v", name, err)
		}
	}

	entries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []string{"alpha", "bravo", "charlie"}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entries[%d].Name = %q, want %q", i, entries[i].Name, name)
		}
	}
}

func TestSQLiteRepository_NotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetByName(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByName() error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
