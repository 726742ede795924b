package extensions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// MockRepository is a test implementation of Repository.
type MockRepository struct {
	mu      sync.Mutex
	entries map[string]*Entry
	// For testing error paths
	upsertErr error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		entries: make(map[string]*Entry),
	}
}

func (m *MockRepository) GetByName(_ context.Context, name string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[name]; ok {
		copy := *e
		return &copy, nil
	}
	return nil, ErrNotFound
}

func (m *MockRepository) List(_ context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, *e)
	}
	return entries, nil
}

func (m *MockRepository) Upsert(_ context.Context, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.upsertErr != nil {
		return m.upsertErr
	}
	copy := *entry
	m.entries[entry.Name] = &copy
	return nil
}

func (m *MockRepository) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[name]; !ok {
		return ErrNotFound
	}
	delete(m.entries, name)
	return nil
}

func validEntry(name string) Entry {
	return Entry{
		Name:    name,
		URL:     "https://extensions.example.org/" + name + ".js",
		Version: "1.0.0",
	}
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry(NewMockRepository())
	ctx := context.Background()

	if err := registry.Register(ctx, validEntry("custom-cards")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if registry.Count() != 1 {
		t.Errorf("Count() = %d, want 1", registry.Count())
	}

	entries := registry.List()
	if len(entries) != 1 {
		t.Fatalf("len(List()) = %d, want 1", len(entries))
	}
	if entries[0].ID == "" {
		t.Error("registry should assign an ID on first registration")
	}
	if entries[0].RegisteredAt.IsZero() {
		t.Error("registry should stamp RegisteredAt on first registration")
	}
}

func TestRegistry_ReannounceKeepsIdentity(t *testing.T) {
	registry := NewRegistry(NewMockRepository())
	ctx := context.Background()

	if err := registry.Register(ctx, validEntry("custom-cards")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	first := registry.List()[0]

	updated := validEntry("custom-cards")
	updated.Version = "2.0.0"
	if err := registry.Register(ctx, updated); err != nil {
		t.Fatalf("re-Register() error = %v", err)
	}

	if registry.Count() != 1 {
		t.Fatalf("Count() = %d after re-announce, want 1", registry.Count())
	}
	second := registry.List()[0]
	if second.ID != first.ID {
		t.Errorf("ID changed on re-announce: %q -> %q", first.ID, second.ID)
	}
	if !second.RegisteredAt.Equal(first.RegisteredAt) {
		t.Error("RegisteredAt changed on re-announce")
	}
	if second.Version != "2.0.0" {
		t.Errorf("Version = %q, want 2.0.0", second.Version)
	}
}

func TestRegistry_RegisterValidation(t *testing.T) {
	registry := NewRegistry(NewMockRepository())
	ctx := context.Background()

	tests := []struct {
		name  string
		entry Entry
	}{
		{name: "missing name", entry: Entry{URL: "https://x.example/e.js", Version: "1"}},
		{name: "missing url", entry: Entry{Name: "x", Version: "1"}},
		{name: "relative url", entry: Entry{Name: "x", URL: "e.js", Version: "1"}},
		{name: "missing version", entry: Entry{Name: "x", URL: "https://x.example/e.js"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := registry.Register(ctx, tt.entry)
			if !errors.Is(err, ErrInvalidEntry) {
				t.Errorf("Register() error = %v, want ErrInvalidEntry", err)
			}
		})
	}

	if registry.Count() != 0 {
		t.Errorf("Count() = %d after invalid registrations, want 0", registry.Count())
	}
}

func TestRegistry_Subscribe(t *testing.T) {
	registry := NewRegistry(NewMockRepository())
	ctx := context.Background()

	ch := registry.Subscribe()
	defer registry.Unsubscribe(ch)

	if err := registry.Register(ctx, validEntry("custom-cards")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no change signal after Register()")
	}
}

func TestRegistry_RepositoryErrorDoesNotMutateCache(t *testing.T) {
	repo := NewMockRepository()
	repo.upsertErr = errors.New("disk full")
	registry := NewRegistry(repo)

	err := registry.Register(context.Background(), validEntry("custom-cards"))
	if err == nil {
		t.Fatal("Register() expected error from repository")
	}
	if registry.Count() != 0 {
		t.Errorf("Count() = %d after failed persist, want 0", registry.Count())
	}
}

func TestRegistry_ListIsSnapshot(t *testing.T) {
	registry := NewRegistry(NewMockRepository())
	ctx := context.Background()

	if err := registry.Register(ctx, validEntry("custom-cards")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	snapshot := registry.List()
	snapshot[0].Name = "mutated"

	if registry.List()[0].Name != "custom-cards" {
		t.Error("mutating a snapshot leaked into the registry cache")
	}
}
