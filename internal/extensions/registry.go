package extensions

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// notifyBufferSize is the per-subscriber change notification buffer.
// A full buffer drops the notification; subscribers re-read the list
// anyway, so a coalesced signal is sufficient.
const notifyBufferSize = 4

// Registry tracks legacy UI extensions announced by third-party code.
//
// It wraps a Repository and adds an in-memory cache plus change
// subscription. Registrations arrive asynchronously, at any time after
// startup; readers take snapshots and must tolerate the list growing
// under them.
//
// All public methods are thread-safe.
type Registry struct {
	repo Repository

	mu    sync.RWMutex
	cache map[string]*Entry // Cached entries by name

	subMu       sync.Mutex
	subscribers map[chan struct{}]struct{}

	logger Logger
}

// NewRegistry creates a new extension registry.
// The repository is used for persistence; the registry adds caching
// and change notification.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:        repo,
		cache:       make(map[string]*Entry),
		subscribers: make(map[chan struct{}]struct{}),
		logger:      noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all extensions from the repository into the cache.
// This should be called on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	entries, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading extensions: %w", err)
	}

	r.mu.Lock()
	r.cache = make(map[string]*Entry, len(entries))
	for i := range entries {
		e := entries[i]
		r.cache[e.Name] = &e
	}
	r.mu.Unlock()

	r.logger.Info("extension cache refreshed", "count", len(entries))
	return nil
}

// Register records an extension announcement.
//
// A new name gets an ID and registration timestamp; a re-announced name
// keeps both and updates URL/version. Subscribers are notified after
// the cache reflects the change.
func (r *Registry) Register(ctx context.Context, entry Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	if existing, ok := r.cache[entry.Name]; ok {
		entry.ID = existing.ID
		entry.RegisteredAt = existing.RegisteredAt
	} else {
		entry.ID = uuid.NewString()
		entry.RegisteredAt = time.Now().UTC()
	}
	r.mu.Unlock()

	if err := r.repo.Upsert(ctx, &entry); err != nil {
		return fmt.Errorf("persisting extension: %w", err)
	}

	r.mu.Lock()
	r.cache[entry.Name] = &entry
	count := len(r.cache)
	r.mu.Unlock()

	r.logger.Info("legacy extension registered",
		"name", entry.Name,
		"version", entry.Version,
		"total", count,
	)

	r.notify()
	return nil
}

// List returns a snapshot of all registered extensions, ordered by
// registration time. The returned entries are copies; callers can
// safely hold them across further registrations.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	entries := make([]Entry, 0, len(r.cache))
	for _, e := range r.cache {
		entries = append(entries, *e)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RegisteredAt.Equal(entries[j].RegisteredAt) {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].RegisteredAt.Before(entries[j].RegisteredAt)
	})
	return entries
}

// Count returns the number of registered extensions.
// This is the cheap accessor the panel's delayed re-check polls.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// Subscribe returns a channel that receives a signal whenever the
// registry changes. The channel is buffered and coalescing: a slow
// subscriber misses intermediate signals, never the fact of change.
func (r *Registry) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, notifyBufferSize)
	r.subMu.Lock()
	r.subscribers[ch] = struct{}{}
	r.subMu.Unlock()
	return ch
}

// Unsubscribe removes a subscription obtained from Subscribe.
func (r *Registry) Unsubscribe(ch <-chan struct{}) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	for sub := range r.subscribers {
		if sub == ch {
			delete(r.subscribers, sub)
			close(sub)
			return
		}
	}
}

// notify signals all subscribers without blocking on any of them.
func (r *Registry) notify() {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	for sub := range r.subscribers {
		select {
		case sub <- struct{}{}:
		default:
			// Subscriber buffer full, signal already pending
		}
	}
}
