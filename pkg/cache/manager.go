// Package cache classifies cached computation records by age and governs
// writes to the shared key-value store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yedamo-ai/yedamo/pkg/models"
)

const (
	// TTL is how long the store keeps an entry.
	TTL = 1800 * time.Second
	// RefreshThreshold is the span before expiry in which an entry is stale.
	RefreshThreshold = 300 * time.Second
)

// Store is the key-value contract of the cache backend. Get reports a
// missing key as ok=false with a nil error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Pinger is implemented by stores that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Freshness is the classification of a cache lookup.
type Freshness int

const (
	Absent Freshness = iota
	Fresh
	Stale
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "absent"
	}
}

// Lookup is the result of Manager.Lookup. Entry is zero when Absent.
type Lookup struct {
	Freshness Freshness
	Entry     models.CacheEntry
}

// Classify maps an entry's age to its freshness.
func Classify(age time.Duration) Freshness {
	switch {
	case age >= TTL:
		return Absent
	case age >= TTL-RefreshThreshold:
		return Stale
	default:
		return Fresh
	}
}

// DeriveKey builds the timestamp-based key for a subject. Two calls in the
// same second for the same name collide; the later write wins.
func DeriveKey(now time.Time, name string) string {
	if name == "" {
		name = "anonymous"
	}
	return fmt.Sprintf("%d_%s", now.Unix(), name)
}

// Manager reads and writes CacheEntry envelopes through a Store. A nil
// store disables caching. Backend failures are logged and never returned.
type Manager struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewManager creates a Manager over store.
func NewManager(store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, logger: logger, now: time.Now}
}

// Enabled reports whether a backend is configured.
func (m *Manager) Enabled() bool { return m.store != nil }

// Now returns the manager's clock reading.
func (m *Manager) Now() time.Time { return m.now() }

// Available reports whether the backend answers a ping. Stores without a
// Ping method are assumed reachable.
func (m *Manager) Available(ctx context.Context) bool {
	if m.store == nil {
		return false
	}
	p, ok := m.store.(Pinger)
	if !ok {
		return true
	}
	return p.Ping(ctx) == nil
}

// Lookup fetches key and classifies it against the stored creation time.
func (m *Manager) Lookup(ctx context.Context, key string) Lookup {
	if m.store == nil {
		return Lookup{Freshness: Absent}
	}

	data, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
		return Lookup{Freshness: Absent}
	}
	if !ok {
		return Lookup{Freshness: Absent}
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		m.logger.Warn("cache entry undecodable", zap.String("key", key), zap.Error(err))
		return Lookup{Freshness: Absent}
	}

	age := m.now().Sub(time.Unix(entry.CreatedAt, 0))
	f := Classify(age)
	if f == Absent {
		return Lookup{Freshness: Absent}
	}
	if entry.Key == "" {
		entry.Key = key
	}
	return Lookup{Freshness: f, Entry: entry}
}

// Store writes rec under key with the fixed TTL, replacing any prior entry.
// The returned envelope is what was (or would have been) written.
func (m *Manager) Store(ctx context.Context, key string, rec models.Record) models.CacheEntry {
	entry := models.CacheEntry{
		Key:        key,
		CreatedAt:  m.now().Unix(),
		TTLSeconds: int64(TTL / time.Second),
		Payload:    rec,
	}
	if m.store == nil {
		return entry
	}

	data, err := json.Marshal(entry)
	if err != nil {
		m.logger.Error("cache entry encode failed", zap.String("key", key), zap.Error(err))
		return entry
	}
	if err := m.store.Set(ctx, key, data, TTL); err != nil {
		m.logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
		return entry
	}
	m.logger.Debug("cache entry stored", zap.String("key", key))
	return entry
}
