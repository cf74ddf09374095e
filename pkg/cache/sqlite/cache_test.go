package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cache_test.db")
	c, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSetAndGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "1757137772_김다롬", []byte(`{"data":"x"}`), time.Hour); err != nil {
		t.Fatal(err)
	}

	data, ok, err := c.Get(ctx, "1757137772_김다롬")
	if err != nil || !ok {
		t.Fatalf("expected cache hit, got ok=%v err=%v", ok, err)
	}
	if string(data) != `{"data":"x"}` {
		t.Errorf("unexpected value: %s", data)
	}

	_, ok, err = c.Get(ctx, "other")
	if err != nil || ok {
		t.Errorf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestSetOverwrites(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("first"), time.Hour)
	_ = c.Set(ctx, "k", []byte("second"), time.Hour)

	data, _, _ := c.Get(ctx, "k")
	if string(data) != "second" {
		t.Errorf("expected last write to win, got %s", data)
	}
}

func TestTTLExpiration(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	base := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return base }

	if err := c.Set(ctx, "k", []byte("data"), 1800*time.Second); err != nil {
		t.Fatal(err)
	}

	c.now = func() time.Time { return base.Add(1799 * time.Second) }
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Error("expected hit before TTL")
	}

	c.now = func() time.Time { return base.Add(1800 * time.Second) }
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expected miss at TTL")
	}
}

func TestStats(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "h1", []byte("data"), time.Hour)
	c.Get(ctx, "h1") // hit
	c.Get(ctx, "h2") // miss

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 1 {
		t.Errorf("expected 1 entry, got %d", stats.Entries)
	}
	if stats.Hits != 1 {
		t.Errorf("expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", stats.Misses)
	}
}

func TestClear(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	base := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return base }

	_ = c.Set(ctx, "old", []byte("data"), time.Minute)
	_ = c.Set(ctx, "new", []byte("data"), time.Hour)

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	if err := c.Clear(ctx, true); err != nil {
		t.Fatal(err)
	}
	stats, _ := c.Stats(ctx)
	if stats.Entries != 1 {
		t.Errorf("expected 1 entry after clearing expired, got %d", stats.Entries)
	}

	if err := c.Clear(ctx, false); err != nil {
		t.Fatal(err)
	}
	stats, _ = c.Stats(ctx)
	if stats.Entries != 0 {
		t.Errorf("expected 0 entries after clear, got %d", stats.Entries)
	}
}

func TestPing(t *testing.T) {
	c := newTestCache(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
}
