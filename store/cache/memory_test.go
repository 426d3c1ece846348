package cache

import (
	"testing"
	"time"
)

func newTestCache(ttl time.Duration, maxItems int) *Cache {
	return New(Config{
		DefaultTTL:      ttl,
		CleanupInterval: time.Hour, // keep the sweeper out of the way
		MaxItems:        maxItems,
	})
}

func TestCacheSetGet(t *testing.T) {
	c := newTestCache(time.Minute, 0)
	defer c.Close()

	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if v.(int) != 1 {
		t.Errorf("expected 1, got %v", v)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected missing key to return false")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := newTestCache(5*time.Millisecond, 0)
	defer c.Close()

	c.Set("a", 1)
	time.Sleep(10 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Error("expected entry to be expired")
	}
}

func TestCacheDelete(t *testing.T) {
	evicted := map[string]any{}
	c := New(Config{
		DefaultTTL:      time.Minute,
		CleanupInterval: time.Hour,
		OnEviction:      func(key string, value any) { evicted[key] = value },
	})
	defer c.Close()

	c.Set("a", 1)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected deleted key to be gone")
	}
	if evicted["a"] != 1 {
		t.Errorf("expected eviction callback for a, got %v", evicted)
	}
}

func TestCacheMaxItems(t *testing.T) {
	c := newTestCache(time.Minute, 2)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if got := c.Len(); got != 2 {
		t.Errorf("expected 2 items after eviction, got %d", got)
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected newest entry to survive eviction")
	}
}
