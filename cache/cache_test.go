package cache

import (
	"context"
	"testing"
	"time"
)

// A nil *Cache is the normal state when no redis address is configured; every
// method must be a harmless no-op on it.
func TestNilCacheIsNoOp(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var dest []string
	if c.Get(ctx, "some-key", &dest) {
		t.Error("nil cache reported a hit")
	}
	if dest != nil {
		t.Errorf("nil cache wrote into dest: %v", dest)
	}

	c.Set(ctx, "some-key", []string{"a"}, time.Minute)
	c.Invalidate(ctx, "some-key", "another-key")
}

func TestNewWithoutAddress(t *testing.T) {
	if c := New(""); c != nil {
		t.Errorf("expected nil cache for empty address, got %+v", c)
	}
}
