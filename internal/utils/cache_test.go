package utils

import (
	"testing"
	"time"
)

func TestExpiringLRU_Expiry(t *testing.T) {
	c := NewExpiringLRU[string](4, 20*time.Millisecond)
	c.Set("a", "1")

	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get = %q, %v", v, ok)
	}

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Error("expected entry to expire")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be evicted, Len = %d", c.Len())
	}
}

func TestExpiringLRU_Eviction(t *testing.T) {
	c := NewExpiringLRU[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should be evicted")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestCacheDeletePrefix(t *testing.T) {
	InitCache()
	CacheSet("toprated:1:10", 1, time.Minute)
	CacheSet("toprated:2:10", 2, time.Minute)
	CacheSet("genres", 3, time.Minute)

	CacheDeletePrefix("toprated:")

	if _, ok := CacheGet("toprated:1:10"); ok {
		t.Error("prefixed key should be removed")
	}
	if _, ok := CacheGet("genres"); !ok {
		t.Error("other keys must survive")
	}
}
