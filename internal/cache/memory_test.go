package cache

import (
	"testing"
	"time"
)

func TestMemoryCacheGetSet(t *testing.T) {
	c := NewMemoryCache(2)
	if err := c.Set("a", "1", time.Minute); err != nil {
		t.Fatal(err)
	}
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}
}

func TestMemoryCacheExpires(t *testing.T) {
	c := NewMemoryCache(2)
	_ = c.Set("a", "1", -time.Second)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(2)
	_ = c.Set("a", "1", time.Minute)
	_ = c.Set("b", "2", time.Minute)
	c.Get("a") // promote a
	_ = c.Set("c", "3", time.Minute)

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be present")
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache(2)
	_ = c.Set("a", "1", time.Minute)
	_ = c.Clear()
	if _, ok := c.Get("a"); ok {
		t.Error("expected empty cache after Clear")
	}
}
