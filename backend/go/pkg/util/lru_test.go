package util

import (
	"testing"
	"time"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewLRU[string, int](CacheConfig{Capacity: 2})
	if err != nil {
		t.Fatalf("NewLRU() error = %v", err)
	}
	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Put("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Errorf("expected b to be evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("expected a=1, got %d %v", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("expected len 2, got %d", c.Len())
	}
}

func TestLRU_TTL(t *testing.T) {
	now := time.Unix(0, 0)
	c, _ := NewLRU[string, bool](CacheConfig{Capacity: 4, TTL: time.Minute, Now: func() time.Time { return now }})
	c.Put("k", true)

	now = now.Add(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("expected entry before TTL")
	}
	now = now.Add(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to expire")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed on access")
	}
}

func TestLRU_GetOrPutCreatesOnce(t *testing.T) {
	c, _ := NewLRU[string, int](CacheConfig{Capacity: 4})
	calls := 0
	create := func() int { calls++; return calls }

	if v := c.GetOrPut("x", create); v != 1 {
		t.Errorf("expected 1, got %d", v)
	}
	if v := c.GetOrPut("x", create); v != 1 {
		t.Errorf("expected cached 1, got %d", v)
	}
	if calls != 1 {
		t.Errorf("expected one create call, got %d", calls)
	}
}

func TestLRU_RemoveAndPurge(t *testing.T) {
	c, _ := NewLRU[int, int](CacheConfig{Capacity: 4})
	c.Put(1, 1)
	c.Put(2, 2)
	c.Remove(1)
	if _, ok := c.Get(1); ok {
		t.Errorf("expected 1 removed")
	}
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Purge")
	}
}

func TestNewLRU_RequiresCapacity(t *testing.T) {
	if _, err := NewLRU[string, int](CacheConfig{}); err == nil {
		t.Fatalf("expected error for zero capacity")
	}
}
