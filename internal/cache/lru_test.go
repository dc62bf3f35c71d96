package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestLRUCacheTTLBoundary(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := NewLRUCache[string](100, 60*time.Second, clock)

	cache.Set("key1", "value1")

	clock.Advance(59 * time.Second)
	if v, found := cache.Get("key1"); !found || v != "value1" {
		t.Fatalf("key1 should still be fresh, got %q found=%v", v, found)
	}

	// now - storedAt == ttl counts as stale
	clock.Advance(time.Second)
	if _, found := cache.Get("key1"); found {
		t.Fatal("key1 should have expired at exactly the TTL")
	}
	if cache.Size() != 0 {
		t.Fatalf("expired entry should be evicted on read, size=%d", cache.Size())
	}
}

func TestLRUCacheSetReplaces(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := NewLRUCache[string](100, time.Minute, clock)

	cache.Set("key", "old")
	clock.Advance(50 * time.Second)
	cache.Set("key", "new")
	clock.Advance(50 * time.Second)

	// The replacement restarts the window
	if v, found := cache.Get("key"); !found || v != "new" {
		t.Fatalf("expected fresh replacement, got %q found=%v", v, found)
	}
}

// TestLRUCacheEviction tests size-based eviction
func TestLRUCacheEviction(t *testing.T) {
	cache := NewLRUCache[string](3, time.Hour, nil)

	cache.Set("key1", "value1")
	cache.Set("key2", "value2")
	cache.Set("key3", "value3")
	cache.Set("key4", "value4") // Should evict key1

	if _, found := cache.Get("key1"); found {
		t.Error("key1 should have been evicted")
	}
	for _, k := range []string{"key2", "key3", "key4"} {
		if _, found := cache.Get(k); !found {
			t.Errorf("%s should still exist", k)
		}
	}
}

func TestLRUCacheUnbounded(t *testing.T) {
	cache := NewLRUCache[int](0, time.Hour, nil)
	for i := 0; i < 500; i++ {
		cache.Set(fmt.Sprintf("k%d", i), i)
	}
	if cache.Size() != 500 {
		t.Fatalf("expected 500 entries, got %d", cache.Size())
	}
}

func TestLRUCacheDeletePrefix(t *testing.T) {
	cache := NewLRUCache[string](100, time.Hour, nil)
	cache.Set(Key("dashboard", "alice", nil), "a1")
	cache.Set(Key("goals", "alice", nil), "a2")
	cache.Set(Key("dashboard", "alice2", nil), "b1")
	cache.Set(Key("dashboard", "bob", nil), "c1")

	removed := cache.DeletePrefix(UserPrefix("alice"))
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if _, found := cache.Get(Key("dashboard", "alice2", nil)); !found {
		t.Fatal("alice2 must not be affected by alice invalidation")
	}
	if cache.Size() != 2 {
		t.Fatalf("expected 2 remaining, got %d", cache.Size())
	}
}

// TestLRUCacheCleanExpired tests the cleanup mechanism
func TestLRUCacheCleanExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := NewLRUCache[string](100, 50*time.Millisecond, clock)

	cache.Set("key1", "value1")
	cache.Set("key2", "value2")
	clock.Advance(60 * time.Millisecond)
	cache.Set("key3", "value3")

	if removed := cache.CleanExpired(); removed != 2 {
		t.Errorf("Expected 2 items cleaned, got %d", removed)
	}
	if _, found := cache.Get("key3"); !found {
		t.Error("key3 should survive cleanup")
	}
}

func TestLRUCacheConcurrentAccess(t *testing.T) {
	cache := NewLRUCache[int](50, time.Minute, nil)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%20)
				cache.Set(key, g)
				cache.Get(key)
				if i%50 == 0 {
					cache.DeletePrefix("k1")
				}
			}
		}(g)
	}
	wg.Wait()

	if cache.Size() > 50 {
		t.Fatalf("size %d exceeds bound", cache.Size())
	}
}

// BenchmarkLRUCache benchmarks cache performance
func BenchmarkLRUCache(b *testing.B) {
	cache := NewLRUCache[string](1000, time.Hour, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := "bench-key"
		if i%10 == 0 {
			cache.Set(key, "value")
		} else {
			cache.Get(key)
		}
	}
}
