// cmd/periksa/cache_test.go
package main

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	cache := NewCache(time.Minute, 10)

	cache.Set("kunci", "nilai")
	got, ok := cache.Get("kunci")
	if !ok || got.(string) != "nilai" {
		t.Fatalf("expected hit with %q, got %v (%v)", "nilai", got, ok)
	}

	if _, ok := cache.Get("tidak-ada"); ok {
		t.Error("unknown key should miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(time.Minute, 10)

	cache.SetWithTTL("kunci", 1, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, ok := cache.Get("kunci"); ok {
		t.Fatal("expired entry should read as absent")
	}
}

func TestCacheEvictsOldest(t *testing.T) {
	cache := NewCache(time.Minute, 2)

	cache.Set("a", 1)
	time.Sleep(2 * time.Millisecond)
	cache.Set("b", 2)
	time.Sleep(2 * time.Millisecond)
	cache.Set("c", 3)

	if _, ok := cache.Get("a"); ok {
		t.Error("oldest entry should be evicted")
	}
	if _, ok := cache.Get("b"); !ok {
		t.Error("newer entry should survive")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Error("newest entry should survive")
	}
	if cache.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", cache.Len())
	}
}

func TestCacheDelete(t *testing.T) {
	cache := NewCache(time.Minute, 10)

	cache.Set("kunci", 1)
	cache.Delete("kunci")
	if _, ok := cache.Get("kunci"); ok {
		t.Fatal("deleted entry should miss")
	}
}
