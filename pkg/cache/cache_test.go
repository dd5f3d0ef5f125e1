package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore(WithMemoryCleanup(0))
	defer ms.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ms.now = func() time.Time { return now }

	if _, err := ms.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("want miss, got %v", err)
	}
	_ = ms.Set(ctx, "k", []byte("v"), time.Minute)
	if v, err := ms.Get(ctx, "k"); err != nil || string(v) != "v" {
		t.Fatalf("want hit, got %q %v", v, err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := ms.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expired key should miss, got %v", err)
	}
	if ms.Len() != 0 {
		t.Fatalf("expired key should be dropped on read")
	}
}

func TestMemoryStoreEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore(WithMemoryMaxEntries(2), WithMemoryCleanup(0))
	defer ms.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ms.now = func() time.Time { now = now.Add(time.Second); return now }

	_ = ms.Set(ctx, "a", []byte("1"), 0)
	_ = ms.Set(ctx, "b", []byte("2"), 0)
	_, _ = ms.Get(ctx, "a")
	_ = ms.Set(ctx, "c", []byte("3"), 0)

	if _, err := ms.Get(ctx, "b"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("b was least recently used and should be evicted")
	}
	if _, err := ms.Get(ctx, "a"); err != nil {
		t.Fatalf("a should survive: %v", err)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore(WithMemoryCleanup(0))
	defer ms.Close()

	type point struct{ X, Y int }
	if err := SetJSON(ctx, ms, Key("p", "1"), point{1, 2}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := GetJSON[point](ctx, ms, "p:1")
	if err != nil || got != (point{1, 2}) {
		t.Fatalf("unexpected %+v %v", got, err)
	}
	_ = ms.Set(ctx, "bad", []byte("{"), time.Minute)
	if _, err := GetJSON[point](ctx, ms, "bad"); err == nil {
		t.Fatalf("want decode error")
	}
}

func TestLayeredStoreReadsThrough(t *testing.T) {
	ctx := context.Background()
	l1 := NewMemoryStore(WithMemoryCleanup(0))
	l2 := NewMemoryStore(WithMemoryCleanup(0))
	s := NewLayeredStore(l1, l2, time.Minute)
	defer s.Close()

	_ = l2.Set(ctx, "k", []byte("v"), time.Hour)
	if v, err := s.Get(ctx, "k"); err != nil || string(v) != "v" {
		t.Fatalf("want read-through hit, got %q %v", v, err)
	}
	if _, err := l1.Get(ctx, "k"); err != nil {
		t.Fatalf("L1 should be populated: %v", err)
	}
	_ = s.Delete(ctx, "k")
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("delete should clear both layers")
	}
}
