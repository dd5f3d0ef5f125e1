package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredStore reads through a memory L1 in front of a shared L2 (usually Redis).
type LayeredStore struct {
	l1  *MemoryStore
	l2  Store
	ttl time.Duration
}

// NewLayeredStore keeps L1 entries for at most l1TTL.
func NewLayeredStore(l1 *MemoryStore, l2 Store, l1TTL time.Duration) *LayeredStore {
	return &LayeredStore{l1: l1, l2: l2, ttl: l1TTL}
}

func (s *LayeredStore) Get(ctx context.Context, key string) ([]byte, error) {
	if v, err := s.l1.Get(ctx, key); err == nil {
		return v, nil
	}
	v, err := s.l2.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	_ = s.l1.Set(ctx, key, v, s.ttl)
	return v, nil
}

// Set writes through L2 first so L1 never holds a value L2 rejected.
func (s *LayeredStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.l2.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	l1TTL := s.ttl
	if ttl > 0 && ttl < l1TTL {
		l1TTL = ttl
	}
	return s.l1.Set(ctx, key, value, l1TTL)
}

func (s *LayeredStore) Delete(ctx context.Context, keys ...string) error {
	_ = s.l1.Delete(ctx, keys...)
	return s.l2.Delete(ctx, keys...)
}

func (s *LayeredStore) Close() error {
	return errors.Join(s.l1.Close(), s.l2.Close())
}
