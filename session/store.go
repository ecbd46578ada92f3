// Package session keeps an LRU of parser snapshots keyed by session id, so
// a client that reconnects mid-stream can resume from its last checkpoint
// instead of re-parsing from scratch.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"

	"github.com/jsonstream/jsonstream"
)

// defaultSize is deliberately small: sessions hold a whole buffered parser
// state, not a small cached value, so a conservative default is appropriate.
const defaultSize = 1024

// Store is a fixed-capacity LRU cache of *jsonstream.Parser[V] snapshots,
// built on github.com/hashicorp/golang-lru's ARC cache.
type Store[V any] struct {
	cache *lru.ARCCache
	mu    sync.Mutex
}

// NewStore creates a Store holding at most size sessions. size <= 0 uses
// defaultSize.
func NewStore[V any](size int) (*Store[V], error) {
	if size <= 0 {
		size = defaultSize
	}
	c, err := lru.NewARC(size)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	return &Store[V]{cache: c}, nil
}

// Put snapshots p and stores it under a freshly-generated session id. It
// returns the session id the caller should hand back to its client.
func (s *Store[V]) Put(p *jsonstream.Parser[V]) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := p.Snapshot()
	id := snap.ID()
	s.cache.Add(id, snap)
	return id
}

// Resume looks up the snapshot stored under id and returns an independent
// copy of it, so the caller can keep absorbing into it without disturbing
// the cached copy. ok is false if id is not present (evicted or unknown).
func (s *Store[V]) Resume(id uuid.UUID) (p *jsonstream.Parser[V], ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	snap := raw.(*jsonstream.Parser[V])
	return snap.Snapshot(), true
}

// Drop removes a session from the store, e.g. once a client signals it is
// done and will not reconnect.
func (s *Store[V]) Drop(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(id)
}

// Len reports the number of sessions currently cached.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}
