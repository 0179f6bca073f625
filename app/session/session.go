// Package session is the key-value session/token store boundary: a token
// maps to the identity it was minted for, with a TTL.
package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("session: not found")

// Store is the session store adapter contract.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ── In-memory adapter ────────────────────────────────────────────────────────

type memEntry struct {
	value string
	exp   time.Time // zero => no TTL
}

// Memory is the in-process session store.
type Memory struct {
	mu sync.Mutex
	m  map[string]memEntry
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory session store.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]memEntry)}
}

func (s *Memory) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[key]
	if !ok {
		return "", ErrNotFound
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(s.m, key)
		return "", ErrNotFound
	}
	return e.value, nil
}

func (s *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.m[key] = memEntry{value: value, exp: exp}
	s.mu.Unlock()
	return nil
}

func (s *Memory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}
