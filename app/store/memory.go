package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is the in-memory document store adapter. Documents are copied on
// the way in and out so callers never share mutable state with the store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]Document // collection → id → document
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]Document)}
}

// Insert stores a copy of doc, assigning a uuid "id" when absent, and
// returns the stored document.
func (m *Memory) Insert(_ context.Context, collection string, doc Document) (Document, error) {
	d := clone(doc)
	id, ok := d["id"].(string)
	if !ok || id == "" {
		id = uuid.NewString()
		d["id"] = id
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	col := m.data[collection]
	if col == nil {
		col = make(map[string]Document)
		m.data[collection] = col
	}
	col[id] = d
	return clone(d), nil
}

// Find returns copies of every document matching filter. A nil or empty
// filter matches the whole collection.
func (m *Memory) Find(_ context.Context, collection string, filter Filter) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Document
	for _, d := range m.data[collection] {
		if matches(d, filter) {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

// FindOne returns a copy of one matching document, or ErrNotFound.
func (m *Memory) FindOne(ctx context.Context, collection string, filter Filter) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.data[collection] {
		if matches(d, filter) {
			return clone(d), nil
		}
	}
	return nil, ErrNotFound
}

// Update merges set into every matching document and reports how many
// matched. The "id" field is never overwritten.
func (m *Memory) Update(_ context.Context, collection string, filter Filter, set Document) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, d := range m.data[collection] {
		if !matches(d, filter) {
			continue
		}
		for k, v := range set {
			if k == "id" {
				continue
			}
			d[k] = v
		}
		m.data[collection][id] = d
		n++
	}
	return n, nil
}

// Delete removes every matching document and reports how many matched.
func (m *Memory) Delete(_ context.Context, collection string, filter Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, d := range m.data[collection] {
		if matches(d, filter) {
			delete(m.data[collection], id)
			n++
		}
	}
	return n, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func matches(d Document, f Filter) bool {
	for k, want := range f {
		if d[k] != want {
			return false
		}
	}
	return true
}

func clone(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
