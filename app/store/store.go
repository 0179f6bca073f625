// Package store is the document-store boundary: collections of schemaless
// documents queried by equality-conjunction filters. The core only ever
// talks to the Store interface; the in-memory adapter backs tests and
// single-process deployments.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Document is one schemaless record. Adapters assign the "id" field on
// insert when absent.
type Document = map[string]any

// Filter matches documents whose fields equal every listed value.
type Filter = map[string]any

// ErrNotFound is returned by FindOne when no document matches.
var ErrNotFound = errors.New("store: not found")

// Store is the document-store adapter contract.
type Store interface {
	Insert(ctx context.Context, collection string, doc Document) (Document, error)
	Find(ctx context.Context, collection string, filter Filter) ([]Document, error)
	FindOne(ctx context.Context, collection string, filter Filter) (Document, error)
	Update(ctx context.Context, collection string, filter Filter, set Document) (int, error)
	Delete(ctx context.Context, collection string, filter Filter) (int, error)
}

// ── Mapping helpers ──────────────────────────────────────────────────────────

// ToDoc converts a typed model into a Document via its JSON shape.
func ToDoc(v any) (Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("store: encode: %w", err)
	}
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("store: encode: %w", err)
	}
	return d, nil
}

// FromDoc converts a Document back into a typed model.
func FromDoc[T any](d Document) (T, error) {
	var v T
	b, err := json.Marshal(d)
	if err != nil {
		return v, fmt.Errorf("store: decode: %w", err)
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("store: decode: %w", err)
	}
	return v, nil
}

// SortByID orders docs by their "id" field for deterministic listings.
// Applied only when there is more than one row and every row carries the
// field; otherwise the input order is kept as-is.
func SortByID(docs []Document) {
	if len(docs) < 2 {
		return
	}
	for _, d := range docs {
		if _, ok := d["id"]; !ok {
			return
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return fmt.Sprint(docs[i]["id"]) < fmt.Sprint(docs[j]["id"])
	})
}
