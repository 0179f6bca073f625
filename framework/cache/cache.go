package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// DefaultTTL applies when Options.TTL is zero.
const DefaultTTL = time.Minute

// Loader produces fresh data for a cache key.
type Loader func(ctx context.Context) (any, error)

// Entry is one cached load: the request-shape key that produced it, its
// expiry instant, the loaded payload and the payload's content checksum.
type Entry struct {
	Key       string
	ExpiresAt time.Time
	Payload   any
	Checksum  string
}

// Result is what an endpoint serves for one lookup. When NotModified is
// set the client already holds the current content and gets no payload.
type Result struct {
	Payload     any
	Checksum    string
	NotModified bool
}

// Options configure a Cache.
type Options struct {
	// TTL is how long an entry stays fresh. Zero means DefaultTTL.
	TTL time.Duration

	// Disabled bypasses caching entirely: every lookup runs the loader
	// and nothing is stored or conditionally short-circuited.
	Disabled bool

	Logger *zap.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Cache is a per-endpoint store of loaded data keyed by request shape.
// Each controller owns its own Cache; there is no cross-instance sharing.
type Cache struct {
	ttl      time.Duration
	disabled bool
	log      *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*Entry
}

// New creates a Cache.
func New(opts Options) *Cache {
	c := &Cache{
		ttl:      opts.TTL,
		disabled: opts.Disabled,
		log:      opts.Logger,
		now:      opts.Now,
		entries:  make(map[string]*Entry),
	}
	if c.ttl == 0 {
		c.ttl = DefaultTTL
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// ── Lookup ───────────────────────────────────────────────────────────────────

// Fetch serves one listing request:
//
//  1. sweep every expired entry (the looked-up key is refreshed in place
//     instead of dropped)
//  2. on a miss, run the loader and store payload, checksum and expiry
//  3. on an expired hit, re-run the loader and update the entry's slot
//  4. on a fresh hit, reuse as-is
//  5. if clientSum matches the settled entry's checksum, answer NotModified
//     with no payload; otherwise answer the payload plus its checksum
//
// With caching disabled the loader always runs and nothing is stored or
// compared. Two concurrent refreshes of one expired key may both run the
// loader; the last write wins, which is fine because the client-visible
// content is settled by checksum, not by which load landed.
func (c *Cache) Fetch(ctx context.Context, key, clientSum string, load Loader) (*Result, error) {
	if c.disabled {
		payload, err := load(ctx)
		if err != nil {
			return nil, err
		}
		sum, err := Checksum(payload)
		if err != nil {
			return nil, err
		}
		return &Result{Payload: payload, Checksum: sum}, nil
	}

	now := c.now()
	c.sweep(now, key)

	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()

	switch {
	case !ok:
		payload, err := load(ctx)
		if err != nil {
			return nil, err
		}
		sum, err := Checksum(payload)
		if err != nil {
			return nil, err
		}
		e = &Entry{Key: key, ExpiresAt: now.Add(c.ttl), Payload: payload, Checksum: sum}
		c.mu.Lock()
		c.entries[key] = e
		c.mu.Unlock()
		c.log.Debug("cache miss", zap.String("key", key))

	case !e.ExpiresAt.After(now):
		payload, err := load(ctx)
		if err != nil {
			return nil, err
		}
		sum, err := Checksum(payload)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		e.Payload = payload
		e.Checksum = sum
		e.ExpiresAt = now.Add(c.ttl)
		c.mu.Unlock()
		c.log.Debug("cache refresh", zap.String("key", key))

	default:
		c.log.Debug("cache hit", zap.String("key", key))
	}

	if clientSum != "" && clientSum == e.Checksum {
		return &Result{Checksum: e.Checksum, NotModified: true}, nil
	}
	return &Result{Payload: e.Payload, Checksum: e.Checksum}, nil
}

// Flush drops every entry. Mutating endpoints call this unconditionally
// after a successful write; there is no per-key invalidation.
func (c *Cache) Flush() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]*Entry)
	c.mu.Unlock()
	if n > 0 {
		c.log.Debug("cache flushed", zap.Int("entries", n))
	}
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// sweep drops expired entries, except keep, whose slot is refreshed in
// place by the caller.
func (c *Cache) sweep(now time.Time, keep string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if k != keep && !e.ExpiresAt.After(now) {
			delete(c.entries, k)
		}
	}
}

// ── Keys & checksums ─────────────────────────────────────────────────────────

// Key builds the deterministic cache key for a request shape: path, route
// parameters (sorted) and body.
func Key(path string, params map[string]string, body []byte) string {
	var sb strings.Builder
	sb.WriteString(path)
	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteByte('|')
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(params[k])
		}
	}
	sb.WriteByte('|')
	sb.Write(body)
	return fmt.Sprintf("%016x", xxhash.Sum64String(sb.String()))
}

// Checksum hashes payload content. Two payloads with equal content always
// produce equal checksums, independent of the cache key they live under.
func Checksum(payload any) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("cache: checksum: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(b)), nil
}
