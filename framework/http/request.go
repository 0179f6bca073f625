package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Auth headers carried by every authenticated request. The values are
// validated against the session store by the dispatcher's auth gate.
const (
	HeaderAuthUser  = "X-Auth-User"
	HeaderAuthToken = "X-Auth-Token"
)

// Request wraps *http.Request with input helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// ── Body ─────────────────────────────────────────────────────────────────────

// Body reads the full request body and restores it so later readers still
// see it. An empty body yields an empty slice.
func (req *Request) Body() ([]byte, error) {
	if req.raw.Body == nil {
		return nil, nil
	}
	b, err := io.ReadAll(req.raw.Body)
	if err != nil {
		return nil, err
	}
	_ = req.raw.Body.Close()
	req.raw.Body = io.NopCloser(bytes.NewReader(b))
	return b, nil
}

// Bind decodes the JSON request body into v.
func (req *Request) Bind(v any) error {
	b, err := req.Body()
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return BadRequestf("empty request body")
	}
	if err := json.Unmarshal(b, v); err != nil {
		return BadRequestf("malformed request body: %v", err)
	}
	return nil
}

// ── Input helpers ────────────────────────────────────────────────────────────

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// RouteParam returns a URL route parameter (chi).
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// RouteParams returns all URL route parameters of the matched route.
func (req *Request) RouteParams() map[string]string {
	rctx := chi.RouteContext(req.raw.Context())
	if rctx == nil {
		return nil
	}
	out := make(map[string]string, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		if k == "*" {
			continue
		}
		out[k] = rctx.URLParams.Values[i]
	}
	return out
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// AuthUser returns the identity reference header.
func (req *Request) AuthUser() string { return req.Header(HeaderAuthUser) }

// AuthToken returns the opaque session token header.
func (req *Request) AuthToken() string { return req.Header(HeaderAuthToken) }

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// Path returns the URL path.
func (req *Request) Path() string { return req.raw.URL.Path }

// IsJSON returns true when the request carries or expects JSON.
func (req *Request) IsJSON() bool {
	return strings.Contains(req.raw.Header.Get("Accept"), "application/json") ||
		strings.Contains(req.raw.Header.Get("Content-Type"), "application/json")
}
