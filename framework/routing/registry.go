package routing

import (
	"net/http"
	"strings"
)

// ── Middleware tags ──────────────────────────────────────────────────────────

// Tag is a symbolic marker controlling which gate logic runs before a
// handler.
type Tag string

const (
	// TagAuth requires the request to pass the authorization check.
	TagAuth Tag = "auth"
	// TagNoAuth disables the authorization check for a route even when the
	// controller default carries TagAuth.
	TagNoAuth Tag = "no-auth"
)

// RequiresAuth reports whether an effective tag list demands the auth gate.
// An explicit TagNoAuth always wins over TagAuth.
func RequiresAuth(tags []Tag) bool {
	auth := false
	for _, t := range tags {
		switch t {
		case TagNoAuth:
			return false
		case TagAuth:
			auth = true
		}
	}
	return auth
}

// ── Descriptors ──────────────────────────────────────────────────────────────

// HandlerFunc is a route handler. A returned error is converted into an
// error envelope by the dispatcher; handlers never write error responses
// themselves.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// RouteDescriptor is one declared endpoint of a controller.
type RouteDescriptor struct {
	Method  string
	Path    string
	Tags    []Tag
	Handler HandlerFunc
}

// ControllerDescriptor groups the routes declared for one controller type
// under a shared path prefix and default tag list. The route list is
// append-only and finalized before the dispatcher reads it.
type ControllerDescriptor struct {
	Token  string
	Prefix string
	Tags   []Tag
	Routes []RouteDescriptor
}

// EffectiveTags returns the controller defaults followed by the route's own
// tags, in declared order.
func (d *ControllerDescriptor) EffectiveTags(rt RouteDescriptor) []Tag {
	out := make([]Tag, 0, len(d.Tags)+len(rt.Tags))
	out = append(out, d.Tags...)
	out = append(out, rt.Tags...)
	return out
}

// ── Registration ─────────────────────────────────────────────────────────────

// Registry accumulates controller descriptors in declaration order.
type Registry struct {
	controllers []*ControllerDescriptor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Controllers returns the declared controllers in declaration order.
func (r *Registry) Controllers() []*ControllerDescriptor {
	return r.controllers
}

// ControllerOption customizes a controller declaration.
type ControllerOption func(*ControllerDescriptor)

// WithPrefix overrides the default path prefix derived from the token.
func WithPrefix(prefix string) ControllerOption {
	return func(d *ControllerDescriptor) { d.Prefix = prefix }
}

// WithTags sets the controller's default middleware tags.
func WithTags(tags ...Tag) ControllerOption {
	return func(d *ControllerDescriptor) { d.Tags = tags }
}

// Controller declares a controller. Without WithPrefix the prefix is the
// lowercased token with a trailing "Controller" stripped, e.g.
// "UsersController" → "/users". The prefix is normalized to exactly one
// leading slash with doubled slashes collapsed.
func (r *Registry) Controller(token string, opts ...ControllerOption) *ControllerDescriptor {
	d := &ControllerDescriptor{Token: token}
	for _, opt := range opts {
		opt(d)
	}
	if d.Prefix == "" {
		d.Prefix = defaultPrefix(token)
	}
	d.Prefix = NormalizePath(d.Prefix)
	r.controllers = append(r.controllers, d)
	return d
}

// Get declares a GET route. An empty path means the prefix root.
func (d *ControllerDescriptor) Get(path string, h HandlerFunc, tags ...Tag) {
	d.append(http.MethodGet, path, h, tags)
}

// Post declares a POST route.
func (d *ControllerDescriptor) Post(path string, h HandlerFunc, tags ...Tag) {
	d.append(http.MethodPost, path, h, tags)
}

// Put declares a PUT route.
func (d *ControllerDescriptor) Put(path string, h HandlerFunc, tags ...Tag) {
	d.append(http.MethodPut, path, h, tags)
}

// Delete declares a DELETE route.
func (d *ControllerDescriptor) Delete(path string, h HandlerFunc, tags ...Tag) {
	d.append(http.MethodDelete, path, h, tags)
}

func (d *ControllerDescriptor) append(method, path string, h HandlerFunc, tags []Tag) {
	if path == "" {
		path = "/"
	}
	d.Routes = append(d.Routes, RouteDescriptor{
		Method:  method,
		Path:    NormalizePath(path),
		Tags:    tags,
		Handler: h,
	})
}

// ── Path helpers ─────────────────────────────────────────────────────────────

// NormalizePath forces exactly one leading slash and collapses doubled
// slashes.
func NormalizePath(p string) string {
	p = "/" + strings.TrimLeft(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// JoinPath glues a prefix and a route path, slash-collapsed. A route at "/"
// lands on the prefix root.
func JoinPath(prefix, path string) string {
	return NormalizePath(prefix + "/" + path)
}

func defaultPrefix(token string) string {
	name := token
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "Controller")
	name = strings.TrimSuffix(name, "controller")
	return strings.ToLower(name)
}
