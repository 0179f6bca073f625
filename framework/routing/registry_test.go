package routing_test

import (
	"net/http"
	"testing"

	"github.com/jmillet/stockroom/framework/routing"
)

func noopHandler(w http.ResponseWriter, r *http.Request) error { return nil }

// ── Prefixes ─────────────────────────────────────────────────────────────────

func TestRegistry_DefaultPrefixFromToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"UsersController", "/users"},
		{"ItemsController", "/items"},
		{"controllers.ItemsController", "/items"},
		{"Auth", "/auth"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			r := routing.NewRegistry()
			d := r.Controller(tt.token)
			if d.Prefix != tt.want {
				t.Errorf("prefix = %q, want %q", d.Prefix, tt.want)
			}
		})
	}
}

func TestRegistry_PrefixNormalized(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"items", "/items"},
		{"/items", "/items"},
		{"//items", "/items"},
		{"///api//v1", "/api/v1"},
	}
	for _, tt := range tests {
		r := routing.NewRegistry()
		d := r.Controller("X", routing.WithPrefix(tt.in))
		if d.Prefix != tt.want {
			t.Errorf("WithPrefix(%q) = %q, want %q", tt.in, d.Prefix, tt.want)
		}
	}
}

func TestJoinPath_CollapsesSlashes(t *testing.T) {
	tests := []struct {
		prefix, path, want string
	}{
		{"/items", "/", "/items/"},
		{"/items", "/{id}", "/items/{id}"},
		{"/items/", "/{id}", "/items/{id}"},
		{"/", "/", "/"},
	}
	for _, tt := range tests {
		if got := routing.JoinPath(tt.prefix, tt.path); got != tt.want {
			t.Errorf("JoinPath(%q, %q) = %q, want %q", tt.prefix, tt.path, got, tt.want)
		}
	}
}

// ── Route declaration ────────────────────────────────────────────────────────

func TestRegistry_RoutesAppendInDeclarationOrder(t *testing.T) {
	r := routing.NewRegistry()
	d := r.Controller("ItemsController")
	d.Get("/", noopHandler)
	d.Get("/{id}", noopHandler)
	d.Post("/", noopHandler)
	d.Put("/", noopHandler)
	d.Delete("/{id}", noopHandler)

	want := []struct {
		method, path string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/{id}"},
		{http.MethodPost, "/"},
		{http.MethodPut, "/"},
		{http.MethodDelete, "/{id}"},
	}
	if len(d.Routes) != len(want) {
		t.Fatalf("got %d routes, want %d", len(d.Routes), len(want))
	}
	for i, w := range want {
		if d.Routes[i].Method != w.method || d.Routes[i].Path != w.path {
			t.Errorf("route %d = %s %s, want %s %s",
				i, d.Routes[i].Method, d.Routes[i].Path, w.method, w.path)
		}
	}
}

func TestRegistry_EmptyPathDefaultsToRoot(t *testing.T) {
	r := routing.NewRegistry()
	d := r.Controller("ItemsController")
	d.Get("", noopHandler)

	if d.Routes[0].Path != "/" {
		t.Errorf("path = %q, want %q", d.Routes[0].Path, "/")
	}
}

// ── Middleware tags ──────────────────────────────────────────────────────────

func TestEffectiveTags_UnionInDeclaredOrder(t *testing.T) {
	r := routing.NewRegistry()
	d := r.Controller("ItemsController", routing.WithTags(routing.TagAuth))
	d.Post("/login", noopHandler, routing.TagNoAuth)

	tags := d.EffectiveTags(d.Routes[0])
	if len(tags) != 2 || tags[0] != routing.TagAuth || tags[1] != routing.TagNoAuth {
		t.Fatalf("effective tags = %v", tags)
	}
}

func TestRequiresAuth(t *testing.T) {
	tests := []struct {
		name string
		tags []routing.Tag
		want bool
	}{
		{"empty", nil, false},
		{"auth only", []routing.Tag{routing.TagAuth}, true},
		{"no-auth only", []routing.Tag{routing.TagNoAuth}, false},
		{"no-auth overrides auth", []routing.Tag{routing.TagAuth, routing.TagNoAuth}, false},
		{"override independent of order", []routing.Tag{routing.TagNoAuth, routing.TagAuth}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := routing.RequiresAuth(tt.tags); got != tt.want {
				t.Errorf("RequiresAuth(%v) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}
