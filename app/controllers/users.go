// Package controllers binds the HTTP surface to the services: route
// declarations, payload validation, checksum-cached listings and cache
// invalidation after writes.
package controllers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/jmillet/stockroom/app/models"
	"github.com/jmillet/stockroom/app/services"
	"github.com/jmillet/stockroom/framework/cache"
	gohttp "github.com/jmillet/stockroom/framework/http"
	"github.com/jmillet/stockroom/framework/http/validation"
	"github.com/jmillet/stockroom/framework/routing"
)

// UsersController serves /users. It owns its listing cache; every write
// flushes it so the next listing reloads from the store.
type UsersController struct {
	svc   *services.UserService
	cache *cache.Cache
	log   *zap.Logger
}

var _ routing.Controller = (*UsersController)(nil)

// NewUsersController creates a UsersController with its own cache.
func NewUsersController(svc *services.UserService, c *cache.Cache, log *zap.Logger) *UsersController {
	if log == nil {
		log = zap.NewNop()
	}
	return &UsersController{svc: svc, cache: c, log: log}
}

// Routes declares the controller's endpoints. Account creation is open so
// a fresh deployment can bootstrap its first admin; everything else needs
// a session.
func (c *UsersController) Routes(r *routing.Registry) {
	g := r.Controller("UsersController", routing.WithTags(routing.TagAuth))
	g.Get("/", c.Index)
	g.Get("/{id}", c.Show)
	g.Post("/", c.Store, routing.TagNoAuth)
	g.Put("/", c.Update)
	g.Delete("/{id}", c.Destroy)
}

// Index lists users through the checksum cache.
func (c *UsersController) Index(w http.ResponseWriter, r *http.Request) error {
	return cachedListing(w, r, c.cache, func(ctx context.Context) (any, error) {
		return c.svc.List(ctx)
	})
}

// Show returns one user.
func (c *UsersController) Show(w http.ResponseWriter, r *http.Request) error {
	req := gohttp.NewRequest(r)
	u, err := c.svc.Get(r.Context(), req.RouteParam("id"))
	if err != nil {
		return err
	}
	return gohttp.Respond(w, gohttp.Spec{Payload: u})
}

// Store creates a user. The response excludes the password and its hash.
func (c *UsersController) Store(w http.ResponseWriter, r *http.Request) error {
	req := gohttp.NewRequest(r)
	var u models.User
	if err := req.Bind(&u); err != nil {
		return err
	}

	v := validation.Make(map[string]string{
		"name":     u.Name,
		"password": u.Password,
	}, validation.Rules{
		"name":     "required|min:2|max:100",
		"password": "required|min:6",
	})
	if v.Fails() {
		return gohttp.BadRequestf("%s", v.Errors().Flatten())
	}

	created, err := c.svc.Create(r.Context(), u)
	if err != nil {
		return err
	}
	c.cache.Flush()
	return gohttp.Respond(w, gohttp.Spec{Status: http.StatusCreated, Payload: created})
}

// Update merges changes into an existing user.
func (c *UsersController) Update(w http.ResponseWriter, r *http.Request) error {
	req := gohttp.NewRequest(r)
	var u models.User
	if err := req.Bind(&u); err != nil {
		return err
	}
	updated, err := c.svc.Update(r.Context(), u)
	if err != nil {
		return err
	}
	c.cache.Flush()
	return gohttp.Respond(w, gohttp.Spec{Payload: updated})
}

// Destroy deletes a user.
func (c *UsersController) Destroy(w http.ResponseWriter, r *http.Request) error {
	req := gohttp.NewRequest(r)
	if err := c.svc.Delete(r.Context(), req.RouteParam("id")); err != nil {
		return err
	}
	c.cache.Flush()
	return gohttp.Respond(w, gohttp.Spec{})
}

// ── shared listing path ──────────────────────────────────────────────────────

// cachedListing runs one conditional, checksum-cached listing request:
// cache key from the request shape, loader on miss/expiry, 304 when the
// client's checksum still matches, ETag header either way.
func cachedListing(w http.ResponseWriter, r *http.Request, c *cache.Cache, load cache.Loader) error {
	req := gohttp.NewRequest(r)
	body, err := req.Body()
	if err != nil {
		return err
	}
	key := cache.Key(req.Path(), req.RouteParams(), body)

	res, err := c.Fetch(r.Context(), key, req.Header("If-None-Match"), load)
	if err != nil {
		return err
	}
	headers := map[string]string{"ETag": res.Checksum}
	if res.NotModified {
		return gohttp.Respond(w, gohttp.Spec{Status: http.StatusNotModified, Headers: headers})
	}
	return gohttp.Respond(w, gohttp.Spec{Payload: res.Payload, Headers: headers})
}
