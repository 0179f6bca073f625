package controllers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jmillet/stockroom/app/models"
	"github.com/jmillet/stockroom/app/services"
	"github.com/jmillet/stockroom/framework/cache"
	gohttp "github.com/jmillet/stockroom/framework/http"
	"github.com/jmillet/stockroom/framework/http/validation"
	"github.com/jmillet/stockroom/framework/routing"
)

// ItemsController serves /items.
type ItemsController struct {
	svc   *services.ItemService
	cache *cache.Cache
	log   *zap.Logger
}

var _ routing.Controller = (*ItemsController)(nil)

// NewItemsController creates an ItemsController with its own cache.
func NewItemsController(svc *services.ItemService, c *cache.Cache, log *zap.Logger) *ItemsController {
	if log == nil {
		log = zap.NewNop()
	}
	return &ItemsController{svc: svc, cache: c, log: log}
}

// Routes declares the controller's endpoints.
func (c *ItemsController) Routes(r *routing.Registry) {
	g := r.Controller("ItemsController", routing.WithTags(routing.TagAuth))
	g.Get("/", c.Index)
	g.Get("/export", c.Export)
	g.Get("/summary", c.Summary)
	g.Get("/{id}", c.Show)
	g.Post("/", c.Store)
	g.Put("/", c.Update)
	g.Delete("/{id}", c.Destroy)
}

// Index lists items through the checksum cache.
func (c *ItemsController) Index(w http.ResponseWriter, r *http.Request) error {
	return cachedListing(w, r, c.cache, func(ctx context.Context) (any, error) {
		return c.svc.List(ctx)
	})
}

// Show returns one item.
func (c *ItemsController) Show(w http.ResponseWriter, r *http.Request) error {
	req := gohttp.NewRequest(r)
	it, err := c.svc.Get(r.Context(), req.RouteParam("id"))
	if err != nil {
		return err
	}
	return gohttp.Respond(w, gohttp.Spec{Payload: it})
}

// Store creates an item.
func (c *ItemsController) Store(w http.ResponseWriter, r *http.Request) error {
	req := gohttp.NewRequest(r)
	var it models.Item
	if err := req.Bind(&it); err != nil {
		return err
	}
	if err := validateItem(it); err != nil {
		return err
	}
	created, err := c.svc.Create(r.Context(), it)
	if err != nil {
		return err
	}
	c.cache.Flush()
	return gohttp.Respond(w, gohttp.Spec{Status: http.StatusCreated, Payload: created})
}

// Update replaces an existing item.
func (c *ItemsController) Update(w http.ResponseWriter, r *http.Request) error {
	req := gohttp.NewRequest(r)
	var it models.Item
	if err := req.Bind(&it); err != nil {
		return err
	}
	if err := validateItem(it); err != nil {
		return err
	}
	updated, err := c.svc.Update(r.Context(), it)
	if err != nil {
		return err
	}
	c.cache.Flush()
	return gohttp.Respond(w, gohttp.Spec{Payload: updated})
}

// Destroy deletes an item.
func (c *ItemsController) Destroy(w http.ResponseWriter, r *http.Request) error {
	req := gohttp.NewRequest(r)
	if err := c.svc.Delete(r.Context(), req.RouteParam("id")); err != nil {
		return err
	}
	c.cache.Flush()
	return gohttp.Respond(w, gohttp.Spec{})
}

// Export streams the inventory as CSV.
func (c *ItemsController) Export(w http.ResponseWriter, r *http.Request) error {
	items, err := c.svc.List(r.Context())
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.WriteString("id,name,sku,quantity,location\n")
	for _, it := range items {
		fmt.Fprintf(&buf, "%s,%s,%s,%d,%s\n", it.ID, it.Name, it.SKU, it.Quantity, it.Location)
	}
	return gohttp.Respond(w, gohttp.Spec{
		Mode:    gohttp.ModeStream,
		Headers: map[string]string{"Content-Type": "text/csv"},
		Stream:  &buf,
	})
}

// Summary computes stock totals off the request goroutine and forwards
// the eventual result through the async envelope path.
func (c *ItemsController) Summary(w http.ResponseWriter, r *http.Request) error {
	out := make(chan gohttp.Outcome, 1)
	ctx := r.Context()
	go func() {
		items, err := c.svc.List(ctx)
		if err != nil {
			out <- gohttp.Outcome{Err: err}
			return
		}
		total := 0
		for _, it := range items {
			total += it.Quantity
		}
		out <- gohttp.Outcome{Spec: gohttp.Spec{Payload: map[string]any{
			"items":         len(items),
			"totalQuantity": total,
		}}}
	}()
	return gohttp.RespondFuture(w, out)
}

func validateItem(it models.Item) error {
	v := validation.Make(map[string]string{
		"name":        it.Name,
		"quantity":    fmt.Sprint(it.Quantity),
		"restockedAt": it.RestockedAt,
	}, validation.Rules{
		"name":        "required|min:1|max:200",
		"quantity":    "integer|gte:0",
		"restockedAt": "date",
	})
	if v.Fails() {
		return gohttp.BadRequestf("%s", v.Errors().Flatten())
	}
	return nil
}
