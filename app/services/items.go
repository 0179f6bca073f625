package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jmillet/stockroom/app/models"
	"github.com/jmillet/stockroom/app/store"
	gohttp "github.com/jmillet/stockroom/framework/http"
)

const itemsCollection = "items"

// ItemService manages inventory rows.
type ItemService struct {
	store store.Store
	log   *zap.Logger
}

// NewItemService creates an ItemService.
func NewItemService(st store.Store, log *zap.Logger) *ItemService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ItemService{store: st, log: log}
}

// Create stores a new item.
func (s *ItemService) Create(ctx context.Context, it models.Item) (models.Item, error) {
	doc, err := store.ToDoc(it)
	if err != nil {
		return models.Item{}, err
	}
	saved, err := s.store.Insert(ctx, itemsCollection, doc)
	if err != nil {
		return models.Item{}, err
	}
	out, err := store.FromDoc[models.Item](saved)
	if err != nil {
		return models.Item{}, err
	}
	s.log.Info("item created", zap.String("id", out.ID), zap.String("name", out.Name))
	return out, nil
}

// List returns all items, sorted by id.
func (s *ItemService) List(ctx context.Context) ([]models.Item, error) {
	docs, err := s.store.Find(ctx, itemsCollection, nil)
	if err != nil {
		return nil, err
	}
	store.SortByID(docs)
	out := make([]models.Item, 0, len(docs))
	for _, d := range docs {
		it, err := store.FromDoc[models.Item](d)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

// Get returns one item by id.
func (s *ItemService) Get(ctx context.Context, id string) (models.Item, error) {
	doc, err := s.store.FindOne(ctx, itemsCollection, store.Filter{"id": id})
	if errors.Is(err, store.ErrNotFound) {
		return models.Item{}, gohttp.NotFoundf("Can't find object with id: %s", id)
	}
	if err != nil {
		return models.Item{}, err
	}
	return store.FromDoc[models.Item](doc)
}

// Update replaces the stored item's fields with those of it. Every field
// is written, so an empty sku, location or restockedAt clears the stored
// value.
func (s *ItemService) Update(ctx context.Context, it models.Item) (models.Item, error) {
	if it.ID == "" {
		return models.Item{}, gohttp.BadRequestf("missing id")
	}
	set := store.Document{
		"name":        it.Name,
		"sku":         it.SKU,
		"quantity":    it.Quantity,
		"location":    it.Location,
		"restockedAt": it.RestockedAt,
	}
	n, err := s.store.Update(ctx, itemsCollection, store.Filter{"id": it.ID}, set)
	if err != nil {
		return models.Item{}, err
	}
	if n == 0 {
		return models.Item{}, gohttp.NotFoundf("Can't find object with id: %s", it.ID)
	}
	return s.Get(ctx, it.ID)
}

// Delete removes one item by id.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	n, err := s.store.Delete(ctx, itemsCollection, store.Filter{"id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return gohttp.NotFoundf("Can't find object with id: %s", id)
	}
	s.log.Info("item deleted", zap.String("id", id))
	return nil
}
