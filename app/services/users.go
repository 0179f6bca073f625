// Package services holds the data-access services behind the controllers:
// plain CRUD over the document store, password handling, and session-backed
// authorization.
package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jmillet/stockroom/app/models"
	"github.com/jmillet/stockroom/app/store"
	gohttp "github.com/jmillet/stockroom/framework/http"
)

const usersCollection = "users"

// UserService manages administrative accounts. Passwords are bcrypt-hashed
// on the way in and stripped on the way out.
type UserService struct {
	store store.Store
	log   *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(st store.Store, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{store: st, log: log}
}

// Create stores a new user. The plaintext password never reaches the
// store; only its bcrypt hash does.
func (s *UserService) Create(ctx context.Context, u models.User) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.Password = ""
	u.PasswordHash = string(hash)

	doc, err := store.ToDoc(u)
	if err != nil {
		return models.User{}, err
	}
	saved, err := s.store.Insert(ctx, usersCollection, doc)
	if err != nil {
		return models.User{}, err
	}
	out, err := store.FromDoc[models.User](saved)
	if err != nil {
		return models.User{}, err
	}
	s.log.Info("user created", zap.String("id", out.ID), zap.String("name", out.Name))
	return out.Sanitized(), nil
}

// List returns all users, sorted by id, sanitized.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	docs, err := s.store.Find(ctx, usersCollection, nil)
	if err != nil {
		return nil, err
	}
	store.SortByID(docs)
	out := make([]models.User, 0, len(docs))
	for _, d := range docs {
		u, err := store.FromDoc[models.User](d)
		if err != nil {
			return nil, err
		}
		out = append(out, u.Sanitized())
	}
	return out, nil
}

// Get returns one user by id, sanitized.
func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	u, err := s.findByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	return u.Sanitized(), nil
}

// FindByName returns one user by name including the password hash, for
// credential checks only.
func (s *UserService) FindByName(ctx context.Context, name string) (models.User, error) {
	doc, err := s.store.FindOne(ctx, usersCollection, store.Filter{"name": name})
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, gohttp.NotFoundf("Can't find object with id: %s", name)
	}
	if err != nil {
		return models.User{}, err
	}
	return store.FromDoc[models.User](doc)
}

// Update merges the non-empty fields of u into the stored user. A new
// password is re-hashed; the old hash is otherwise kept.
func (s *UserService) Update(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		return models.User{}, gohttp.BadRequestf("missing id")
	}

	set := store.Document{}
	if u.Name != "" {
		set["name"] = u.Name
	}
	if u.Role != "" {
		set["role"] = u.Role
	}
	if u.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
		set["passwordHash"] = string(hash)
	}

	n, err := s.store.Update(ctx, usersCollection, store.Filter{"id": u.ID}, set)
	if err != nil {
		return models.User{}, err
	}
	if n == 0 {
		return models.User{}, gohttp.NotFoundf("Can't find object with id: %s", u.ID)
	}
	return s.Get(ctx, u.ID)
}

// Delete removes one user by id.
func (s *UserService) Delete(ctx context.Context, id string) error {
	n, err := s.store.Delete(ctx, usersCollection, store.Filter{"id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return gohttp.NotFoundf("Can't find object with id: %s", id)
	}
	s.log.Info("user deleted", zap.String("id", id))
	return nil
}

func (s *UserService) findByID(ctx context.Context, id string) (models.User, error) {
	doc, err := s.store.FindOne(ctx, usersCollection, store.Filter{"id": id})
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, gohttp.NotFoundf("Can't find object with id: %s", id)
	}
	if err != nil {
		return models.User{}, err
	}
	return store.FromDoc[models.User](doc)
}
