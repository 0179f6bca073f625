package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jmillet/stockroom/app/models"
	"github.com/jmillet/stockroom/app/session"
	gohttp "github.com/jmillet/stockroom/framework/http"
)

// AuthService mints and validates session tokens. It implements the
// dispatcher's Authorizer so the auth gate stays a plain interface call.
type AuthService struct {
	users    *UserService
	sessions session.Store
	ttl      time.Duration
	log      *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users *UserService, sessions session.Store, ttl time.Duration, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, sessions: sessions, ttl: ttl, log: log}
}

// Login verifies credentials and mints an opaque session token bound to
// the user's name.
func (s *AuthService) Login(ctx context.Context, name, password string) (string, models.User, error) {
	u, err := s.users.FindByName(ctx, name)
	if err != nil {
		// Don't leak whether the account exists.
		return "", models.User{}, gohttp.Unauthorizedf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", models.User{}, gohttp.Unauthorizedf("invalid credentials")
	}

	token := uuid.NewString()
	if err := s.sessions.Set(ctx, token, u.Name, s.ttl); err != nil {
		return "", models.User{}, err
	}
	s.log.Info("session opened", zap.String("user", u.Name))
	return token, u.Sanitized(), nil
}

// Logout discards a session token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authorize validates the identity and token headers against the session
// store. It is the external check behind the dispatcher's auth gate.
func (s *AuthService) Authorize(r *http.Request) error {
	user := r.Header.Get(gohttp.HeaderAuthUser)
	token := r.Header.Get(gohttp.HeaderAuthToken)
	if user == "" || token == "" {
		return gohttp.Unauthorizedf("missing auth headers")
	}
	owner, err := s.sessions.Get(r.Context(), token)
	if err != nil || owner != user {
		return gohttp.Unauthorizedf("invalid session")
	}
	return nil
}
