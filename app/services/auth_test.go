package services_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmillet/stockroom/app/models"
	"github.com/jmillet/stockroom/app/services"
	"github.com/jmillet/stockroom/app/session"
	"github.com/jmillet/stockroom/app/store"
	gohttp "github.com/jmillet/stockroom/framework/http"
)

func newAuthService(t *testing.T) (*services.AuthService, *services.UserService) {
	t.Helper()
	users := services.NewUserService(store.NewMemory(), nil)
	auth := services.NewAuthService(users, session.NewMemory(), time.Hour, nil)
	return auth, users
}

func TestAuthService_LoginMintsToken(t *testing.T) {
	auth, users := newAuthService(t)
	ctx := context.Background()
	_, err := users.Create(ctx, models.User{Name: "alice", Password: "s3cret-pw"})
	require.NoError(t, err)

	token, user, err := auth.Login(ctx, "alice", "s3cret-pw")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Name)
	assert.Empty(t, user.PasswordHash)

	// Two logins mint distinct tokens.
	second, _, err := auth.Login(ctx, "alice", "s3cret-pw")
	require.NoError(t, err)
	assert.NotEqual(t, token, second)
}

func TestAuthService_LoginRejections(t *testing.T) {
	auth, users := newAuthService(t)
	ctx := context.Background()
	users.Create(ctx, models.User{Name: "alice", Password: "s3cret-pw"})

	tests := []struct {
		name, user, password string
	}{
		{"wrong password", "alice", "nope"},
		{"unknown account", "mallory", "s3cret-pw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := auth.Login(ctx, tt.user, tt.password)
			var se *gohttp.StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, 401, se.Code)
			// Same message either way, so callers can't probe for accounts.
			assert.Equal(t, "invalid credentials", se.Message)
		})
	}
}

func TestAuthService_Authorize(t *testing.T) {
	auth, users := newAuthService(t)
	ctx := context.Background()
	users.Create(ctx, models.User{Name: "alice", Password: "s3cret-pw"})
	token, _, err := auth.Login(ctx, "alice", "s3cret-pw")
	require.NoError(t, err)

	ok := httptest.NewRequest("GET", "/items/", nil)
	ok.Header.Set(gohttp.HeaderAuthUser, "alice")
	ok.Header.Set(gohttp.HeaderAuthToken, token)
	assert.NoError(t, auth.Authorize(ok))

	wrongOwner := httptest.NewRequest("GET", "/items/", nil)
	wrongOwner.Header.Set(gohttp.HeaderAuthUser, "bob")
	wrongOwner.Header.Set(gohttp.HeaderAuthToken, token)
	assert.Error(t, auth.Authorize(wrongOwner))

	missing := httptest.NewRequest("GET", "/items/", nil)
	assert.Error(t, auth.Authorize(missing))

	stale := httptest.NewRequest("GET", "/items/", nil)
	stale.Header.Set(gohttp.HeaderAuthUser, "alice")
	stale.Header.Set(gohttp.HeaderAuthToken, "not-a-token")
	assert.Error(t, auth.Authorize(stale))
}

func TestAuthService_LogoutInvalidatesToken(t *testing.T) {
	auth, users := newAuthService(t)
	ctx := context.Background()
	users.Create(ctx, models.User{Name: "alice", Password: "s3cret-pw"})
	token, _, err := auth.Login(ctx, "alice", "s3cret-pw")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, token))

	r := httptest.NewRequest("GET", "/items/", nil)
	r.Header.Set(gohttp.HeaderAuthUser, "alice")
	r.Header.Set(gohttp.HeaderAuthToken, token)
	assert.Error(t, auth.Authorize(r))
}
