package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jmillet/stockroom/app/services"
	gohttp "github.com/jmillet/stockroom/framework/http"
	"github.com/jmillet/stockroom/framework/routing"
)

// AuthController serves /auth: login mints a session token, logout
// discards it.
type AuthController struct {
	auth *services.AuthService
	log  *zap.Logger
}

var _ routing.Controller = (*AuthController)(nil)

// NewAuthController creates an AuthController.
func NewAuthController(auth *services.AuthService, log *zap.Logger) *AuthController {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthController{auth: auth, log: log}
}

// Routes declares the controller's endpoints.
func (c *AuthController) Routes(r *routing.Registry) {
	g := r.Controller("AuthController", routing.WithTags(routing.TagAuth))
	g.Post("/login", c.Login, routing.TagNoAuth)
	g.Post("/logout", c.Logout)
}

// Login verifies credentials and answers with the minted token and the
// sanitized account.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) error {
	req := gohttp.NewRequest(r)
	var body struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := req.Bind(&body); err != nil {
		return err
	}
	token, user, err := c.auth.Login(r.Context(), body.Name, body.Password)
	if err != nil {
		return err
	}
	return gohttp.Respond(w, gohttp.Spec{Payload: map[string]any{
		"token": token,
		"user":  user,
	}})
}

// Logout discards the caller's session token.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) error {
	req := gohttp.NewRequest(r)
	if err := c.auth.Logout(r.Context(), req.AuthToken()); err != nil {
		return err
	}
	return gohttp.Respond(w, gohttp.Spec{})
}
