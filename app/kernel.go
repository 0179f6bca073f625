// Package app bootstraps stockroom: container declarations, route
// registration, dispatcher mount and the restart-bounded serve loop.
package app

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jmillet/stockroom/app/controllers"
	"github.com/jmillet/stockroom/app/services"
	"github.com/jmillet/stockroom/app/session"
	"github.com/jmillet/stockroom/app/store"
	"github.com/jmillet/stockroom/framework/cache"
	"github.com/jmillet/stockroom/framework/config"
	"github.com/jmillet/stockroom/framework/container"
	"github.com/jmillet/stockroom/framework/logging"
	"github.com/jmillet/stockroom/framework/routing"
)

// controllerTokens lists every controller the dispatcher installs, in
// mount order.
var controllerTokens = []string{
	"controllers.auth",
	"controllers.users",
	"controllers.items",
}

// Kernel is the top-level application object.
type Kernel struct {
	cfg *config.Config
	log *zap.Logger
}

// New loads configuration and builds the logger.
func New(envFiles ...string) (*Kernel, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return &Kernel{cfg: cfg, log: log}, nil
}

// Config exposes the loaded configuration.
func (k *Kernel) Config() *config.Config { return k.cfg }

// Logger exposes the process logger.
func (k *Kernel) Logger() *zap.Logger { return k.log }

// ── Wiring ───────────────────────────────────────────────────────────────────

// Build declares the full service graph, resolves the controller
// singletons, collects their routes and mounts the dispatcher. It is run
// once at startup and again after every hot restart.
func (k *Kernel) Build() (*container.Container, *routing.Dispatcher, error) {
	cfg, log := k.cfg, k.log

	c := container.New()
	c.Instance("config", cfg)
	c.Instance("logger", log)

	c.Declare("store", func(*container.Container) (any, error) {
		return store.NewMemory(), nil
	})

	c.Declare("sessions", func(*container.Container) (any, error) {
		switch cfg.Session.Backend {
		case "redis":
			return session.Dial(cfg.Session.RedisAddr), nil
		case "memory":
			return session.NewMemory(), nil
		default:
			return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
		}
	})

	c.Declare("services.users", func(c *container.Container) (any, error) {
		st, err := container.Resolve[store.Store](c, "store")
		if err != nil {
			return nil, err
		}
		return services.NewUserService(st, log), nil
	}, "store")

	c.Declare("services.items", func(c *container.Container) (any, error) {
		st, err := container.Resolve[store.Store](c, "store")
		if err != nil {
			return nil, err
		}
		return services.NewItemService(st, log), nil
	}, "store")

	c.Declare("services.auth", func(c *container.Container) (any, error) {
		users, err := container.Resolve[*services.UserService](c, "services.users")
		if err != nil {
			return nil, err
		}
		sessions, err := container.Resolve[session.Store](c, "sessions")
		if err != nil {
			return nil, err
		}
		return services.NewAuthService(users, sessions, cfg.Session.TTL, log), nil
	}, "services.users", "sessions")

	c.Declare("controllers.auth", func(c *container.Container) (any, error) {
		auth, err := container.Resolve[*services.AuthService](c, "services.auth")
		if err != nil {
			return nil, err
		}
		return controllers.NewAuthController(auth, log), nil
	}, "services.auth")

	c.Declare("controllers.users", func(c *container.Container) (any, error) {
		svc, err := container.Resolve[*services.UserService](c, "services.users")
		if err != nil {
			return nil, err
		}
		return controllers.NewUsersController(svc, k.newCache(), log), nil
	}, "services.users")

	c.Declare("controllers.items", func(c *container.Container) (any, error) {
		svc, err := container.Resolve[*services.ItemService](c, "services.items")
		if err != nil {
			return nil, err
		}
		return controllers.NewItemsController(svc, k.newCache(), log), nil
	}, "services.items")

	reg := routing.NewRegistry()
	for _, token := range controllerTokens {
		ctrl, err := container.Resolve[routing.Controller](c, token)
		if err != nil {
			return nil, nil, err
		}
		ctrl.Routes(reg)
	}

	auth, err := container.Resolve[routing.Authorizer](c, "services.auth")
	if err != nil {
		return nil, nil, err
	}

	disp := routing.NewDispatcher(log, auth)
	disp.Mount(reg)
	if cfg.App.StaticDir != "" {
		disp.Static("/admin", cfg.App.StaticDir)
	}
	return c, disp, nil
}

// newCache builds one per-controller listing cache from config.
func (k *Kernel) newCache() *cache.Cache {
	return cache.New(cache.Options{
		TTL:      k.cfg.Cache.TTL,
		Disabled: k.cfg.Cache.Disabled,
		Logger:   k.log,
	})
}

// ── Serve loop ───────────────────────────────────────────────────────────────

// Run serves until the listener fails fatally. Each failure tears down
// every constructed instance and rebuilds in place; after MaxRestarts
// consecutive failures the last error is returned and the process exits.
func (k *Kernel) Run() error {
	addr := ":" + k.cfg.App.Port
	restarts := 0
	for {
		c, disp, err := k.Build()
		if err != nil {
			// Wiring failures (unknown token, bad config) are fatal at
			// startup, not restartable.
			return err
		}

		k.log.Info("listening",
			zap.String("app", k.cfg.App.Name),
			zap.String("addr", addr),
			zap.String("env", k.cfg.App.Env))

		srv := &http.Server{Addr: addr, Handler: disp}
		err = srv.ListenAndServe()
		c.Teardown()
		k.log.Debug("container torn down")
		if err == http.ErrServerClosed {
			return nil
		}

		restarts++
		if restarts >= k.cfg.App.MaxRestarts {
			k.log.Error("restart budget exhausted", zap.Int("restarts", restarts), zap.Error(err))
			return err
		}
		k.log.Warn("listener failed, restarting",
			zap.Int("restart", restarts),
			zap.Error(err))
	}
}
