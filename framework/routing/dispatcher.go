package routing

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	gohttp "github.com/jmillet/stockroom/framework/http"
)

// Authorizer is the external authorization check invoked by the auth gate.
// A non-nil error rejects the request before the handler runs.
type Authorizer interface {
	Authorize(r *http.Request) error
}

// Controller is implemented by anything that declares routes into a
// Registry. Controller singletons are resolved from the container at boot
// and asked to declare themselves before the dispatcher mounts.
type Controller interface {
	Routes(r *Registry)
}

// Dispatcher wires the route registry and the auth gate into an HTTP
// server. It is the single recovery point: every handler error and panic
// is converted into a structured error envelope, and the process never
// crashes from one.
type Dispatcher struct {
	mux  chi.Router
	log  *zap.Logger
	auth Authorizer
}

// NewDispatcher creates a Dispatcher with request logging and IP
// resolution installed.
func NewDispatcher(log *zap.Logger, auth Authorizer) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	mux := chi.NewRouter()
	mux.Use(middleware.RealIP)
	mux.Use(requestLogger(log))
	return &Dispatcher{mux: mux, log: log, auth: auth}
}

// ── Mounting ─────────────────────────────────────────────────────────────────

// Mount installs one transport binding per declared route, at the
// slash-collapsed join of controller prefix and route path, plus a
// catch-all that answers 404 naming the attempted method and path.
func (d *Dispatcher) Mount(reg *Registry) {
	for _, ctrl := range reg.Controllers() {
		for _, rt := range ctrl.Routes {
			pattern := JoinPath(ctrl.Prefix, rt.Path)
			d.mux.Method(rt.Method, pattern, d.bind(ctrl, rt))
			d.log.Debug("route installed",
				zap.String("method", rt.Method),
				zap.String("pattern", pattern),
				zap.String("controller", ctrl.Token))
		}
	}

	d.mux.NotFound(d.notFound)
	d.mux.MethodNotAllowed(d.notFound)
}

// Static serves a directory under prefix, for the admin frontend bundle.
func (d *Dispatcher) Static(prefix, dir string) {
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	d.mux.Get(NormalizePath(prefix+"/*"), func(w http.ResponseWriter, r *http.Request) {
		fs.ServeHTTP(w, r)
	})
}

// ServeHTTP implements http.Handler.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.mux.ServeHTTP(w, r)
}

// Handler returns the underlying http.Handler.
func (d *Dispatcher) Handler() http.Handler { return d.mux }

// ── Request execution ────────────────────────────────────────────────────────

// bind builds the transport handler for one route: auth gate, handler,
// error boundary.
func (d *Dispatcher) bind(ctrl *ControllerDescriptor, rt RouteDescriptor) http.HandlerFunc {
	tags := ctrl.EffectiveTags(rt)
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				d.log.Error("handler panic",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec))
				gohttp.Fail(w, http.StatusInternalServerError, fmt.Sprint(rec))
			}
		}()

		if RequiresAuth(tags) && d.auth != nil {
			if err := d.auth.Authorize(r); err != nil {
				d.log.Info("request rejected by auth gate",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path))
				gohttp.Fail(w, http.StatusUnauthorized, err.Error())
				return
			}
		}

		if err := rt.Handler(w, r); err != nil {
			d.fail(w, r, err)
		}
	}
}

// fail is the catch boundary converting any handler error into an
// envelope. Typed status errors keep their status; everything else,
// including envelope usage errors, is internal.
func (d *Dispatcher) fail(w http.ResponseWriter, r *http.Request, err error) {
	var se *gohttp.StatusError
	if errors.As(err, &se) {
		if se.Code >= http.StatusInternalServerError {
			d.log.Error("handler failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err))
		}
		gohttp.Fail(w, se.Code, se.Message)
		return
	}
	d.log.Error("handler failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	gohttp.Fail(w, http.StatusInternalServerError, err.Error())
}

func (d *Dispatcher) notFound(w http.ResponseWriter, r *http.Request) {
	gohttp.Fail(w, http.StatusNotFound,
		fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path))
}

// requestLogger logs one line per request with status and duration.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)))
		})
	}
}
