// Package http provides inject integration for net/http.
//
// This package provides middleware for attaching a container to the
// request context and type-safe handler wrappers that substitute
// dependencies before the handler runs.
//
// Example usage:
//
//	c := inject.NewContainer()
//
//	mux := http.NewServeMux()
//	mux.Handle("/users", injecthttp.Middleware(c)(injecthttp.Handle(UserController.List)))
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/injectio/inject"
)

// ErrNoContainer is returned by FromContext when the request context
// carries no container. Usually this means Middleware was not applied.
var ErrNoContainer = errors.New("no container in request context")

type containerKey struct{}

// NewContext returns a context carrying the container.
func NewContext(ctx context.Context, c *inject.Container) context.Context {
	return context.WithValue(ctx, containerKey{}, c)
}

// FromContext returns the container attached to the context by
// Middleware or NewContext.
func FromContext(ctx context.Context) (*inject.Container, error) {
	c, ok := ctx.Value(containerKey{}).(*inject.Container)
	if !ok || c == nil {
		return nil, ErrNoContainer
	}

	return c, nil
}

// Config holds the configuration for the container middleware.
type Config struct {
	// ErrorHandler is called when a request middleware fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)

	// Middlewares are functions that run after the container is attached.
	// They can be used to initialize request state, set user data, etc.
	Middlewares []func(*inject.Container, *http.Request) error
}

// Option configures the container middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for middleware failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithMiddleware adds a middleware function that runs after the
// container is attached. Multiple middlewares are executed in the order
// they are added.
func WithMiddleware(mw func(*inject.Container, *http.Request) error) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		Middlewares: nil,
	}
}

// Middleware attaches the container to each request's context so
// Handle can resolve dependencies from it.
//
// Example:
//
//	mux.Handle("/users", injecthttp.Middleware(c)(handler))
func Middleware(container *inject.Container, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = r.WithContext(NewContext(r.Context(), container))

			for _, mw := range cfg.Middlewares {
				if err := mw(container, r); err != nil {
					cfg.ErrorHandler(w, r, err)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// HandlerConfig holds configuration for the Handle wrappers.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(http.ResponseWriter, *http.Request, any)

	// ErrorHandler is called when dependency resolution fails.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)
}

// HandlerOption configures the Handle wrappers.
type HandlerOption func(*HandlerConfig)

// WithPanicRecovery enables or disables panic recovery in the handler.
func WithPanicRecovery(enabled bool) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicRecovery = enabled
	}
}

// WithPanicHandler sets the handler for panics.
func WithPanicHandler(h func(http.ResponseWriter, *http.Request, any)) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for dependency
// resolution failures.
func WithResolutionErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ErrorHandler = h
	}
}

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		PanicRecovery: false,
		PanicHandler: func(w http.ResponseWriter, r *http.Request, v any) {
			slog.Error("panic in handler", "panic", v)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to resolve controller", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
	}
}

// Handle wraps a controller method for type-safe resolution from the
// container attached to the request context.
//
// The method signature should be: func(T, http.ResponseWriter, *http.Request)
//
// Example:
//
//	mux.Handle("/users/", injecthttp.Middleware(c)(injecthttp.Handle(UserController.GetByID)))
func Handle[T any](method func(T, http.ResponseWriter, *http.Request), opts ...HandlerOption) http.HandlerFunc {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					cfg.PanicHandler(w, r, v)
				}
			}()
		}

		container, err := FromContext(r.Context())
		if err != nil {
			cfg.ErrorHandler(w, r, err)
			return
		}

		controller, err := inject.Resolve[T](r.Context(), container)
		if err != nil {
			cfg.ErrorHandler(w, r, err)
			return
		}

		method(controller, w, r)
	}
}

// HandleMarker wraps a controller method, resolving the controller from
// a marker instead of a container. No middleware is required.
//
// Example:
//
//	userController := inject.Provide[*UserController](controllerProvider)
//	mux.Handle("/users", injecthttp.HandleMarker(userController, (*UserController).List))
func HandleMarker[T any](m *inject.Marker[T], method func(T, http.ResponseWriter, *http.Request), opts ...HandlerOption) http.HandlerFunc {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					cfg.PanicHandler(w, r, v)
				}
			}()
		}

		controller, err := inject.Resolved(r.Context(), m)
		if err != nil {
			cfg.ErrorHandler(w, r, err)
			return
		}

		method(controller, w, r)
	}
}
