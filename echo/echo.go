// Package echo provides inject integration for the Echo web framework.
//
// This package provides middleware for attaching a container to each
// request and type-safe handler wrappers that substitute dependencies
// before the handler runs.
//
// Example usage:
//
//	c := inject.NewContainer()
//
//	e := echo.New()
//	e.Use(injectecho.Middleware(c))
//
//	e.POST("/login", injectecho.Handle(AuthController.Login))
//	e.GET("/users/:id", injectecho.Handle(UserController.GetByID))
package echo

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/injectio/inject"
)

// containerKey is the key used to store the container in echo.Context.
const containerKey = "inject_container"

// ErrNoContainer is returned by FromContext when the echo context
// carries no container. Usually this means Middleware was not applied.
var ErrNoContainer = errors.New("no container in echo context")

// FromContext returns the container attached to the echo context by
// Middleware.
func FromContext(c echo.Context) (*inject.Container, error) {
	container, ok := c.Get(containerKey).(*inject.Container)
	if !ok || container == nil {
		return nil, ErrNoContainer
	}

	return container, nil
}

// Config holds the configuration for the container middleware.
type Config struct {
	// ErrorHandler is called when a request middleware fails.
	// If nil, the error is returned (Echo's default error handling).
	ErrorHandler func(echo.Context, error) error

	// Middlewares are functions that run after the container is attached.
	// They can be used to initialize request state, set user data, etc.
	Middlewares []func(*inject.Container, echo.Context) error
}

// Option configures the container middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for middleware failures.
func WithErrorHandler(h func(echo.Context, error) error) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithMiddleware adds a middleware function that runs after the
// container is attached. Multiple middlewares are executed in the order
// they are added.
func WithMiddleware(mw func(*inject.Container, echo.Context) error) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(c echo.Context, err error) error {
			return err
		},
		Middlewares: nil,
	}
}

// Middleware creates an Echo middleware that attaches the container to
// each request so Handle can resolve dependencies from it.
//
// Example:
//
//	e := echo.New()
//	e.Use(injectecho.Middleware(c))
func Middleware(container *inject.Container, opts ...Option) echo.MiddlewareFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(containerKey, container)

			for _, mw := range cfg.Middlewares {
				if err := mw(container, c); err != nil {
					return cfg.ErrorHandler(c, err)
				}
			}

			return next(c)
		}
	}
}

// HandlerConfig holds configuration for the Handle wrappers.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(echo.Context, any) error

	// ErrorHandler is called when dependency resolution fails.
	ErrorHandler func(echo.Context, error) error
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
func WithPanicHandler(h func(echo.Context, any) error) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for dependency
// resolution failures.
func WithResolutionErrorHandler(h func(echo.Context, error) error) HandlerOption {
	return func(c *HandlerConfig) {
		c.ErrorHandler = h
	}
}

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		PanicRecovery: false,
		PanicHandler: func(c echo.Context, v any) error {
			slog.Error("panic in handler", "panic", v)
			return c.NoContent(http.StatusInternalServerError)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			slog.Error("failed to resolve controller", "error", err)
			return c.NoContent(http.StatusInternalServerError)
		},
	}
}

// Handle wraps a controller method for type-safe resolution from the
// container attached to the echo context.
//
// The method signature should be: func(T, echo.Context) error
//
// Example:
//
//	e.GET("/users/:id", injectecho.Handle(UserController.GetByID))
func Handle[T any](method func(T, echo.Context) error, opts ...HandlerOption) echo.HandlerFunc {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c echo.Context) (err error) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					err = cfg.PanicHandler(c, v)
				}
			}()
		}

		container, cerr := FromContext(c)
		if cerr != nil {
			return cfg.ErrorHandler(c, cerr)
		}

		controller, rerr := inject.Resolve[T](c.Request().Context(), container)
		if rerr != nil {
			return cfg.ErrorHandler(c, rerr)
		}

		return method(controller, c)
	}
}

// HandleMarker wraps a controller method, resolving the controller from
// a marker instead of a container. No middleware is required.
//
// Example:
//
//	userController := inject.Provide[*UserController](controllerProvider)
//	e.GET("/users", injectecho.HandleMarker(userController, (*UserController).List))
func HandleMarker[T any](m *inject.Marker[T], method func(T, echo.Context) error, opts ...HandlerOption) echo.HandlerFunc {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c echo.Context) (err error) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					err = cfg.PanicHandler(c, v)
				}
			}()
		}

		controller, rerr := inject.Resolved(c.Request().Context(), m)
		if rerr != nil {
			return cfg.ErrorHandler(c, rerr)
		}

		return method(controller, c)
	}
}
