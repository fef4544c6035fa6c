// Package gin provides inject integration for the Gin web framework.
//
// This package provides middleware for attaching a container to each
// request and type-safe handler wrappers that substitute dependencies
// before the handler runs.
//
// Example usage:
//
//	c := inject.NewContainer()
//
//	g := gin.New()
//	g.Use(injectgin.Middleware(c))
//
//	g.POST("/login", injectgin.Handle(AuthController.Login))
//	g.GET("/users/:id", injectgin.Handle(UserController.GetByID))
package gin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/injectio/inject"
)

// containerKey is the key used to store the container in gin.Context.
const containerKey = "inject_container"

// ErrNoContainer is returned by FromContext when the gin context
// carries no container. Usually this means Middleware was not applied.
var ErrNoContainer = errors.New("no container in gin context")

// FromContext returns the container attached to the gin context by
// Middleware.
func FromContext(c *gin.Context) (*inject.Container, error) {
	value, exists := c.Get(containerKey)
	if !exists {
		return nil, ErrNoContainer
	}

	container, ok := value.(*inject.Container)
	if !ok || container == nil {
		return nil, ErrNoContainer
	}

	return container, nil
}

// Config holds the configuration for the container middleware.
type Config struct {
	// ErrorHandler is called when a request middleware fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ErrorHandler func(*gin.Context, error)

	// Middlewares are functions that run after the container is attached.
	// They can be used to initialize request state, set user claims, etc.
	Middlewares []func(*inject.Container, *gin.Context) error
}

// Option configures the container middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for middleware failures.
func WithErrorHandler(h func(*gin.Context, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithMiddleware adds a middleware function that runs after the
// container is attached. Multiple middlewares are executed in the order
// they are added.
func WithMiddleware(mw func(*inject.Container, *gin.Context) error) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(c *gin.Context, err error) {
			c.AbortWithStatus(http.StatusInternalServerError)
		},
		Middlewares: nil,
	}
}

// Middleware creates a Gin middleware that attaches the container to
// each request so Handle can resolve dependencies from it.
//
// Example:
//
//	g := gin.New()
//	g.Use(injectgin.Middleware(c))
func Middleware(container *inject.Container, opts ...Option) gin.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *gin.Context) {
		c.Set(containerKey, container)

		for _, mw := range cfg.Middlewares {
			if err := mw(container, c); err != nil {
				cfg.ErrorHandler(c, err)
				return
			}
		}

		c.Next()
	}
}

// HandlerConfig holds configuration for the Handle wrappers.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(*gin.Context, any)

	// ErrorHandler is called when dependency resolution fails.
	ErrorHandler func(*gin.Context, error)
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
func WithPanicHandler(h func(*gin.Context, any)) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for dependency
// resolution failures.
func WithResolutionErrorHandler(h func(*gin.Context, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ErrorHandler = h
	}
}

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		PanicRecovery: false,
		PanicHandler: func(c *gin.Context, v any) {
			slog.Error("panic in handler", "panic", v)
			c.AbortWithStatus(http.StatusInternalServerError)
		},
		ErrorHandler: func(c *gin.Context, err error) {
			slog.Error("failed to resolve controller", "error", err)
			c.AbortWithStatus(http.StatusInternalServerError)
		},
	}
}

// Handle wraps a controller method for type-safe resolution from the
// container attached to the gin context.
//
// The method signature should be: func(T, *gin.Context)
//
// Example:
//
//	g.GET("/users/:id", injectgin.Handle(UserController.GetByID))
func Handle[T any](method func(T, *gin.Context), opts ...HandlerOption) gin.HandlerFunc {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *gin.Context) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					cfg.PanicHandler(c, v)
				}
			}()
		}

		container, err := FromContext(c)
		if err != nil {
			cfg.ErrorHandler(c, err)
			return
		}

		controller, err := inject.Resolve[T](c.Request.Context(), container)
		if err != nil {
			cfg.ErrorHandler(c, err)
			return
		}

		method(controller, c)
	}
}

// HandleMarker wraps a controller method, resolving the controller from
// a marker instead of a container. No middleware is required.
//
// Example:
//
//	userController := inject.Provide[*UserController](controllerProvider)
//	g.GET("/users", injectgin.HandleMarker(userController, (*UserController).List))
func HandleMarker[T any](m *inject.Marker[T], method func(T, *gin.Context), opts ...HandlerOption) gin.HandlerFunc {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *gin.Context) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					cfg.PanicHandler(c, v)
				}
			}()
		}

		controller, err := inject.Resolved(c.Request.Context(), m)
		if err != nil {
			cfg.ErrorHandler(c, err)
			return
		}

		method(controller, c)
	}
}
