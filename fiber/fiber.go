// Package fiber provides inject integration for the Fiber web framework.
//
// This package provides middleware for attaching a container to each
// request and type-safe handler wrappers that substitute dependencies
// before the handler runs.
//
// Example usage:
//
//	c := inject.NewContainer()
//
//	app := fiber.New()
//	app.Use(injectfiber.Middleware(c))
//
//	app.Post("/login", injectfiber.Handle(AuthController.Login))
//	app.Get("/users/:id", injectfiber.Handle(UserController.GetByID))
package fiber

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/injectio/inject"
)

// containerKey is the key used to store the container in fiber.Ctx.Locals
const containerKey = "inject_container"

// ErrNoContainer is returned by FromContext when the fiber context
// carries no container. Usually this means Middleware was not applied.
var ErrNoContainer = errors.New("no container in fiber context")

// FromContext returns the container attached to the fiber context by
// Middleware.
func FromContext(c *fiber.Ctx) (*inject.Container, error) {
	container, ok := c.Locals(containerKey).(*inject.Container)
	if !ok || container == nil {
		return nil, ErrNoContainer
	}

	return container, nil
}

// Config holds the configuration for the container middleware.
type Config struct {
	// ErrorHandler is called when a request middleware fails.
	// If nil, the error is returned (Fiber's default error handling).
	ErrorHandler func(*fiber.Ctx, error) error

	// Middlewares are functions that run after the container is attached.
	// They can be used to initialize request state, set user data, etc.
	Middlewares []func(*inject.Container, *fiber.Ctx) error
}

// Option configures the container middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for middleware failures.
func WithErrorHandler(h func(*fiber.Ctx, error) error) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithMiddleware adds a middleware function that runs after the
// container is attached. Multiple middlewares are executed in the order
// they are added.
func WithMiddleware(mw func(*inject.Container, *fiber.Ctx) error) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return err
		},
		Middlewares: nil,
	}
}

// Middleware creates a Fiber middleware that attaches the container to
// each request so Handle can resolve dependencies from it.
//
// Example:
//
//	app := fiber.New()
//	app.Use(injectfiber.Middleware(c))
func Middleware(container *inject.Container, opts ...Option) fiber.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *fiber.Ctx) error {
		c.Locals(containerKey, container)

		for _, mw := range cfg.Middlewares {
			if err := mw(container, c); err != nil {
				return cfg.ErrorHandler(c, err)
			}
		}

		return c.Next()
	}
}

// HandlerConfig holds configuration for the Handle wrappers.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(*fiber.Ctx, any) error

	// ErrorHandler is called when dependency resolution fails.
	ErrorHandler func(*fiber.Ctx, error) error
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
func WithPanicHandler(h func(*fiber.Ctx, any) error) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for dependency
// resolution failures.
func WithResolutionErrorHandler(h func(*fiber.Ctx, error) error) HandlerOption {
	return func(c *HandlerConfig) {
		c.ErrorHandler = h
	}
}

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		PanicRecovery: false,
		PanicHandler: func(c *fiber.Ctx, v any) error {
			slog.Error("panic in handler", "panic", v)
			return c.SendStatus(fiber.StatusInternalServerError)
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("failed to resolve controller", "error", err)
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	}
}

// Handle wraps a controller method for type-safe resolution from the
// container attached to the fiber context.
//
// The method signature should be: func(T, *fiber.Ctx) error
//
// Example:
//
//	app.Get("/users/:id", injectfiber.Handle(UserController.GetByID))
func Handle[T any](method func(T, *fiber.Ctx) error, opts ...HandlerOption) fiber.Handler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *fiber.Ctx) (err error) {
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

		controller, rerr := inject.Resolve[T](c.UserContext(), container)
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
//	app.Get("/users", injectfiber.HandleMarker(userController, (*UserController).List))
func HandleMarker[T any](m *inject.Marker[T], method func(T, *fiber.Ctx) error, opts ...HandlerOption) fiber.Handler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *fiber.Ctx) (err error) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					err = cfg.PanicHandler(c, v)
				}
			}()
		}

		controller, rerr := inject.Resolved(c.UserContext(), m)
		if rerr != nil {
			return cfg.ErrorHandler(c, rerr)
		}

		return method(controller, c)
	}
}
