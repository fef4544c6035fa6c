package inject

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/injectio/inject/internal/reflection"
	"github.com/injectio/inject/internal/registry"
)

// Container is a thread-safe registry of providers keyed by service
// type and optional name. It performs lookup and lifecycle management;
// the providers themselves decide how instances are produced.
type Container struct {
	id  string
	reg *registry.Registry

	// State
	closed int32 // atomic
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{
		id:  uuid.NewString(),
		reg: registry.New(),
	}
}

// ID returns the unique identifier for the container.
// This ID is a UUID generated when the container is created.
func (c *Container) ID() string {
	return c.id
}

// Len reports the number of registered providers.
func (c *Container) Len() int {
	return c.reg.Len()
}

// A RegisterOption modifies the default behavior of Register.
type RegisterOption interface {
	applyRegisterOption(*registerOptions)
}

type registerOptions struct {
	Name string
}

func (o *registerOptions) Validate() error {
	// Names must be representable inside a backquoted string. The only
	// limitation for raw string literals as per
	// https://golang.org/ref/spec#raw_string_lit is that they cannot contain
	// backquotes.
	if strings.ContainsRune(o.Name, '`') {
		return fmt.Errorf("invalid inject.Name(%q): names cannot contain backquotes", o.Name)
	}
	return nil
}

// Name is a RegisterOption that registers the provider under the given
// name, allowing multiple providers of the same type to coexist.
//
//	inject.Register(c, NewReadOnlyConn, inject.Name("ro"))
//	inject.Register(c, NewReadWriteConn, inject.Name("rw"))
func Name(name string) RegisterOption {
	return registerNameOption(name)
}

type registerNameOption string

func (o registerNameOption) String() string {
	return fmt.Sprintf("Name(%q)", string(o))
}

func (o registerNameOption) applyRegisterOption(opt *registerOptions) {
	opt.Name = string(o)
}

// Register adds a provider for type T to the container.
//
// Example:
//
//	err := inject.Register(c, inject.NewSingleton(NewDatabase))
func Register[T any](c *Container, provider Provider[T], opts ...RegisterOption) error {
	serviceType := typeFor[T]()

	if c == nil {
		return RegistrationError{ServiceType: serviceType, Cause: ErrContainerNil}
	}
	if atomic.LoadInt32(&c.closed) != 0 {
		return RegistrationError{ServiceType: serviceType, Cause: ErrContainerClosed}
	}
	if provider == nil {
		return RegistrationError{ServiceType: serviceType, Cause: ErrProviderNil}
	}

	options := &registerOptions{}
	for _, opt := range opts {
		opt.applyRegisterOption(options)
	}
	if err := options.Validate(); err != nil {
		return RegistrationError{ServiceType: serviceType, ServiceName: options.Name, Cause: err}
	}

	key := registry.Key{Type: serviceType, Name: options.Name}
	if err := c.reg.Add(key, asAnyProvider(provider)); err != nil {
		return RegistrationError{ServiceType: serviceType, ServiceName: options.Name, Cause: err}
	}

	return nil
}

// resolveType resolves an instance for the given type and name from the
// registry.
func (c *Container) resolveType(ctx context.Context, serviceType reflect.Type, name string) (any, error) {
	if atomic.LoadInt32(&c.closed) != 0 {
		return nil, ResolutionError{ServiceType: serviceType, ServiceName: name, Cause: ErrContainerClosed}
	}
	if serviceType == nil {
		return nil, ResolutionError{Cause: ErrServiceTypeNil}
	}

	entry, ok := c.reg.Get(registry.Key{Type: serviceType, Name: name})
	if !ok {
		return nil, ResolutionError{
			ServiceType: serviceType,
			ServiceName: name,
			Cause:       ErrServiceNotFound,
			Available:   c.reg.Types(),
		}
	}

	provider, ok := entry.(anyProvider)
	if !ok {
		return nil, ResolutionError{
			ServiceType: serviceType,
			ServiceName: name,
			Cause:       fmt.Errorf("invalid registry entry: %T", entry),
		}
	}

	instance, err := provider.instanceAny(ctx)
	if err != nil {
		return nil, ResolutionError{ServiceType: serviceType, ServiceName: name, Cause: err}
	}

	return instance, nil
}

// Invoke calls fn with parameters resolved from the container.
//
// Each parameter is resolved by type; a parameter of type
// context.Context receives ctx. If fn's single parameter is a struct
// embedding inject.In, it is filled like Fill does. A trailing error
// return of fn is propagated.
func (c *Container) Invoke(ctx context.Context, fn any) error {
	if atomic.LoadInt32(&c.closed) != 0 {
		return ErrContainerClosed
	}

	info, err := reflection.AnalyzeFunc(fn)
	if err != nil {
		return InvocationError{Cause: err}
	}
	if info.IsVariadic {
		return InvocationError{Func: info.Type, Cause: fmt.Errorf("variadic functions are not supported")}
	}

	args := make([]reflect.Value, len(info.Params))
	for i, paramType := range info.Params {
		switch {
		case paramType == contextType:
			args[i] = reflect.ValueOf(ctx)
		case reflection.IsInStruct(paramType):
			param := reflect.New(paramType)
			if err := c.fillValue(ctx, param.Elem()); err != nil {
				return err
			}
			args[i] = param.Elem()
		default:
			instance, err := c.resolveType(ctx, paramType, "")
			if err != nil {
				return err
			}
			args[i] = instanceValue(instance, paramType)
		}
	}

	_, err = info.Call(args)
	return err
}

// Fill populates a parameter object from the container. target must be
// a non-nil pointer to a struct embedding inject.In. Exported fields
// are resolved by type, honoring name:"..." and optional:"true" tags.
//
//	type HandlerParams struct {
//	    inject.In
//
//	    DB    *Database
//	    Cache Cache `name:"redis" optional:"true"`
//	}
func (c *Container) Fill(ctx context.Context, target any) error {
	if atomic.LoadInt32(&c.closed) != 0 {
		return ErrContainerClosed
	}

	v := reflect.ValueOf(target)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() {
		return InvocationError{Cause: fmt.Errorf("fill target must be a non-nil pointer to a struct, got %T", target)}
	}

	return c.fillValue(ctx, v.Elem())
}

func (c *Container) fillValue(ctx context.Context, structValue reflect.Value) error {
	fields, err := reflection.ParseInStruct(structValue.Type())
	if err != nil {
		return InvocationError{Cause: err}
	}

	for _, field := range fields {
		instance, err := c.resolveType(ctx, field.Type, field.NameTag)
		if err != nil {
			if field.Optional && isNotFound(err) {
				continue
			}
			return err
		}

		structValue.Field(field.Index).Set(instanceValue(instance, field.Type))
	}

	return nil
}

// Close disposes all registered providers that implement Disposable or
// DisposableWithContext, in reverse registration order, and marks the
// container closed. Closing twice is a no-op.
func (c *Container) Close() error {
	return c.CloseWithContext(context.Background())
}

// CloseWithContext is like Close but passes ctx to providers that
// implement DisposableWithContext, allowing graceful shutdown with a
// deadline.
func (c *Container) CloseWithContext(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil // Already closed
	}

	var errs []error
	for _, entry := range c.reg.Drain() {
		if err := dispose(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return DisposalError{Context: "container", Errors: errs}
	}

	return nil
}

var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()

// instanceValue converts a resolved instance to a reflect.Value of the
// requested type. A nil instance becomes the type's zero value, which
// matters for interface-typed fields.
func instanceValue(instance any, t reflect.Type) reflect.Value {
	if instance == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(instance)
}

func isNotFound(err error) bool {
	var re ResolutionError
	return errors.As(err, &re) && errors.Is(re.Cause, ErrServiceNotFound)
}

// Resolve resolves an instance of type T from the container.
//
// Example:
//
//	db, err := inject.Resolve[*Database](ctx, c)
func Resolve[T any](ctx context.Context, c *Container) (T, error) {
	return ResolveNamed[T](ctx, c, "")
}

// ResolveNamed resolves a named instance of type T from the container.
//
// Example:
//
//	conn, err := inject.ResolveNamed[*Conn](ctx, c, "ro")
func ResolveNamed[T any](ctx context.Context, c *Container, name string) (T, error) {
	var zero T

	if c == nil {
		return zero, ResolutionError{ServiceType: typeFor[T](), ServiceName: name, Cause: ErrContainerNil}
	}

	instance, err := c.resolveType(ctx, typeFor[T](), name)
	if err != nil {
		return zero, err
	}

	result, ok := instance.(T)
	if !ok && instance != nil {
		return zero, TypeMismatchError{
			Expected: typeFor[T](),
			Actual:   reflect.TypeOf(instance),
			Context:  "type assertion",
		}
	}

	return result, nil
}

// MustResolve resolves an instance of type T from the container and
// panics on failure. Useful during application initialization where a
// missing dependency is fatal.
func MustResolve[T any](ctx context.Context, c *Container) T {
	instance, err := Resolve[T](ctx, c)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve: %v", err))
	}

	return instance
}

// MustResolveNamed resolves a named instance of type T from the
// container and panics on failure.
func MustResolveNamed[T any](ctx context.Context, c *Container, name string) T {
	instance, err := ResolveNamed[T](ctx, c, name)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %q: %v", name, err))
	}

	return instance
}
