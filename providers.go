package inject

import (
	"context"
	"reflect"
	"sync"
)

// Constructor is the function shape accepted by Factory and Singleton
// providers.
type Constructor[T any] func(ctx context.Context) (T, error)

// overridable implements test-time value substitution shared by all
// concrete providers. An active override short-circuits resolution.
type overridable[T any] struct {
	mu         sync.RWMutex
	overridden bool
	value      T
}

// Override replaces the provider's produced value until ResetOverride
// is called. Intended for tests that need to swap a dependency without
// touching the wiring.
func (o *overridable[T]) Override(value T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.overridden = true
	o.value = value
}

// ResetOverride removes an active override.
func (o *overridable[T]) ResetOverride() {
	o.mu.Lock()
	defer o.mu.Unlock()
	var zero T
	o.overridden = false
	o.value = zero
}

// current returns the override value if one is active.
func (o *overridable[T]) current() (T, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value, o.overridden
}

// ObjectProvider always produces the same fixed value.
type ObjectProvider[T any] struct {
	overridable[T]
	object T
}

// NewObject creates a provider that produces the given value on every
// resolution.
func NewObject[T any](value T) *ObjectProvider[T] {
	return &ObjectProvider[T]{object: value}
}

// Instance returns the fixed value, or the override if one is active.
func (p *ObjectProvider[T]) Instance(ctx context.Context) (T, error) {
	if v, ok := p.current(); ok {
		return v, nil
	}

	return p.object, nil
}

// FactoryProvider produces a new instance on every resolution by
// invoking its constructor.
type FactoryProvider[T any] struct {
	overridable[T]
	construct Constructor[T]
}

// NewFactory creates a transient provider around the constructor.
func NewFactory[T any](construct Constructor[T]) *FactoryProvider[T] {
	return &FactoryProvider[T]{construct: construct}
}

// Instance invokes the constructor, or returns the override if one is
// active.
func (p *FactoryProvider[T]) Instance(ctx context.Context) (T, error) {
	if v, ok := p.current(); ok {
		return v, nil
	}

	if p.construct == nil {
		var zero T
		return zero, ResolutionError{
			ServiceType: typeFor[T](),
			Cause:       ErrConstructorNil,
		}
	}

	return p.construct(ctx)
}

// SingletonProvider invokes its constructor at most once and caches the
// instance for all later resolutions.
type SingletonProvider[T any] struct {
	overridable[T]
	construct Constructor[T]

	buildMu  sync.Mutex
	built    bool
	instance T
}

// NewSingleton creates a provider that lazily builds one shared
// instance. A failed construction is not cached; the next resolution
// retries.
func NewSingleton[T any](construct Constructor[T]) *SingletonProvider[T] {
	return &SingletonProvider[T]{construct: construct}
}

// Instance returns the cached instance, building it on first use. An
// active override bypasses both the cache and the constructor.
func (p *SingletonProvider[T]) Instance(ctx context.Context) (T, error) {
	if v, ok := p.current(); ok {
		return v, nil
	}

	p.buildMu.Lock()
	defer p.buildMu.Unlock()

	if p.built {
		return p.instance, nil
	}

	if p.construct == nil {
		var zero T
		return zero, ResolutionError{
			ServiceType: typeFor[T](),
			Cause:       ErrConstructorNil,
		}
	}

	instance, err := p.construct(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	p.instance = instance
	p.built = true
	return instance, nil
}

// Reset discards the cached instance, closing it first if it is
// Disposable or DisposableWithContext. The next resolution rebuilds.
// Useful between tests.
func (p *SingletonProvider[T]) Reset() error {
	return p.closeWithContext(context.Background())
}

// Close disposes the cached instance if one was built. Implements
// Disposable so containers clean singletons up on Close.
func (p *SingletonProvider[T]) Close() error {
	return p.closeWithContext(context.Background())
}

// closeWithContext discards and disposes the cached instance, passing
// ctx through to a DisposableWithContext instance.
func (p *SingletonProvider[T]) closeWithContext(ctx context.Context) error {
	p.buildMu.Lock()
	defer p.buildMu.Unlock()

	if !p.built {
		return nil
	}

	var zero T
	instance := p.instance
	p.instance = zero
	p.built = false

	return dispose(ctx, any(instance))
}

// anyProvider implementations so the concrete providers can be stored
// in a container registry without wrapping.

func (p *ObjectProvider[T]) instanceAny(ctx context.Context) (any, error) {
	return p.Instance(ctx)
}

func (p *ObjectProvider[T]) providedType() reflect.Type { return typeFor[T]() }

func (p *FactoryProvider[T]) instanceAny(ctx context.Context) (any, error) {
	return p.Instance(ctx)
}

func (p *FactoryProvider[T]) providedType() reflect.Type { return typeFor[T]() }

func (p *SingletonProvider[T]) instanceAny(ctx context.Context) (any, error) {
	return p.Instance(ctx)
}

func (p *SingletonProvider[T]) providedType() reflect.Type { return typeFor[T]() }
