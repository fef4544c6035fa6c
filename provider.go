package inject

import (
	"context"
	"reflect"
)

// Provider is the single capability a dependency source must expose:
// produce an instance of T. How the instance is created, cached, or
// pooled is the implementation's concern.
type Provider[T any] interface {
	// Instance produces a value of type T. Implementations should
	// respect context cancellation if production blocks.
	Instance(ctx context.Context) (T, error)
}

// anyProvider is the non-generic view of Provider[T] used by the
// container registry to store and resolve heterogeneous providers.
type anyProvider interface {
	// instanceAny produces an instance as any.
	instanceAny(ctx context.Context) (any, error)

	// providedType reports the type produced by the provider.
	providedType() reflect.Type
}

// typeFor returns the reflect.Type for T, including interface types.
func typeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// asAnyProvider bridges a typed provider into the registry view. The
// concrete providers in this package implement anyProvider directly
// and are used as-is; foreign Provider implementations get wrapped.
func asAnyProvider[T any](p Provider[T]) anyProvider {
	if ap, ok := p.(anyProvider); ok {
		return ap
	}

	return providerAdapter[T]{p: p}
}

type providerAdapter[T any] struct {
	p Provider[T]
}

func (a providerAdapter[T]) instanceAny(ctx context.Context) (any, error) {
	return a.p.Instance(ctx)
}

func (a providerAdapter[T]) providedType() reflect.Type {
	return typeFor[T]()
}

// closeWithContext forwards disposal to the wrapped provider, so
// foreign Provider implementations that are Disposable get closed when
// their container closes.
func (a providerAdapter[T]) closeWithContext(ctx context.Context) error {
	return dispose(ctx, a.p)
}
