package inject

import (
	"context"
	"reflect"
)

// Marker is an immutable placeholder wrapping a single provider. It
// stands in for a dependency of type T until the resolution functions
// substitute it with a real instance.
//
// A marker is a passive tag, not a resolver: it carries the provider
// reference and nothing else. The wrapped provider never changes after
// construction, so markers are safe for concurrent use without
// coordination.
type Marker[T any] struct {
	provider Provider[T]
}

// Provide creates a marker wrapping the given provider.
//
// No validation is performed, not even a nil check: markers are
// constructed at package initialization time where failure has nowhere
// to go, so any problem with the provider surfaces when the marker is
// resolved instead.
func Provide[T any](provider Provider[T]) *Marker[T] {
	return &Marker[T]{provider: provider}
}

// Provider returns the wrapped provider, exactly as passed to Provide.
func (m *Marker[T]) Provider() Provider[T] {
	return m.provider
}

// Invoke returns the marker itself, unchanged.
//
// A marker that is invoked has not been substituted by the resolution
// functions yet; returning the receiver keeps the sentinel intact until
// Resolved, Call, or Bind replaces it. Invoke is deterministic and
// idempotent.
func (m *Marker[T]) Invoke() *Marker[T] {
	return m
}

// marker is the non-generic view of *Marker[T] used by the resolution
// functions to recognize and substitute markers of any type parameter.
type marker interface {
	// providedType reports the type the marker stands in for.
	providedType() reflect.Type

	// resolve produces an instance from the wrapped provider.
	resolve(ctx context.Context) (any, error)
}

var _ marker = (*Marker[any])(nil)

func (m *Marker[T]) providedType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (m *Marker[T]) resolve(ctx context.Context) (any, error) {
	if m.provider == nil {
		return nil, ResolutionError{
			ServiceType: m.providedType(),
			Cause:       ErrProviderNil,
		}
	}

	return m.provider.Instance(ctx)
}
