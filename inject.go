package inject

import (
	"context"
	"fmt"
	"reflect"

	"github.com/injectio/inject/internal/reflection"
)

// Resolved substitutes a marker with an instance produced by its
// wrapped provider. This is the single-marker form of the resolution
// the Call and Bind functions perform on whole argument lists.
//
// A nil marker or a marker wrapping a nil provider is a resolution
// error; marker construction deliberately performs no validation, so
// this is where those mistakes surface.
func Resolved[T any](ctx context.Context, m *Marker[T]) (T, error) {
	var zero T

	if m == nil {
		return zero, ResolutionError{ServiceType: typeFor[T](), Cause: ErrMarkerNil}
	}
	if m.provider == nil {
		return zero, ResolutionError{ServiceType: typeFor[T](), Cause: ErrProviderNil}
	}

	return m.provider.Instance(ctx)
}

// MustResolved substitutes a marker and panics on failure.
func MustResolved[T any](ctx context.Context, m *Marker[T]) T {
	instance, err := Resolved(ctx, m)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve marker: %v", err))
	}

	return instance
}

// Call invokes fn after substituting every marker argument with a value
// resolved from its provider. Plain arguments are passed through
// unchanged. A trailing error return of fn is split out of the results.
//
// Example:
//
//	repo := inject.Provide[*UserRepo](repoProvider)
//	results, err := inject.Call(ctx, createUser, repo, "alice")
func Call(ctx context.Context, fn any, args ...any) ([]any, error) {
	info, err := reflection.AnalyzeFunc(fn)
	if err != nil {
		return nil, InvocationError{Cause: err}
	}

	if err := checkArity(info, len(args)); err != nil {
		return nil, err
	}

	values := make([]reflect.Value, len(args))
	for i, arg := range args {
		paramType := paramTypeAt(info, i)
		value, err := substituteArg(ctx, arg, paramType)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}

	return info.Call(values)
}

// BoundFunc is a function with pre-bound trailing defaults, produced by
// Bind. Call arguments fill the leading parameters; marker defaults are
// resolved afresh on every invocation.
type BoundFunc func(ctx context.Context, args ...any) ([]any, error)

// Bind pre-binds the trailing parameters of fn to the given defaults,
// which may be markers or plain values. The returned function takes the
// remaining leading parameters.
//
// Example:
//
//	repo := inject.Provide[*UserRepo](repoProvider)
//	createUser, err := inject.Bind(func(name string, r *UserRepo) error {
//	    return r.Create(name)
//	}, repo)
//
//	_, err = createUser(ctx, "alice")
func Bind(fn any, defaults ...any) (BoundFunc, error) {
	info, err := reflection.AnalyzeFunc(fn)
	if err != nil {
		return nil, InvocationError{Cause: err}
	}
	if info.IsVariadic {
		return nil, InvocationError{Func: info.Type, Cause: fmt.Errorf("variadic functions are not supported")}
	}
	if len(defaults) > len(info.Params) {
		return nil, InvocationError{
			Func:  info.Type,
			Cause: fmt.Errorf("%d defaults for %d parameters", len(defaults), len(info.Params)),
		}
	}

	// Validate plain defaults eagerly; marker defaults are checked at
	// each invocation when their resolved value is known.
	lead := len(info.Params) - len(defaults)
	for i, def := range defaults {
		if _, ok := def.(marker); ok {
			continue
		}
		paramType := info.Params[lead+i]
		if def == nil {
			if !canBeNil(paramType) {
				return nil, TypeMismatchError{
					Expected: paramType,
					Context:  "default binding",
				}
			}
			continue
		}
		if !reflect.TypeOf(def).AssignableTo(paramType) {
			return nil, TypeMismatchError{
				Expected: paramType,
				Actual:   reflect.TypeOf(def),
				Context:  "default binding",
			}
		}
	}

	return func(ctx context.Context, args ...any) ([]any, error) {
		if len(args) != lead {
			return nil, InvocationError{
				Func:  info.Type,
				Cause: fmt.Errorf("expected %d arguments, got %d", lead, len(args)),
			}
		}

		values := make([]reflect.Value, len(info.Params))
		for i, arg := range args {
			value, err := substituteArg(ctx, arg, info.Params[i])
			if err != nil {
				return nil, err
			}
			values[i] = value
		}
		for i, def := range defaults {
			value, err := substituteArg(ctx, def, info.Params[lead+i])
			if err != nil {
				return nil, err
			}
			values[lead+i] = value
		}

		return info.Call(values)
	}, nil
}

// substituteArg resolves arg if it is a marker and converts the result
// to a reflect.Value assignable to paramType.
func substituteArg(ctx context.Context, arg any, paramType reflect.Type) (reflect.Value, error) {
	if m, ok := arg.(marker); ok {
		resolved, err := m.resolve(ctx)
		if err != nil {
			return reflect.Value{}, err
		}
		arg = resolved
	}

	if arg == nil {
		if !canBeNil(paramType) {
			return reflect.Value{}, TypeMismatchError{
				Expected: paramType,
				Context:  "argument substitution",
			}
		}
		return reflect.Zero(paramType), nil
	}

	value := reflect.ValueOf(arg)
	if !value.Type().AssignableTo(paramType) {
		return reflect.Value{}, TypeMismatchError{
			Expected: paramType,
			Actual:   value.Type(),
			Context:  "argument substitution",
		}
	}

	return value, nil
}

// canBeNil reports whether values of type t can hold nil. A nil
// argument or default for any other kind is a type mismatch, not a
// silent zero value.
func canBeNil(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
		reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

func checkArity(info *reflection.FuncInfo, argc int) error {
	if info.IsVariadic {
		if argc < len(info.Params)-1 {
			return InvocationError{
				Func:  info.Type,
				Cause: fmt.Errorf("expected at least %d arguments, got %d", len(info.Params)-1, argc),
			}
		}
		return nil
	}

	if argc != len(info.Params) {
		return InvocationError{
			Func:  info.Type,
			Cause: fmt.Errorf("expected %d arguments, got %d", len(info.Params), argc),
		}
	}

	return nil
}

// paramTypeAt returns the effective parameter type at position i,
// unwrapping the slice element type for the variadic tail.
func paramTypeAt(info *reflection.FuncInfo, i int) reflect.Type {
	last := len(info.Params) - 1
	if info.IsVariadic && i >= last {
		return info.Params[last].Elem()
	}
	return info.Params[i]
}
