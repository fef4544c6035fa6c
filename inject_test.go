package inject_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/injectio/inject"
)

func TestResolved(t *testing.T) {
	ctx := context.Background()

	t.Run("substitutes the marker with the provided value", func(t *testing.T) {
		m := inject.Provide[int](inject.NewObject(42))

		v, err := inject.Resolved(ctx, m)
		require.NoError(t, err)
		require.Equal(t, 42, v)
	})

	t.Run("nil marker", func(t *testing.T) {
		_, err := inject.Resolved[int](ctx, nil)
		require.ErrorIs(t, err, inject.ErrMarkerNil)
	})

	t.Run("nil provider", func(t *testing.T) {
		m := inject.Provide[int](nil)

		_, err := inject.Resolved(ctx, m)
		require.ErrorIs(t, err, inject.ErrProviderNil)

		var re inject.ResolutionError
		require.ErrorAs(t, err, &re)
	})

	t.Run("provider errors propagate", func(t *testing.T) {
		boom := errors.New("boom")
		m := inject.Provide[int](inject.NewFactory(func(ctx context.Context) (int, error) {
			return 0, boom
		}))

		_, err := inject.Resolved(ctx, m)
		require.ErrorIs(t, err, boom)
	})
}

func TestMustResolved(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the value", func(t *testing.T) {
		m := inject.Provide[string](inject.NewObject("ok"))
		require.Equal(t, "ok", inject.MustResolved(ctx, m))
	})

	t.Run("panics on failure", func(t *testing.T) {
		m := inject.Provide[string](nil)
		require.Panics(t, func() {
			inject.MustResolved(ctx, m)
		})
	})
}

func TestCall(t *testing.T) {
	ctx := context.Background()

	t.Run("substitutes marker arguments", func(t *testing.T) {
		repo := inject.Provide[int](inject.NewObject(10))

		results, err := inject.Call(ctx, func(base int, n int) int {
			return base + n
		}, repo, 5)
		require.NoError(t, err)
		require.Equal(t, []any{15}, results)
	})

	t.Run("plain arguments pass through", func(t *testing.T) {
		results, err := inject.Call(ctx, func(a, b string) string {
			return a + b
		}, "foo", "bar")
		require.NoError(t, err)
		require.Equal(t, []any{"foobar"}, results)
	})

	t.Run("trailing error return is split out", func(t *testing.T) {
		boom := errors.New("boom")

		results, err := inject.Call(ctx, func(n int) (int, error) {
			return n, boom
		}, 1)
		require.ErrorIs(t, err, boom)
		require.Equal(t, []any{1}, results)
	})

	t.Run("marker resolution failure aborts the call", func(t *testing.T) {
		m := inject.Provide[int](nil)

		called := false
		_, err := inject.Call(ctx, func(n int) { called = true }, m)
		require.ErrorIs(t, err, inject.ErrProviderNil)
		require.False(t, called)
	})

	t.Run("markers resolve fresh on each call", func(t *testing.T) {
		var counter int
		m := inject.Provide[int](inject.NewFactory(func(ctx context.Context) (int, error) {
			counter++
			return counter, nil
		}))

		id := func(n int) int { return n }

		first, err := inject.Call(ctx, id, m)
		require.NoError(t, err)
		second, err := inject.Call(ctx, id, m)
		require.NoError(t, err)

		require.Equal(t, []any{1}, first)
		require.Equal(t, []any{2}, second)
	})

	t.Run("type mismatch", func(t *testing.T) {
		m := inject.Provide[string](inject.NewObject("nope"))

		_, err := inject.Call(ctx, func(n int) {}, m)

		var tm inject.TypeMismatchError
		require.ErrorAs(t, err, &tm)
	})

	t.Run("nil argument for a nilable parameter becomes nil", func(t *testing.T) {
		results, err := inject.Call(ctx, func(db *testDatabase) bool {
			return db == nil
		}, nil)
		require.NoError(t, err)
		require.Equal(t, []any{true}, results)
	})

	t.Run("nil argument for a value parameter is rejected", func(t *testing.T) {
		_, err := inject.Call(ctx, func(n int) {}, nil)

		var tm inject.TypeMismatchError
		require.ErrorAs(t, err, &tm)
	})

	t.Run("arity mismatch", func(t *testing.T) {
		_, err := inject.Call(ctx, func(a, b int) {}, 1)

		var ie inject.InvocationError
		require.ErrorAs(t, err, &ie)
	})

	t.Run("variadic tail accepts markers", func(t *testing.T) {
		m := inject.Provide[int](inject.NewObject(3))

		results, err := inject.Call(ctx, func(prefix string, ns ...int) string {
			return fmt.Sprintf("%s%v", prefix, ns)
		}, "ns=", 1, 2, m)
		require.NoError(t, err)
		require.Equal(t, []any{"ns=[1 2 3]"}, results)
	})

	t.Run("not a function", func(t *testing.T) {
		_, err := inject.Call(ctx, 42)

		var ie inject.InvocationError
		require.ErrorAs(t, err, &ie)
	})
}

func TestBind(t *testing.T) {
	ctx := context.Background()

	t.Run("binds trailing marker defaults", func(t *testing.T) {
		repo := inject.Provide[int](inject.NewObject(100))

		add, err := inject.Bind(func(n int, base int) int {
			return base + n
		}, repo)
		require.NoError(t, err)

		results, err := add(ctx, 5)
		require.NoError(t, err)
		require.Equal(t, []any{105}, results)
	})

	t.Run("marker defaults resolve on every invocation", func(t *testing.T) {
		var counter int
		m := inject.Provide[int](inject.NewFactory(func(ctx context.Context) (int, error) {
			counter++
			return counter, nil
		}))

		bound, err := inject.Bind(func(n int) int { return n }, m)
		require.NoError(t, err)

		first, err := bound(ctx)
		require.NoError(t, err)
		second, err := bound(ctx)
		require.NoError(t, err)

		require.Equal(t, []any{1}, first)
		require.Equal(t, []any{2}, second)
	})

	t.Run("plain defaults are validated eagerly", func(t *testing.T) {
		_, err := inject.Bind(func(n int) {}, "not an int")

		var tm inject.TypeMismatchError
		require.ErrorAs(t, err, &tm)
	})

	t.Run("nil default for a nilable parameter is accepted", func(t *testing.T) {
		bound, err := inject.Bind(func(db *testDatabase) bool {
			return db == nil
		}, nil)
		require.NoError(t, err)

		results, err := bound(ctx)
		require.NoError(t, err)
		require.Equal(t, []any{true}, results)
	})

	t.Run("nil default for a value parameter is rejected eagerly", func(t *testing.T) {
		_, err := inject.Bind(func(n int) {}, nil)

		var tm inject.TypeMismatchError
		require.ErrorAs(t, err, &tm)
	})

	t.Run("too many defaults", func(t *testing.T) {
		_, err := inject.Bind(func(n int) {}, 1, 2)

		var ie inject.InvocationError
		require.ErrorAs(t, err, &ie)
	})

	t.Run("wrong leading argument count", func(t *testing.T) {
		bound, err := inject.Bind(func(a string, n int) {}, 1)
		require.NoError(t, err)

		_, err = bound(ctx, "x", "extra")
		var ie inject.InvocationError
		require.ErrorAs(t, err, &ie)
	})

	t.Run("trailing error return propagates", func(t *testing.T) {
		boom := errors.New("boom")
		bound, err := inject.Bind(func(n int) error { return boom }, 1)
		require.NoError(t, err)

		_, err = bound(ctx)
		require.ErrorIs(t, err, boom)
	})
}
