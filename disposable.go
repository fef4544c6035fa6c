package inject

import "context"

// Disposable is implemented by instances and providers that need
// cleanup when their container is closed.
//
// Example:
//
//	type DatabaseConnection struct {
//	    conn *sql.DB
//	}
//
//	func (dc *DatabaseConnection) Close() error {
//	    return dc.conn.Close()
//	}
type Disposable interface {
	Close() error
}

// DisposableWithContext allows disposal with context for graceful shutdown.
// Instances implementing this interface can perform context-aware cleanup.
//
// Example:
//
//	func (dc *DatabaseConnection) Close(ctx context.Context) error {
//	    done := make(chan error, 1)
//	    go func() {
//	        done <- dc.conn.Close()
//	    }()
//
//	    select {
//	    case err := <-done:
//	        return err
//	    case <-ctx.Done():
//	        return ctx.Err()
//	    }
//	}
type DisposableWithContext interface {
	Close(ctx context.Context) error
}

// ctxCloser is implemented by the in-package providers so disposal can
// reach their cached state with the caller's context.
type ctxCloser interface {
	closeWithContext(ctx context.Context) error
}

// dispose closes v if it is disposable, preferring the context-aware
// form.
func dispose(ctx context.Context, v any) error {
	switch d := v.(type) {
	case ctxCloser:
		return d.closeWithContext(ctx)
	case DisposableWithContext:
		return d.Close(ctx)
	case Disposable:
		return d.Close()
	}

	return nil
}
