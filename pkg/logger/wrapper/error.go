package wrap

import (
	"context"
	"errors"
)

// ctxError carries the LogCtx of the place where an error happened.
type ctxError struct {
	err    error
	logCtx LogCtx
}

func (e *ctxError) Error() string { return e.err.Error() }
func (e *ctxError) Unwrap() error { return e.err }

// Error attaches the LogCtx of ctx to err. When err already carries one, the
// inner fields win and ctx only fills the gaps, so the point of failure is kept.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	lc := fromContext(ctx)
	var inner *ctxError
	if errors.As(err, &inner) {
		lc = inner.logCtx.fill(lc)
	}
	return &ctxError{err: err, logCtx: lc}
}

// ErrorCtx returns ctx carrying the LogCtx recorded in err, if any.
func ErrorCtx(ctx context.Context, err error) context.Context {
	var e *ctxError
	if errors.As(err, &e) {
		return context.WithValue(ctx, LogCtxKey, e.logCtx.fill(fromContext(ctx)))
	}
	return ctx
}
