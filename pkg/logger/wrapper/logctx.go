package wrap

import "context"

// LogCtx holds the request and domain identifiers that every log line carries.
type LogCtx struct {
	Action        string
	Caller        string
	RequestID     string
	ReservationID string
	DriverID      string
}

type logCtxKey struct{}

// LogCtxKey is the context key under which LogCtx is stored.
var LogCtxKey = logCtxKey{}

// fill copies every field of base that c leaves empty.
func (c LogCtx) fill(base LogCtx) LogCtx {
	if c.Action == "" {
		c.Action = base.Action
	}
	if c.Caller == "" {
		c.Caller = base.Caller
	}
	if c.RequestID == "" {
		c.RequestID = base.RequestID
	}
	if c.ReservationID == "" {
		c.ReservationID = base.ReservationID
	}
	if c.DriverID == "" {
		c.DriverID = base.DriverID
	}
	return c
}

func fromContext(ctx context.Context) LogCtx {
	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	return lc
}

func update(ctx context.Context, fn func(lc *LogCtx)) context.Context {
	lc := fromContext(ctx)
	fn(&lc)
	return context.WithValue(ctx, LogCtxKey, lc)
}

func WithCaller(ctx context.Context, caller string) context.Context {
	return update(ctx, func(lc *LogCtx) { lc.Caller = caller })
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return update(ctx, func(lc *LogCtx) { lc.RequestID = requestID })
}

func WithReservationID(ctx context.Context, reservationID string) context.Context {
	return update(ctx, func(lc *LogCtx) { lc.ReservationID = reservationID })
}

func WithDriverID(ctx context.Context, driverID string) context.Context {
	return update(ctx, func(lc *LogCtx) { lc.DriverID = driverID })
}

// WithAction replaces the action; the identifiers already in ctx are kept.
func WithAction(ctx context.Context, action string) context.Context {
	return update(ctx, func(lc *LogCtx) { lc.Action = action })
}
