package utils

import "context"

// ctxKey is unexported to prevent collisions.
type ctxKey string

// CtxKeyRequestID stores the per-request correlation id.
const CtxKeyRequestID ctxKey = "requestID"

// RequestIDFrom returns the request id stored by the logging middleware.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(CtxKeyRequestID).(string)
	return id
}
