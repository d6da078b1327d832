package types

import (
	"context"

	"github.com/google/uuid"
)

type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
)

// SetRequestID attaches a request ID to the context for log correlation.
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}

// GetRequestID returns the request ID from the context, if any.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxRequestID).(string); ok {
		return id
	}
	return ""
}

// GenerateRequestID returns a fresh request ID.
func GenerateRequestID() string {
	return uuid.NewString()
}

// GeneratePaymentToken returns the unique public token embedded in a bill's
// payment link.
func GeneratePaymentToken() string {
	return uuid.NewString()
}
