package logger

import "context"

type contextKey int

const (
	requestIDKey contextKey = iota
	acquisitionIDKey
)

// WithRequestID returns a new context carrying the HTTP request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID extracts the request ID from the context, or "" if unset.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithAcquisitionID returns a new context carrying the acquisition ID, so
// log lines across the fetch/normalize/analyze pipeline correlate.
func WithAcquisitionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, acquisitionIDKey, id)
}

// AcquisitionID extracts the acquisition ID from the context, or "" if unset.
func AcquisitionID(ctx context.Context) string {
	id, _ := ctx.Value(acquisitionIDKey).(string)
	return id
}
