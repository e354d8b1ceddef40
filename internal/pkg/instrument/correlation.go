package instrument

import "context"

type correlationIDKey struct{}

// SetCorrelationID stores the request correlation ID in the context.
// The HTTP middleware and the message consumers both call it so logs
// from one request or event share a single ID.
func SetCorrelationID(ctx context.Context, cID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cID)
}

// GetCorrelationID returns the correlation ID or an empty string.
func GetCorrelationID(ctx context.Context) string {
	cID, _ := ctx.Value(correlationIDKey{}).(string)
	return cID
}
