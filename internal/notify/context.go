package notify

import "context"

type sessionContextKey struct{}

// WithSessionID returns a context carrying the console session ID that
// notifications and confirmations for this request are addressed to.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sessionID)
}

// SessionIDFromContext returns the session ID carried by ctx, or "".
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionContextKey{}).(string)
	return id
}
