package adminkit

import (
	"context"
)

// Context keys for AdminKit values.
type contextKey string

const (
	contextKeyActorID   contextKey = "adminkit:actor_id"
	contextKeyIPAddress contextKey = "adminkit:ip_address"
	contextKeyUserAgent contextKey = "adminkit:user_agent"
	contextKeyRequestID contextKey = "adminkit:request_id"
)

// WithActorID adds the acting admin's id to the context. Middleware uses it
// to resolve the actor for permission checks.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, contextKeyActorID, actorID)
}

// GetActorID retrieves the actor id from context. Returns empty string if
// not set.
func GetActorID(ctx context.Context) string {
	if v := ctx.Value(contextKeyActorID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithRequestMetadata adds request forensics (IP address, user agent,
// request id) to the context for audit descriptions.
func WithRequestMetadata(ctx context.Context, ipAddress, userAgent, requestID string) context.Context {
	ctx = context.WithValue(ctx, contextKeyIPAddress, ipAddress)
	ctx = context.WithValue(ctx, contextKeyUserAgent, userAgent)
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// GetIPAddress retrieves the request IP address from context.
func GetIPAddress(ctx context.Context) string {
	return stringFromContext(ctx, contextKeyIPAddress)
}

// GetUserAgent retrieves the request user agent from context.
func GetUserAgent(ctx context.Context) string {
	return stringFromContext(ctx, contextKeyUserAgent)
}

// GetRequestID retrieves the request id from context.
func GetRequestID(ctx context.Context) string {
	return stringFromContext(ctx, contextKeyRequestID)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if v := ctx.Value(key); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
