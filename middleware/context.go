package middleware

import (
	"context"

	"github.com/upb/authgate/verifier"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// ClaimsKey is the context key for verified token claims
	ClaimsKey contextKey = "claims"
)

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetClaimsFromContext retrieves the verified claims from context, or nil
// when the request did not pass through RequireAuth.
func GetClaimsFromContext(ctx context.Context) *verifier.Claims {
	claims, _ := ClaimsFromContext(ctx)
	return claims
}

// ClaimsFromContext retrieves the verified claims and reports whether they were present
func ClaimsFromContext(ctx context.Context) (*verifier.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*verifier.Claims)
	return claims, ok && claims != nil
}

// WithClaims adds verified claims to the context
func WithClaims(ctx context.Context, claims *verifier.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}
