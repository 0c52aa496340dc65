package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/upb/authgate/utils"
	"github.com/upb/authgate/verifier"
	"go.uber.org/zap"
)

var (
	// ErrMissingHeader is returned when the Authorization header is absent or empty
	ErrMissingHeader = errors.New("authorization header missing")

	// ErrMissingToken is returned when the Authorization header has no token field
	ErrMissingToken = errors.New("token missing")

	// ErrInvalidToken is returned when the token fails verification
	ErrInvalidToken = verifier.ErrInvalidToken
)

// Client-facing messages. They never carry the underlying cause.
const (
	msgMissingHeader = "Authorization header missing"
	msgMissingToken  = "Token missing"
	msgInvalidToken  = "Invalid token"
)

const bearerScheme = "Bearer"

// TokenVerifier defines the interface for verifying bearer tokens
type TokenVerifier interface {
	// Verify validates a token and returns its claims
	Verify(token string) (*verifier.Claims, error)
}

// AuthOption customizes an AuthMiddleware
type AuthOption func(*AuthMiddleware)

// WithRequireBearerScheme makes the gate accept only the literal "Bearer"
// scheme. By default any first word is accepted.
func WithRequireBearerScheme(require bool) AuthOption {
	return func(m *AuthMiddleware) {
		m.requireBearer = require
	}
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	verifier      TokenVerifier
	logger        *zap.Logger
	requireBearer bool
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(tokenVerifier TokenVerifier, logger *zap.Logger, opts ...AuthOption) *AuthMiddleware {
	m := &AuthMiddleware{
		verifier: tokenVerifier,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Authenticate extracts the bearer token from the request and verifies it.
// The returned error is one of ErrMissingHeader, ErrMissingToken or wraps
// ErrInvalidToken. It does not modify the request.
func (m *AuthMiddleware) Authenticate(r *http.Request) (*verifier.Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, ErrMissingHeader
	}

	token, ok := m.extractToken(header)
	if !ok {
		return nil, ErrMissingToken
	}

	claims, err := m.verifier.Verify(token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, err
		}
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if claims == nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// RequireAuth is a middleware that requires a valid bearer token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		claims, err := m.Authenticate(r)
		if err != nil {
			status, message := failureResponse(err)

			m.logger.Warn("authentication rejected",
				zap.String("request_id", requestID),
				zap.String("reason", message),
				zap.Int("status", status))
			if errors.Is(err, ErrInvalidToken) {
				m.logger.Debug("token verification failed",
					zap.String("request_id", requestID),
					zap.Error(err))
			}

			_ = utils.WriteError(w, status, message)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("sub", claims.Subject))

		next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
	})
}

// extractToken returns the second whitespace-delimited field of the header.
// The first field is only checked when the bearer scheme is required.
func (m *AuthMiddleware) extractToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return "", false
	}
	if m.requireBearer && fields[0] != bearerScheme {
		return "", false
	}
	return fields[1], true
}

// failureResponse maps a gate error to its HTTP status and client message
func failureResponse(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMissingHeader):
		return http.StatusUnauthorized, msgMissingHeader
	case errors.Is(err, ErrMissingToken):
		return http.StatusUnauthorized, msgMissingToken
	default:
		return http.StatusForbidden, msgInvalidToken
	}
}
