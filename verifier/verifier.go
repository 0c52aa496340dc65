package verifier

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for every token that fails verification.
	// Malformed structure, bad signatures and expired tokens are not
	// distinguished; the wrapped message carries the cause for logs only.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMissingSecret is returned by New when no signing secret is configured
	ErrMissingSecret = errors.New("signing secret is required")

	// ErrUnsupportedAlgorithm is returned by New for non-HMAC algorithms
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// DefaultAlgorithms are the HMAC algorithms accepted when none are configured
var DefaultAlgorithms = []string{"HS256", "HS384", "HS512"}

// Config holds configuration for Verifier
type Config struct {
	Secret     []byte
	Algorithms []string
	Leeway     time.Duration
	Issuer     string // optional; checked only when set
	Audience   string // optional; checked only when set
}

// Option customizes a Verifier
type Option func(*Verifier)

// WithClock sets the clock used for exp and nbf checks
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

// Verifier validates HMAC-signed JWTs against a single shared secret.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	secret     []byte
	algorithms []string
	now        func() time.Time
	parser     *jwt.Parser
}

// New creates a Verifier. Configuration problems are reported here, at
// startup, and never per request.
func New(cfg Config, opts ...Option) (*Verifier, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrMissingSecret
	}

	algorithms := cfg.Algorithms
	if len(algorithms) == 0 {
		algorithms = DefaultAlgorithms
	}
	for _, alg := range algorithms {
		if _, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
		}
	}

	v := &Verifier{
		secret:     append([]byte(nil), cfg.Secret...),
		algorithms: append([]string(nil), algorithms...),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(v.algorithms),
		jwt.WithTimeFunc(v.now),
	}
	if cfg.Leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(cfg.Leeway))
	}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(cfg.Audience))
	}
	v.parser = jwt.NewParser(parserOpts...)

	return v, nil
}

// Algorithms returns the accepted signing algorithms
func (v *Verifier) Algorithms() []string {
	return append([]string(nil), v.algorithms...)
}

// Verify checks the token signature and time-based claims and returns the
// decoded claims. Any failure wraps ErrInvalidToken.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	mapClaims := jwt.MapClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, mapClaims, v.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, err := claimsFromMap(mapClaims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return claims, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return v.secret, nil
}
