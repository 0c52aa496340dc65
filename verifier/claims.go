package verifier

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Registered claim names (RFC 7519 section 4.1)
const (
	ClaimSubject   = "sub"
	ClaimIssuer    = "iss"
	ClaimAudience  = "aud"
	ClaimID        = "jti"
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
	ClaimNotBefore = "nbf"
)

// Claims represents the verified payload of a token.
// Zero times mean the claim was absent.
type Claims struct {
	Subject   string
	Issuer    string
	Audience  []string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
	NotBefore time.Time

	// Extra holds every non-registered claim as decoded from JSON, plus any
	// registered claim whose JSON type does not fit its typed field
	Extra map[string]any

	// singleAudience records that aud arrived as a bare string
	singleAudience bool
}

// Map returns the claims in token payload form. Times are NumericDate seconds.
func (c *Claims) Map() map[string]any {
	m := make(map[string]any, len(c.Extra)+7)
	for k, v := range c.Extra {
		m[k] = v
	}

	if c.Subject != "" {
		m[ClaimSubject] = c.Subject
	}
	if c.Issuer != "" {
		m[ClaimIssuer] = c.Issuer
	}
	switch {
	case c.singleAudience && len(c.Audience) == 1:
		m[ClaimAudience] = c.Audience[0]
	case len(c.Audience) > 0:
		m[ClaimAudience] = append([]string(nil), c.Audience...)
	}
	if c.ID != "" {
		m[ClaimID] = c.ID
	}
	if !c.IssuedAt.IsZero() {
		m[ClaimIssuedAt] = c.IssuedAt.Unix()
	}
	if !c.ExpiresAt.IsZero() {
		m[ClaimExpiresAt] = c.ExpiresAt.Unix()
	}
	if !c.NotBefore.IsZero() {
		m[ClaimNotBefore] = c.NotBefore.Unix()
	}

	return m
}

// Get looks up a claim by its JWT name
func (c *Claims) Get(name string) (any, bool) {
	v, ok := c.Map()[name]
	return v, ok
}

// MarshalJSON renders the claims in payload form
func (c *Claims) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Map())
}

// claimsFromMap converts decoded map claims into the typed record.
// A registered claim whose JSON value does not fit its typed field, or that
// the typed field would render as absent (0, ""), is kept verbatim in Extra.
// exp and nbf have already been type checked by the parser, so a failure
// there is still an error.
func claimsFromMap(m jwt.MapClaims) (*Claims, error) {
	claims := &Claims{}

	var err error
	if claims.ExpiresAt, err = numericDate(m.GetExpirationTime); err != nil {
		return nil, fmt.Errorf("exp: %w", err)
	}
	if claims.NotBefore, err = numericDate(m.GetNotBefore); err != nil {
		return nil, fmt.Errorf("nbf: %w", err)
	}

	for k, v := range m {
		var ok bool
		switch k {
		case ClaimExpiresAt:
			ok = !claims.ExpiresAt.IsZero()
		case ClaimNotBefore:
			ok = !claims.NotBefore.IsZero()
		case ClaimSubject:
			claims.Subject, ok = nonEmptyString(v)
		case ClaimIssuer:
			claims.Issuer, ok = nonEmptyString(v)
		case ClaimID:
			claims.ID, ok = nonEmptyString(v)
		case ClaimIssuedAt:
			claims.IssuedAt, err = numericDate(m.GetIssuedAt)
			ok = err == nil && !claims.IssuedAt.IsZero()
		case ClaimAudience:
			var aud jwt.ClaimStrings
			if aud, err = m.GetAudience(); err == nil && len(aud) > 0 {
				ok = true
				claims.Audience = []string(aud)
				_, claims.singleAudience = v.(string)
			}
		}
		if ok {
			continue
		}
		if claims.Extra == nil {
			claims.Extra = make(map[string]any)
		}
		claims.Extra[k] = v
	}

	return claims, nil
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok && s != ""
}

func numericDate(get func() (*jwt.NumericDate, error)) (time.Time, error) {
	nd, err := get()
	if err != nil {
		return time.Time{}, err
	}
	if nd == nil {
		return time.Time{}, nil
	}
	return nd.Time.UTC(), nil
}
