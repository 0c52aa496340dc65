// Package verifiertest mints tokens for tests. It is not used by the
// served binary.
package verifiertest

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/upb/authgate/verifier"
)

// Secret is a fixed HMAC secret suitable for tests
var Secret = []byte("test_secret_with_enough_bytes_for_hs256")

// Issue signs claims with HS256 and the given secret.
func Issue(t testing.TB, claims *verifier.Claims, secret []byte) string {
	t.Helper()
	return IssueMap(t, jwt.SigningMethodHS256, claims.Map(), secret)
}

// IssueMap signs an arbitrary payload with the given method and key.
func IssueMap(t testing.TB, method jwt.SigningMethod, payload map[string]any, key interface{}) string {
	t.Helper()

	token := jwt.NewWithClaims(method, jwt.MapClaims(payload))
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// Unsigned returns a token using the "none" algorithm
func Unsigned(t testing.TB, payload map[string]any) string {
	t.Helper()
	return IssueMap(t, jwt.SigningMethodNone, payload, jwt.UnsafeAllowNoneSignatureType)
}
