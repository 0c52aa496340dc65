// Package verifier validates bearer tokens issued elsewhere.
//
// Tokens are JWS compact serialized JWTs signed with an HMAC algorithm and a
// single process-wide secret. The secret is handed to New once at startup;
// verification itself reads no ambient state and performs no I/O.
//
// Every rejected token yields an error wrapping ErrInvalidToken, regardless
// of whether the structure, the signature or the expiry was at fault.
package verifier
