package domain

import "errors"

// ScopeRulesCreate is the single capability this system grants. A token with
// any other scope fails payload validation during verification.
const ScopeRulesCreate = "rules:create"

// TokenVersion is the fixed version tag prefixed to every capability token.
const TokenVersion = "v1"

var ErrTokenSecretMissing = errors.New("capability token secret is not configured")

// CapabilityClaims is the signed payload carried inside a capability token.
// Timestamps are Unix seconds. The token is self-contained: nothing about it
// is persisted server-side, so verification is a pure function of the token,
// the secret, and the clock.
type CapabilityClaims struct {
	Issuer    string `json:"iss"`
	Scope     string `json:"scope"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
	Subject   string `json:"sub,omitempty"`
}

// Valid reports whether the claims satisfy the schema: non-empty issuer, the
// recognized scope, and positive integer timestamps. Expiry is checked
// separately so an expired-but-well-formed token yields a distinct error.
func (c *CapabilityClaims) Valid() bool {
	return c.Issuer != "" &&
		c.Scope == ScopeRulesCreate &&
		c.IssuedAt > 0 &&
		c.ExpiresAt > 0
}

// TokenVerification is the outcome of verifying a capability token. Error
// carries one of a small set of stable, non-oracular messages; it never
// distinguishes which byte of a signature mismatched.
type TokenVerification struct {
	IsValid bool
	Claims  *CapabilityClaims
	Error   string
}
