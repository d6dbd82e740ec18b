package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/eaglecrew/rules-service/internal/core/domain"
	"github.com/eaglecrew/rules-service/internal/core/ports"
)

const (
	defaultTTLMinutes = 30
	minTTLMinutes     = 5
	maxTTLMinutes     = 120

	defaultTokenIssuer = "discord-bot"
)

// Stable verification error messages. These are the only strings Verify ever
// reports; a bad signature and a corrupted payload are never distinguished
// beyond this granularity.
const (
	errTokenSecretMissing = "Token signing secret is not configured."
	errTokenFormat        = "Invalid token format."
	errTokenVersion       = "Unsupported token version."
	errTokenSignature     = "Invalid token signature."
	errTokenPayload       = "Invalid token payload."
	errTokenExpired       = "Token has expired."
)

// CapabilityService implements stateless issue/verify for admin-link tokens.
// Token format: "v1.<payload>.<signature>" where payload is the base64url
// encoded JSON claims and signature is the base64url encoded HMAC-SHA256 of
// the payload part under the shared secret.
type CapabilityService struct {
	secret []byte
	now    func() time.Time
}

func NewCapabilityService(secret string) *CapabilityService {
	return &CapabilityService{secret: []byte(secret), now: time.Now}
}

// Issue mints a token granting the rules:create capability. TTLMinutes is
// clamped into [minTTLMinutes, maxTTLMinutes] and defaults to
// defaultTTLMinutes when omitted.
func (s *CapabilityService) Issue(input ports.IssueTokenInput) (string, error) {
	if len(s.secret) == 0 {
		return "", domain.ErrTokenSecretMissing
	}

	ttl := defaultTTLMinutes
	if input.TTLMinutes != nil {
		ttl = clampTTLMinutes(*input.TTLMinutes)
	}

	issuer := input.Issuer
	if issuer == "" {
		issuer = defaultTokenIssuer
	}

	nowSeconds := s.now().Unix()
	claims := domain.CapabilityClaims{
		Issuer:    issuer,
		Scope:     domain.ScopeRulesCreate,
		IssuedAt:  nowSeconds,
		ExpiresAt: nowSeconds + int64(ttl)*60,
		Subject:   input.Subject,
	}

	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	payloadPart := base64.RawURLEncoding.EncodeToString(payloadJSON)
	signaturePart := s.signPayloadPart(payloadPart)

	return domain.TokenVersion + "." + payloadPart + "." + signaturePart, nil
}

// Verify checks a token's shape, version, signature, payload schema, and
// expiry, in that order. The signature comparison checks length first and
// then compares in constant time; it never short-circuits on content.
func (s *CapabilityService) Verify(token string) domain.TokenVerification {
	if len(s.secret) == 0 {
		return domain.TokenVerification{Error: errTokenSecretMissing}
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return domain.TokenVerification{Error: errTokenFormat}
	}

	versionPart, payloadPart, signaturePart := parts[0], parts[1], parts[2]
	if versionPart != domain.TokenVersion {
		return domain.TokenVerification{Error: errTokenVersion}
	}

	expected := []byte(s.signPayloadPart(payloadPart))
	received := []byte(signaturePart)
	if len(expected) != len(received) {
		return domain.TokenVerification{Error: errTokenSignature}
	}
	if subtle.ConstantTimeCompare(expected, received) != 1 {
		return domain.TokenVerification{Error: errTokenSignature}
	}

	claims, ok := decodeClaims(payloadPart)
	if !ok {
		return domain.TokenVerification{Error: errTokenPayload}
	}

	if claims.ExpiresAt <= s.now().Unix() {
		return domain.TokenVerification{Error: errTokenExpired}
	}

	return domain.TokenVerification{IsValid: true, Claims: claims}
}

func (s *CapabilityService) signPayloadPart(payloadPart string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payloadPart))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func decodeClaims(payloadPart string) (*domain.CapabilityClaims, bool) {
	payloadJSON, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		return nil, false
	}

	var claims domain.CapabilityClaims
	if err := json.Unmarshal(payloadJSON, &claims); err != nil {
		return nil, false
	}
	if !claims.Valid() {
		return nil, false
	}
	return &claims, true
}

func clampTTLMinutes(ttl int) int {
	if ttl < minTTLMinutes {
		return minTTLMinutes
	}
	if ttl > maxTTLMinutes {
		return maxTTLMinutes
	}
	return ttl
}
