package ports

import "github.com/eaglecrew/rules-service/internal/core/domain"

// IssueTokenInput holds the optional knobs for minting a capability token.
// TTLMinutes is clamped by the service, never rejected; Subject and Issuer
// are free text identifying who asked for the token and who minted it.
type IssueTokenInput struct {
	TTLMinutes *int
	Subject    string
	Issuer     string
}

// CapabilityService mints and verifies the signed, expiring tokens embedded
// in admin links. Both operations are stateless: there is no issued-token
// store and no revocation list, a deliberate tradeoff that works because
// tokens are short-lived and grant exactly one capability.
type CapabilityService interface {
	Issue(input IssueTokenInput) (string, error)
	Verify(token string) domain.TokenVerification
}
