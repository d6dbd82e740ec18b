package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

// ruleRequest is the payload accepted by both create and update. Field-level
// bounds are deliberately NOT expressed as validator tags here: the service
// layer owns payload validation so every violation collapses into the same
// stable "Invalid rule payload." response.
type ruleRequest struct {
	Content        string     `json:"content"`
	Note           string     `json:"note"`
	IsNew          bool       `json:"isNew"`
	IsLimitedTime  bool       `json:"isLimitedTime"`
	LimitedStartAt *time.Time `json:"limitedStartAt"`
	LimitedEndAt   *time.Time `json:"limitedEndAt"`
	Priority       *int       `json:"priority"`
}

type createAdminLinkRequest struct {
	TTLMinutes *int `json:"ttlMinutes" validate:"omitempty,min=5,max=120"`
	// TTLMinutesAlt accepts the snake_case spelling used by older callers.
	TTLMinutesAlt *int   `json:"ttl_minutes" validate:"omitempty,min=5,max=120"`
	Actor         string `json:"actor"  validate:"omitempty,max=120"`
	Issuer        string `json:"issuer" validate:"omitempty,max=120"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---

// Response-only types owned by the transport layer. These are intentionally
// separate from domain types so the JSON contract is not coupled to internal
// changes; they mirror what end users may see, so is_active and created_by
// stay internal.

type ruleResponse struct {
	ID             string     `json:"id"`
	Content        string     `json:"content"`
	Note           string     `json:"note,omitempty"`
	IsNew          bool       `json:"isNew"`
	IsLimitedTime  bool       `json:"isLimitedTime"`
	LimitedStartAt *time.Time `json:"limitedStartAt,omitempty"`
	LimitedEndAt   *time.Time `json:"limitedEndAt,omitempty"`
	Priority       int        `json:"priority"`
}

type ruleEnvelope struct {
	Rule ruleResponse `json:"rule"`
}

type listRulesResponse struct {
	Rules        []ruleResponse `json:"rules"`
	LastSyncedAt *time.Time     `json:"lastSyncedAt,omitempty"`
}

type deleteRuleResponse struct {
	Success bool `json:"success"`
}

type createAdminLinkResponse struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}

type loginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type keepaliveResponse struct {
	OK        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
}
