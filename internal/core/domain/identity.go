package domain

// AdminStatus answers the only two identity questions this system asks:
// is the caller authenticated, and does the caller match the single
// configured admin identity. There is no role table and no multi-admin model.
type AdminStatus struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	IsAdmin         bool   `json:"isAdmin"`
	Email           string `json:"email,omitempty"`
}
