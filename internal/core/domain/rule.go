package domain

import (
	"errors"
	"sort"
	"time"
)

// Validation bounds for rule payloads. Content and note lengths are measured
// in runes, not bytes.
const (
	RuleContentMinLen = 3
	RuleContentMaxLen = 2000
	RuleNoteMaxLen    = 500

	RulePriorityMin     = 0
	RulePriorityMax     = 10000
	RulePriorityDefault = 100
)

var ErrRuleNotFound = errors.New("rule not found")
var ErrInvalidRulePayload = errors.New("invalid rule payload")
var ErrInvalidRuleID = errors.New("invalid rule id")
var ErrUnauthenticated = errors.New("unauthenticated")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidCredentials = errors.New("invalid credentials")

// Rule is a single displayable community rule. Deleting a rule never removes
// the document; it only flips IsActive to false, so the history of past rules
// survives in the collection.
type Rule struct {
	ID             string     `json:"id" bson:"_id"`
	Content        string     `json:"content" bson:"content"`
	Note           string     `json:"note,omitempty" bson:"note"`
	IsNew          bool       `json:"is_new" bson:"is_new"`
	IsLimitedTime  bool       `json:"is_limited_time" bson:"is_limited_time"`
	LimitedStartAt *time.Time `json:"limited_start_at,omitempty" bson:"limited_start_at"`
	LimitedEndAt   *time.Time `json:"limited_end_at,omitempty" bson:"limited_end_at"`
	IsActive       bool       `json:"is_active" bson:"is_active"`
	Priority       int        `json:"priority" bson:"priority"`
	CreatedBy      string     `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at"`
}

// VisibleAt reports whether the rule should be displayed at the given time.
// Rules that are not limited-time are always visible. A limited-time rule
// without any window endpoint is treated as misconfigured and hidden rather
// than shown globally.
func (r *Rule) VisibleAt(now time.Time) bool {
	if !r.IsLimitedTime {
		return true
	}
	if r.LimitedStartAt == nil && r.LimitedEndAt == nil {
		return false
	}
	if r.LimitedStartAt != nil && r.LimitedStartAt.After(now) {
		return false
	}
	if r.LimitedEndAt != nil && r.LimitedEndAt.Before(now) {
		return false
	}
	return true
}

// SortRules orders rules ascending by priority, ties broken by creation time.
// This is the canonical display order; it is deterministic and total because
// creation time ties keep insertion order (sort is stable).
func SortRules(rules []*Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority < rules[j].Priority
		}
		return rules[i].CreatedAt.Before(rules[j].CreatedAt)
	})
}
