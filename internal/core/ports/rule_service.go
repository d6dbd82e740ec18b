package ports

import (
	"context"
	"time"

	"github.com/eaglecrew/rules-service/internal/core/domain"
)

// RuleInput carries the fields accepted on rule creation and update. Priority
// is a pointer so "omitted" (defaults to domain.RulePriorityDefault) can be
// told apart from an explicit 0.
type RuleInput struct {
	Content        string
	Note           string
	IsNew          bool
	IsLimitedTime  bool
	LimitedStartAt *time.Time
	LimitedEndAt   *time.Time
	Priority       *int
}

// RuleService defines the use-case operations on rules. All payload
// validation happens here, before any store mutation, so a rejected input
// never leaves partial state behind.
type RuleService interface {
	CreateRule(ctx context.Context, input RuleInput, createdBy string) (*domain.Rule, error)
	UpdateRule(ctx context.Context, ruleID string, input RuleInput) (*domain.Rule, error)
	DeactivateRule(ctx context.Context, ruleID string) error
	// ListVisibleRules returns active rules that are visible at now, in
	// canonical display order.
	ListVisibleRules(ctx context.Context, now time.Time) ([]*domain.Rule, error)
}
