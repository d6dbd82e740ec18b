package ports

import (
	"context"

	"github.com/eaglecrew/rules-service/internal/core/domain"
)

// RuleRepository defines persistence operations for rules. Mutations never
// remove documents: Deactivate flips is_active, and Update/Deactivate only
// match rules that are still active, so an already-deactivated rule behaves
// like a missing one.
type RuleRepository interface {
	Create(ctx context.Context, r *domain.Rule) error
	// Update replaces the mutable fields of an active rule and returns the
	// stored document. Returns domain.ErrRuleNotFound when no active rule
	// matches id.
	Update(ctx context.Context, id string, r *domain.Rule) (*domain.Rule, error)
	// Deactivate soft-deletes an active rule.
	Deactivate(ctx context.Context, id string) error
	// ListActive returns all active rules ordered by priority ascending,
	// then creation time ascending.
	ListActive(ctx context.Context) ([]*domain.Rule, error)
	// Ping issues a minimal read against the rules collection, used by the
	// keepalive endpoint to stop the backing store from idling.
	Ping(ctx context.Context) error
}
