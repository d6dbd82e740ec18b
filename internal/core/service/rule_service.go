package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eaglecrew/rules-service/internal/core/domain"
	"github.com/eaglecrew/rules-service/internal/core/ports"
)

// RuleService implements rule creation, update, soft deletion, and the
// visibility-filtered listing.
type RuleService struct {
	repo     ports.RuleRepository
	notifier ports.ChangeNotifier
	logger   zerolog.Logger
}

func NewRuleService(repo ports.RuleRepository, notifier ports.ChangeNotifier, logger zerolog.Logger) *RuleService {
	return &RuleService{repo: repo, notifier: notifier, logger: logger}
}

// CreateRule validates the input and inserts a new active rule. createdBy
// records who acted: the token subject for capability-token callers, the
// admin email for session callers.
func (s *RuleService) CreateRule(ctx context.Context, input ports.RuleInput, createdBy string) (*domain.Rule, error) {
	normalized, err := normalizeRuleInput(input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rule := &domain.Rule{
		ID:             uuid.NewString(),
		Content:        normalized.Content,
		Note:           normalized.Note,
		IsNew:          normalized.IsNew,
		IsLimitedTime:  normalized.IsLimitedTime,
		LimitedStartAt: normalized.LimitedStartAt,
		LimitedEndAt:   normalized.LimitedEndAt,
		IsActive:       true,
		Priority:       *normalized.Priority,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, rule); err != nil {
		s.logger.Error().Err(err).Msg("failed to create rule")
		return nil, err
	}

	s.logger.Info().Str("rule_id", rule.ID).Str("created_by", createdBy).Msg("rule created")
	s.publishChange(ctx, "created")

	return rule, nil
}

// UpdateRule validates the id and input, then replaces the mutable fields of
// an active rule. A malformed id fails before the store is contacted.
func (s *RuleService) UpdateRule(ctx context.Context, ruleID string, input ports.RuleInput) (*domain.Rule, error) {
	if err := validateRuleID(ruleID); err != nil {
		return nil, err
	}

	normalized, err := normalizeRuleInput(input)
	if err != nil {
		return nil, err
	}

	rule := &domain.Rule{
		Content:        normalized.Content,
		Note:           normalized.Note,
		IsNew:          normalized.IsNew,
		IsLimitedTime:  normalized.IsLimitedTime,
		LimitedStartAt: normalized.LimitedStartAt,
		LimitedEndAt:   normalized.LimitedEndAt,
		Priority:       *normalized.Priority,
		UpdatedAt:      time.Now().UTC(),
	}

	updated, err := s.repo.Update(ctx, ruleID, rule)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("rule_id", ruleID).Msg("rule updated")
	s.publishChange(ctx, "updated")

	return updated, nil
}

// DeactivateRule soft-deletes an active rule. Already-inactive rules report
// not found.
func (s *RuleService) DeactivateRule(ctx context.Context, ruleID string) error {
	if err := validateRuleID(ruleID); err != nil {
		return err
	}

	if err := s.repo.Deactivate(ctx, ruleID); err != nil {
		return err
	}

	s.logger.Info().Str("rule_id", ruleID).Msg("rule deactivated")
	s.publishChange(ctx, "deactivated")

	return nil
}

// ListVisibleRules fetches active rules and applies the visibility filter at
// now. The store already returns display order; the sort here keeps the
// guarantee independent of the repository implementation.
func (s *RuleService) ListVisibleRules(ctx context.Context, now time.Time) ([]*domain.Rule, error) {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]*domain.Rule, 0, len(active))
	for _, rule := range active {
		if rule.VisibleAt(now) {
			visible = append(visible, rule)
		}
	}

	domain.SortRules(visible)
	return visible, nil
}

// publishChange is best-effort: a failed notification only delays other
// clients until their next refresh, it never fails the mutation.
func (s *RuleService) publishChange(ctx context.Context, event string) {
	if err := s.notifier.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("event", event).Msg("failed to publish rules change")
	}
}

func validateRuleID(ruleID string) error {
	if _, err := uuid.Parse(ruleID); err != nil {
		return domain.ErrInvalidRuleID
	}
	return nil
}

// normalizeRuleInput trims and bounds-checks the payload, applies the
// priority default, and clears the limited window when the rule is not
// limited-time. Any violation yields the single generic payload error.
func normalizeRuleInput(input ports.RuleInput) (ports.RuleInput, error) {
	input.Content = strings.TrimSpace(input.Content)
	input.Note = strings.TrimSpace(input.Note)

	contentLen := utf8.RuneCountInString(input.Content)
	if contentLen < domain.RuleContentMinLen || contentLen > domain.RuleContentMaxLen {
		return input, domain.ErrInvalidRulePayload
	}
	if utf8.RuneCountInString(input.Note) > domain.RuleNoteMaxLen {
		return input, domain.ErrInvalidRulePayload
	}

	if input.Priority == nil {
		def := domain.RulePriorityDefault
		input.Priority = &def
	}
	if *input.Priority < domain.RulePriorityMin || *input.Priority > domain.RulePriorityMax {
		return input, domain.ErrInvalidRulePayload
	}

	if input.IsLimitedTime {
		if input.LimitedStartAt == nil && input.LimitedEndAt == nil {
			return input, domain.ErrInvalidRulePayload
		}
		if input.LimitedStartAt != nil && input.LimitedEndAt != nil &&
			input.LimitedStartAt.After(*input.LimitedEndAt) {
			return input, domain.ErrInvalidRulePayload
		}
	} else {
		input.LimitedStartAt = nil
		input.LimitedEndAt = nil
	}

	return input, nil
}
