package handler

import (
	"time"

	"github.com/eaglecrew/rules-service/internal/core/domain"
	"github.com/eaglecrew/rules-service/internal/core/ports"
)

// --- Request → Service input ---

func toRuleInput(req ruleRequest) ports.RuleInput {
	return ports.RuleInput{
		Content:        req.Content,
		Note:           req.Note,
		IsNew:          req.IsNew,
		IsLimitedTime:  req.IsLimitedTime,
		LimitedStartAt: toUTC(req.LimitedStartAt),
		LimitedEndAt:   toUTC(req.LimitedEndAt),
		Priority:       req.Priority,
	}
}

func toUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

// --- Domain → HTTP response ---

func toRuleResponse(r *domain.Rule) ruleResponse {
	return ruleResponse{
		ID:             r.ID,
		Content:        r.Content,
		Note:           r.Note,
		IsNew:          r.IsNew,
		IsLimitedTime:  r.IsLimitedTime,
		LimitedStartAt: r.LimitedStartAt,
		LimitedEndAt:   r.LimitedEndAt,
		Priority:       r.Priority,
	}
}

func toRuleResponses(rules []*domain.Rule) []ruleResponse {
	out := make([]ruleResponse, len(rules))
	for i, r := range rules {
		out[i] = toRuleResponse(r)
	}
	return out
}
