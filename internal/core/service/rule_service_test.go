package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/eaglecrew/rules-service/internal/core/domain"
	"github.com/eaglecrew/rules-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubRuleRepo struct {
	byID      map[string]*domain.Rule
	order     []string
	createErr error
	calls     int // number of store operations performed
}

func newStubRuleRepo() *stubRuleRepo {
	return &stubRuleRepo{byID: make(map[string]*domain.Rule)}
}

func (r *stubRuleRepo) Create(_ context.Context, rule *domain.Rule) error {
	r.calls++
	if r.createErr != nil {
		return r.createErr
	}
	clone := *rule
	r.byID[rule.ID] = &clone
	r.order = append(r.order, rule.ID)
	return nil
}

func (r *stubRuleRepo) Update(_ context.Context, id string, rule *domain.Rule) (*domain.Rule, error) {
	r.calls++
	existing, ok := r.byID[id]
	if !ok || !existing.IsActive {
		return nil, domain.ErrRuleNotFound
	}
	existing.Content = rule.Content
	existing.Note = rule.Note
	existing.IsNew = rule.IsNew
	existing.IsLimitedTime = rule.IsLimitedTime
	existing.LimitedStartAt = rule.LimitedStartAt
	existing.LimitedEndAt = rule.LimitedEndAt
	existing.Priority = rule.Priority
	existing.UpdatedAt = rule.UpdatedAt
	clone := *existing
	return &clone, nil
}

func (r *stubRuleRepo) Deactivate(_ context.Context, id string) error {
	r.calls++
	existing, ok := r.byID[id]
	if !ok || !existing.IsActive {
		return domain.ErrRuleNotFound
	}
	existing.IsActive = false
	return nil
}

func (r *stubRuleRepo) ListActive(_ context.Context) ([]*domain.Rule, error) {
	r.calls++
	var out []*domain.Rule
	for _, id := range r.order {
		if rule := r.byID[id]; rule.IsActive {
			clone := *rule
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubRuleRepo) Ping(_ context.Context) error {
	r.calls++
	return nil
}

type stubNotifier struct {
	events []string
	err    error
}

func (n *stubNotifier) Publish(_ context.Context, event string) error {
	n.events = append(n.events, event)
	return n.err
}

func newTestRuleService() (*RuleService, *stubRuleRepo, *stubNotifier) {
	repo := newStubRuleRepo()
	notifier := &stubNotifier{}
	return NewRuleService(repo, notifier, zerolog.Nop()), repo, notifier
}

// ---------------------------------------------------------------------------
// CreateRule
// ---------------------------------------------------------------------------

func TestRuleService_CreateRule_Defaults(t *testing.T) {
	svc, _, notifier := newTestRuleService()

	rule, err := svc.CreateRule(context.Background(), ports.RuleInput{Content: "  no spam  "}, "mod#1234")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if rule.ID == "" {
		t.Fatalf("expected generated id")
	}
	if rule.Content != "no spam" {
		t.Errorf("content not trimmed: %q", rule.Content)
	}
	if rule.Priority != domain.RulePriorityDefault {
		t.Errorf("priority = %d, want %d", rule.Priority, domain.RulePriorityDefault)
	}
	if !rule.IsActive {
		t.Errorf("new rule must be active")
	}
	if rule.CreatedBy != "mod#1234" {
		t.Errorf("created_by = %q", rule.CreatedBy)
	}
	if len(notifier.events) != 1 || notifier.events[0] != "created" {
		t.Errorf("expected one created notification, got %v", notifier.events)
	}
}

func TestRuleService_CreateRule_ContentBounds(t *testing.T) {
	svc, _, _ := newTestRuleService()

	tests := []struct {
		name    string
		content string
		ok      bool
	}{
		{"too short", "ab", false},
		{"min length", "abc", true},
		{"max length", strings.Repeat("x", 2000), true},
		{"too long", strings.Repeat("x", 2001), false},
	}

	for _, tt := range tests {
		_, err := svc.CreateRule(context.Background(), ports.RuleInput{Content: tt.content}, "")
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, domain.ErrInvalidRulePayload) {
			t.Errorf("%s: expected ErrInvalidRulePayload, got %v", tt.name, err)
		}
	}
}

func TestRuleService_CreateRule_PriorityBounds(t *testing.T) {
	svc, _, _ := newTestRuleService()

	tests := []struct {
		priority int
		ok       bool
	}{
		{-1, false},
		{0, true},
		{10000, true},
		{10001, false},
	}

	for _, tt := range tests {
		p := tt.priority
		rule, err := svc.CreateRule(context.Background(), ports.RuleInput{Content: "valid rule", Priority: &p}, "")
		if tt.ok {
			if err != nil {
				t.Errorf("priority %d: unexpected error %v", tt.priority, err)
			} else if rule.Priority != tt.priority {
				t.Errorf("priority %d: stored %d", tt.priority, rule.Priority)
			}
		} else if !errors.Is(err, domain.ErrInvalidRulePayload) {
			t.Errorf("priority %d: expected ErrInvalidRulePayload, got %v", tt.priority, err)
		}
	}
}

func TestRuleService_CreateRule_NoteBounds(t *testing.T) {
	svc, _, _ := newTestRuleService()

	if _, err := svc.CreateRule(context.Background(), ports.RuleInput{
		Content: "valid rule",
		Note:    strings.Repeat("n", 501),
	}, ""); !errors.Is(err, domain.ErrInvalidRulePayload) {
		t.Fatalf("expected ErrInvalidRulePayload, got %v", err)
	}

	rule, err := svc.CreateRule(context.Background(), ports.RuleInput{
		Content: "valid rule",
		Note:    strings.Repeat("n", 500),
	}, "")
	if err != nil {
		t.Fatalf("note at max length: %v", err)
	}
	if len(rule.Note) != 500 {
		t.Fatalf("note length = %d", len(rule.Note))
	}
}

func TestRuleService_CreateRule_LimitedWindow(t *testing.T) {
	svc, _, _ := newTestRuleService()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	// Limited-time with no window endpoint fails.
	_, err := svc.CreateRule(context.Background(), ports.RuleInput{Content: "valid rule", IsLimitedTime: true}, "")
	if !errors.Is(err, domain.ErrInvalidRulePayload) {
		t.Fatalf("no window: expected ErrInvalidRulePayload, got %v", err)
	}

	// Start after end fails.
	_, err = svc.CreateRule(context.Background(), ports.RuleInput{
		Content:        "valid rule",
		IsLimitedTime:  true,
		LimitedStartAt: &end,
		LimitedEndAt:   &start,
	}, "")
	if !errors.Is(err, domain.ErrInvalidRulePayload) {
		t.Fatalf("start>end: expected ErrInvalidRulePayload, got %v", err)
	}

	// A window on a non-limited rule is cleared, not stored.
	rule, err := svc.CreateRule(context.Background(), ports.RuleInput{
		Content:        "valid rule",
		IsLimitedTime:  false,
		LimitedStartAt: &start,
	}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rule.LimitedStartAt != nil || rule.LimitedEndAt != nil {
		t.Fatalf("window must be cleared for non-limited rules")
	}
}

func TestRuleService_CreateRule_RepoFailure(t *testing.T) {
	svc, repo, notifier := newTestRuleService()
	repo.createErr = errors.New("connection reset")

	if _, err := svc.CreateRule(context.Background(), ports.RuleInput{Content: "valid rule"}, ""); err == nil {
		t.Fatalf("expected error")
	}
	if len(notifier.events) != 0 {
		t.Fatalf("no notification on failed create")
	}
}

// ---------------------------------------------------------------------------
// UpdateRule / DeactivateRule
// ---------------------------------------------------------------------------

func TestRuleService_UpdateRule_InvalidID(t *testing.T) {
	svc, repo, _ := newTestRuleService()

	_, err := svc.UpdateRule(context.Background(), "not-a-uuid", ports.RuleInput{Content: "valid rule"})
	if !errors.Is(err, domain.ErrInvalidRuleID) {
		t.Fatalf("expected ErrInvalidRuleID, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("store must not be contacted for a malformed id")
	}
}

func TestRuleService_UpdateRule_NotFound(t *testing.T) {
	svc, _, _ := newTestRuleService()

	_, err := svc.UpdateRule(context.Background(), "b1a9c8e2-4f3d-4a6b-9c1d-2e3f4a5b6c7d", ports.RuleInput{Content: "valid rule"})
	if !errors.Is(err, domain.ErrRuleNotFound) {
		t.Fatalf("expected ErrRuleNotFound, got %v", err)
	}
}

func TestRuleService_UpdateRule_Success(t *testing.T) {
	svc, _, notifier := newTestRuleService()

	created, err := svc.CreateRule(context.Background(), ports.RuleInput{Content: "original text"}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	p := 5
	updated, err := svc.UpdateRule(context.Background(), created.ID, ports.RuleInput{
		Content:  "updated text",
		Priority: &p,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != "updated text" || updated.Priority != 5 {
		t.Fatalf("unexpected updated rule: %+v", updated)
	}
	if notifier.events[len(notifier.events)-1] != "updated" {
		t.Fatalf("expected updated notification, got %v", notifier.events)
	}
}

func TestRuleService_DeactivateRule(t *testing.T) {
	svc, repo, notifier := newTestRuleService()

	created, err := svc.CreateRule(context.Background(), ports.RuleInput{Content: "short lived"}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeactivateRule(context.Background(), created.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if repo.byID[created.ID].IsActive {
		t.Fatalf("rule still active")
	}
	if notifier.events[len(notifier.events)-1] != "deactivated" {
		t.Fatalf("expected deactivated notification")
	}

	// The document survives; a second delete reports not found.
	if err := svc.DeactivateRule(context.Background(), created.ID); !errors.Is(err, domain.ErrRuleNotFound) {
		t.Fatalf("second deactivate: expected ErrRuleNotFound, got %v", err)
	}

	// An update on a deactivated rule also reports not found.
	if _, err := svc.UpdateRule(context.Background(), created.ID, ports.RuleInput{Content: "valid rule"}); !errors.Is(err, domain.ErrRuleNotFound) {
		t.Fatalf("update after deactivate: expected ErrRuleNotFound, got %v", err)
	}
}

func TestRuleService_DeactivateRule_InvalidID(t *testing.T) {
	svc, repo, _ := newTestRuleService()

	if err := svc.DeactivateRule(context.Background(), "42"); !errors.Is(err, domain.ErrInvalidRuleID) {
		t.Fatalf("expected ErrInvalidRuleID, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("store must not be contacted for a malformed id")
	}
}

// ---------------------------------------------------------------------------
// ListVisibleRules
// ---------------------------------------------------------------------------

func TestRuleService_ListVisibleRules(t *testing.T) {
	svc, _, _ := newTestRuleService()
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	p1, p2 := 1, 2
	if _, err := svc.CreateRule(context.Background(), ports.RuleInput{Content: "second rule", Priority: &p2}, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateRule(context.Background(), ports.RuleInput{Content: "first rule", Priority: &p1}, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateRule(context.Background(), ports.RuleInput{
		Content:        "not yet open",
		IsLimitedTime:  true,
		LimitedStartAt: &future,
	}, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateRule(context.Background(), ports.RuleInput{
		Content:       "currently open",
		IsLimitedTime: true,
		LimitedEndAt:  &future,
	}, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	expired, err := svc.CreateRule(context.Background(), ports.RuleInput{
		Content:       "window closed",
		IsLimitedTime: true,
		LimitedEndAt:  &past,
	}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = expired

	visible, err := svc.ListVisibleRules(context.Background(), now)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	var contents []string
	for _, r := range visible {
		contents = append(contents, r.Content)
	}
	want := []string{"first rule", "second rule", "currently open"}
	if len(contents) != len(want) {
		t.Fatalf("visible = %v, want %v", contents, want)
	}
	for i := range want {
		if contents[i] != want[i] {
			t.Fatalf("visible = %v, want %v", contents, want)
		}
	}
}
