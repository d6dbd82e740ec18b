package domain

import (
	"testing"
	"time"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRule_VisibleAt_NotLimited(t *testing.T) {
	r := &Rule{IsLimitedTime: false}
	for _, now := range []time.Time{ts("2000-01-01T00:00:00Z"), ts("2100-01-01T00:00:00Z")} {
		if !r.VisibleAt(now) {
			t.Fatalf("non-limited rule must always be visible (now=%s)", now)
		}
	}
}

func TestRule_VisibleAt_LimitedWithoutWindow(t *testing.T) {
	r := &Rule{IsLimitedTime: true}
	if r.VisibleAt(ts("2026-01-01T00:00:00Z")) {
		t.Fatalf("limited rule without any window endpoint must be hidden")
	}
}

func TestRule_VisibleAt_Window(t *testing.T) {
	start := ts("2026-03-01T00:00:00Z")
	end := ts("2026-03-31T00:00:00Z")

	tests := []struct {
		name    string
		start   *time.Time
		end     *time.Time
		now     time.Time
		visible bool
	}{
		{"before start", &start, &end, ts("2026-02-28T23:59:59Z"), false},
		{"at start", &start, &end, start, true},
		{"inside window", &start, &end, ts("2026-03-15T12:00:00Z"), true},
		{"at end", &start, &end, end, true},
		{"after end", &start, &end, ts("2026-03-31T00:00:01Z"), false},
		{"only start, open", &start, nil, ts("2026-04-01T00:00:00Z"), true},
		{"only start, not yet", &start, nil, ts("2026-02-01T00:00:00Z"), false},
		{"only end, open", nil, &end, ts("2026-01-01T00:00:00Z"), true},
		{"only end, closed", nil, &end, ts("2026-04-01T00:00:00Z"), false},
	}

	for _, tt := range tests {
		r := &Rule{IsLimitedTime: true, LimitedStartAt: tt.start, LimitedEndAt: tt.end}
		if got := r.VisibleAt(tt.now); got != tt.visible {
			t.Errorf("%s: VisibleAt=%v, want %v", tt.name, got, tt.visible)
		}
	}
}

func TestSortRules(t *testing.T) {
	early := ts("2026-01-01T00:00:00Z")
	late := ts("2026-02-01T00:00:00Z")

	rules := []*Rule{
		{ID: "c", Priority: 200, CreatedAt: early},
		{ID: "b", Priority: 100, CreatedAt: late},
		{ID: "a", Priority: 100, CreatedAt: early},
	}

	SortRules(rules)

	want := []string{"a", "b", "c"}
	for i, id := range want {
		if rules[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, rules[i].ID, id)
		}
	}
}

func TestSortRules_TiesKeepInsertionOrder(t *testing.T) {
	same := ts("2026-01-01T00:00:00Z")
	rules := []*Rule{
		{ID: "first", Priority: 100, CreatedAt: same},
		{ID: "second", Priority: 100, CreatedAt: same},
	}

	SortRules(rules)

	if rules[0].ID != "first" || rules[1].ID != "second" {
		t.Fatalf("full ties must keep insertion order, got %s,%s", rules[0].ID, rules[1].ID)
	}
}

func TestCapabilityClaims_Valid(t *testing.T) {
	base := CapabilityClaims{Issuer: "discord-bot", Scope: ScopeRulesCreate, IssuedAt: 1, ExpiresAt: 2}
	if !base.Valid() {
		t.Fatalf("expected valid claims")
	}

	for name, mutate := range map[string]func(c *CapabilityClaims){
		"empty issuer": func(c *CapabilityClaims) { c.Issuer = "" },
		"wrong scope":  func(c *CapabilityClaims) { c.Scope = "rules:delete" },
		"zero iat":     func(c *CapabilityClaims) { c.IssuedAt = 0 },
		"negative exp": func(c *CapabilityClaims) { c.ExpiresAt = -1 },
	} {
		c := base
		mutate(&c)
		if c.Valid() {
			t.Errorf("%s: expected invalid claims", name)
		}
	}
}
