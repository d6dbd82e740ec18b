// Package metrics defines all custom Prometheus metrics for the rules
// service. It is the single source of truth for metric names, labels, and
// help strings; metrics register themselves with the default registry via
// promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rules"

// ── Rule mutation metrics ─────────────────────────────────────────────────────

// RulesCreatedTotal counts created rules.
// Label:
//   - auth: how the caller was authorized, "capability_token" or "admin_session"
var RulesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of rules created, by authorization method.",
	},
	[]string{"auth"},
)

// RulesUpdatedTotal counts successful rule updates.
var RulesUpdatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updated_total",
		Help:      "Total number of rules updated.",
	},
)

// RulesDeactivatedTotal counts soft deletions.
var RulesDeactivatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deactivated_total",
		Help:      "Total number of rules deactivated (soft deleted).",
	},
)

// ── Admin link metrics ────────────────────────────────────────────────────────

// AdminLinksIssuedTotal counts capability tokens minted via the admin-link
// endpoint.
var AdminLinksIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_links_issued_total",
		Help:      "Total number of admin links issued.",
	},
)

// TokenVerificationsTotal counts capability token verification outcomes on
// the rule-creation path.
// Label:
//   - result: "valid" or "invalid"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of capability token verifications, by result.",
	},
	[]string{"result"},
)
