package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eaglecrew/rules-service/internal/api/metrics"
	"github.com/eaglecrew/rules-service/internal/core/domain"
	"github.com/eaglecrew/rules-service/internal/core/ports"
)

// RuleSnapshot provides the in-memory view of currently visible rules. The
// list endpoint reads from it instead of hitting the store on every request.
type RuleSnapshot interface {
	Snapshot() ([]*domain.Rule, time.Time, error)
}

// RuleHandler handles HTTP requests for rule operations.
type RuleHandler struct {
	service ports.RuleService
	live    RuleSnapshot
}

func NewRuleHandler(service ports.RuleService, live RuleSnapshot) *RuleHandler {
	return &RuleHandler{service: service, live: live}
}

// List handles GET /v1/rules.
//
// @Summary      List currently visible rules
// @Tags         rules
// @Produce      json
// @Success      200  {object}  listRulesResponse
// @Router       /v1/rules [get]
func (h *RuleHandler) List(c echo.Context) error {
	rules, syncedAt, err := h.live.Snapshot()
	if err != nil && syncedAt.IsZero() {
		// No snapshot has ever succeeded; surface the failure instead of
		// serving an empty list that looks authoritative.
		return err
	}

	resp := listRulesResponse{Rules: toRuleResponses(rules)}
	if !syncedAt.IsZero() {
		resp.LastSyncedAt = &syncedAt
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /v1/rules.
//
// @Summary      Create a rule
// @Tags         rules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ruleRequest  true  "Rule fields"
// @Success      201   {object}  ruleEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/rules [post]
func (h *RuleHandler) Create(c echo.Context) error {
	var req ruleRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidRulePayload
	}

	createdBy, authMethod := ctxActor(c)

	rule, err := h.service.CreateRule(c.Request().Context(), toRuleInput(req), createdBy)
	if err != nil {
		return err
	}

	metrics.RulesCreatedTotal.WithLabelValues(authMethod).Inc()

	return c.JSON(http.StatusCreated, ruleEnvelope{Rule: toRuleResponse(rule)})
}

// Update handles PATCH /v1/rules/:rule_id.
//
// @Summary      Update a rule
// @Tags         rules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        rule_id  path      string       true  "Rule id"
// @Param        body     body      ruleRequest  true  "Replacement rule fields"
// @Success      200      {object}  ruleEnvelope
// @Failure      400      {object}  errorResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/rules/{rule_id} [patch]
func (h *RuleHandler) Update(c echo.Context) error {
	var req ruleRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidRulePayload
	}

	rule, err := h.service.UpdateRule(c.Request().Context(), c.Param("rule_id"), toRuleInput(req))
	if err != nil {
		return err
	}

	metrics.RulesUpdatedTotal.Inc()

	return c.JSON(http.StatusOK, ruleEnvelope{Rule: toRuleResponse(rule)})
}

// Delete handles DELETE /v1/rules/:rule_id. Rules are deactivated, never
// removed, so a repeated delete reports not found.
//
// @Summary      Deactivate a rule
// @Tags         rules
// @Produce      json
// @Security     BearerAuth
// @Param        rule_id  path      string  true  "Rule id"
// @Success      200      {object}  deleteRuleResponse
// @Failure      400      {object}  errorResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/rules/{rule_id} [delete]
func (h *RuleHandler) Delete(c echo.Context) error {
	if err := h.service.DeactivateRule(c.Request().Context(), c.Param("rule_id")); err != nil {
		return err
	}

	metrics.RulesDeactivatedTotal.Inc()

	return c.JSON(http.StatusOK, deleteRuleResponse{Success: true})
}
