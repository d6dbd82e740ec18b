package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eaglecrew/rules-service/internal/api/handler"
	"github.com/eaglecrew/rules-service/internal/api/middleware"
	"github.com/eaglecrew/rules-service/internal/core/ports"
	"github.com/eaglecrew/rules-service/internal/infrastructure/config"
)

// RouterDeps carries everything the router needs. Services are constructed in
// main and injected here so the router stays a pure wiring layer.
type RouterDeps struct {
	Config *config.Config
	Logger zerolog.Logger

	DB    *mongo.Database
	Redis *redis.Client

	Rules        ports.RuleService
	Capabilities ports.CapabilityService
	Auth         ports.AuthService
	Snapshot     handler.RuleSnapshot
	Store        handler.StorePinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("rules_http"))

	// --- Handlers ---
	ruleHandler := handler.NewRuleHandler(deps.Rules, deps.Snapshot)
	adminLinkHandler := handler.NewAdminLinkHandler(deps.Capabilities, deps.Config.AdminLinkIssuerSecret, deps.Config.AppBaseURL)
	authHandler := handler.NewAuthHandler(deps.Auth)
	cronHandler := handler.NewCronHandler(deps.Store, deps.Config.CronSecret)
	healthHandler := handler.NewHealthHandler(deps.DB, deps.Redis)

	// --- Route-scoped middleware ---
	adminOnly := middleware.AdminSession(deps.Auth)
	ruleCreator := middleware.RuleCreator(deps.Capabilities, deps.Auth)
	noStore := middleware.NoStore()

	// --- Rules ---
	v1 := e.Group("/v1")
	v1.GET("/rules", ruleHandler.List)
	v1.POST("/rules", ruleHandler.Create, noStore, ruleCreator)
	v1.PATCH("/rules/:rule_id", ruleHandler.Update, noStore, adminOnly)
	v1.DELETE("/rules/:rule_id", ruleHandler.Delete, noStore, adminOnly)

	// --- Admin links ---
	v1.POST("/admin-links", adminLinkHandler.Create, noStore)

	// --- Auth ---
	v1.GET("/auth/admin-status", authHandler.AdminStatus, noStore)
	v1.POST("/auth/login", authHandler.Login, noStore)

	// --- Cron ---
	v1.GET("/cron/keepalive", cronHandler.Keepalive)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
