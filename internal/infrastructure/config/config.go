package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config is the process-wide configuration. It is loaded once at startup and
// passed by reference; nothing mutates it afterwards.
type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AppBaseURL is the public origin used when building admin links. When
	// empty, the request's own origin is used.
	AppBaseURL string `env:"APP_BASE_URL"`

	// AdminTokenSecret signs capability tokens embedded in admin links.
	AdminTokenSecret string `env:"RULES_ADMIN_TOKEN_SECRET"`
	// AdminLinkIssuerSecret gates the admin-link issuance endpoint.
	AdminLinkIssuerSecret string `env:"ADMIN_LINK_ISSUER_SECRET"`
	// CronSecret gates the keepalive endpoint. Empty leaves it open.
	CronSecret string `env:"CRON_SECRET"`

	// AdminEmail is the single recognized admin identity.
	AdminEmail string `env:"RULES_ADMIN_EMAIL"`
	// AdminPasswordHash is the bcrypt hash checked by the password login.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	// AuthJWTSecret signs and verifies admin session tokens. It must match
	// the external identity backend so OAuth sessions verify here too.
	AuthJWTSecret string `env:"AUTH_JWT_SECRET"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=rules_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
