// Package config loads service configuration from the environment, with
// optional .env file support for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full service configuration. Every knob has a default so a
// bare `go run ./cmd/server` works out of the box.
type Config struct {
	Port   int    `envconfig:"PORT" default:"4000"`
	Store  string `envconfig:"STORE" default:"sqlite"` // sqlite | memory
	DBPath string `envconfig:"DB_PATH" default:"./data/udhaar.db"`

	JWTSecret   string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	TokenExpiry time.Duration `envconfig:"TOKEN_EXPIRY" default:"12h"`

	// AllowNegativeBalance lets balances go below zero (customer in
	// credit); when false they clamp at zero.
	AllowNegativeBalance bool `envconfig:"ALLOW_NEGATIVE_BALANCE" default:"true"`

	// OpenTransactionReads admits any customer-role caller to transaction
	// listings; when false only the business owner may list.
	OpenTransactionReads bool `envconfig:"OPEN_TRANSACTION_READS" default:"false"`
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing .env is fine

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	switch cfg.Store {
	case "sqlite", "memory":
	default:
		return nil, fmt.Errorf("unknown STORE %q (want sqlite or memory)", cfg.Store)
	}

	return &cfg, nil
}
