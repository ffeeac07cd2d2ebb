package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0 (got %s)", c.Auth.AccessTokenTTL)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres storage driver")
		}
		if c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("database.min_conns (%d) must not exceed database.max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
		}
		switch strings.ToLower(strings.TrimSpace(c.Database.Isolation)) {
		case "", "read committed", "repeatable read", "serializable":
		default:
			return fmt.Errorf("database.isolation %q is not supported", c.Database.Isolation)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("storage.driver must be %q or %q (got %q)", StorageDriverPostgres, StorageDriverMemory, c.Storage.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be >= 0 (got %d)", c.RateLimit.RequestsPerMinute)
	}

	if err := c.Workflow.validate(); err != nil {
		return fmt.Errorf("workflow: %w", err)
	}

	return nil
}

func (w *WorkflowConfig) validate() error {
	if w.MaxApprovers <= 0 {
		return fmt.Errorf("max_approvers must be > 0 (got %d)", w.MaxApprovers)
	}
	return nil
}
