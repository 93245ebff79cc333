package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if strings.TrimSpace(c.Demo.SeedPath) == "" {
		return fmt.Errorf("demo.seed_path is required")
	}
	if strings.TrimSpace(c.Demo.MainSeedName) == "" {
		return fmt.Errorf("demo.main_seed_name is required")
	}

	if c.Database.Configured() {
		if c.Database.MaxConns <= 0 {
			return fmt.Errorf("database.max_conns must be > 0 (got %d)", c.Database.MaxConns)
		}
		if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("database.min_conns must be in 0..max_conns (got %d)", c.Database.MinConns)
		}
		if c.Database.ConnectTimeout <= 0 {
			return fmt.Errorf("database.connect_timeout must be > 0")
		}
	}

	if c.Ingest.MaxRecords <= 0 {
		return fmt.Errorf("ingest.max_records must be > 0 (got %d)", c.Ingest.MaxRecords)
	}
	if c.Ingest.HousekeepingCron != "" {
		if _, err := cron.ParseStandard(c.Ingest.HousekeepingCron); err != nil {
			return fmt.Errorf("ingest.housekeeping_cron: %w", err)
		}
	}

	if c.RateLimit.PublicPerMinute < 0 {
		return fmt.Errorf("rate_limit.public_per_minute must be >= 0 (got %d)", c.RateLimit.PublicPerMinute)
	}

	return nil
}
