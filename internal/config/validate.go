package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535 (got %d)", c.Server.Port)
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite driver")
		}
	case DriverRedis:
		if strings.TrimSpace(c.Storage.RedisAddr) == "" {
			return fmt.Errorf("storage.redis_addr is required for the redis driver")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Storage.PostgresDSN) == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("storage.driver must be one of sqlite, redis, postgres (got %q)", c.Storage.Driver)
	}

	if _, err := c.Calendar.Location(); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(c.Calendar.WeekStart)) {
	case "sunday", "monday":
	default:
		return fmt.Errorf("calendar.week_start must be sunday or monday (got %q)", c.Calendar.WeekStart)
	}

	if !c.Streak.Disabled {
		if _, err := cron.ParseStandard(c.Streak.RolloverCron); err != nil {
			return fmt.Errorf("streak.rollover_cron: %w", err)
		}
	}

	if c.Achievements.HideDelay < 0 {
		return fmt.Errorf("achievements.hide_delay must not be negative")
	}

	if c.Auth.Enabled() {
		if len(c.Auth.JWTSecret) < 16 {
			return fmt.Errorf("auth.jwt_secret must be at least 16 characters (got %d)", len(c.Auth.JWTSecret))
		}
		if c.Auth.PasscodeHash == "" {
			return fmt.Errorf("auth.passcode_hash is required when auth is enabled")
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error (got %q)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}

	return nil
}
