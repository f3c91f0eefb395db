package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that required settings are present for the current
// environment. API keys for the LLM and weather collaborators are not
// required: both paths degrade to deterministic fallbacks without them.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}

	if IsProduction() {
		if cfg.DBUser == "" {
			errs = append(errs, "DB_USER is required in production")
		}
		if cfg.DBPassword == "" {
			errs = append(errs, "DB_PASSWORD is required in production")
		}
	}

	if cfg.Timezone != "Local" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			errs = append(errs, fmt.Sprintf("invalid TIMEZONE %q", cfg.Timezone))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Location resolves the configured timezone. Plan date keys and water-log
// day windows are evaluated in this location.
func (c *Config) Location() *time.Location {
	if c.Timezone == "Local" || c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
