package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// Capacities must be positive.
	if c.Machine.WaterCapacityML <= 0 {
		errs = append(errs, fmt.Errorf("machine.water_capacity_ml must be > 0, got %d", c.Machine.WaterCapacityML))
	}
	if c.Machine.CoffeeCapacityG <= 0 {
		errs = append(errs, fmt.Errorf("machine.coffee_capacity_g must be > 0, got %d", c.Machine.CoffeeCapacityG))
	}

	// storage.type must be a known value.
	switch c.Storage.Type {
	case "file", "postgres", "memory":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"file\", \"postgres\", or \"memory\", got %q", c.Storage.Type))
	}

	// If storage.type is "file", a path must be set.
	if c.Storage.Type == "file" && c.Storage.File.Path == "" {
		errs = append(errs, fmt.Errorf("storage.file.path is required when storage.type is \"file\""))
	}

	// If storage.type is "postgres", DSN or DSNFile must be set.
	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	// Metrics path must start with a slash when metrics are enabled.
	if c.Observability.Metrics.Enabled {
		if p := c.Observability.Metrics.Path; p == "" || p[0] != '/' {
			errs = append(errs, fmt.Errorf("observability.metrics.path must start with \"/\", got %q", p))
		}
	}

	return errors.Join(errs...)
}
