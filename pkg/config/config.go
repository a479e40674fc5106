// Package config provides unified configuration for the kaffee service.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (KAFFEE_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the kaffee service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Machine       MachineConfig       `yaml:"machine"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 8080
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 10s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 10s
}

// MachineConfig holds the container capacities used on first boot.
type MachineConfig struct {
	WaterCapacityML int `yaml:"water_capacity_ml"` // default: 2000
	CoffeeCapacityG int `yaml:"coffee_capacity_g"` // default: 500
}

// StorageConfig holds state persistence settings.
type StorageConfig struct {
	Type     string         `yaml:"type"` // "file", "postgres", or "memory", default: "file"
	File     FileConfig     `yaml:"file"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// FileConfig holds file-backend settings.
type FileConfig struct {
	Path string `yaml:"path"` // default: "machine_state.json"
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 10
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: true
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Machine: MachineConfig{
			WaterCapacityML: 2000,
			CoffeeCapacityG: 500,
		},
		Storage: StorageConfig{
			Type: "file",
			File: FileConfig{
				Path: "machine_state.json",
			},
			Postgres: PostgresConfig{
				MaxConns:       10,
				MigrateOnStart: true,
			},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
