// Package config loads the service configuration: solver and travel
// matrix endpoints per vehicle profile, and planning defaults.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port int `yaml:"port" validate:"required,min=1,max=65535"`
}

type SolverConfig struct {
	URL            string `yaml:"url" validate:"required,url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"min=0"`
}

type MatrixConfig struct {
	// Endpoints maps a vehicle profile to the base URL of the travel
	// matrix service routing that profile.
	Endpoints      map[string]string `yaml:"endpoints" validate:"required,min=1,dive,url"`
	TimeoutSeconds int               `yaml:"timeout_seconds" validate:"min=0"`
}

type PlanningConfig struct {
	// DayStart anchors solver arrival offsets to wall-clock time.
	DayStart              string `yaml:"day_start"`
	DefaultServiceSeconds int    `yaml:"default_service_seconds" validate:"min=0"`
	ReplenishSeconds      int    `yaml:"replenish_seconds" validate:"min=0"`
	SchemaPath            string `yaml:"schema_path"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Solver   SolverConfig   `yaml:"solver" validate:"required"`
	Matrix   MatrixConfig   `yaml:"matrix" validate:"required"`
	Planning PlanningConfig `yaml:"planning"`
}

// Load reads, validates and defaults a yaml config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("load config: parse %q: %w", path, err)
	}

	applyDefaults(&cfg)

	v := validator.New()
	if err := v.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("load config: validate %q: %w", path, err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Solver.TimeoutSeconds == 0 {
		cfg.Solver.TimeoutSeconds = 60
	}
	if cfg.Matrix.TimeoutSeconds == 0 {
		cfg.Matrix.TimeoutSeconds = 30
	}
	if cfg.Planning.DayStart == "" {
		cfg.Planning.DayStart = "00:00:00"
	}
	if cfg.Planning.DefaultServiceSeconds == 0 {
		cfg.Planning.DefaultServiceSeconds = 300
	}
	if cfg.Planning.ReplenishSeconds == 0 {
		cfg.Planning.ReplenishSeconds = 1800
	}
}

// Get returns an environment variable or a fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
