package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/pipeini/internal/pipeline"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ConfigPath is the pipeline .ini file, or a directory in lint mode.
	ConfigPath string

	Render     bool
	Format     string // ini, json or yaml
	OutputPath string
	Plan       bool
	Lint       bool
	Watch      bool

	// EnvOverrides are NAME=VALUE pairs layered over (or, with NoOSEnv,
	// replacing) the process environment for ${VAR} interpolation.
	EnvOverrides []string
	NoOSEnv      bool

	// Strict promotes validation warnings to failures.
	Strict bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it, normalizing the render format.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}

	format, err := pipeline.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	cfg.Format = string(format)

	if cfg.Lint && (cfg.Render || cfg.Plan || cfg.Watch) {
		return nil, errors.New("lint mode cannot be combined with render, plan, or watch")
	}
	if cfg.Watch && (cfg.Render || cfg.Plan) {
		return nil, errors.New("watch mode cannot be combined with render or plan")
	}
	if cfg.OutputPath != "" && !cfg.Render {
		return nil, errors.New("output requires render mode")
	}

	for _, kv := range cfg.EnvOverrides {
		name, _, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid env override %q: expected NAME=VALUE", kv)
		}
	}

	return &cfg, nil
}
