package app

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/pipeini/internal/ctxlog"
	"github.com/vk/pipeini/internal/interp"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	env    interp.Env
}

// NewApp is the constructor for the main application. Results go to outW;
// logs go to errW so rendered output stays clean on stdout.
func NewApp(outW, errW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, errW)
	logger.Debug("Logger configured successfully.")

	env := make(interp.Env)
	if !config.NoOSEnv {
		env = interp.OSEnv()
	}
	for _, kv := range config.EnvOverrides {
		// Shape was validated by NewConfig.
		if name, value, ok := strings.Cut(kv, "="); ok {
			env[name] = value
		}
	}
	logger.Debug("Interpolation environment assembled.", "vars", len(env), "overrides", len(config.EnvOverrides), "os_env", !config.NoOSEnv)

	return &App{
		outW:   outW,
		logger: logger,
		config: config,
		env:    env,
	}
}

// Run executes the selected mode against the configured path.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "path", a.config.ConfigPath)

	switch {
	case a.config.Lint:
		return a.runLint(ctx)
	case a.config.Watch:
		return a.runWatch(ctx)
	default:
		return a.runOnce(ctx)
	}
}
