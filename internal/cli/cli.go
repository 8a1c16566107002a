package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/pipeini/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// envList collects repeated -env NAME=VALUE flags.
type envList []string

func (e *envList) String() string { return strings.Join(*e, ",") }

func (e *envList) Set(value string) error {
	*e = append(*e, value)
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pipeini", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
pipeini - Loader, validator and renderer for pipeline INI configurations.

Usage:
  pipeini [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    Path to a pipeline .ini file, or a directory when -lint is set.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the pipeline configuration file.")
	cFlag := flagSet.String("c", "", "Path to the pipeline configuration file (shorthand).")
	renderFlag := flagSet.Bool("render", false, "Print the fully interpolated configuration instead of just validating.")
	formatFlag := flagSet.String("format", "ini", "Render output format. Options: 'ini', 'json' or 'yaml'.")
	outputFlag := flagSet.String("output", "", "Write render output to this file (atomically) instead of stdout.")
	planFlag := flagSet.Bool("plan", false, "Print the module execution plan.")
	lintFlag := flagSet.Bool("lint", false, "Treat CONFIG_PATH as a directory and validate every .ini file under it.")
	watchFlag := flagSet.Bool("watch", false, "Stay running and re-validate whenever the file changes.")
	var envFlags envList
	flagSet.Var(&envFlags, "env", "Environment override as NAME=VALUE for ${VAR} interpolation. Repeatable.")
	noOSEnvFlag := flagSet.Bool("no-os-env", false, "Ignore the process environment; only -env values are visible to ${VAR}.")
	strictFlag := flagSet.Bool("strict", false, "Treat validation warnings as errors.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *configFlag != "" {
		path = *configFlag
	} else if *cFlag != "" {
		path = *cFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Config path determined.", "path", path)

	if path == "" {
		slog.Debug("No config path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPath:   path,
		Render:       *renderFlag,
		Format:       *formatFlag,
		OutputPath:   *outputFlag,
		Plan:         *planFlag,
		Lint:         *lintFlag,
		Watch:        *watchFlag,
		EnvOverrides: envFlags,
		NoOSEnv:      *noOSEnvFlag,
		Strict:       *strictFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
