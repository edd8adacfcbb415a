package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/vk/devconsole/internal/app"
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

// envDefaults are the flag defaults, overridable from the environment.
type envDefaults struct {
	ConfigPath      string `env:"DEVCONSOLE_CONFIG"`
	SavePath        string `env:"DEVCONSOLE_SAVE_PATH"`
	LogFormat       string `env:"DEVCONSOLE_LOG_FORMAT"       envDefault:"text"`
	LogLevel        string `env:"DEVCONSOLE_LOG_LEVEL"        envDefault:"info"`
	HealthcheckPort int    `env:"DEVCONSOLE_HEALTHCHECK_PORT" envDefault:"0"`
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var defaults envDefaults
	if err := env.Parse(&defaults); err != nil {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("parse env: %v", err)}
	}

	flagSet := flag.NewFlagSet("devconsole", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
devconsole - A runtime debug console bridge for live variables and actions.

Usage:
  devconsole [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    Path to a single .hcl file or a directory containing .hcl files.
    Without one, only the built-in variables and actions are registered.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", defaults.ConfigPath, "Path to the console definition file or directory. [$DEVCONSOLE_CONFIG]")
	cFlag := flagSet.String("c", "", "Path to the console definition file or directory (shorthand).")
	savePathFlag := flagSet.String("save-path", defaults.SavePath, "File that stores changed variables. Overrides console.save_path. [$DEVCONSOLE_SAVE_PATH]")
	healthPortFlag := flagSet.Int("healthcheck-port", defaults.HealthcheckPort, "Port for the HTTP health check and metrics server. 0 is disabled. [$DEVCONSOLE_HEALTHCHECK_PORT]")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'. [$DEVCONSOLE_LOG_FORMAT]")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'. [$DEVCONSOLE_LOG_LEVEL]")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	switch {
	case *cFlag != "":
		paths = append(paths, *cFlag)
	case *configFlag != "":
		paths = append(paths, *configFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Config paths determined.", "paths", paths)

	config, err := app.NewConfig(app.Config{
		ConfigPaths:     paths,
		SavePath:        *savePathFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       *logFormatFlag,
		LogLevel:        *logLevelFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
