package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vk/sduigo/internal/app"
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

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
// Flags may appear before or after the command. Precedence is: flags set on
// the command line, then the config file, then environment variables, then
// flag defaults.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("sduigo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
sduigo - Server-driven UI scenario compiler, renderer and server.

Usage:
  sduigo [options] compile PATH   Compile .hcl authoring files into scenario JSON.
  sduigo [options] render FILE    Render a scenario JSON document.
  sduigo [options] serve PATH     Compile, publish and serve scenarios over HTTP.

Arguments:
  PATH
    Path to a single .hcl file or a directory containing .hcl files.
  FILE
    Path to a compiled scenario JSON document.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to a YAML config file.")
	logFormatFlag := flagSet.String("log-format", "auto", "Log output format. Options: 'auto', 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	outFlag := flagSet.String("out", "", "compile: directory for the generated JSON documents. Defaults to stdout.")
	propsFlag := flagSet.String("props", "", "render: props as a JSON object, or @file.")
	platformFlag := flagSet.String("platform", "snapshot", "render: target platform. Options: 'snapshot', 'web'.")
	formatFlag := flagSet.String("format", "json", "render: snapshot output format. Options: 'json', 'yaml'.")
	fragmentFlag := flagSet.String("fragment", "", "render: render a named fragment instead of the main component.")
	pageFlag := flagSet.Bool("page", false, "render: wrap web output in a complete HTML page.")
	listenFlag := flagSet.String("listen", app.DefaultListen, "serve: HTTP listen address.")
	redisFlag := flagSet.String("redis-url", "", "serve: Redis URL for the scenario store. In-memory when empty.")
	watchFlag := flagSet.Bool("watch", false, "serve: recompile and republish sources when they change.")

	if err := parseFlags(flagSet, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 2 {
		return nil, false, usageError("unexpected arguments: %s", strings.Join(flagSet.Args()[2:], " "))
	}
	command, path := flagSet.Arg(0), flagSet.Arg(1)
	slog.Debug("Arguments parsed successfully.", "command", command, "path", path)

	explicit := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	cfg := app.Config{
		Command:   command,
		Path:      path,
		Out:       *outFlag,
		Props:     *propsFlag,
		Platform:  *platformFlag,
		Format:    *formatFlag,
		Fragment:  *fragmentFlag,
		Page:      *pageFlag,
		Listen:    *listenFlag,
		RedisURL:  *redisFlag,
		Watch:     *watchFlag,
		LogFormat: strings.ToLower(*logFormatFlag),
		LogLevel:  strings.ToLower(*logLevelFlag),
	}

	fromFile := map[string]bool{}
	if *configFlag != "" {
		fc, err := app.LoadFile(*configFlag)
		if err != nil {
			return nil, false, usageError("%v", err)
		}
		apply := func(name, value string, dst *string) {
			if value != "" && !explicit[name] {
				*dst = value
				fromFile[name] = true
			}
		}
		apply("log-level", strings.ToLower(fc.LogLevel), &cfg.LogLevel)
		apply("log-format", strings.ToLower(fc.LogFormat), &cfg.LogFormat)
		apply("listen", fc.Listen, &cfg.Listen)
		apply("redis-url", fc.RedisURL, &cfg.RedisURL)
		apply("platform", fc.Platform, &cfg.Platform)
		if fc.Source != "" && cfg.Path == "" {
			cfg.Path = fc.Source
		}
		if fc.Watch != nil && !explicit["watch"] {
			cfg.Watch = *fc.Watch
		}
	}

	env := func(name, key string, dst *string) {
		if explicit[name] || fromFile[name] {
			return
		}
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	env("listen", app.EnvListen, &cfg.Listen)
	env("redis-url", app.EnvRedisURL, &cfg.RedisURL)

	switch cfg.LogFormat {
	case "auto", "text", "json":
	default:
		return nil, false, usageError("invalid log-format: must be 'auto', 'text' or 'json'")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, usageError("%v", err)
	}

	slog.Debug("CLI parser finished successfully.", "command", config.Command)
	return config, false, nil
}

// parseFlags parses args and, unlike flag.Parse, also accepts flags that
// follow the positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) error {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
	return fs.Parse(append([]string{"--"}, positional...))
}
