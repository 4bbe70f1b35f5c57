// Package cmd holds the cobra subcommands of the campus binary.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/campus/cli/internal/api"
	"github.com/gravitrone/campus/cli/internal/config"
	"github.com/gravitrone/campus/cli/internal/logging"
	"github.com/gravitrone/campus/cli/internal/record"
	"github.com/gravitrone/campus/cli/internal/resources"
)

// Persistent flag names registered on the root command.
const (
	FlagConfig  = "config"
	FlagBaseURL = "base-url"
)

// Env is what every command needs: effective config, a client and a logger.
type Env struct {
	Config     *config.Config
	ConfigPath string
	Client     *api.Client
	Logger     *slog.Logger

	closeLog func() error
}

// Close releases the log file, if any.
func (e *Env) Close() error {
	if e == nil || e.closeLog == nil {
		return nil
	}
	return e.closeLog()
}

// ResourceOptions builds resource options from the config defaults.
func (e *Env) ResourceOptions(collegeID int64) resources.Options {
	opts := resources.Options{CollegeID: collegeID, Defaults: map[string]record.Record{}}
	for _, name := range resources.Names() {
		if d := e.Config.DefaultsFor(name); d != nil {
			opts.Defaults[name] = d
		}
	}
	return opts
}

// LoadEnv reads the config named by --config (or CAMPUS_CONFIG), applies
// --base-url and builds the client. Logs go to logOut unless the config
// names a log file; a nil logOut discards them.
func LoadEnv(c *cobra.Command, logOut io.Writer) (*Env, error) {
	path := flagString(c, FlagConfig)
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if baseURL := flagString(c, FlagBaseURL); baseURL != "" {
		cfg.BaseURL = baseURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
		Output: logOut,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	client := api.NewClient(cfg.BaseURL, cfg.Timeout).WithLogger(logger)
	return &Env{
		Config:     cfg,
		ConfigPath: path,
		Client:     client,
		Logger:     logger,
		closeLog:   closeLog,
	}, nil
}

func flagString(c *cobra.Command, name string) string {
	if c == nil {
		return ""
	}
	f := c.Flags().Lookup(name)
	if f == nil {
		return ""
	}
	return strings.TrimSpace(f.Value.String())
}

// IsInteractiveTerminal reports whether file is a character device.
func IsInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// interactive is swapped in tests.
var interactive = func() bool {
	return IsInteractiveTerminal(os.Stdin) && IsInteractiveTerminal(os.Stdout)
}
