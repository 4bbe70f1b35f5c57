package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gravitrone/campus/cli/internal/api"
	"github.com/gravitrone/campus/cli/internal/record"
)

// EnvPrefix prefixes every environment override, e.g. CAMPUS_BASE_URL.
const EnvPrefix = "CAMPUS"

const (
	keyBaseURL     = "base_url"
	keyTimeout     = "timeout"
	keyLogLevel    = "log_level"
	keyLogFormat   = "log_format"
	keyLogFile     = "log_file"
	keyDateFormat  = "date_format"
	keyPlaceholder = "placeholder"
	keyDefaults    = "defaults"
)

// Config holds CLI configuration stored at ~/.campus/config.yaml.
type Config struct {
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	LogLevel    string        `yaml:"log_level" mapstructure:"log_level"`
	LogFormat   string        `yaml:"log_format" mapstructure:"log_format"`
	LogFile     string        `yaml:"log_file,omitempty" mapstructure:"log_file"`
	DateFormat  string        `yaml:"date_format" mapstructure:"date_format"`
	Placeholder string        `yaml:"placeholder" mapstructure:"placeholder"`

	// Defaults fills fields a form leaves empty, per resource. Empty unless
	// the operator sets them.
	Defaults map[string]map[string]any `yaml:"defaults,omitempty" mapstructure:"defaults"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:     api.DefaultBaseURL,
		Timeout:     30 * time.Second,
		LogLevel:    "INFO",
		LogFormat:   "text",
		DateFormat:  "Jan 2, 2006",
		Placeholder: "-",
	}
}

// Path returns the config file path. CAMPUS_CONFIG overrides it.
func Path() string {
	if p := strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG")); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".campus", "config.yaml")
}

// Load reads the config file at path, applies CAMPUS_* environment
// overrides and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	def := Default()

	v := viper.New()
	v.SetDefault(keyBaseURL, def.BaseURL)
	v.SetDefault(keyTimeout, def.Timeout)
	v.SetDefault(keyLogLevel, def.LogLevel)
	v.SetDefault(keyLogFormat, def.LogFormat)
	v.SetDefault(keyLogFile, "")
	v.SetDefault(keyDateFormat, def.DateFormat)
	v.SetDefault(keyPlaceholder, def.Placeholder)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values a client cannot work without.
func (c *Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config base_url %q is not an http(s) URL", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config timeout must be positive, got %s", c.Timeout)
	}
	if c.DateFormat == "" {
		c.DateFormat = Default().DateFormat
	}
	return nil
}

// DefaultsFor returns the configured defaults for one resource.
func (c *Config) DefaultsFor(resource string) record.Record {
	values := c.Defaults[strings.ToLower(resource)]
	if len(values) == 0 {
		return nil
	}
	out := make(record.Record, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

// Save writes the config to path with owner-only permissions.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
