package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/multierr"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment variable overrides.
const EnvPrefix = "PAGEBUILDER_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PAGEBUILDER_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// PAGEBUILDER_SERVER__PORT -> server.port, PAGEBUILDER_BASE_URL -> base_url.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps an environment variable to a config key. A double underscore
// separates sections, so single underscores stay inside key names.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = map[LogLevel]bool{
	LogNone:   true,
	LogNormal: true,
	LogDebug:  true,
}

// Validate checks that the configuration contains valid values. Every
// problem found is reported.
func (c *Config) Validate() error {
	var errs error

	if c.DatabasePath == "" {
		errs = multierr.Append(errs, fmt.Errorf("database_path is required"))
	}

	if c.BaseURL == "" {
		errs = multierr.Append(errs, fmt.Errorf("base_url is required"))
	} else if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = multierr.Append(errs, fmt.Errorf("invalid base_url %q: must be an absolute URL", c.BaseURL))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = multierr.Append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	if c.Render.DateFormat == "" {
		errs = multierr.Append(errs, fmt.Errorf("render.date_format is required"))
	}
	if c.Render.ItemClass == "" || strings.ContainsAny(c.Render.ItemClass, " \t\"'<>") {
		errs = multierr.Append(errs, fmt.Errorf("invalid render.item_class %q: must be a single class name", c.Render.ItemClass))
	}
	if strings.ContainsAny(c.Render.NoImageClass, " \t\"'<>") {
		errs = multierr.Append(errs, fmt.Errorf("invalid render.no_image_class %q: must be a single class name", c.Render.NoImageClass))
	}
	if c.Render.PaginationWindow < 0 {
		errs = multierr.Append(errs, fmt.Errorf("render.pagination_window must be non-negative"))
	}

	if !validLogLevels[c.Logging.Console.Level] {
		errs = multierr.Append(errs, fmt.Errorf("invalid logging.console.level %q: must be one of none, normal, debug", c.Logging.Console.Level))
	}
	if c.Logging.File.Level != "" && !validLogLevels[c.Logging.File.Level] {
		errs = multierr.Append(errs, fmt.Errorf("invalid logging.file.level %q: must be one of none, normal, debug", c.Logging.File.Level))
	}
	if c.Logging.File.Level != "" && c.Logging.File.Level != LogNone && c.Logging.File.Destination == "" {
		errs = multierr.Append(errs, fmt.Errorf("logging.file.destination is required when file logging is enabled"))
	}
	switch c.Logging.File.Mode {
	case "", "append", "overwrite":
	default:
		errs = multierr.Append(errs, fmt.Errorf("invalid logging.file.mode %q: must be append or overwrite", c.Logging.File.Mode))
	}

	return errs
}
