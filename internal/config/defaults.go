package config

import "github.com/ziadkadry99/pagebuilder/internal/listing"

// DefaultConfigFile is the configuration file looked up in the working directory.
const DefaultConfigFile = ".pagebuilder.yml"

// DefaultExcludes are glob patterns skipped by the markdown importer by default.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"**/_drafts/**",
	"**/README.md",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DatabasePath: ".pagebuilder/pagebuilder.db",
		BaseURL:      "http://localhost:8080",
		Server: ServerConfig{
			Port: 8080,
		},
		Render: RenderConfig{
			DateFormat:       listing.DefaultDateFormat,
			ItemClass:        listing.DefaultItemClass,
			NoImageClass:     listing.DefaultHiddenClass,
			ShowEditLink:     false,
			PaginationWindow: listing.DefaultWindow,
		},
		Import: ImportConfig{
			Include: []string{"**/*.md"},
			Exclude: append([]string(nil), DefaultExcludes...),
		},
		Logging: LoggingConfig{
			Console: LoggerConfig{Level: LogNormal},
			File:    LoggerConfig{Level: LogNone, Mode: "append"},
		},
	}
}
