package config

// LogLevel controls how much a logger emits.
type LogLevel string

const (
	LogNone   LogLevel = "none"
	LogNormal LogLevel = "normal"
	LogDebug  LogLevel = "debug"
)

// Config is the top-level pagebuilder configuration, corresponding to .pagebuilder.yml.
type Config struct {
	DatabasePath string        `yaml:"database_path" koanf:"database_path"`
	BaseURL      string        `yaml:"base_url" koanf:"base_url"`
	Server       ServerConfig  `yaml:"server" koanf:"server"`
	Render       RenderConfig  `yaml:"render" koanf:"render"`
	Import       ImportConfig  `yaml:"import" koanf:"import"`
	Site         SiteConfig    `yaml:"site" koanf:"site"`
	Logging      LoggingConfig `yaml:"logging" koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// RenderConfig holds listing renderer settings.
type RenderConfig struct {
	// DateFormat is a Go time layout for item dates.
	DateFormat string `yaml:"date_format" koanf:"date_format"`
	// ItemClass is the class of an item's root element in page templates.
	ItemClass string `yaml:"item_class" koanf:"item_class"`
	// NoImageClass is added to items rendered without an image. Empty disables it.
	NoImageClass     string `yaml:"no_image_class" koanf:"no_image_class"`
	ShowEditLink     bool   `yaml:"show_edit_link" koanf:"show_edit_link"`
	PaginationWindow int    `yaml:"pagination_window" koanf:"pagination_window"`
}

// ImportConfig holds markdown import settings.
type ImportConfig struct {
	Include       []string `yaml:"include" koanf:"include"`
	Exclude       []string `yaml:"exclude" koanf:"exclude"`
	DefaultAuthor string   `yaml:"default_author" koanf:"default_author"`
}

// SiteConfig holds site-wide head settings applied to every rendered page.
type SiteConfig struct {
	Keywords      string `yaml:"keywords" koanf:"keywords"`
	Description   string `yaml:"description" koanf:"description"`
	MetaTags      string `yaml:"meta_tags" koanf:"meta_tags"`
	HeadHTML      string `yaml:"head_html" koanf:"head_html"`
	AnalyticsCode string `yaml:"analytics_code" koanf:"analytics_code"`
	// GTMCode is a Google Tag Manager container id, e.g. GTM-XXXX.
	GTMCode       string `yaml:"gtm_code" koanf:"gtm_code"`
	CaptchaScript string `yaml:"captcha_script" koanf:"captcha_script"`
}

// LoggerConfig configures one log destination.
type LoggerConfig struct {
	Level LogLevel `yaml:"level" koanf:"level"`
	// Destination is a file path; only used by the file logger.
	Destination string `yaml:"destination,omitempty" koanf:"destination"`
	// Mode is append or overwrite; only used by the file logger.
	Mode string `yaml:"mode,omitempty" koanf:"mode"`
}

// LoggingConfig holds the console and file logger settings.
type LoggingConfig struct {
	Console LoggerConfig `yaml:"console" koanf:"console"`
	File    LoggerConfig `yaml:"file" koanf:"file"`
}
