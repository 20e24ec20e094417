package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// dateFormats offered by the wizard, as Go time layouts.
var dateFormats = []string{
	"January 2, 2006",
	"2006-01-02",
	"02.01.2006",
	"Jan 2, 2006 15:04",
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to pagebuilder! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Public base URL.
	basePrompt := promptui.Prompt{
		Label:   "Public base URL of the site",
		Default: cfg.BaseURL,
		Validate: func(s string) error {
			u, err := url.Parse(strings.TrimSpace(s))
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("enter an absolute URL such as https://example.com")
			}
			return nil
		},
	}
	baseURL, err := basePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base URL: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")

	// 2. Database location.
	dbPrompt := promptui.Prompt{
		Label:   "Content database path",
		Default: cfg.DatabasePath,
	}
	if cfg.DatabasePath, err = dbPrompt.Run(); err != nil {
		return nil, fmt.Errorf("database path: %w", err)
	}

	// 3. Server port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 4. Date format.
	datePrompt := promptui.Select{
		Label: "Date format for listings",
		Items: dateFormats,
	}
	_, cfg.Render.DateFormat, err = datePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("date format: %w", err)
	}

	// 5. Extra import excludes.
	excludePrompt := promptui.Prompt{
		Label:   "Extra import exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if extra := splitAndTrim(excludeStr); len(extra) > 0 {
		cfg.Import.Exclude = append(append([]string(nil), DefaultExcludes...), extra...)
	}

	// 6. Console logging.
	logPrompt := promptui.Select{
		Label: "Console logging",
		Items: []string{string(LogNormal), string(LogDebug), string(LogNone)},
	}
	_, level, err := logPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg.Logging.Console.Level = LogLevel(level)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
