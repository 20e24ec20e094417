package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/pagebuilder/internal/audit"
	"github.com/ziadkadry99/pagebuilder/internal/config"
	"github.com/ziadkadry99/pagebuilder/internal/content"
	"github.com/ziadkadry99/pagebuilder/internal/db"
	"github.com/ziadkadry99/pagebuilder/internal/listing"
	"github.com/ziadkadry99/pagebuilder/internal/pages"
	"github.com/ziadkadry99/pagebuilder/internal/sitesettings"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `pagebuilder init` to create a config file", err)
	}
	if verbose {
		cfg.Logging.Console.Level = config.LogDebug
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// app bundles what every command needs once config is loaded.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *db.DB
	articles *content.Store
	urls     *content.URLBuilder
	pages    *pages.Service
	audit    *audit.Store
	cleanup  func()
}

// openApp loads config, builds the logger and opens the database.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, flush, err := cfg.Logging.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		flush()
		return nil, err
	}
	log.Debug("database opened", zap.String("path", database.Path()))

	articles := content.NewStore(database)
	auditLog := audit.NewStore(database)
	urls := content.NewURLBuilder(cfg.BaseURL)
	provider := content.NewProvider(articles, urls, content.ProviderOptions{
		ShowEditLink: cfg.Render.ShowEditLink,
		Logger:       log,
	})
	resolver := listing.NewResolver(provider, urls, cfg.Render.DateFormat)
	svc := pages.NewService(pages.NewStore(database), resolver, pages.Options{
		ItemClass:         cfg.Render.ItemClass,
		MissingImageClass: cfg.Render.NoImageClass,
		PaginationWindow:  cfg.Render.PaginationWindow,
		Settings:          sitesettings.FromConfig(cfg.Site),
		Audit:             auditLog,
		Logger:            log,
	})

	return &app{
		cfg:      cfg,
		log:      log,
		db:       database,
		articles: articles,
		urls:     urls,
		pages:    svc,
		audit:    auditLog,
		cleanup: func() {
			database.Close()
			flush()
		},
	}, nil
}
