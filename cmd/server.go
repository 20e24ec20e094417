package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/pagebuilder/internal/audit"
	"github.com/ziadkadry99/pagebuilder/internal/importers"
	"github.com/ziadkadry99/pagebuilder/internal/pages"
	"github.com/ziadkadry99/pagebuilder/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve rendered pages and the pages API",
	Long: `Starts an HTTP server that renders stored pages at /pages/{id}, serves
single listing blocks for ajax pagination and exposes the pages API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.cleanup()

		port := a.cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}
		srv := server.New(server.Config{
			Port:     port,
			AllowAll: a.cfg.Server.AllowAllOrigins,
		}, a.db, a.log)

		r := srv.Router()
		pages.RegisterRoutes(r, a.pages)
		importers.RegisterRoutes(r, importers.NewStore(a.db))
		audit.RegisterRoutes(r, a.audit)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			a.log.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.log.Error("shutdown", zap.Error(err))
			}
		}()

		a.log.Info("pagebuilder server starting",
			zap.String("version", Version),
			zap.Int("port", port),
			zap.String("database", a.db.Path()),
			zap.String("base_url", a.cfg.BaseURL))

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
