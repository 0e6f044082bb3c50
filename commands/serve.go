package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chunshen/portfolio/internal/config"
	"github.com/chunshen/portfolio/internal/contact"
	"github.com/chunshen/portfolio/internal/content"
	"github.com/chunshen/portfolio/internal/site"
	"github.com/chunshen/portfolio/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg, logger)
}

// serve runs the HTTP server, the data watcher and the retention job until
// ctx is cancelled or one of them fails.
func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	db, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	data, err := content.NewStore(cfg.Data.Dir, logger)
	if err != nil {
		return err
	}

	var relay contact.Relay
	if cfg.SMTPConfigured() {
		relay = contact.NewSMTPRelay(cfg.Contact.SMTPHost, cfg.Contact.SMTPPort,
			cfg.Contact.SMTPUser, cfg.Contact.SMTPPass, cfg.Contact.To)
	} else {
		logger.Warn("SMTP credentials not configured, contact form falls back to mailto links")
	}

	srv, err := site.New(site.Options{
		Config:  cfg,
		Content: data,
		DB:      db,
		Relay:   relay,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// open view streams only end when their trackers close
	httpSrv.RegisterOnShutdown(srv.Close)

	// created before any goroutine starts so a failure leaves nothing running
	var watcher *content.Watcher
	if cfg.Data.Watch {
		if watcher, err = content.NewWatcher(data, cfg.Data.Debounce, logger); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", zap.Int("port", cfg.Server.Port), zap.String("mode", cfg.Server.Mode))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return srv.RunMaintenance(ctx)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}
	return g.Wait()
}
