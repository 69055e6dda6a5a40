package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"popup-backend-go/internal/db"
	httpapi "popup-backend-go/internal/http"
	"popup-backend-go/internal/services"
	"popup-backend-go/internal/store"
	"popup-backend-go/internal/updates"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		database, err := db.Open(ctx, cfg.DSN(), db.PoolOptions{MinIdle: cfg.DBPoolMin, MaxOpen: cfg.DBPoolMax})
		if err != nil {
			return err
		}
		defer database.Close()
		if cfg.BootstrapSchema {
			if err := db.EnsureSchema(ctx, database); err != nil {
				return err
			}
		}

		storage := updates.New(cfg.UpdatesPath)
		if err := storage.EnsurePlatforms(); err != nil {
			return err
		}

		feed := services.NewLogFeed()
		go feed.Run(ctx)

		server := httpapi.NewServer(cfg, store.New(database), feed, storage)
		httpServer := &http.Server{
			Addr:              cfg.Addr(),
			Handler:           server.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.WithField("addr", cfg.Addr()).Info("listening")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(stop)
		select {
		case <-stop:
		case err := <-errCh:
			return err
		}

		cancel()
		ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		_ = httpServer.Shutdown(ctxShutdown)
		log.Info("shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
