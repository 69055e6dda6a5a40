package main

import (
	"context"

	"popup-backend-go/internal/config"
	"popup-backend-go/internal/logging"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "popupd",
	Short:        "Popup survey backend",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func Execute(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.WithError(err).Error("command failed")
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional config file (yaml, json or .env)")
}

// bootstrap loads .env and the configuration and starts the process logger.
func bootstrap() (config.Config, func(), error) {
	_ = godotenv.Load()
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	cleanup, err := logging.Setup(logging.Options{
		Dir:           cfg.LogDir,
		Level:         cfg.LogLevel,
		Format:        cfg.LogFormat,
		RetentionDays: cfg.LogRetentionDays,
	})
	if err != nil {
		log.WithError(err).Warn("file logging disabled")
		cleanup = func() {}
	}
	return cfg, cleanup, nil
}
