package main

import (
	"fmt"

	"popup-backend-go/internal/db"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create missing tables and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		database, err := db.Open(cmd.Context(), cfg.DSN(), db.PoolOptions{MinIdle: 1, MaxOpen: 1})
		if err != nil {
			return err
		}
		defer database.Close()
		if err := db.EnsureSchema(cmd.Context(), database); err != nil {
			return err
		}
		log.WithField("database", cfg.DBName).Info("schema ready")
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "schema ready")
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
