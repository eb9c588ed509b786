package main

import (
	"github.com/spf13/cobra"

	"scenforge/api"
	"scenforge/app"
	"scenforge/internal"
	"scenforge/internal/config"
)

// serveCmd starts the JSON generation API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP generation API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Server.Port = port
		}
		logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))

		registry := buildRegistry(cfg, logger)
		batch := app.NewBatchService(registry, logger, cfg.Batch.MaxParallel)
		return api.NewApp(cfg, registry, batch, logger).Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "", "Listen port (overrides SCENFORGE_PORT)")
}
