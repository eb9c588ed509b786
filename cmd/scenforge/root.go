package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scenforge",
	Short: "Reproducible synthetic scenario generation",
	Long: `Scenforge executes declarative generation plans: seeded statistical
noise, weighted category choice, and provider-backed text, assembled into
nested records and optionally validated against an OpenAPI schema.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; real environments set variables directly
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
