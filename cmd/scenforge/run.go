package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"scenforge/adapters/llm"
	"scenforge/adapters/validate"
	"scenforge/app"
	"scenforge/internal"
	"scenforge/internal/config"
	"scenforge/models"
	"scenforge/ports"
)

// runCmd executes a plan file once, or as a batch with --runs.
var runCmd = &cobra.Command{
	Use:   "run <plan.(yaml|json)>",
	Short: "Execute a generation plan and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runs, _ := cmd.Flags().GetInt("runs")
		parallel, _ := cmd.Flags().GetInt("parallel")
		summariesOnly, _ := cmd.Flags().GetBool("summaries-only")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))

		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		validator, err := resolveValidator(plan)
		if err != nil {
			return err
		}
		registry := buildRegistry(cfg, logger)

		if runs > 1 {
			batch := app.NewBatchService(registry, logger, cfg.Batch.MaxParallel)
			result, err := batch.Run(context.Background(), app.BatchRequest{
				Plan:        plan,
				Runs:        runs,
				Parallelism: parallel,
				Validator:   validator,
			})
			if err != nil {
				return err
			}
			if summariesOnly {
				result.Records = nil
			}
			return printJSON(result)
		}

		engine, err := app.CompileEngine(plan, app.CompileOptions{
			Bridge:    registry,
			Validator: validator,
			Logger:    logger,
		})
		if err != nil {
			return err
		}
		record, err := engine.Run(context.Background())
		if err != nil {
			return err
		}
		return printJSON(record)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("runs", 1, "Number of runs; above 1 switches to batch mode")
	runCmd.Flags().Int("parallel", 0, "Batch parallelism (default from BATCH_MAX_PARALLEL)")
	runCmd.Flags().Bool("summaries-only", false, "In batch mode, print summaries without the records")
}

// loadPlan reads a YAML or JSON plan file. yaml.v3 parses both, JSON being
// a subset of YAML.
func loadPlan(path string) (models.GenerationPlan, error) {
	var plan models.GenerationPlan
	raw, err := os.ReadFile(path)
	if err != nil {
		return plan, fmt.Errorf("read plan %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &plan); err != nil {
		return plan, fmt.Errorf("parse plan %q: %w", path, err)
	}
	return plan, nil
}

func resolveValidator(plan models.GenerationPlan) (ports.RecordValidator, error) {
	if plan.Schema == nil {
		return nil, nil
	}
	return validate.NewSchemaValidatorFromFile(plan.Schema.Document, plan.Schema.Name)
}

// buildRegistry registers the static provider always and OpenAI when a key
// is configured.
func buildRegistry(cfg *config.Config, logger *internal.Logger) *llm.Registry {
	registry := llm.NewRegistry()
	registry.Register("static", &llm.StaticProvider{Default: cfg.LLM.FallbackText})
	if cfg.LLM.APIKey != "" {
		openai, err := llm.NewOpenAIProvider(llm.OpenAIConfig{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		})
		if err != nil {
			logger.Warn("openai provider disabled: %v", err)
		} else {
			registry.Register("openai", openai)
		}
	}
	return registry
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
