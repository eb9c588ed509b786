package main

import (
	"log"

	"github.com/joho/godotenv"

	"scenforge/adapters/llm"
	"scenforge/api"
	"scenforge/app"
	"scenforge/internal"
	"scenforge/internal/config"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))

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
			log.Fatalf("openai provider: %v", err)
		}
		registry.Register("openai", openai)
	} else {
		logger.Warn("OPENAI_API_KEY not set; only the static provider is registered")
	}

	batch := app.NewBatchService(registry, logger, cfg.Batch.MaxParallel)
	server := api.NewApp(cfg, registry, batch, logger)
	if err := server.Serve(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
