package llm

import (
	"context"
	"strings"
	"time"
)

// StaticProvider is the offline provider: deterministic text with no
// network dependency. It serves air-gapped runs, tests, and deployments
// without an API key.
type StaticProvider struct {
	// Responses maps exact prompts to canned text.
	Responses map[string]string

	// Default is returned when no canned response matches. When empty, a
	// deterministic line derived from the prompt is produced instead.
	Default string

	// Latency, when positive, simulates provider think time while honoring
	// context cancellation.
	Latency time.Duration
}

func (p *StaticProvider) GenerateText(ctx context.Context, prompt string, model string) (string, error) {
	if p.Latency > 0 {
		timer := time.NewTimer(p.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if text, ok := p.Responses[prompt]; ok {
		return text, nil
	}
	if p.Default != "" {
		return p.Default, nil
	}
	return "static: " + firstWords(prompt, 8), nil
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
