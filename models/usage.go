package models

// ProviderUsage aggregates invocation accounting for one text provider.
type ProviderUsage struct {
	Provider       string `json:"provider"`
	Calls          int    `json:"calls"`
	Successes      int    `json:"successes"`
	Failures       int    `json:"failures"`
	Timeouts       int    `json:"timeouts"`
	Fallbacks      int    `json:"fallbacks"`
	TotalLatencyMs int64  `json:"total_latency_ms"`
}
