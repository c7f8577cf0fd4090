package config

import "time"

// LLMConfig configures the inference backend.
type LLMConfig struct {
	Provider    string        `json:"provider"` // gemini, static
	APIKey      string        `json:"api_key"`
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
	HTTPTimeout time.Duration `json:"http_timeout"`
}

// DefaultLLMConfig returns Gemini defaults. The HTTP timeout is deliberately
// longer than every module deadline: the guard detaches on deadline expiry and
// the underlying call is allowed to run to completion before being discarded.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Provider:    "gemini",
		Model:       "gemini-2.5-flash",
		MaxTokens:   4096,
		Temperature: 0.2,
		HTTPTimeout: 5 * time.Minute,
	}
}
