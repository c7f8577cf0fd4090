// Package inference defines the boundary to the LLM backend. The engine is
// agnostic to the provider; it sees prompts in and completions out.
package inference

import "context"

// Request is a single generation request.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Completion is the backend's answer plus token accounting.
type Completion struct {
	Content    string
	TokensUsed int
}

// Client generates completions. Implementations may fail generically; the
// orchestration layer absorbs failures via fallback substitution.
type Client interface {
	Generate(ctx context.Context, req Request) (*Completion, error)
}
