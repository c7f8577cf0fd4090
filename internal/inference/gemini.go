package inference

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient implements Client on top of Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed inference client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Generate sends the prompt and returns the text completion with token usage.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (*Completion, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	cfg.Temperature = genai.Ptr(req.Temperature)

	result, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(req.Prompt),
		cfg,
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini returned empty completion")
	}

	completion := &Completion{Content: text}
	if result.UsageMetadata != nil {
		completion.TokensUsed = int(result.UsageMetadata.TotalTokenCount)
	}
	return completion, nil
}
