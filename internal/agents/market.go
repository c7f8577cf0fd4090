package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"stratagem/internal/analysis"
	"stratagem/internal/inference"
)

// MarketAgent sizes the addressable market and competitive position.
type MarketAgent struct {
	client inference.Client
	opts   Options
	logger *zap.Logger
}

// NewMarketAgent creates the market analysis module.
func NewMarketAgent(client inference.Client, opts Options, logger *zap.Logger) *MarketAgent {
	return &MarketAgent{client: client, opts: opts, logger: logger}
}

func (a *MarketAgent) Kind() analysis.Kind { return analysis.KindMarket }

// marketWire mirrors MarketResult for strict decoding.
type marketWire struct {
	MarketSizeUSD    float64  `json:"market_size_usd"`
	GrowthRate       float64  `json:"growth_rate"`
	Opportunity      float64  `json:"opportunity"`
	CompetitionLevel string   `json:"competition_level"`
	Positioning      string   `json:"positioning"`
	Recommendations  []string `json:"recommendations"`
	Confidence       float64  `json:"confidence"`
}

// Analyze runs the market module once. No retries here; retry policy belongs
// to the inference backend.
func (a *MarketAgent) Analyze(ctx context.Context, req *analysis.AnalysisRequest) (*Output, error) {
	completion, err := a.client.Generate(ctx, inference.Request{
		Prompt:      a.buildPrompt(req),
		MaxTokens:   a.opts.MaxTokens,
		Temperature: a.opts.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("market analysis: %w", err)
	}

	raw, err := extractJSON(completion.Content)
	if err != nil {
		return nil, fmt.Errorf("market analysis: %w", err)
	}
	var wire marketWire
	if err := decodeStrict(raw, &wire); err != nil {
		return nil, fmt.Errorf("market analysis: %w", err)
	}

	result := analysis.AnalysisResult{
		Kind: analysis.KindMarket,
		Market: &analysis.MarketResult{
			MarketSizeUSD:    wire.MarketSizeUSD,
			GrowthRate:       wire.GrowthRate,
			Opportunity:      wire.Opportunity,
			CompetitionLevel: wire.CompetitionLevel,
			Positioning:      wire.Positioning,
			Recommendations:  wire.Recommendations,
			Confidence:       wire.Confidence,
		},
	}
	if err := analysis.Validate(&result); err != nil {
		return nil, err
	}
	a.logger.Debug("market analysis parsed",
		zap.Float64("opportunity", wire.Opportunity),
		zap.Float64("confidence", wire.Confidence))
	return &Output{Result: result, TokensUsed: completion.TokensUsed}, nil
}

func (a *MarketAgent) buildPrompt(req *analysis.AnalysisRequest) string {
	var sb strings.Builder
	sb.WriteString("You are a market analyst assessing the opportunity of selling an enterprise software solution to the company below.\n\n")
	writeLeadContext(&sb, req)
	sb.WriteString(`Respond with a single JSON object and nothing else:
{
  "market_size_usd": <addressable market in USD, >= 0>,
  "growth_rate": <expected annual market growth, e.g. 0.12>,
  "opportunity": <opportunity score in [0,1]>,
  "competition_level": "low" | "moderate" | "high",
  "positioning": "<one-paragraph positioning summary>",
  "recommendations": ["<specific, actionable recommendation>", ...],
  "confidence": <your confidence in this assessment, in [0,1]>
}`)
	return sb.String()
}
