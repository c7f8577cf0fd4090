package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"stratagem/internal/analysis"
	"stratagem/internal/inference"
)

// TechnicalAgent assesses implementation complexity and feasibility.
type TechnicalAgent struct {
	client inference.Client
	opts   Options
	logger *zap.Logger
}

// NewTechnicalAgent creates the technical analysis module.
func NewTechnicalAgent(client inference.Client, opts Options, logger *zap.Logger) *TechnicalAgent {
	return &TechnicalAgent{client: client, opts: opts, logger: logger}
}

func (a *TechnicalAgent) Kind() analysis.Kind { return analysis.KindTechnical }

type technicalWire struct {
	ComplexityTier         string   `json:"complexity_tier"`
	Feasibility            float64  `json:"feasibility"`
	IntegrationEffortWeeks float64  `json:"integration_effort_weeks"`
	ArchitectureNotes      string   `json:"architecture_notes"`
	Risks                  []string `json:"risks"`
	Recommendations        []string `json:"recommendations"`
	Confidence             float64  `json:"confidence"`
}

// Analyze runs the technical module once.
func (a *TechnicalAgent) Analyze(ctx context.Context, req *analysis.AnalysisRequest) (*Output, error) {
	completion, err := a.client.Generate(ctx, inference.Request{
		Prompt:      a.buildPrompt(req),
		MaxTokens:   a.opts.MaxTokens,
		Temperature: a.opts.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("technical analysis: %w", err)
	}

	raw, err := extractJSON(completion.Content)
	if err != nil {
		return nil, fmt.Errorf("technical analysis: %w", err)
	}
	var wire technicalWire
	if err := decodeStrict(raw, &wire); err != nil {
		return nil, fmt.Errorf("technical analysis: %w", err)
	}

	result := analysis.AnalysisResult{
		Kind: analysis.KindTechnical,
		Technical: &analysis.TechnicalResult{
			ComplexityTier:         wire.ComplexityTier,
			Feasibility:            wire.Feasibility,
			IntegrationEffortWeeks: wire.IntegrationEffortWeeks,
			ArchitectureNotes:      wire.ArchitectureNotes,
			Risks:                  wire.Risks,
			Recommendations:        wire.Recommendations,
			Confidence:             wire.Confidence,
		},
	}
	if err := analysis.Validate(&result); err != nil {
		return nil, err
	}
	a.logger.Debug("technical analysis parsed",
		zap.String("complexity", wire.ComplexityTier),
		zap.Float64("feasibility", wire.Feasibility))
	return &Output{Result: result, TokensUsed: completion.TokensUsed}, nil
}

func (a *TechnicalAgent) buildPrompt(req *analysis.AnalysisRequest) string {
	var sb strings.Builder
	sb.WriteString("You are a solutions architect assessing the technical feasibility of deploying an enterprise software solution at the company below.\n\n")
	writeLeadContext(&sb, req)
	sb.WriteString(`Respond with a single JSON object and nothing else:
{
  "complexity_tier": "low" | "moderate" | "high" | "very_high",
  "feasibility": <feasibility score in [0,1]>,
  "integration_effort_weeks": <estimated integration effort in weeks, >= 0>,
  "architecture_notes": "<one-paragraph architecture assessment>",
  "risks": ["<technical risk>", ...],
  "recommendations": ["<specific, actionable recommendation>", ...],
  "confidence": <your confidence in this assessment, in [0,1]>
}`)
	return sb.String()
}
