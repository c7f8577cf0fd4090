package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"stratagem/internal/analysis"
	"stratagem/internal/inference"
)

// ComplianceAgent grades regulatory exposure against the required frameworks.
type ComplianceAgent struct {
	client inference.Client
	opts   Options
	logger *zap.Logger
}

// NewComplianceAgent creates the compliance analysis module.
func NewComplianceAgent(client inference.Client, opts Options, logger *zap.Logger) *ComplianceAgent {
	return &ComplianceAgent{client: client, opts: opts, logger: logger}
}

func (a *ComplianceAgent) Kind() analysis.Kind { return analysis.KindCompliance }

type complianceWire struct {
	RiskScore  float64 `json:"risk_score"`
	Frameworks []struct {
		Name   string `json:"name"`
		Status string `json:"status"`
		Note   string `json:"note"`
	} `json:"frameworks"`
	Blockers        []string `json:"blockers"`
	Recommendations []string `json:"recommendations"`
	Confidence      float64  `json:"confidence"`
}

// Analyze runs the compliance module once.
func (a *ComplianceAgent) Analyze(ctx context.Context, req *analysis.AnalysisRequest) (*Output, error) {
	completion, err := a.client.Generate(ctx, inference.Request{
		Prompt:      a.buildPrompt(req),
		MaxTokens:   a.opts.MaxTokens,
		Temperature: a.opts.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("compliance analysis: %w", err)
	}

	raw, err := extractJSON(completion.Content)
	if err != nil {
		return nil, fmt.Errorf("compliance analysis: %w", err)
	}
	var wire complianceWire
	if err := decodeStrict(raw, &wire); err != nil {
		return nil, fmt.Errorf("compliance analysis: %w", err)
	}

	frameworks := make([]analysis.FrameworkAssessment, 0, len(wire.Frameworks))
	for _, f := range wire.Frameworks {
		frameworks = append(frameworks, analysis.FrameworkAssessment{
			Name:   f.Name,
			Status: f.Status,
			Note:   f.Note,
		})
	}

	result := analysis.AnalysisResult{
		Kind: analysis.KindCompliance,
		Compliance: &analysis.ComplianceResult{
			RiskScore:       wire.RiskScore,
			Frameworks:      frameworks,
			Blockers:        wire.Blockers,
			Recommendations: wire.Recommendations,
			Confidence:      wire.Confidence,
		},
	}
	if err := analysis.Validate(&result); err != nil {
		return nil, err
	}
	a.logger.Debug("compliance analysis parsed",
		zap.Float64("risk", wire.RiskScore),
		zap.Int("frameworks", len(frameworks)))
	return &Output{Result: result, TokensUsed: completion.TokensUsed}, nil
}

func (a *ComplianceAgent) buildPrompt(req *analysis.AnalysisRequest) string {
	var sb strings.Builder
	sb.WriteString("You are a compliance officer assessing regulatory exposure for deploying an enterprise software solution at the company below.\n\n")
	writeLeadContext(&sb, req)
	sb.WriteString(`Respond with a single JSON object and nothing else:
{
  "risk_score": <overall compliance risk in [0,1], higher is riskier>,
  "frameworks": [{"name": "<framework>", "status": "compliant" | "partial" | "gap", "note": "<short note>"}],
  "blockers": ["<hard blocker, if any>", ...],
  "recommendations": ["<specific, actionable recommendation>", ...],
  "confidence": <your confidence in this assessment, in [0,1]>
}
Grade every framework listed in the requirements. If none are listed, return an empty frameworks array and grade general data-protection exposure.`)
	return sb.String()
}
