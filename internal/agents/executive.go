package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"stratagem/internal/analysis"
	"stratagem/internal/fallback"
	"stratagem/internal/inference"
)

// ExecutiveAgent is the dependent stage: it consumes the parallel-stage
// payloads, computes the financial model as a pure function, and asks the
// backend only for the go/no-go narrative and confidence. The financial
// numbers never come from the model.
type ExecutiveAgent struct {
	client inference.Client
	opts   Options
	logger *zap.Logger
}

// NewExecutiveAgent creates the executive/financial analysis module.
func NewExecutiveAgent(client inference.Client, opts Options, logger *zap.Logger) *ExecutiveAgent {
	return &ExecutiveAgent{client: client, opts: opts, logger: logger}
}

func (a *ExecutiveAgent) Kind() analysis.Kind { return analysis.KindExecutive }

type executiveWire struct {
	Recommendation  string   `json:"recommendation"`
	Recommendations []string `json:"recommendations"`
	Confidence      float64  `json:"confidence"`
}

// Analyze runs the executive module once. The parallel-stage payloads are
// accepted regardless of whether they came from success or fallback.
func (a *ExecutiveAgent) Analyze(
	ctx context.Context,
	req *analysis.AnalysisRequest,
	market *analysis.MarketResult,
	technical *analysis.TechnicalResult,
	compliance *analysis.ComplianceResult,
) (*Output, error) {
	tier := fallback.InvestmentTierFor(req.Lead.Size, req.Lead.AnnualRevenue)
	investment := fallback.InvestmentFor(tier)
	acv := fallback.ContractValueFor(tier, req.Lead.Industry)
	projections := fallback.Projections(acv)
	roi := fallback.ROI(projections, investment)
	payback := fallback.PaybackMonths(investment, acv)

	completion, err := a.client.Generate(ctx, inference.Request{
		Prompt:      a.buildPrompt(req, market, technical, compliance, tier, investment, roi, payback),
		MaxTokens:   a.opts.MaxTokens,
		Temperature: a.opts.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("executive analysis: %w", err)
	}

	raw, err := extractJSON(completion.Content)
	if err != nil {
		return nil, fmt.Errorf("executive analysis: %w", err)
	}
	var wire executiveWire
	if err := decodeStrict(raw, &wire); err != nil {
		return nil, fmt.Errorf("executive analysis: %w", err)
	}

	result := analysis.AnalysisResult{
		Kind: analysis.KindExecutive,
		Executive: &analysis.ExecutiveResult{
			InvestmentTier:         tier,
			EstimatedInvestmentUSD: investment,
			AnnualContractValue:    acv,
			RevenueProjections:     projections,
			ROI:                    roi,
			PaybackMonths:          payback,
			Recommendation:         wire.Recommendation,
			Recommendations:        wire.Recommendations,
			Confidence:             wire.Confidence,
		},
	}
	if err := analysis.Validate(&result); err != nil {
		return nil, err
	}
	a.logger.Debug("executive analysis parsed",
		zap.String("tier", string(tier)),
		zap.Float64("roi", roi),
		zap.Float64("confidence", wire.Confidence))
	return &Output{Result: result, TokensUsed: completion.TokensUsed}, nil
}

func (a *ExecutiveAgent) buildPrompt(
	req *analysis.AnalysisRequest,
	market *analysis.MarketResult,
	technical *analysis.TechnicalResult,
	compliance *analysis.ComplianceResult,
	tier analysis.Tier,
	investment, roi float64,
	payback int,
) string {
	var sb strings.Builder
	sb.WriteString("You are an executive advisor producing a go/no-go investment recommendation for the opportunity below.\n\n")
	writeLeadContext(&sb, req)

	sb.WriteString("ANALYSIS INPUTS\n")
	if market != nil {
		fmt.Fprintf(&sb, "Market: size=$%.0f opportunity=%.2f competition=%s\n",
			market.MarketSizeUSD, market.Opportunity, market.CompetitionLevel)
	}
	if technical != nil {
		fmt.Fprintf(&sb, "Technical: complexity=%s feasibility=%.2f effort=%.0f weeks\n",
			technical.ComplexityTier, technical.Feasibility, technical.IntegrationEffortWeeks)
	}
	if compliance != nil {
		fmt.Fprintf(&sb, "Compliance: risk=%.2f blockers=%d\n",
			compliance.RiskScore, len(compliance.Blockers))
	}
	fmt.Fprintf(&sb, "Financial model (fixed, do not alter): tier=%s investment=$%.0f roi=%.2f payback=%d months\n\n",
		tier, investment, roi, payback)

	sb.WriteString(`Respond with a single JSON object and nothing else:
{
  "recommendation": "<one-sentence decision; start with Proceed, Hold, or Decline>",
  "recommendations": ["<supporting action item>", ...],
  "confidence": <your confidence in this recommendation, in [0,1]>
}`)
	return sb.String()
}
