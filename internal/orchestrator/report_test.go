package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratagem/internal/analysis"
	"stratagem/internal/fallback"
)

func fallbackOutcomes(req *analysis.AnalysisRequest) map[analysis.Kind]analysis.ModuleOutcome {
	outcomes := make(map[analysis.Kind]analysis.ModuleOutcome)
	for _, kind := range analysis.AllKinds {
		outcomes[kind] = analysis.ModuleOutcome{
			Kind:         kind,
			Result:       fallback.ForKind(kind, req),
			Succeeded:    true,
			UsedFallback: true,
			ErrorMessage: "module_timeout: deadline exceeded",
		}
	}
	return outcomes
}

func TestAssembleReport_IdentityAndAccounting(t *testing.T) {
	req := testRequest()
	outcomes := fallbackOutcomes(req)
	for kind, o := range outcomes {
		o.TokensUsed = 10
		outcomes[kind] = o
	}

	report := assembleReport(req, outcomes, analysis.SynthesisResult{OverallConfidence: 0.4})

	assert.True(t, len(report.ReportID) > len("report-"))
	assert.Contains(t, report.ReportID, "report-")
	assert.False(t, report.GeneratedAt.IsZero())
	assert.Equal(t, req.Lead, report.Lead)
	assert.Equal(t, 40, report.TokensUsed)

	other := assembleReport(req, outcomes, analysis.SynthesisResult{})
	assert.NotEqual(t, report.ReportID, other.ReportID)
}

func TestAssembleReport_NotesCoverEveryFallback(t *testing.T) {
	req := testRequest()
	report := assembleReport(req, fallbackOutcomes(req), analysis.SynthesisResult{})

	require.Len(t, report.Notes, len(analysis.AllKinds))
	for _, note := range report.Notes {
		assert.Contains(t, note, "deterministic defaults")
		assert.Contains(t, note, "module_timeout")
	}
}

func TestAssembleReport_RecommendationsExecutiveFirstDeduplicated(t *testing.T) {
	req := testRequest()
	outcomes := fallbackOutcomes(req)

	shared := "Validate with the customer before contracting."
	market := outcomes[analysis.KindMarket]
	market.Result.Market.Recommendations = []string{shared, "Scan the competition."}
	outcomes[analysis.KindMarket] = market

	technical := outcomes[analysis.KindTechnical]
	technical.Result.Technical.Recommendations = []string{shared}
	outcomes[analysis.KindTechnical] = technical

	report := assembleReport(req, outcomes, analysis.SynthesisResult{})

	exec := outcomes[analysis.KindExecutive].Result.Executive
	require.NotEmpty(t, report.Recommendations)
	assert.Equal(t, exec.Recommendation, report.Recommendations[0])

	count := 0
	for _, r := range report.Recommendations {
		if r == shared {
			count++
		}
	}
	assert.Equal(t, 1, count, "shared recommendation must appear once")
}

func TestAssembleReport_KPIsFromPayloads(t *testing.T) {
	req := testRequest()
	report := assembleReport(req, fallbackOutcomes(req), analysis.SynthesisResult{
		OverallConfidence: 0.4, AlignmentScore: 0.6, InvestmentCoherence: 0.25,
	})

	assert.InDelta(t, 0.4, report.KPIs["overall_confidence"], 1e-9)
	assert.InDelta(t, 0.6, report.KPIs["alignment_score"], 1e-9)
	assert.InDelta(t, 0.25, report.KPIs["investment_coherence"], 1e-9)
	// healthcare fallback sizing
	assert.InDelta(t, 80_000_000_000, report.KPIs["market_size_usd"], 1e-3)
	assert.Contains(t, report.KPIs, "roi")
	assert.Contains(t, report.KPIs, "payback_months")
	assert.Contains(t, report.KPIs, "compliance_risk")
}
