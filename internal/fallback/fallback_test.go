package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratagem/internal/analysis"
)

func leadRequest(industry string, size int, revenue float64) *analysis.AnalysisRequest {
	return &analysis.AnalysisRequest{
		Lead: analysis.LeadProfile{
			CompanyName:   "Acme",
			Industry:      industry,
			Size:          size,
			AnnualRevenue: revenue,
		},
	}
}

func TestInvestmentTierFor(t *testing.T) {
	cases := []struct {
		name    string
		size    int
		revenue float64
		want    analysis.Tier
	}{
		{"tiny shop", 50, 2_000_000, analysis.TierSmall},
		{"boundary size 100", 100, 0, analysis.TierSmall},
		{"revenue pushes medium", 50, 6_000_000, analysis.TierMedium},
		{"size pushes medium", 101, 0, analysis.TierMedium},
		{"size pushes large", 1200, 10_000_000, analysis.TierLarge},
		{"revenue pushes large", 200, 80_000_000, analysis.TierLarge},
		{"headcount enterprise", 6000, 1_000_000, analysis.TierEnterprise},
		{"revenue enterprise", 400, 600_000_000, analysis.TierEnterprise},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, InvestmentTierFor(tc.size, tc.revenue))
		})
	}
}

func TestFinancialModel(t *testing.T) {
	// Medium fintech: 250k investment, acv = 250k * 1.4 * 0.4 = 140k.
	tier := InvestmentTierFor(300, 10_000_000)
	require.Equal(t, analysis.TierMedium, tier)

	investment := InvestmentFor(tier)
	assert.InDelta(t, 250_000, investment, 1e-9)

	acv := ContractValueFor(tier, "fintech")
	assert.InDelta(t, 140_000, acv, 1e-6)

	projections := Projections(acv)
	assert.InDelta(t, 140_000*1.15, projections[0], 1e-6)
	assert.InDelta(t, 140_000*1.15*1.16, projections[1], 1e-6)
	assert.InDelta(t, 140_000*1.15*1.16*1.17, projections[2], 1e-6)

	total := projections[0] + projections[1] + projections[2]
	assert.InDelta(t, (total-investment)/investment, ROI(projections, investment), 1e-9)

	// floor(250000/140000*12) = floor(21.43) = 21
	assert.Equal(t, 21, PaybackMonths(investment, acv))
}

func TestFinancialModel_DegenerateInputs(t *testing.T) {
	assert.Zero(t, ROI([3]float64{1, 2, 3}, 0))
	assert.Zero(t, PaybackMonths(100, 0))
	assert.InDelta(t, genericBenchmark, BenchmarkMultiplier("underwater basket weaving"), 1e-9)
	assert.InDelta(t, baseInvestment[analysis.TierSmall], InvestmentFor(analysis.Tier("bogus")), 1e-9)
}

func TestFallbacks_AlwaysValidAndCapped(t *testing.T) {
	reqs := []*analysis.AnalysisRequest{
		leadRequest("healthcare", 1200, 80_000_000),
		leadRequest("", 0, 0),
		leadRequest("Quantum Farming", 9000, 900_000_000),
	}
	for _, req := range reqs {
		for _, kind := range analysis.AllKinds {
			result := ForKind(kind, req)
			require.NoError(t, analysis.Validate(&result), "%s fallback must validate", kind)
			assert.LessOrEqual(t, result.Confidence(), FallbackConfidenceCap,
				"%s fallback confidence must stay under the cap", kind)
			assert.Equal(t, kind, result.Kind)
		}
	}
}

func TestFallbacks_Deterministic(t *testing.T) {
	req := leadRequest("saas", 800, 30_000_000)
	for _, kind := range analysis.AllKinds {
		first := ForKind(kind, req)
		second := ForKind(kind, req)
		assert.Equal(t, first, second, "%s fallback must be deterministic", kind)
	}
}

func TestMarketFallback_IndustryTable(t *testing.T) {
	known := Market(leadRequest("Healthcare", 10, 0))
	assert.InDelta(t, 80_000_000_000, known.Market.MarketSizeUSD, 1e-3)
	assert.Equal(t, analysis.CompetitionHigh, known.Market.CompetitionLevel)

	unknown := Market(leadRequest("alpaca grooming", 10, 0))
	assert.InDelta(t, float64(genericMarketSize), unknown.Market.MarketSizeUSD, 1e-3)
	assert.Equal(t, analysis.CompetitionModerate, unknown.Market.CompetitionLevel)
}

func TestTechnicalFallback_ComplexityScaling(t *testing.T) {
	simple := Technical(leadRequest("retail", 20, 0))
	assert.Equal(t, analysis.ComplexityLow, simple.Technical.ComplexityTier)

	heavy := Technical(&analysis.AnalysisRequest{
		Lead: analysis.LeadProfile{Size: 9000},
		Requirements: analysis.SolutionRequirements{
			MultiTenant:        true,
			RealTimeProcessing: true,
			GlobalDeployment:   true,
		},
	})
	assert.Equal(t, analysis.ComplexityVeryHigh, heavy.Technical.ComplexityTier)
	assert.Less(t, heavy.Technical.Feasibility, simple.Technical.Feasibility)
	assert.Greater(t, heavy.Technical.IntegrationEffortWeeks, simple.Technical.IntegrationEffortWeeks)
}

func TestComplianceFallback_RiskScalesWithFrameworks(t *testing.T) {
	none := Compliance(leadRequest("saas", 100, 0))
	assert.InDelta(t, 0.4, none.Compliance.RiskScore, 1e-9)
	assert.Empty(t, none.Compliance.Frameworks)

	req := leadRequest("saas", 100, 0)
	req.Requirements.ComplianceFrameworks = []string{"SOC2", "HIPAA", "GDPR"}
	req.Requirements.GlobalDeployment = true
	loaded := Compliance(req)
	assert.InDelta(t, 0.4+0.15+0.1, loaded.Compliance.RiskScore, 1e-9)
	require.Len(t, loaded.Compliance.Frameworks, 3)
	for _, f := range loaded.Compliance.Frameworks {
		assert.Equal(t, analysis.FrameworkPartial, f.Status)
	}
}

func TestExecutiveFallback_Recommendation(t *testing.T) {
	req := leadRequest("fintech", 300, 10_000_000)
	market := Market(req)
	technical := Technical(req)

	result := Executive(req, market.Market, technical.Technical)
	require.NotNil(t, result.Executive)
	assert.Contains(t, result.Executive.Recommendation, "Proceed")
	assert.Equal(t, analysis.TierMedium, result.Executive.InvestmentTier)

	// Missing technical payload forces the conservative path.
	held := Executive(req, market.Market, nil)
	assert.Contains(t, held.Executive.Recommendation, "Hold")
}
