// Package fallback produces deterministic substitute results for analysis
// modules that fail, time out, or return invalid output. Every function here
// is pure and total: no errors, no panics, no I/O. Fallback confidence never
// exceeds 0.5 because the values are estimated from lookup tables, not
// measured.
package fallback

import (
	"fmt"
	"strings"

	"stratagem/internal/analysis"
)

// FallbackConfidenceCap bounds the confidence of every substituted result.
const FallbackConfidenceCap = 0.5

// industryMarketSize estimates addressable market in USD per industry, with a
// generic bucket for industries not listed.
var industryMarketSize = map[string]float64{
	"fintech":       45_000_000_000,
	"finance":       60_000_000_000,
	"healthcare":    80_000_000_000,
	"saas":          50_000_000_000,
	"software":      50_000_000_000,
	"ecommerce":     35_000_000_000,
	"retail":        30_000_000_000,
	"manufacturing": 25_000_000_000,
	"logistics":     20_000_000_000,
	"education":     15_000_000_000,
	"nonprofit":     5_000_000_000,
}

const genericMarketSize = 10_000_000_000

func normalizeIndustry(industry string) string {
	return strings.ToLower(strings.TrimSpace(industry))
}

// marketSizeFor returns the table estimate for an industry.
func marketSizeFor(industry string) float64 {
	if v, ok := industryMarketSize[normalizeIndustry(industry)]; ok {
		return v
	}
	return genericMarketSize
}

// complexityTierFor derives a technical complexity tier from company size and
// solution requirements.
func complexityTierFor(size int, reqs analysis.SolutionRequirements) string {
	score := 0
	switch {
	case size > 5000:
		score += 3
	case size > 1000:
		score += 2
	case size > 100:
		score += 1
	}
	if reqs.MultiTenant {
		score++
	}
	if reqs.RealTimeProcessing {
		score++
	}
	if reqs.GlobalDeployment {
		score++
	}
	switch {
	case score >= 5:
		return analysis.ComplexityVeryHigh
	case score >= 3:
		return analysis.ComplexityHigh
	case score >= 1:
		return analysis.ComplexityModerate
	default:
		return analysis.ComplexityLow
	}
}

// ForKind returns the fallback result for any parallel-stage kind. Executive
// fallbacks need the parallel-stage payloads and have their own constructor.
func ForKind(kind analysis.Kind, req *analysis.AnalysisRequest) analysis.AnalysisResult {
	switch kind {
	case analysis.KindMarket:
		return Market(req)
	case analysis.KindTechnical:
		return Technical(req)
	case analysis.KindCompliance:
		return Compliance(req)
	case analysis.KindExecutive:
		market := Market(req)
		technical := Technical(req)
		return Executive(req, market.Market, technical.Technical)
	}
	// Unknown kinds still get a usable value; the policy never fails.
	return Market(req)
}

// Market builds the deterministic market default from the industry table.
func Market(req *analysis.AnalysisRequest) analysis.AnalysisResult {
	industry := req.Lead.Industry
	size := marketSizeFor(industry)
	competition := analysis.CompetitionModerate
	if size >= 50_000_000_000 {
		competition = analysis.CompetitionHigh
	}
	return analysis.AnalysisResult{
		Kind: analysis.KindMarket,
		Market: &analysis.MarketResult{
			MarketSizeUSD:    size,
			GrowthRate:       0.08,
			Opportunity:      0.5,
			CompetitionLevel: competition,
			Positioning:      fmt.Sprintf("Estimated positioning for the %s segment pending direct analysis.", displayIndustry(industry)),
			Recommendations: []string{
				"Validate market sizing with a direct competitive scan before committing spend.",
			},
			Confidence: 0.4,
		},
	}
}

// Technical builds the deterministic technical default from the size table.
func Technical(req *analysis.AnalysisRequest) analysis.AnalysisResult {
	tier := complexityTierFor(req.Lead.Size, req.Requirements)
	feasibility := map[string]float64{
		analysis.ComplexityLow:      0.8,
		analysis.ComplexityModerate: 0.7,
		analysis.ComplexityHigh:     0.55,
		analysis.ComplexityVeryHigh: 0.45,
	}[tier]
	effort := map[string]float64{
		analysis.ComplexityLow:      4,
		analysis.ComplexityModerate: 8,
		analysis.ComplexityHigh:     16,
		analysis.ComplexityVeryHigh: 26,
	}[tier]
	return analysis.AnalysisResult{
		Kind: analysis.KindTechnical,
		Technical: &analysis.TechnicalResult{
			ComplexityTier:         tier,
			Feasibility:            feasibility,
			IntegrationEffortWeeks: effort,
			ArchitectureNotes:      "Default sizing based on headcount and deployment flags; replace with measured assessment.",
			Risks:                  []string{"Integration surface not yet profiled."},
			Recommendations: []string{
				"Run a technical discovery workshop to confirm the estimated complexity tier.",
			},
			Confidence: 0.4,
		},
	}
}

// Compliance builds the deterministic compliance default: every required
// framework graded partial, risk scaled with the framework count.
func Compliance(req *analysis.AnalysisRequest) analysis.AnalysisResult {
	frameworks := make([]analysis.FrameworkAssessment, 0, len(req.Requirements.ComplianceFrameworks))
	for _, name := range req.Requirements.ComplianceFrameworks {
		frameworks = append(frameworks, analysis.FrameworkAssessment{
			Name:   name,
			Status: analysis.FrameworkPartial,
			Note:   "Assumed partial coverage pending audit.",
		})
	}
	risk := 0.4 + 0.05*float64(len(frameworks))
	if req.Requirements.GlobalDeployment {
		risk += 0.1
	}
	if risk > 1 {
		risk = 1
	}
	return analysis.AnalysisResult{
		Kind: analysis.KindCompliance,
		Compliance: &analysis.ComplianceResult{
			RiskScore:  risk,
			Frameworks: frameworks,
			Blockers:   nil,
			Recommendations: []string{
				"Commission a compliance gap assessment for the required frameworks.",
			},
			Confidence: 0.35,
		},
	}
}

// Executive builds the deterministic executive default from the financial
// model. market and technical may themselves be fallback payloads; the math is
// the same either way.
func Executive(req *analysis.AnalysisRequest, market *analysis.MarketResult, technical *analysis.TechnicalResult) analysis.AnalysisResult {
	tier := InvestmentTierFor(req.Lead.Size, req.Lead.AnnualRevenue)
	investment := InvestmentFor(tier)
	acv := ContractValueFor(tier, req.Lead.Industry)
	projections := Projections(acv)
	roi := ROI(projections, investment)

	recommendation := "Hold: defer the decision until direct analysis is available."
	if roi > 0.5 && technical != nil && technical.Feasibility >= 0.5 {
		recommendation = "Proceed with a scoped pilot engagement."
	}

	return analysis.AnalysisResult{
		Kind: analysis.KindExecutive,
		Executive: &analysis.ExecutiveResult{
			InvestmentTier:         tier,
			EstimatedInvestmentUSD: investment,
			AnnualContractValue:    acv,
			RevenueProjections:     projections,
			ROI:                    roi,
			PaybackMonths:          PaybackMonths(investment, acv),
			Recommendation:         recommendation,
			Recommendations: []string{
				"Treat the financial model as a benchmark estimate until module analysis succeeds.",
			},
			Confidence: 0.45,
		},
	}
}

func displayIndustry(industry string) string {
	if strings.TrimSpace(industry) == "" {
		return "general"
	}
	return industry
}
