package fallback

import (
	"math"

	"stratagem/internal/analysis"
)

// Financial model shared by the executive agent and its fallback: everything
// here is a pure function of the lead profile and the parallel-stage outputs.

// growthSchedule is the deterministic year-over-year revenue growth used for
// the three-year projection, within the 15-17% band.
var growthSchedule = [3]float64{0.15, 0.16, 0.17}

// baseInvestment estimates total solution investment per tier, USD.
var baseInvestment = map[analysis.Tier]float64{
	analysis.TierSmall:      50_000,
	analysis.TierMedium:     250_000,
	analysis.TierLarge:      1_000_000,
	analysis.TierEnterprise: 5_000_000,
}

// industryBenchmark multiplies contract value by industry revenue density.
// Unlisted industries use the generic bucket.
var industryBenchmark = map[string]float64{
	"fintech":       1.4,
	"finance":       1.3,
	"healthcare":    1.25,
	"saas":          1.2,
	"software":      1.2,
	"ecommerce":     1.1,
	"retail":        1.0,
	"manufacturing": 0.95,
	"logistics":     0.9,
	"education":     0.8,
	"nonprofit":     0.6,
}

const genericBenchmark = 1.0

// BenchmarkMultiplier returns the industry revenue multiplier, defaulting to
// the generic bucket for unknown industries.
func BenchmarkMultiplier(industry string) float64 {
	if m, ok := industryBenchmark[normalizeIndustry(industry)]; ok {
		return m
	}
	return genericBenchmark
}

// InvestmentTierFor buckets a company by headcount and revenue:
// size>5000 or revenue>$500M is enterprise; size>1000 or revenue>$50M large;
// size>100 or revenue>$5M medium; else small.
func InvestmentTierFor(size int, annualRevenue float64) analysis.Tier {
	switch {
	case size > 5000 || annualRevenue > 500_000_000:
		return analysis.TierEnterprise
	case size > 1000 || annualRevenue > 50_000_000:
		return analysis.TierLarge
	case size > 100 || annualRevenue > 5_000_000:
		return analysis.TierMedium
	default:
		return analysis.TierSmall
	}
}

// InvestmentFor returns the estimated total investment for a tier.
func InvestmentFor(tier analysis.Tier) float64 {
	if v, ok := baseInvestment[tier]; ok {
		return v
	}
	return baseInvestment[analysis.TierSmall]
}

// ContractValueFor derives the annual contract value from the tier investment
// and the industry benchmark. The 0.4 capture ratio reflects first-year value
// realization against total investment.
func ContractValueFor(tier analysis.Tier, industry string) float64 {
	return InvestmentFor(tier) * BenchmarkMultiplier(industry) * 0.4
}

// Projections compounds the annual contract value over three years using the
// fixed growth schedule.
func Projections(annualContractValue float64) [3]float64 {
	var out [3]float64
	v := annualContractValue
	for i, g := range growthSchedule {
		v *= 1 + g
		out[i] = v
	}
	return out
}

// ROI is (sum of projections minus investment) over investment.
func ROI(projections [3]float64, investment float64) float64 {
	if investment <= 0 {
		return 0
	}
	total := projections[0] + projections[1] + projections[2]
	return (total - investment) / investment
}

// PaybackMonths is floor(investment / annual contract value * 12).
func PaybackMonths(investment, annualContractValue float64) int {
	if annualContractValue <= 0 {
		return 0
	}
	return int(math.Floor(investment / annualContractValue * 12))
}
