package orchestrator

import (
	"math"
	"strings"

	"stratagem/internal/analysis"
	"stratagem/internal/config"
)

// Aggregator computes the cross-module synthesis scores. It is a pure
// function of the four outcomes plus its configuration; coefficients are
// heuristic and deliberately configurable rather than tuned constants.
type Aggregator struct {
	cfg config.SynthesisConfig
}

// NewAggregator creates an aggregator with the given coefficients.
func NewAggregator(cfg config.SynthesisConfig) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Synthesize folds the four outcomes into overall confidence, alignment, and
// investment coherence. Per-module confidences are clamped to [0,1] before
// weighting, so malformed inputs cannot push any score out of range.
func (a *Aggregator) Synthesize(outcomes map[analysis.Kind]analysis.ModuleOutcome) analysis.SynthesisResult {
	return analysis.SynthesisResult{
		OverallConfidence:   a.overallConfidence(outcomes),
		AlignmentScore:      a.alignmentScore(outcomes),
		InvestmentCoherence: a.investmentCoherence(outcomes),
	}
}

// effectiveConfidence clamps the module's confidence and discounts fallback
// substitutions, which are estimated rather than measured.
func (a *Aggregator) effectiveConfidence(o analysis.ModuleOutcome) float64 {
	c := analysis.Clamp01(o.Result.Confidence())
	if o.UsedFallback {
		c *= a.cfg.FallbackDiscount
	}
	return c
}

func (a *Aggregator) overallConfidence(outcomes map[analysis.Kind]analysis.ModuleOutcome) float64 {
	sum := 0.0
	for _, kind := range analysis.AllKinds {
		sum += a.cfg.WeightFor(kind) * a.effectiveConfidence(outcomes[kind])
	}
	return analysis.Clamp01(sum)
}

// alignmentScore is 1 minus the mean absolute difference over the signal
// pairs: market opportunity vs executive confidence, technical feasibility vs
// compliance headroom, and normalized ROI vs compliance headroom.
func (a *Aggregator) alignmentScore(outcomes map[analysis.Kind]analysis.ModuleOutcome) float64 {
	market := outcomes[analysis.KindMarket].Result.Market
	technical := outcomes[analysis.KindTechnical].Result.Technical
	executive := outcomes[analysis.KindExecutive].Result.Executive
	compliance := outcomes[analysis.KindCompliance].Result.Compliance

	var diffs []float64
	if market != nil && executive != nil {
		execConfidence := analysis.Clamp01(executive.Confidence)
		diffs = append(diffs, math.Abs(analysis.Clamp01(market.Opportunity)-execConfidence))
	}
	if technical != nil && compliance != nil {
		headroom := 1 - analysis.Clamp01(compliance.RiskScore)
		diffs = append(diffs, math.Abs(analysis.Clamp01(technical.Feasibility)-headroom))
	}
	if executive != nil && compliance != nil {
		headroom := 1 - analysis.Clamp01(compliance.RiskScore)
		diffs = append(diffs, math.Abs(a.normalizedROI(executive.ROI)-headroom))
	}
	if len(diffs) == 0 {
		return 0
	}

	mean := 0.0
	for _, d := range diffs {
		mean += d
	}
	mean /= float64(len(diffs))
	return analysis.Clamp01(1 - mean)
}

func (a *Aggregator) normalizedROI(roi float64) float64 {
	return analysis.Clamp01(roi / a.cfg.ROINormalizer)
}

// investmentCoherence counts the modules whose independent signals clear the
// favorable thresholds, out of four.
func (a *Aggregator) investmentCoherence(outcomes map[analysis.Kind]analysis.ModuleOutcome) float64 {
	favorable := 0
	if m := outcomes[analysis.KindMarket].Result.Market; m != nil && m.Opportunity > a.cfg.MarketOpportunityMin {
		favorable++
	}
	if t := outcomes[analysis.KindTechnical].Result.Technical; t != nil && t.Feasibility > a.cfg.TechnicalFeasibilityMin {
		favorable++
	}
	if c := outcomes[analysis.KindCompliance].Result.Compliance; c != nil && c.RiskScore < a.cfg.ComplianceRiskMax {
		favorable++
	}
	if e := outcomes[analysis.KindExecutive].Result.Executive; e != nil && a.approves(e.Recommendation) {
		favorable++
	}
	return float64(favorable) / 4.0
}

// approves reports whether the recommendation contains an approval marker.
func (a *Aggregator) approves(recommendation string) bool {
	lower := strings.ToLower(recommendation)
	for _, marker := range a.cfg.ApprovalMarkers {
		if marker != "" && strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
