package config

import (
	"fmt"
	"math"

	"stratagem/internal/analysis"
)

// SynthesisConfig parameterizes the confidence aggregator. The alignment and
// coherence formulas are heuristic point estimates, so every coefficient is
// configuration rather than a constant baked into the aggregator.
type SynthesisConfig struct {
	// Weights for overall confidence, one per module kind. Must sum to 1.
	MarketWeight     float64 `json:"market_weight"`
	TechnicalWeight  float64 `json:"technical_weight"`
	ExecutiveWeight  float64 `json:"executive_weight"`
	ComplianceWeight float64 `json:"compliance_weight"`

	// FallbackDiscount multiplies a module's confidence when the result came
	// from fallback substitution.
	FallbackDiscount float64 `json:"fallback_discount"`

	// Coherence thresholds: a module signals "favorable" when its metric
	// clears the threshold.
	MarketOpportunityMin    float64 `json:"market_opportunity_min"`
	TechnicalFeasibilityMin float64 `json:"technical_feasibility_min"`
	ComplianceRiskMax       float64 `json:"compliance_risk_max"`

	// ApprovalMarkers: the executive signals favorable when its recommendation
	// contains any marker (case-insensitive).
	ApprovalMarkers []string `json:"approval_markers"`

	// ROINormalizer maps ROI onto [0,1] for the alignment pairs: an ROI at or
	// above the normalizer counts as 1.0.
	ROINormalizer float64 `json:"roi_normalizer"`
}

// DefaultSynthesisConfig returns the canonical weights:
// market .25, technical .25, executive .30, compliance .20.
func DefaultSynthesisConfig() SynthesisConfig {
	return SynthesisConfig{
		MarketWeight:            0.25,
		TechnicalWeight:         0.25,
		ExecutiveWeight:         0.30,
		ComplianceWeight:        0.20,
		FallbackDiscount:        0.5,
		MarketOpportunityMin:    0.7,
		TechnicalFeasibilityMin: 0.6,
		ComplianceRiskMax:       0.6,
		ApprovalMarkers:         []string{"proceed", "approve", "recommend"},
		ROINormalizer:           3.0,
	}
}

// WeightFor returns the confidence weight for a module kind.
func (c SynthesisConfig) WeightFor(kind analysis.Kind) float64 {
	switch kind {
	case analysis.KindMarket:
		return c.MarketWeight
	case analysis.KindTechnical:
		return c.TechnicalWeight
	case analysis.KindExecutive:
		return c.ExecutiveWeight
	case analysis.KindCompliance:
		return c.ComplianceWeight
	}
	return 0
}

// Validate checks weight normalization and threshold ranges.
func (c SynthesisConfig) Validate() error {
	sum := c.MarketWeight + c.TechnicalWeight + c.ExecutiveWeight + c.ComplianceWeight
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("synthesis config: weights sum to %.4f, want 1.0", sum)
	}
	if c.FallbackDiscount < 0 || c.FallbackDiscount > 1 {
		return fmt.Errorf("synthesis config: fallback_discount %.2f outside [0,1]", c.FallbackDiscount)
	}
	if c.ROINormalizer <= 0 {
		return fmt.Errorf("synthesis config: roi_normalizer must be positive, got %v", c.ROINormalizer)
	}
	for _, t := range []struct {
		name string
		v    float64
	}{
		{"market_opportunity_min", c.MarketOpportunityMin},
		{"technical_feasibility_min", c.TechnicalFeasibilityMin},
		{"compliance_risk_max", c.ComplianceRiskMax},
	} {
		if t.v < 0 || t.v > 1 {
			return fmt.Errorf("synthesis config: %s %.2f outside [0,1]", t.name, t.v)
		}
	}
	return nil
}
