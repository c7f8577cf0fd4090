package analysis

import (
	"errors"
	"fmt"
)

// ValidationError describes a structural defect in a module's output. The
// orchestrator treats any ValidationError as grounds for fallback substitution.
type ValidationError struct {
	Kind   Kind
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s result invalid: %s: %s", e.Kind, e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func invalid(kind Kind, field, reason string) error {
	return &ValidationError{Kind: kind, Field: field, Reason: reason}
}

// Clamp01 clamps v to [0,1]. NaN clamps to 0.
func Clamp01(v float64) float64 {
	if !(v >= 0) { // catches NaN
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Validate checks the tagged-variant invariant and the structural constraints
// on the payload: confidence within [0,1], monetary and size metrics
// non-negative, enum values recognized.
func Validate(r *AnalysisResult) error {
	if r == nil {
		return invalid("", "result", "nil result")
	}
	if !r.Kind.Valid() {
		return invalid(r.Kind, "kind", "unknown module kind")
	}
	if err := checkVariant(r); err != nil {
		return err
	}
	switch r.Kind {
	case KindMarket:
		return validateMarket(r.Market)
	case KindTechnical:
		return validateTechnical(r.Technical)
	case KindExecutive:
		return validateExecutive(r.Executive)
	case KindCompliance:
		return validateCompliance(r.Compliance)
	}
	return nil
}

// checkVariant verifies that exactly one payload is set and it matches Kind.
func checkVariant(r *AnalysisResult) error {
	set := 0
	if r.Market != nil {
		set++
	}
	if r.Technical != nil {
		set++
	}
	if r.Executive != nil {
		set++
	}
	if r.Compliance != nil {
		set++
	}
	if set != 1 {
		return invalid(r.Kind, "payload", fmt.Sprintf("expected exactly one payload, got %d", set))
	}
	mismatch := (r.Kind == KindMarket && r.Market == nil) ||
		(r.Kind == KindTechnical && r.Technical == nil) ||
		(r.Kind == KindExecutive && r.Executive == nil) ||
		(r.Kind == KindCompliance && r.Compliance == nil)
	if mismatch {
		return invalid(r.Kind, "payload", "payload does not match kind")
	}
	return nil
}

func checkConfidence(kind Kind, c float64) error {
	if c < 0 || c > 1 || c != c {
		return invalid(kind, "confidence", fmt.Sprintf("%v outside [0,1]", c))
	}
	return nil
}

func checkUnit(kind Kind, field string, v float64) error {
	if v < 0 || v > 1 || v != v {
		return invalid(kind, field, fmt.Sprintf("%v outside [0,1]", v))
	}
	return nil
}

func checkNonNegative(kind Kind, field string, v float64) error {
	if v < 0 || v != v {
		return invalid(kind, field, fmt.Sprintf("%v must be >= 0", v))
	}
	return nil
}

func validateMarket(m *MarketResult) error {
	if err := checkConfidence(KindMarket, m.Confidence); err != nil {
		return err
	}
	if err := checkNonNegative(KindMarket, "market_size_usd", m.MarketSizeUSD); err != nil {
		return err
	}
	if err := checkUnit(KindMarket, "opportunity", m.Opportunity); err != nil {
		return err
	}
	switch m.CompetitionLevel {
	case CompetitionLow, CompetitionModerate, CompetitionHigh:
	default:
		return invalid(KindMarket, "competition_level", fmt.Sprintf("unknown value %q", m.CompetitionLevel))
	}
	return nil
}

func validateTechnical(t *TechnicalResult) error {
	if err := checkConfidence(KindTechnical, t.Confidence); err != nil {
		return err
	}
	if err := checkUnit(KindTechnical, "feasibility", t.Feasibility); err != nil {
		return err
	}
	if err := checkNonNegative(KindTechnical, "integration_effort_weeks", t.IntegrationEffortWeeks); err != nil {
		return err
	}
	switch t.ComplexityTier {
	case ComplexityLow, ComplexityModerate, ComplexityHigh, ComplexityVeryHigh:
	default:
		return invalid(KindTechnical, "complexity_tier", fmt.Sprintf("unknown value %q", t.ComplexityTier))
	}
	return nil
}

func validateExecutive(e *ExecutiveResult) error {
	if err := checkConfidence(KindExecutive, e.Confidence); err != nil {
		return err
	}
	if !e.InvestmentTier.Valid() {
		return invalid(KindExecutive, "investment_tier", fmt.Sprintf("unknown value %q", e.InvestmentTier))
	}
	if err := checkNonNegative(KindExecutive, "estimated_investment_usd", e.EstimatedInvestmentUSD); err != nil {
		return err
	}
	if err := checkNonNegative(KindExecutive, "annual_contract_value", e.AnnualContractValue); err != nil {
		return err
	}
	if e.PaybackMonths < 0 {
		return invalid(KindExecutive, "payback_months", fmt.Sprintf("%d must be >= 0", e.PaybackMonths))
	}
	if e.Recommendation == "" {
		return invalid(KindExecutive, "recommendation", "missing required field")
	}
	return nil
}

func validateCompliance(c *ComplianceResult) error {
	if err := checkConfidence(KindCompliance, c.Confidence); err != nil {
		return err
	}
	if err := checkUnit(KindCompliance, "risk_score", c.RiskScore); err != nil {
		return err
	}
	for _, f := range c.Frameworks {
		if f.Name == "" {
			return invalid(KindCompliance, "frameworks", "framework missing name")
		}
		switch f.Status {
		case FrameworkCompliant, FrameworkPartial, FrameworkGap:
		default:
			return invalid(KindCompliance, "frameworks", fmt.Sprintf("unknown status %q for %s", f.Status, f.Name))
		}
	}
	return nil
}
