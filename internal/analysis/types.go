// Package analysis defines the data model shared by the strategic analysis
// engine: lead profiles, per-module results, outcome provenance, and the
// assembled report.
package analysis

import (
	"fmt"
	"time"
)

// Kind identifies an analysis module.
type Kind string

const (
	KindMarket     Kind = "market"
	KindTechnical  Kind = "technical"
	KindExecutive  Kind = "executive"
	KindCompliance Kind = "compliance"
)

// ParallelKinds are the modules with no cross-dependencies; they may run in any
// order or concurrently. The executive module consumes their outputs and is
// therefore excluded.
var ParallelKinds = []Kind{KindMarket, KindTechnical, KindCompliance}

// AllKinds lists every module kind in synthesis weight order.
var AllKinds = []Kind{KindMarket, KindTechnical, KindExecutive, KindCompliance}

// Valid reports whether k names a known module kind.
func (k Kind) Valid() bool {
	switch k {
	case KindMarket, KindTechnical, KindExecutive, KindCompliance:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// LeadProfile is the immutable input describing the company under analysis.
// Created once per request, never mutated by the engine.
type LeadProfile struct {
	CompanyName   string  `json:"company_name" yaml:"company_name"`
	Industry      string  `json:"industry" yaml:"industry"`
	Size          int     `json:"size" yaml:"size"` // employee count
	Location      string  `json:"location" yaml:"location"`
	AnnualRevenue float64 `json:"annual_revenue" yaml:"annual_revenue"` // USD
	Stage         string  `json:"stage" yaml:"stage"`                   // seed, growth, mature, ...
}

// TacticalSummary is read-only upstream input from prior qualification work.
type TacticalSummary struct {
	LeadScore  float64  `json:"lead_score" yaml:"lead_score"`
	PainPoints []string `json:"pain_points" yaml:"pain_points"`
	TechStack  []string `json:"tech_stack" yaml:"tech_stack"`
}

// SolutionRequirements captures deployment constraints for the proposed
// solution.
type SolutionRequirements struct {
	MultiTenant          bool     `json:"multi_tenant" yaml:"multi_tenant"`
	RealTimeProcessing   bool     `json:"real_time_processing" yaml:"real_time_processing"`
	GlobalDeployment     bool     `json:"global_deployment" yaml:"global_deployment"`
	ComplianceFrameworks []string `json:"compliance_frameworks" yaml:"compliance_frameworks"`
}

// AnalysisRequest is the single input to an orchestrator run.
type AnalysisRequest struct {
	Lead         LeadProfile          `json:"lead" yaml:"lead"`
	Tactical     *TacticalSummary     `json:"tactical,omitempty" yaml:"tactical,omitempty"`
	Requirements SolutionRequirements `json:"requirements" yaml:"requirements"`
}

// CompetitionLevel enumerates market competition intensity.
const (
	CompetitionLow      = "low"
	CompetitionModerate = "moderate"
	CompetitionHigh     = "high"
)

// Complexity tiers for the technical module.
const (
	ComplexityLow      = "low"
	ComplexityModerate = "moderate"
	ComplexityHigh     = "high"
	ComplexityVeryHigh = "very_high"
)

// Framework assessment statuses for the compliance module.
const (
	FrameworkCompliant = "compliant"
	FrameworkPartial   = "partial"
	FrameworkGap       = "gap"
)

// Tier buckets companies by size/revenue for investment sizing.
type Tier string

const (
	TierSmall      Tier = "small"
	TierMedium     Tier = "medium"
	TierLarge      Tier = "large"
	TierEnterprise Tier = "enterprise"
)

// Valid reports whether t is a known investment tier.
func (t Tier) Valid() bool {
	switch t {
	case TierSmall, TierMedium, TierLarge, TierEnterprise:
		return true
	}
	return false
}

// MarketResult is the market module's output.
type MarketResult struct {
	MarketSizeUSD    float64  `json:"market_size_usd"`
	GrowthRate       float64  `json:"growth_rate"`
	Opportunity      float64  `json:"opportunity"` // 0-1
	CompetitionLevel string   `json:"competition_level"`
	Positioning      string   `json:"positioning"`
	Recommendations  []string `json:"recommendations"`
	Confidence       float64  `json:"confidence"`
}

// TechnicalResult is the technical module's output.
type TechnicalResult struct {
	ComplexityTier         string   `json:"complexity_tier"`
	Feasibility            float64  `json:"feasibility"` // 0-1
	IntegrationEffortWeeks float64  `json:"integration_effort_weeks"`
	ArchitectureNotes      string   `json:"architecture_notes"`
	Risks                  []string `json:"risks"`
	Recommendations        []string `json:"recommendations"`
	Confidence             float64  `json:"confidence"`
}

// FrameworkAssessment grades a single compliance framework.
type FrameworkAssessment struct {
	Name   string `json:"name"`
	Status string `json:"status"` // compliant, partial, gap
	Note   string `json:"note,omitempty"`
}

// ComplianceResult is the compliance module's output.
type ComplianceResult struct {
	RiskScore       float64               `json:"risk_score"` // 0-1, higher is riskier
	Frameworks      []FrameworkAssessment `json:"frameworks"`
	Blockers        []string              `json:"blockers"`
	Recommendations []string              `json:"recommendations"`
	Confidence      float64               `json:"confidence"`
}

// ExecutiveResult is the dependent stage's output: the go/no-go narrative plus
// the financial model derived from the parallel-stage results.
type ExecutiveResult struct {
	InvestmentTier         Tier       `json:"investment_tier"`
	EstimatedInvestmentUSD float64    `json:"estimated_investment_usd"`
	AnnualContractValue    float64    `json:"annual_contract_value"`
	RevenueProjections     [3]float64 `json:"revenue_projections"` // years 1-3
	ROI                    float64    `json:"roi"`
	PaybackMonths          int        `json:"payback_months"`
	Recommendation         string     `json:"recommendation"`
	Recommendations        []string   `json:"recommendations"`
	Confidence             float64    `json:"confidence"`
}

// AnalysisResult is a tagged variant: exactly one payload pointer is non-nil
// and it matches Kind. Validate enforces the invariant.
type AnalysisResult struct {
	Kind       Kind              `json:"kind"`
	Market     *MarketResult     `json:"market,omitempty"`
	Technical  *TechnicalResult  `json:"technical,omitempty"`
	Executive  *ExecutiveResult  `json:"executive,omitempty"`
	Compliance *ComplianceResult `json:"compliance,omitempty"`
}

// Confidence returns the payload's confidence, or 0 when the variant is empty.
func (r *AnalysisResult) Confidence() float64 {
	switch {
	case r == nil:
		return 0
	case r.Market != nil:
		return r.Market.Confidence
	case r.Technical != nil:
		return r.Technical.Confidence
	case r.Executive != nil:
		return r.Executive.Confidence
	case r.Compliance != nil:
		return r.Compliance.Confidence
	}
	return 0
}

// Recommendations returns the payload's recommendation strings.
func (r *AnalysisResult) Recommendations() []string {
	switch {
	case r == nil:
		return nil
	case r.Market != nil:
		return r.Market.Recommendations
	case r.Technical != nil:
		return r.Technical.Recommendations
	case r.Executive != nil:
		return r.Executive.Recommendations
	case r.Compliance != nil:
		return r.Compliance.Recommendations
	}
	return nil
}

// ModuleOutcome wraps an AnalysisResult with execution provenance.
//
// Invariant: UsedFallback implies Succeeded — a fallback always yields a usable
// value, so module failure never surfaces as an unusable outcome. Succeeded is
// false only for the zero value of the type.
type ModuleOutcome struct {
	Kind         Kind           `json:"kind"`
	Result       AnalysisResult `json:"result"`
	Succeeded    bool           `json:"succeeded"`
	UsedFallback bool           `json:"used_fallback"`
	Elapsed      time.Duration  `json:"elapsed_ms"`
	ErrorMessage string         `json:"error_message,omitempty"`
	TokensUsed   int            `json:"tokens_used,omitempty"`
}

// SynthesisResult carries the cross-module synthesis scores, each in [0,1].
type SynthesisResult struct {
	OverallConfidence   float64 `json:"overall_confidence"`
	AlignmentScore      float64 `json:"alignment_score"`
	InvestmentCoherence float64 `json:"investment_coherence_score"`
}

// StrategicReport is the aggregate output of a run. Built once, immutable,
// returned to the caller. The engine does not persist it.
type StrategicReport struct {
	ReportID        string                   `json:"report_id"`
	GeneratedAt     time.Time                `json:"generated_at"`
	Lead            LeadProfile              `json:"lead"`
	Outcomes        map[Kind]ModuleOutcome   `json:"outcomes"`
	Synthesis       SynthesisResult          `json:"synthesis"`
	KPIs            map[string]float64       `json:"kpis"`
	Recommendations []string                 `json:"recommendations"`
	Notes           []string                 `json:"notes,omitempty"`
	TokensUsed      int                      `json:"tokens_used"`
}

// Outcome returns the outcome for kind, or a zero outcome if absent.
func (r *StrategicReport) Outcome(kind Kind) ModuleOutcome {
	if r == nil || r.Outcomes == nil {
		return ModuleOutcome{}
	}
	return r.Outcomes[kind]
}

// FallbackCount reports how many modules substituted a fallback result.
func (r *StrategicReport) FallbackCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.UsedFallback {
			n++
		}
	}
	return n
}

// String summarizes the report for logs.
func (r *StrategicReport) String() string {
	return fmt.Sprintf("report %s: company=%s confidence=%.2f alignment=%.2f coherence=%.2f fallbacks=%d",
		r.ReportID, r.Lead.CompanyName, r.Synthesis.OverallConfidence,
		r.Synthesis.AlignmentScore, r.Synthesis.InvestmentCoherence, r.FallbackCount())
}
