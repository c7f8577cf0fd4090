package orchestrator

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"stratagem/internal/analysis"
)

// assembleReport builds the immutable StrategicReport from the four outcomes
// and the synthesis scores. Everything except ReportID and GeneratedAt is a
// deterministic function of the inputs.
func assembleReport(req *analysis.AnalysisRequest, outcomes map[analysis.Kind]analysis.ModuleOutcome, synthesis analysis.SynthesisResult) *analysis.StrategicReport {
	report := &analysis.StrategicReport{
		ReportID:        "report-" + uuid.NewString(),
		GeneratedAt:     time.Now().UTC(),
		Lead:            req.Lead,
		Outcomes:        outcomes,
		Synthesis:       synthesis,
		KPIs:            deriveKPIs(outcomes, synthesis),
		Recommendations: collectRecommendations(outcomes),
		Notes:           degradationNotes(outcomes),
	}
	for _, o := range outcomes {
		report.TokensUsed += o.TokensUsed
	}
	return report
}

// deriveKPIs flattens the headline metrics into a single map for dashboards.
func deriveKPIs(outcomes map[analysis.Kind]analysis.ModuleOutcome, synthesis analysis.SynthesisResult) map[string]float64 {
	kpis := map[string]float64{
		"overall_confidence":   synthesis.OverallConfidence,
		"alignment_score":      synthesis.AlignmentScore,
		"investment_coherence": synthesis.InvestmentCoherence,
	}
	if m := outcomes[analysis.KindMarket].Result.Market; m != nil {
		kpis["market_size_usd"] = m.MarketSizeUSD
		kpis["market_opportunity"] = m.Opportunity
		kpis["market_growth_rate"] = m.GrowthRate
	}
	if t := outcomes[analysis.KindTechnical].Result.Technical; t != nil {
		kpis["technical_feasibility"] = t.Feasibility
		kpis["integration_effort_weeks"] = t.IntegrationEffortWeeks
	}
	if c := outcomes[analysis.KindCompliance].Result.Compliance; c != nil {
		kpis["compliance_risk"] = c.RiskScore
	}
	if e := outcomes[analysis.KindExecutive].Result.Executive; e != nil {
		kpis["roi"] = e.ROI
		kpis["payback_months"] = float64(e.PaybackMonths)
		kpis["estimated_investment_usd"] = e.EstimatedInvestmentUSD
	}
	return kpis
}

// collectRecommendations orders recommendations executive-first, then the
// parallel kinds, deduplicated with first-occurrence order preserved.
func collectRecommendations(outcomes map[analysis.Kind]analysis.ModuleOutcome) []string {
	order := []analysis.Kind{
		analysis.KindExecutive,
		analysis.KindMarket,
		analysis.KindTechnical,
		analysis.KindCompliance,
	}
	seen := make(map[string]bool)
	var recs []string
	if e := outcomes[analysis.KindExecutive].Result.Executive; e != nil && e.Recommendation != "" {
		seen[e.Recommendation] = true
		recs = append(recs, e.Recommendation)
	}
	for _, kind := range order {
		result := outcomes[kind].Result
		for _, r := range result.Recommendations() {
			if r == "" || seen[r] {
				continue
			}
			seen[r] = true
			recs = append(recs, r)
		}
	}
	return recs
}

// degradationNotes explains every fallback substitution in reading order so a
// caller can judge how much of the report is estimated.
func degradationNotes(outcomes map[analysis.Kind]analysis.ModuleOutcome) []string {
	var notes []string
	for _, kind := range analysis.AllKinds {
		o := outcomes[kind]
		if !o.UsedFallback {
			continue
		}
		note := fmt.Sprintf("%s analysis used deterministic defaults", kind)
		if o.ErrorMessage != "" {
			note += " (" + o.ErrorMessage + ")"
		}
		notes = append(notes, note)
	}
	return notes
}
