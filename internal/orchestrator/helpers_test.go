package orchestrator

import (
	"testing"

	"go.uber.org/goleak"

	"stratagem/internal/analysis"
	"stratagem/internal/config"
	"stratagem/internal/inference"
)

// Detached producers are released before each test returns, so nothing should
// outlive the run.
func TestMain(m *testing.M) {
	// go.opencensus.io (a transitive dependency) starts a worker goroutine in
	// its package init that can never be stopped; it is not ours to release.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// testRequest returns a mid-market healthcare lead used across the package
// tests.
func testRequest() *analysis.AnalysisRequest {
	return &analysis.AnalysisRequest{
		Lead: analysis.LeadProfile{
			CompanyName:   "Meridian Health",
			Industry:      "healthcare",
			Size:          1200,
			Location:      "Chicago",
			AnnualRevenue: 80_000_000,
			Stage:         "growth",
		},
		Requirements: analysis.SolutionRequirements{
			MultiTenant:          true,
			ComplianceFrameworks: []string{"HIPAA", "SOC2"},
		},
	}
}

// testConfig returns a config with short deadlines suitable for tests.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Engine = config.FastEngineConfig()
	return cfg
}

const (
	marketJSON = `{
		"market_size_usd": 2000000000,
		"growth_rate": 0.1,
		"opportunity": 0.8,
		"competition_level": "moderate",
		"positioning": "Well positioned.",
		"recommendations": ["Target mid-market hospital groups"],
		"confidence": 0.9
	}`
	technicalJSON = `{
		"complexity_tier": "moderate",
		"feasibility": 0.75,
		"integration_effort_weeks": 12,
		"architecture_notes": "Straightforward integration.",
		"risks": ["EHR interface variance"],
		"recommendations": ["Prototype the EHR interface first"],
		"confidence": 0.85
	}`
	complianceJSON = `{
		"risk_score": 0.3,
		"frameworks": [{"name": "HIPAA", "status": "partial", "note": "BAA pending"}],
		"blockers": [],
		"recommendations": ["Close the HIPAA gap before go-live"],
		"confidence": 0.8
	}`
	executiveJSON = `{
		"recommendation": "Proceed with a phased rollout.",
		"recommendations": ["Stage the rollout by region"],
		"confidence": 0.82
	}`
)

// healthyClient answers every module persona with well-formed output.
func healthyClient() *inference.StaticClient {
	return inference.NewStaticClient().
		Respond("market analyst", marketJSON).
		Respond("solutions architect", technicalJSON).
		Respond("compliance officer", complianceJSON).
		Respond("executive advisor", executiveJSON)
}
