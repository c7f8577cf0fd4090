package main

import "stratagem/internal/inference"

// offlineClient returns a static inference backend keyed on each module's
// persona line, so demo runs exercise the full pipeline deterministically.
func offlineClient() *inference.StaticClient {
	return inference.NewStaticClient().
		Respond("market analyst", `{
  "market_size_usd": 2500000000,
  "growth_rate": 0.12,
  "opportunity": 0.74,
  "competition_level": "moderate",
  "positioning": "Strong mid-market fit with room to differentiate on integration depth and time-to-value.",
  "recommendations": ["Lead with integration depth against incumbent suites", "Target a 90-day pilot to prove time-to-value"],
  "confidence": 0.78
}`).
		Respond("solutions architect", `{
  "complexity_tier": "moderate",
  "feasibility": 0.72,
  "integration_effort_weeks": 14,
  "architecture_notes": "Standard SSO and API integration surface; data migration is the main effort driver.",
  "risks": ["Legacy data migration scope uncertain"],
  "recommendations": ["Run a two-week integration spike before contracting"],
  "confidence": 0.75
}`).
		Respond("compliance officer", `{
  "risk_score": 0.35,
  "frameworks": [{"name": "SOC2", "status": "partial", "note": "Type II audit in progress"}],
  "blockers": [],
  "recommendations": ["Complete SOC2 Type II before production rollout"],
  "confidence": 0.7
}`).
		Respond("executive advisor", `{
  "recommendation": "Proceed with a phased rollout starting with a paid pilot.",
  "recommendations": ["Stage investment against pilot success criteria", "Revisit compliance posture at contract renewal"],
  "confidence": 0.72
}`)
}
