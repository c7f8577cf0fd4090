package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"stratagem/internal/analysis"
)

// printReport renders a human-readable report summary.
func printReport(w io.Writer, r *analysis.StrategicReport) {
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 72))
	fmt.Fprintf(w, "STRATEGIC ANALYSIS: %s (%s, %s)\n",
		r.Lead.CompanyName, r.Lead.Industry, r.Lead.Stage)
	fmt.Fprintf(w, "Report %s — generated %s\n",
		r.ReportID, r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", 72))

	fmt.Fprintf(w, "Overall confidence:   %.2f\n", r.Synthesis.OverallConfidence)
	fmt.Fprintf(w, "Alignment score:      %.2f\n", r.Synthesis.AlignmentScore)
	fmt.Fprintf(w, "Investment coherence: %.2f\n\n", r.Synthesis.InvestmentCoherence)

	for _, kind := range analysis.AllKinds {
		o := r.Outcome(kind)
		status := "ok"
		if o.UsedFallback {
			status = "fallback"
		}
		fmt.Fprintf(w, "[%-10s] %-8s confidence=%.2f elapsed=%s\n",
			kind, status, o.Result.Confidence(), o.Elapsed.Round(time.Millisecond))
	}

	if e := r.Outcome(analysis.KindExecutive).Result.Executive; e != nil {
		fmt.Fprintf(w, "\nFinancials: tier=%s investment=$%.0f acv=$%.0f roi=%.2f payback=%d months\n",
			e.InvestmentTier, e.EstimatedInvestmentUSD, e.AnnualContractValue, e.ROI, e.PaybackMonths)
		fmt.Fprintf(w, "Decision:   %s\n", e.Recommendation)
	}

	if len(r.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
	if len(r.Notes) > 0 {
		fmt.Fprintln(w, "\nNotes:")
		for _, note := range r.Notes {
			fmt.Fprintf(w, "  ! %s\n", note)
		}
	}
	if r.TokensUsed > 0 {
		fmt.Fprintf(w, "\nTokens used: %d\n", r.TokensUsed)
	}
}

// printReportJSON writes the full report payload.
func printReportJSON(w io.Writer, r *analysis.StrategicReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
