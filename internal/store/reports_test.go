package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratagem/internal/analysis"
)

func sampleReport(id, company string, confidence float64) *analysis.StrategicReport {
	return &analysis.StrategicReport{
		ReportID:    id,
		GeneratedAt: time.Now().UTC().Truncate(time.Millisecond),
		Lead: analysis.LeadProfile{
			CompanyName: company,
			Industry:    "saas",
		},
		Outcomes: map[analysis.Kind]analysis.ModuleOutcome{
			analysis.KindMarket: {
				Kind:      analysis.KindMarket,
				Succeeded: true,
				Result: analysis.AnalysisResult{
					Kind:   analysis.KindMarket,
					Market: &analysis.MarketResult{Opportunity: 0.6, Confidence: 0.7, CompetitionLevel: analysis.CompetitionModerate},
				},
			},
		},
		Synthesis:       analysis.SynthesisResult{OverallConfidence: confidence},
		KPIs:            map[string]float64{"overall_confidence": confidence},
		Recommendations: []string{"Proceed."},
		TokensUsed:      120,
	}
}

func newTestStore(t *testing.T) *ReportStore {
	t.Helper()
	st, err := NewReportStore(filepath.Join(t.TempDir(), "history", "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestReportStore_SaveAndGet(t *testing.T) {
	st := newTestStore(t)
	report := sampleReport("report-1", "Acme", 0.72)

	require.NoError(t, st.Save(report))

	loaded, err := st.Get("report-1")
	require.NoError(t, err)
	assert.Equal(t, report.ReportID, loaded.ReportID)
	assert.Equal(t, report.Lead, loaded.Lead)
	assert.InDelta(t, 0.72, loaded.Synthesis.OverallConfidence, 1e-9)
	assert.Equal(t, 120, loaded.TokensUsed)
	require.Contains(t, loaded.Outcomes, analysis.KindMarket)
	assert.InDelta(t, 0.6, loaded.Outcomes[analysis.KindMarket].Result.Market.Opportunity, 1e-9)
}

func TestReportStore_GetMissing(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Get("report-none")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReportStore_SaveNil(t *testing.T) {
	st := newTestStore(t)
	require.Error(t, st.Save(nil))
}

func TestReportStore_SaveSameIDReplaces(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Save(sampleReport("report-1", "Acme", 0.5)))
	require.NoError(t, st.Save(sampleReport("report-1", "Acme", 0.9)))

	summaries, err := st.List(0)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.InDelta(t, 0.9, summaries[0].OverallConfidence, 1e-9)
}

func TestReportStore_ListNewestFirstWithLimit(t *testing.T) {
	st := newTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		r := sampleReport(fmt.Sprintf("report-%d", i), fmt.Sprintf("Company %d", i), 0.5)
		r.GeneratedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, st.Save(r))
	}

	summaries, err := st.List(3)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "report-4", summaries[0].ReportID)
	assert.Equal(t, "report-3", summaries[1].ReportID)
	assert.Equal(t, "report-2", summaries[2].ReportID)
	assert.True(t, summaries[0].GeneratedAt.After(summaries[2].GeneratedAt))
}

func TestReportStore_EmptyList(t *testing.T) {
	st := newTestStore(t)
	summaries, err := st.List(10)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}
