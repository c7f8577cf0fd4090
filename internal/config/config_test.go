package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratagem/internal/analysis"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 90*time.Second, cfg.Engine.MarketDeadline)
	assert.Equal(t, 120*time.Second, cfg.Engine.TechnicalDeadline)
	assert.Equal(t, 60*time.Second, cfg.Engine.ExecutiveDeadline)
	assert.Equal(t, 90*time.Second, cfg.Engine.ComplianceDeadline)
	assert.Equal(t, 3, cfg.Engine.MaxConcurrent)

	sum := cfg.Synthesis.MarketWeight + cfg.Synthesis.TechnicalWeight +
		cfg.Synthesis.ExecutiveWeight + cfg.Synthesis.ComplianceWeight
	assert.InDelta(t, 1.0, sum, 1e-9)

	// The HTTP timeout must exceed every module deadline so expiry is always
	// decided by the guard, never by the transport.
	for _, kind := range analysis.AllKinds {
		assert.Greater(t, cfg.LLM.HTTPTimeout, cfg.Engine.DeadlineFor(kind))
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, Default().Engine, cfg.Engine)
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stratagem.json")

	cfg := Default()
	cfg.Engine.MaxConcurrent = 5
	cfg.Synthesis.FallbackDiscount = 0.25
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Engine.MaxConcurrent)
	assert.InDelta(t, 0.25, loaded.Synthesis.FallbackDiscount, 1e-9)
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stratagem.json")
	cfg := Default()
	cfg.Synthesis.MarketWeight = 0.9 // weights no longer sum to 1
	require.NoError(t, cfg.Save(path))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights")
}

func TestLoad_RejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stratagem.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("GEMINI_API_KEY wins over GOOGLE_API_KEY", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gem-key")
		t.Setenv("GOOGLE_API_KEY", "goog-key")

		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "gem-key", cfg.LLM.APIKey)
	})

	t.Run("GOOGLE_API_KEY used when GEMINI unset", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("GOOGLE_API_KEY", "goog-key")

		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "goog-key", cfg.LLM.APIKey)
	})

	t.Run("model and db path overrides", func(t *testing.T) {
		t.Setenv("STRATAGEM_MODEL", "gemini-2.5-pro")
		t.Setenv("STRATAGEM_DB", "/tmp/alt.db")

		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
		assert.Equal(t, "/tmp/alt.db", cfg.DatabasePath)
	})
}

func TestEngineConfig_DeadlineFor(t *testing.T) {
	engine := DefaultEngineConfig()
	assert.Equal(t, engine.MarketDeadline, engine.DeadlineFor(analysis.KindMarket))
	assert.Equal(t, engine.TechnicalDeadline, engine.DeadlineFor(analysis.KindTechnical))
	assert.Equal(t, engine.ExecutiveDeadline, engine.DeadlineFor(analysis.KindExecutive))
	assert.Equal(t, engine.ComplianceDeadline, engine.DeadlineFor(analysis.KindCompliance))
	assert.Equal(t, engine.ExecutiveDeadline, engine.DeadlineFor(analysis.Kind("bogus")))
}

func TestEngineConfig_ValidateRejectsZeroDeadline(t *testing.T) {
	engine := DefaultEngineConfig()
	engine.TechnicalDeadline = 0
	require.Error(t, engine.Validate())
}

func TestSynthesisConfig_Validate(t *testing.T) {
	cfg := DefaultSynthesisConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.FallbackDiscount = 1.5
	require.Error(t, bad.Validate())

	bad = cfg
	bad.ROINormalizer = 0
	require.Error(t, bad.Validate())

	bad = cfg
	bad.ComplianceRiskMax = -0.1
	require.Error(t, bad.Validate())
}

func TestSynthesisConfig_WeightFor(t *testing.T) {
	cfg := DefaultSynthesisConfig()
	total := 0.0
	for _, kind := range analysis.AllKinds {
		total += cfg.WeightFor(kind)
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Zero(t, cfg.WeightFor(analysis.Kind("bogus")))
}
