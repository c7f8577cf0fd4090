package config

import (
	"fmt"
	"time"

	"stratagem/internal/analysis"
)

// EngineConfig centralizes orchestration deadlines and dispatch limits.
//
// The shortest timeout in a chain wins: a module deadline shorter than the
// HTTP client timeout cuts the call off at the deadline, which is exactly the
// TimeoutGuard contract. Deadlines here bound the wait, not the call — on
// expiry the call is detached, not cancelled.
type EngineConfig struct {
	// Per-kind module deadlines.
	MarketDeadline     time.Duration `json:"market_deadline"`
	TechnicalDeadline  time.Duration `json:"technical_deadline"`
	ExecutiveDeadline  time.Duration `json:"executive_deadline"`
	ComplianceDeadline time.Duration `json:"compliance_deadline"`

	// MaxConcurrent bounds simultaneous module dispatches. Zero or negative
	// makes the dispatcher refuse all acquisitions (the degraded path).
	MaxConcurrent int `json:"max_concurrent"`

	// AcquireTimeout is the max wait for a dispatch slot before the module
	// counts as failed and falls back.
	AcquireTimeout time.Duration `json:"acquire_timeout"`
}

// DefaultEngineConfig returns the canonical deadlines: market 90s,
// technical 120s, executive 60s, compliance 90s.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MarketDeadline:     90 * time.Second,
		TechnicalDeadline:  120 * time.Second,
		ExecutiveDeadline:  60 * time.Second,
		ComplianceDeadline: 90 * time.Second,
		MaxConcurrent:      3,
		AcquireTimeout:     30 * time.Second,
	}
}

// FastEngineConfig returns short deadlines for tests and offline runs.
func FastEngineConfig() EngineConfig {
	return EngineConfig{
		MarketDeadline:     5 * time.Second,
		TechnicalDeadline:  5 * time.Second,
		ExecutiveDeadline:  3 * time.Second,
		ComplianceDeadline: 5 * time.Second,
		MaxConcurrent:      3,
		AcquireTimeout:     2 * time.Second,
	}
}

// DeadlineFor returns the deadline for a module kind. Unknown kinds get the
// executive deadline, the shortest of the set.
func (c EngineConfig) DeadlineFor(kind analysis.Kind) time.Duration {
	switch kind {
	case analysis.KindMarket:
		return c.MarketDeadline
	case analysis.KindTechnical:
		return c.TechnicalDeadline
	case analysis.KindExecutive:
		return c.ExecutiveDeadline
	case analysis.KindCompliance:
		return c.ComplianceDeadline
	}
	return c.ExecutiveDeadline
}

// Validate rejects non-positive deadlines.
func (c EngineConfig) Validate() error {
	for _, d := range []struct {
		name string
		dur  time.Duration
	}{
		{"market_deadline", c.MarketDeadline},
		{"technical_deadline", c.TechnicalDeadline},
		{"executive_deadline", c.ExecutiveDeadline},
		{"compliance_deadline", c.ComplianceDeadline},
	} {
		if d.dur <= 0 {
			return fmt.Errorf("engine config: %s must be positive, got %v", d.name, d.dur)
		}
	}
	return nil
}
