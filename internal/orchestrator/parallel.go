package orchestrator

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stratagem/internal/agents"
	"stratagem/internal/analysis"
	"stratagem/internal/config"
	"stratagem/internal/fallback"
)

// Coordinator runs the independent modules {market, technical, compliance}
// concurrently, wrapping each in guard and fallback, and joins at a barrier:
// it returns only once every kind has a terminal outcome. Module failures
// never escape; each task owns exactly one outcome slot, written once, so no
// locking is needed.
type Coordinator struct {
	agents     map[analysis.Kind]agents.Agent
	guard      *TimeoutGuard
	dispatcher *Dispatcher
	engine     config.EngineConfig
	logger     *zap.Logger
}

// NewCoordinator wires the parallel stage.
func NewCoordinator(mods []agents.Agent, guard *TimeoutGuard, dispatcher *Dispatcher, engine config.EngineConfig, logger *zap.Logger) *Coordinator {
	byKind := make(map[analysis.Kind]agents.Agent, len(mods))
	for _, m := range mods {
		byKind[m.Kind()] = m
	}
	return &Coordinator{
		agents:     byKind,
		guard:      guard,
		dispatcher: dispatcher,
		engine:     engine,
		logger:     logger,
	}
}

// RunStage executes the parallel stage and returns one outcome per kind in
// ParallelKinds order. If the dispatcher cannot be used at all before launch,
// the stage degrades to sequential fallback substitution for every kind and
// returns immediately; that is the only path that bypasses concurrency.
func (c *Coordinator) RunStage(ctx context.Context, req *analysis.AnalysisRequest) []analysis.ModuleOutcome {
	kinds := analysis.ParallelKinds
	outcomes := make([]analysis.ModuleOutcome, len(kinds))

	if err := c.dispatcher.Ready(ctx); err != nil {
		c.logger.Warn("parallel stage degraded to sequential fallback", zap.Error(err))
		for i, kind := range kinds {
			outcomes[i] = fallbackOutcome(kind, req, 0, err)
		}
		return outcomes
	}

	var g errgroup.Group
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			outcomes[i] = c.runModule(ctx, kind, req)
			return nil
		})
	}
	// Tasks never return errors; the Wait is purely the stage barrier.
	_ = g.Wait()
	return outcomes
}

// runModule executes one module under dispatch, guard, and fallback. The
// returned outcome is always usable.
func (c *Coordinator) runModule(ctx context.Context, kind analysis.Kind, req *analysis.AnalysisRequest) analysis.ModuleOutcome {
	agent, ok := c.agents[kind]
	if !ok {
		return fallbackOutcome(kind, req, 0, nil)
	}

	if err := c.dispatcher.Acquire(ctx, kind); err != nil {
		return fallbackOutcome(kind, req, 0, err)
	}

	out, elapsed, err := c.guard.Run(ctx, kind, c.engine.DeadlineFor(kind), func(ctx context.Context) (*agents.Output, error) {
		defer c.dispatcher.Release()
		return agent.Analyze(ctx, req)
	})
	if err != nil {
		c.logger.Warn("module fell back",
			zap.String("kind", string(kind)),
			zap.String("class", failureClass(err)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return fallbackOutcome(kind, req, elapsed, err)
	}
	if verr := analysis.Validate(&out.Result); verr != nil {
		c.logger.Warn("module output rejected",
			zap.String("kind", string(kind)),
			zap.Error(verr))
		return fallbackOutcome(kind, req, elapsed, verr)
	}

	c.logger.Info("module completed",
		zap.String("kind", string(kind)),
		zap.Duration("elapsed", elapsed),
		zap.Float64("confidence", out.Result.Confidence()))
	return analysis.ModuleOutcome{
		Kind:       kind,
		Result:     out.Result,
		Succeeded:  true,
		Elapsed:    elapsed,
		TokensUsed: out.TokensUsed,
	}
}

// fallbackOutcome substitutes the deterministic default for kind, carrying the
// absorbed failure as provenance. Fallback outcomes still count as succeeded:
// the value is usable.
func fallbackOutcome(kind analysis.Kind, req *analysis.AnalysisRequest, elapsed time.Duration, cause error) analysis.ModuleOutcome {
	outcome := analysis.ModuleOutcome{
		Kind:         kind,
		Result:       fallback.ForKind(kind, req),
		Succeeded:    true,
		UsedFallback: true,
		Elapsed:      elapsed,
	}
	if cause != nil {
		outcome.ErrorMessage = failureClass(cause) + ": " + cause.Error()
	}
	return outcome
}
