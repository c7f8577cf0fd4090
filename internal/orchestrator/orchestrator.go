// Package orchestrator sequences the strategic analysis pipeline: a parallel
// stage over the independent modules, a dependent executive stage, weighted
// synthesis, and report assembly. The central contract is that Run never
// fails: module-level problems are absorbed into fallback outcomes and
// surface only as reduced confidence and explanatory notes on the report.
package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"stratagem/internal/agents"
	"stratagem/internal/analysis"
	"stratagem/internal/config"
	"stratagem/internal/fallback"
	"stratagem/internal/inference"
)

// State tracks a run through the pipeline. Failed is reachable only from a
// programming defect (a panic inside the orchestrator itself), never from a
// module failure.
type State int

const (
	StateInit State = iota
	StateParallelRunning
	StateDependentRunning
	StateSynthesizing
	StateAssembled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateParallelRunning:
		return "parallel_running"
	case StateDependentRunning:
		return "dependent_running"
	case StateSynthesizing:
		return "synthesizing"
	case StateAssembled:
		return "assembled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Orchestrator runs the full pipeline. Each Run call is stateless and
// single-shot: no retries, no cross-invocation state.
type Orchestrator struct {
	coordinator *Coordinator
	executive   *agents.ExecutiveAgent
	guard       *TimeoutGuard
	dispatcher  *Dispatcher
	engine      config.EngineConfig
	synthesis   config.SynthesisConfig
	logger      *zap.Logger
}

// New wires a complete orchestrator over the given inference client.
func New(cfg *config.Config, client inference.Client, logger *zap.Logger) *Orchestrator {
	opts := agents.Options{
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	}
	guard := NewTimeoutGuard(logger)
	dispatcher := NewDispatcher(DispatcherConfig{
		MaxConcurrent:  cfg.Engine.MaxConcurrent,
		AcquireTimeout: cfg.Engine.AcquireTimeout,
	}, logger)
	mods := []agents.Agent{
		agents.NewMarketAgent(client, opts, logger),
		agents.NewTechnicalAgent(client, opts, logger),
		agents.NewComplianceAgent(client, opts, logger),
	}
	return &Orchestrator{
		coordinator: NewCoordinator(mods, guard, dispatcher, cfg.Engine, logger),
		executive:   agents.NewExecutiveAgent(client, opts, logger),
		guard:       guard,
		dispatcher:  dispatcher,
		engine:      cfg.Engine,
		synthesis:   cfg.Synthesis,
		logger:      logger,
	}
}

// SetSynthesisConfig swaps the synthesis coefficients; used by config
// hot-reload. Takes effect on the next Run.
func (o *Orchestrator) SetSynthesisConfig(cfg config.SynthesisConfig) {
	o.synthesis = cfg
}

// Dispatcher exposes dispatch metrics for observability.
func (o *Orchestrator) Dispatcher() *Dispatcher { return o.dispatcher }

// Close releases orchestrator resources.
func (o *Orchestrator) Close() { o.dispatcher.Stop() }

// Run executes the pipeline for one request and always returns a fully
// populated report — even under total backend outage the caller receives
// actionable output built from fallbacks. Run never returns an error and
// never panics; an internal defect yields an all-fallback report.
func (o *Orchestrator) Run(ctx context.Context, req *analysis.AnalysisRequest) (report *analysis.StrategicReport) {
	state := StateInit
	log := o.logger.With(zap.String("company", req.Lead.CompanyName))

	defer func() {
		if r := recover(); r != nil {
			state = StateFailed
			log.Error("orchestrator defect recovered; assembling fallback report",
				zap.Any("panic", r), zap.String("state", state.String()))
			report = o.defectReport(req)
		}
	}()

	state = StateParallelRunning
	log.Info("pipeline started", zap.String("state", state.String()))
	parallel := o.coordinator.RunStage(ctx, req)

	outcomes := make(map[analysis.Kind]analysis.ModuleOutcome, len(analysis.AllKinds))
	for _, out := range parallel {
		outcomes[out.Kind] = out
	}

	state = StateDependentRunning
	log.Debug("parallel barrier satisfied", zap.String("state", state.String()))
	outcomes[analysis.KindExecutive] = o.runExecutive(ctx, req, outcomes)

	state = StateSynthesizing
	synthesis := NewAggregator(o.synthesis).Synthesize(outcomes)

	state = StateAssembled
	report = assembleReport(req, outcomes, synthesis)
	log.Info("pipeline assembled",
		zap.String("state", state.String()),
		zap.String("report_id", report.ReportID),
		zap.Float64("overall_confidence", synthesis.OverallConfidence),
		zap.Int("fallbacks", report.FallbackCount()))
	return report
}

// runExecutive runs the dependent stage under the same guard+fallback pattern
// as the parallel modules. It consumes the parallel payloads whether they came
// from success or fallback.
func (o *Orchestrator) runExecutive(ctx context.Context, req *analysis.AnalysisRequest, outcomes map[analysis.Kind]analysis.ModuleOutcome) analysis.ModuleOutcome {
	market := outcomes[analysis.KindMarket].Result.Market
	technical := outcomes[analysis.KindTechnical].Result.Technical
	compliance := outcomes[analysis.KindCompliance].Result.Compliance

	// A dispatcher that could not serve the parallel stage will not serve
	// this one either; degrade without attempting the call.
	if rerr := o.dispatcher.Ready(ctx); rerr != nil {
		return analysis.ModuleOutcome{
			Kind:         analysis.KindExecutive,
			Result:       fallback.Executive(req, market, technical),
			Succeeded:    true,
			UsedFallback: true,
			ErrorMessage: failureClass(rerr) + ": " + rerr.Error(),
		}
	}

	out, elapsed, err := o.guard.Run(ctx, analysis.KindExecutive, o.engine.ExecutiveDeadline,
		func(ctx context.Context) (*agents.Output, error) {
			return o.executive.Analyze(ctx, req, market, technical, compliance)
		})
	if err == nil {
		if verr := analysis.Validate(&out.Result); verr != nil {
			err = verr
		}
	}
	if err != nil {
		o.logger.Warn("executive module fell back",
			zap.String("class", failureClass(err)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		outcome := analysis.ModuleOutcome{
			Kind:         analysis.KindExecutive,
			Result:       fallback.Executive(req, market, technical),
			Succeeded:    true,
			UsedFallback: true,
			Elapsed:      elapsed,
			ErrorMessage: failureClass(err) + ": " + err.Error(),
		}
		return outcome
	}

	o.logger.Info("executive module completed",
		zap.Duration("elapsed", elapsed),
		zap.Float64("confidence", out.Result.Confidence()))
	return analysis.ModuleOutcome{
		Kind:       analysis.KindExecutive,
		Result:     out.Result,
		Succeeded:  true,
		Elapsed:    elapsed,
		TokensUsed: out.TokensUsed,
	}
}

// defectReport builds the all-fallback report used when the orchestrator
// itself panics. Callers still receive a complete, usable report.
func (o *Orchestrator) defectReport(req *analysis.AnalysisRequest) *analysis.StrategicReport {
	outcomes := make(map[analysis.Kind]analysis.ModuleOutcome, len(analysis.AllKinds))
	for _, kind := range analysis.AllKinds {
		outcomes[kind] = analysis.ModuleOutcome{
			Kind:         kind,
			Result:       fallback.ForKind(kind, req),
			Succeeded:    true,
			UsedFallback: true,
			ErrorMessage: "module_exception: internal defect during orchestration",
		}
	}
	synthesis := NewAggregator(o.synthesis).Synthesize(outcomes)
	return assembleReport(req, outcomes, synthesis)
}
