package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"stratagem/internal/agents"
	"stratagem/internal/analysis"
)

// Producer is a module's async work: at most one invocation per guard run.
type Producer func(ctx context.Context) (*agents.Output, error)

// TimeoutGuard races a producer against a per-kind deadline.
//
// On expiry the producer is detached, not cancelled: the guard stops waiting
// and returns ErrModuleTimeout while the underlying call runs to completion in
// its own goroutine and is discarded. The result channel is buffered so the
// detached send never blocks and never writes into state the caller still
// reads.
type TimeoutGuard struct {
	logger *zap.Logger
}

// NewTimeoutGuard creates a guard. logger may not be nil.
func NewTimeoutGuard(logger *zap.Logger) *TimeoutGuard {
	return &TimeoutGuard{logger: logger}
}

type produced struct {
	out *agents.Output
	err error
}

// Run invokes producer once and waits up to deadline. It returns the
// producer's output or error, the elapsed wall time, and ErrModuleTimeout when
// the deadline expires first. A panicking producer is absorbed into an error;
// nothing escapes the guard.
func (g *TimeoutGuard) Run(ctx context.Context, kind analysis.Kind, deadline time.Duration, producer Producer) (*agents.Output, time.Duration, error) {
	ch := make(chan produced, 1)
	start := time.Now()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- produced{err: fmt.Errorf("%s module panicked: %v", kind, r)}
			}
		}()
		out, err := producer(ctx)
		ch <- produced{out: out, err: err}
	}()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case p := <-ch:
		elapsed := time.Since(start)
		return p.out, elapsed, p.err
	case <-timer.C:
		elapsed := time.Since(start)
		g.logger.Warn("module detached at deadline",
			zap.String("kind", string(kind)),
			zap.Duration("deadline", deadline))
		return nil, elapsed, fmt.Errorf("%s after %v: %w", kind, deadline, ErrModuleTimeout)
	}
}
