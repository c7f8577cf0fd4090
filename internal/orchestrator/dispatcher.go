package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"stratagem/internal/analysis"
)

// Dispatcher manages module dispatch slots. Many modules may be queued, but
// only MaxConcurrent run at once. A dispatcher that cannot hand out slots
// before the parallel launch is the scheduling failure that degrades the whole
// stage to sequential fallback execution.
type Dispatcher struct {
	slots   chan struct{}
	timeout time.Duration
	logger  *zap.Logger

	stopCh   chan struct{}
	stopOnce sync.Once

	totalDispatches int64
	totalWaitNs     int64
	active          int32
}

// DispatcherConfig configures the dispatcher.
type DispatcherConfig struct {
	MaxConcurrent  int           // zero or negative refuses all acquisitions
	AcquireTimeout time.Duration // max wait for a slot
}

// NewDispatcher creates a dispatcher. With MaxConcurrent <= 0 every Acquire
// fails with ErrSchedulingFailure, which exercises the degraded path.
func NewDispatcher(cfg DispatcherConfig, logger *zap.Logger) *Dispatcher {
	capacity := cfg.MaxConcurrent
	if capacity < 0 {
		capacity = 0
	}
	return &Dispatcher{
		slots:   make(chan struct{}, capacity),
		timeout: cfg.AcquireTimeout,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
}

// Ready reports whether the dispatcher can hand out slots at all. The
// coordinator checks this once before launching the parallel stage.
func (d *Dispatcher) Ready(ctx context.Context) error {
	select {
	case <-d.stopCh:
		return fmt.Errorf("%w: %v", ErrSchedulingFailure, ErrDispatcherStopped)
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrSchedulingFailure, ctx.Err())
	default:
	}
	if cap(d.slots) == 0 {
		return fmt.Errorf("%w: zero slot capacity", ErrSchedulingFailure)
	}
	return nil
}

// Acquire blocks until a slot is free, the acquire timeout passes, the context
// is cancelled, or the dispatcher stops.
func (d *Dispatcher) Acquire(ctx context.Context, kind analysis.Kind) error {
	waitStart := time.Now()

	var timeoutCh <-chan time.Time
	if d.timeout > 0 {
		timer := time.NewTimer(d.timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case d.slots <- struct{}{}:
		wait := time.Since(waitStart)
		atomic.AddInt64(&d.totalWaitNs, int64(wait))
		atomic.AddInt32(&d.active, 1)
		if wait > 100*time.Millisecond {
			d.logger.Debug("dispatch slot acquired after wait",
				zap.String("kind", string(kind)),
				zap.Duration("wait", wait))
		}
		return nil
	case <-timeoutCh:
		return fmt.Errorf("%s waited %v for dispatch slot: %w", kind, d.timeout, ErrSchedulingFailure)
	case <-ctx.Done():
		return fmt.Errorf("%s: %w: %v", kind, ErrSchedulingFailure, ctx.Err())
	case <-d.stopCh:
		return fmt.Errorf("%s: %w", kind, ErrDispatcherStopped)
	}
}

// Release returns a slot after the module's call completes.
func (d *Dispatcher) Release() {
	select {
	case <-d.slots:
		atomic.AddInt32(&d.active, -1)
		atomic.AddInt64(&d.totalDispatches, 1)
	default:
		d.logger.Error("dispatch slot released without acquire")
	}
}

// Stop shuts the dispatcher down; subsequent Acquire calls fail immediately.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
}

// Metrics is a snapshot of dispatcher activity.
type Metrics struct {
	MaxSlots        int
	ActiveSlots     int
	TotalDispatches int64
	TotalWait       time.Duration
}

// Metrics returns current dispatcher counters.
func (d *Dispatcher) Metrics() Metrics {
	return Metrics{
		MaxSlots:        cap(d.slots),
		ActiveSlots:     int(atomic.LoadInt32(&d.active)),
		TotalDispatches: atomic.LoadInt64(&d.totalDispatches),
		TotalWait:       time.Duration(atomic.LoadInt64(&d.totalWaitNs)),
	}
}

func (m Metrics) String() string {
	return fmt.Sprintf("slots=%d/%d dispatches=%d total_wait=%v",
		m.ActiveSlots, m.MaxSlots, m.TotalDispatches, m.TotalWait)
}
