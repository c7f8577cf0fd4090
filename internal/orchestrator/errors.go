package orchestrator

import (
	"errors"

	"stratagem/internal/analysis"
)

// Failure taxonomy. The first three are absorbed per-module by fallback
// substitution and surface only as provenance on the affected outcome.
// ErrSchedulingFailure is the only condition that degrades the whole parallel
// stage; even it never escapes Run.
var (
	ErrModuleTimeout     = errors.New("module deadline exceeded")
	ErrSchedulingFailure = errors.New("dispatch slots unavailable")
	ErrDispatcherStopped = errors.New("dispatcher stopped")
)

// failureClass labels an absorbed error for outcome provenance and logs.
func failureClass(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrModuleTimeout):
		return "module_timeout"
	case errors.Is(err, ErrSchedulingFailure), errors.Is(err, ErrDispatcherStopped):
		return "scheduling_failure"
	case analysis.IsValidation(err):
		return "module_validation"
	default:
		return "module_exception"
	}
}
