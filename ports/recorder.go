package ports

import (
	"context"
	"time"

	"gointegral/domain/core"
	"gointegral/domain/quadrature"
)

// MetricsRecorder receives per-method measurements from the comparison harness
type MetricsRecorder interface {
	// ObserveMethod records one method invocation; err is nil on success
	ObserveMethod(method string, elapsed time.Duration, err error)
	// ObserveError records the absolute error of a method against the exact value
	ObserveError(function, method string, absErr float64)
}

// ResultSink renders or stores a finished comparison run. Sinks never see
// aborted runs.
type ResultSink interface {
	Render(ctx context.Context, run *quadrature.Run) error
}

// RunRepository persists comparison runs
type RunRepository interface {
	ResultSink
	Get(ctx context.Context, id core.RunID) (*quadrature.Run, error)
	List(ctx context.Context, function string, limit int) ([]*quadrature.Run, error)
}
