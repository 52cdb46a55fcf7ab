package app

import (
	"context"
	"fmt"
	"math"
	"time"

	quadengine "gointegral/adapters/quadrature"
	"gointegral/domain/catalog"
	"gointegral/domain/core"
	"gointegral/domain/quadrature"
	"gointegral/internal"
	"gointegral/internal/errors"
	"gointegral/ports"

	"golang.org/x/sync/errgroup"
)

// ComparisonService runs every quadrature method against one integrand and
// measures each run.
type ComparisonService struct {
	engine   *quadengine.Engine
	recorder ports.MetricsRecorder
	logger   *internal.Logger
}

// NewComparisonService creates the harness. recorder and logger may be nil.
func NewComparisonService(engine *quadengine.Engine, recorder ports.MetricsRecorder, logger *internal.Logger) *ComparisonService {
	if engine == nil {
		engine = quadengine.NewEngine(nil)
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &ComparisonService{
		engine:   engine,
		recorder: recorder,
		logger:   logger,
	}
}

// Compare invokes each method once, in display order, timing each invocation
// and measuring |value - exact| when exact is known. The first failing method
// aborts the comparison and no results are returned.
func (s *ComparisonService) Compare(ctx context.Context, f quadrature.Integrand, a, b float64, n int, exact *float64) ([]quadrature.MethodResult, error) {
	return s.compare(ctx, s.logger, f, a, b, n, exact)
}

func (s *ComparisonService) compare(ctx context.Context, logger *internal.Logger, f quadrature.Integrand, a, b float64, n int, exact *float64) ([]quadrature.MethodResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	methods := s.engine.Methods()
	results := make([]quadrature.MethodResult, 0, len(methods))

	for _, m := range methods {
		start := time.Now()
		value, err := m.Integrate(f, a, b, n)
		elapsed := time.Since(start)

		if err == nil && (math.IsNaN(value) || math.IsInf(value, 0)) {
			err = fmt.Errorf("%w: %v", core.ErrNonFiniteResult, value)
		}
		s.recorder.ObserveMethod(m.Name(), elapsed, err)
		logger.Trace("%s: value=%v elapsed=%v err=%v", m.Name(), value, elapsed, err)
		if err != nil {
			logger.Warn("comparison aborted at %s (a=%g b=%g n=%d): %v", m.Name(), a, b, n, err)
			return nil, errors.ComputationFailed(m.Name()+" failed", err)
		}

		errValue := quadrature.NoError()
		if exact != nil {
			errValue = quadrature.AbsError(math.Abs(value - *exact))
		}

		results = append(results, quadrature.MethodResult{
			Method:  m.Name(),
			Value:   value,
			Elapsed: elapsed,
			Error:   errValue,
		})
	}

	return results, nil
}

// CompareFunction compares a catalog function and wraps the results in a Run.
// The function's exact value must belong to the same [a, b].
func (s *ComparisonService) CompareFunction(ctx context.Context, sf catalog.SampleFunction, a, b float64, n int) (*quadrature.Run, error) {
	exact := sf.ExactValue()
	runID := core.NewRunID()
	logger := s.logger.With("function", sf.Name, "run", runID.String())

	results, err := s.compare(ctx, logger, sf.Integrand, a, b, n, exact)
	if err != nil {
		return nil, errors.Wrapf(err, "comparison of %s aborted", sf.Name)
	}

	for _, r := range results {
		if r.Error.Available {
			s.recorder.ObserveError(sf.Name, r.Method, r.Error.Value)
		}
	}

	run := &quadrature.Run{
		ID:        runID,
		Function:  sf.Name,
		A:         a,
		B:         b,
		N:         n,
		Exact:     exact,
		Results:   results,
		CreatedAt: time.Now().UTC(),
	}
	logger.Debug("run complete: %s", run.Label())
	return run, nil
}

// CompareCatalog compares each function in order. With parallelism > 1,
// different functions run concurrently; the methods inside one comparison
// always run one after another so their timings stay comparable.
func (s *ComparisonService) CompareCatalog(ctx context.Context, fns []catalog.SampleFunction, a, b float64, n int, parallelism int) ([]*quadrature.Run, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	runs := make([]*quadrature.Run, len(fns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, sf := range fns {
		g.Go(func() error {
			run, err := s.CompareFunction(gctx, sf, a, b, n)
			if err != nil {
				return err
			}
			runs[i] = run
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

// Sweep compares one function at each partition count in ns
func (s *ComparisonService) Sweep(ctx context.Context, sf catalog.SampleFunction, a, b float64, ns []int) ([]*quadrature.Run, error) {
	if len(ns) == 0 {
		return nil, errors.InvalidInput("sweep needs at least one partition count")
	}

	runs := make([]*quadrature.Run, 0, len(ns))
	for _, n := range ns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		run, err := s.CompareFunction(ctx, sf, a, b, n)
		if err != nil {
			return nil, errors.Wrapf(err, "sweep stopped at n=%d", n)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Publish hands every run to every sink, in order
func Publish(ctx context.Context, runs []*quadrature.Run, sinks ...ports.ResultSink) error {
	for _, run := range runs {
		for _, sink := range sinks {
			if err := sink.Render(ctx, run); err != nil {
				return errors.Wrapf(err, "failed to render run %s", run.ID)
			}
		}
	}
	return nil
}

type nopRecorder struct{}

func (nopRecorder) ObserveMethod(string, time.Duration, error) {}
func (nopRecorder) ObserveError(string, string, float64)       {}
