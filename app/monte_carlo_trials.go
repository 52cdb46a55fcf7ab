package app

import (
	"context"
	"fmt"
	"math"

	"gointegral/domain/catalog"
	"gointegral/domain/core"
	"gointegral/domain/quadrature"
	"gointegral/internal/errors"

	"github.com/montanaflynn/stats"
)

// TrialSummary describes the spread of repeated Monte Carlo estimates
type TrialSummary struct {
	Function     string                `json:"function"`
	A            float64               `json:"a"`
	B            float64               `json:"b"`
	N            int                   `json:"n"`
	Trials       int                   `json:"trials"`
	Mean         float64               `json:"mean"`
	StdDev       float64               `json:"std_dev"`
	Min          float64               `json:"min"`
	Max          float64               `json:"max"`
	Median       float64               `json:"median"`
	Exact        *float64              `json:"exact,omitempty"`
	MeanAbsError quadrature.ErrorValue `json:"mean_abs_error"`
}

// MonteCarloTrials repeats the Monte Carlo method and summarises the estimates
func (s *ComparisonService) MonteCarloTrials(ctx context.Context, sf catalog.SampleFunction, a, b float64, n, trials int) (*TrialSummary, error) {
	if trials < 2 {
		return nil, errors.InvalidInput("at least two trials are required")
	}

	mc, ok := s.engine.Method(quadrature.MethodMonteCarlo)
	if !ok {
		return nil, errors.InternalError("engine has no Monte Carlo method")
	}

	estimates := make(stats.Float64Data, 0, trials)
	for i := 0; i < trials; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := mc.Integrate(sf.Integrand, a, b, n)
		if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
			err = fmt.Errorf("%w: %v", core.ErrNonFiniteResult, v)
		}
		if err != nil {
			return nil, errors.ComputationFailed(fmt.Sprintf("trial %d failed", i+1), err)
		}
		estimates = append(estimates, v)
	}

	summary := &TrialSummary{
		Function:     sf.Name,
		A:            a,
		B:            b,
		N:            n,
		Trials:       trials,
		Exact:        sf.ExactValue(),
		MeanAbsError: quadrature.NoError(),
	}

	var err error
	if summary.Mean, err = estimates.Mean(); err != nil {
		return nil, errors.Wrap(err, "failed to compute mean")
	}
	if summary.StdDev, err = estimates.StandardDeviationSample(); err != nil {
		return nil, errors.Wrap(err, "failed to compute standard deviation")
	}
	if summary.Min, err = estimates.Min(); err != nil {
		return nil, errors.Wrap(err, "failed to compute min")
	}
	if summary.Max, err = estimates.Max(); err != nil {
		return nil, errors.Wrap(err, "failed to compute max")
	}
	if summary.Median, err = estimates.Median(); err != nil {
		return nil, errors.Wrap(err, "failed to compute median")
	}

	if summary.Exact != nil {
		deviations := make(stats.Float64Data, len(estimates))
		for i, v := range estimates {
			deviations[i] = math.Abs(v - *summary.Exact)
		}
		mae, err := deviations.Mean()
		if err != nil {
			return nil, errors.Wrap(err, "failed to compute mean absolute error")
		}
		summary.MeanAbsError = quadrature.AbsError(mae)
	}

	return summary, nil
}
