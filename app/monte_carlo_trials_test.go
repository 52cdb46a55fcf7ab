package app

import (
	"context"
	stderrors "errors"
	"math"
	"testing"

	"gointegral/domain/catalog"
	"gointegral/domain/core"
	"gointegral/domain/quadrature"
	"gointegral/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonteCarloTrials_Summary(t *testing.T) {
	svc := newTestService()
	sf := catalog.Build(0.5, 20.5)[0]

	summary, err := svc.MonteCarloTrials(context.Background(), sf, 0.5, 20.5, 2000, 100)
	require.NoError(t, err)

	assert.Equal(t, "F1", summary.Function)
	assert.Equal(t, 100, summary.Trials)
	assert.LessOrEqual(t, summary.Min, summary.Median)
	assert.LessOrEqual(t, summary.Median, summary.Max)
	assert.Greater(t, summary.StdDev, 0.0)
	// the average of many estimates sits close to the exact value
	assert.InEpsilon(t, sf.Exact, summary.Mean, 0.02)
	require.True(t, summary.MeanAbsError.Available)
	assert.Greater(t, summary.MeanAbsError.Value, 0.0)
}

func TestMonteCarloTrials_WithoutExact(t *testing.T) {
	svc := newTestService()
	sf := catalog.New("square", "x^2", catalog.Build(0, 1)[0].Integrand)

	summary, err := svc.MonteCarloTrials(context.Background(), sf, 0, 1, 100, 5)
	require.NoError(t, err)
	assert.Nil(t, summary.Exact)
	assert.False(t, summary.MeanAbsError.Available)
}

func TestMonteCarloTrials_Invalid(t *testing.T) {
	svc := newTestService()
	sf := catalog.Build(0, 1)[0]

	_, err := svc.MonteCarloTrials(context.Background(), sf, 0, 1, 100, 1)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = svc.MonteCarloTrials(context.Background(), sf, 0, 1, 0, 10)
	assert.Equal(t, errors.CodeComputationFailed, errors.GetCode(err))
}

func TestMonteCarloTrials_NonFiniteEstimateAborts(t *testing.T) {
	svc := newTestService()
	overflow := catalog.New("overflow", "inf", quadrature.Func(func(float64) float64 { return math.Inf(1) }))

	summary, err := svc.MonteCarloTrials(context.Background(), overflow, 0, 1, 50, 10)
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.Equal(t, errors.CodeComputationFailed, errors.GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrNonFiniteResult))
}
