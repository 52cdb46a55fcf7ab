package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"gointegral/domain/core"
	"gointegral/domain/quadrature"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRun(withExact bool) *quadrature.Run {
	run := &quadrature.Run{
		ID:        core.NewRunID(),
		Function:  "F2",
		A:         0.5,
		B:         20.5,
		N:         10,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	for _, m := range quadrature.MethodOrder {
		res := quadrature.MethodResult{Method: m, Value: 0.25, Elapsed: 2 * time.Microsecond, Error: quadrature.NoError()}
		if withExact {
			res.Error = quadrature.AbsError(0.125)
		}
		run.Results = append(run.Results, res)
	}
	if withExact {
		exact := 0.375
		run.Exact = &exact
	}
	return run
}

func TestRows_RoundTrip(t *testing.T) {
	for _, withExact := range []bool{true, false} {
		run := testRun(withExact)

		rr, results := toRows(run)
		require.Len(t, results, 4)
		assert.Equal(t, withExact, rr.Exact.Valid)
		for i, res := range results {
			assert.Equal(t, i, res.Position)
			assert.Equal(t, withExact, res.AbsError.Valid)
		}

		assert.Equal(t, run, fromRows(rr, results))
	}
}

// TestRunRepository_Postgres needs a disposable database in TEST_DATABASE_URL
func TestRunRepository_Postgres(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Connect(ctx, url)
	require.NoError(t, err)
	defer db.Close()

	repo := NewRunRepository(db)
	require.NoError(t, repo.EnsureSchema(ctx))

	run := testRun(true)
	require.NoError(t, repo.Render(ctx, run))

	got, err := repo.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Function, got.Function)
	assert.Equal(t, quadrature.MethodOrder[3], got.Results[3].Method)
	assert.True(t, got.CreatedAt.Equal(run.CreatedAt))

	listed, err := repo.List(ctx, "F2", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, listed)

	_, err = repo.Get(ctx, core.NewRunID())
	assert.True(t, core.IsNotFoundError(err))
}
