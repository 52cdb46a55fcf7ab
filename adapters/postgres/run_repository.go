package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"gointegral/domain/core"
	"gointegral/domain/quadrature"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS integration_runs (
	id         UUID PRIMARY KEY,
	function   TEXT NOT NULL,
	a          DOUBLE PRECISION NOT NULL,
	b          DOUBLE PRECISION NOT NULL,
	n          INTEGER NOT NULL,
	exact      DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS integration_results (
	run_id          UUID NOT NULL REFERENCES integration_runs(id) ON DELETE CASCADE,
	position        INTEGER NOT NULL,
	method          TEXT NOT NULL,
	value           DOUBLE PRECISION NOT NULL,
	elapsed_seconds DOUBLE PRECISION NOT NULL,
	abs_error       DOUBLE PRECISION,
	PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_integration_runs_function ON integration_runs(function, created_at DESC);
`

// runRow mirrors integration_runs
type runRow struct {
	ID        string          `db:"id"`
	Function  string          `db:"function"`
	A         float64         `db:"a"`
	B         float64         `db:"b"`
	N         int             `db:"n"`
	Exact     sql.NullFloat64 `db:"exact"`
	CreatedAt time.Time       `db:"created_at"`
}

// resultRow mirrors integration_results
type resultRow struct {
	RunID          string          `db:"run_id"`
	Position       int             `db:"position"`
	Method         string          `db:"method"`
	Value          float64         `db:"value"`
	ElapsedSeconds float64         `db:"elapsed_seconds"`
	AbsError       sql.NullFloat64 `db:"abs_error"`
}

// RunRepository stores comparison runs in PostgreSQL
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Connect opens and pings a PostgreSQL connection
func Connect(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the run tables if they are missing
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Render stores a run and its rows in one transaction
func (r *RunRepository) Render(ctx context.Context, run *quadrature.Run) error {
	rr, results := toRows(run)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO integration_runs (id, function, a, b, n, exact, created_at)
		VALUES (:id, :function, :a, :b, :n, :exact, :created_at)`, rr)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	for _, res := range results {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO integration_results (run_id, position, method, value, elapsed_seconds, abs_error)
			VALUES (:run_id, :position, :method, :value, :elapsed_seconds, :abs_error)`, res)
		if err != nil {
			return fmt.Errorf("failed to insert %s result: %w", res.Method, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}
	return nil
}

// Get loads a run with its rows in display order
func (r *RunRepository) Get(ctx context.Context, id core.RunID) (*quadrature.Run, error) {
	var rr runRow
	err := r.db.GetContext(ctx, &rr, `
		SELECT id, function, a, b, n, exact, created_at
		FROM integration_runs WHERE id = $1`, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("run", id.String())
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	results, err := r.results(ctx, rr.ID)
	if err != nil {
		return nil, err
	}
	return fromRows(rr, results), nil
}

// List returns the latest runs, optionally for one function
func (r *RunRepository) List(ctx context.Context, function string, limit int) ([]*quadrature.Run, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []runRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, function, a, b, n, exact, created_at
		FROM integration_runs
		WHERE $1 = '' OR function = $1
		ORDER BY created_at DESC
		LIMIT $2`, function, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*quadrature.Run, 0, len(rows))
	for _, rr := range rows {
		results, err := r.results(ctx, rr.ID)
		if err != nil {
			return nil, err
		}
		runs = append(runs, fromRows(rr, results))
	}
	return runs, nil
}

func (r *RunRepository) results(ctx context.Context, runID string) ([]resultRow, error) {
	var results []resultRow
	err := r.db.SelectContext(ctx, &results, `
		SELECT run_id, position, method, value, elapsed_seconds, abs_error
		FROM integration_results WHERE run_id = $1
		ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results for run %s: %w", runID, err)
	}
	return results, nil
}

func toRows(run *quadrature.Run) (runRow, []resultRow) {
	rr := runRow{
		ID:        run.ID.String(),
		Function:  run.Function,
		A:         run.A,
		B:         run.B,
		N:         run.N,
		CreatedAt: run.CreatedAt,
	}
	if run.Exact != nil {
		rr.Exact = sql.NullFloat64{Float64: *run.Exact, Valid: true}
	}

	results := make([]resultRow, len(run.Results))
	for i, res := range run.Results {
		results[i] = resultRow{
			RunID:          rr.ID,
			Position:       i,
			Method:         res.Method,
			Value:          res.Value,
			ElapsedSeconds: res.ElapsedSeconds(),
			AbsError:       sql.NullFloat64{Float64: res.Error.Value, Valid: res.Error.Available},
		}
	}
	return rr, results
}

func fromRows(rr runRow, results []resultRow) *quadrature.Run {
	run := &quadrature.Run{
		ID:        core.RunID(rr.ID),
		Function:  rr.Function,
		A:         rr.A,
		B:         rr.B,
		N:         rr.N,
		CreatedAt: rr.CreatedAt,
		Results:   make([]quadrature.MethodResult, 0, len(results)),
	}
	if rr.Exact.Valid {
		exact := rr.Exact.Float64
		run.Exact = &exact
	}
	for _, res := range results {
		errValue := quadrature.NoError()
		if res.AbsError.Valid {
			errValue = quadrature.AbsError(res.AbsError.Float64)
		}
		run.Results = append(run.Results, quadrature.MethodResult{
			Method:  res.Method,
			Value:   res.Value,
			Elapsed: time.Duration(math.Round(res.ElapsedSeconds * float64(time.Second))),
			Error:   errValue,
		})
	}
	return run
}
