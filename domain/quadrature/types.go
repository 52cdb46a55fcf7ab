package quadrature

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gointegral/domain/core"
)

// Integrand is a real function of one real variable that can be sampled at
// single points and over whole batches. Batch evaluation must return a slice
// of the same length as its input.
type Integrand interface {
	Eval(x float64) float64
	EvalBatch(xs []float64) []float64
}

// Func adapts a plain scalar function; the batch form loops over the scalar form.
type Func func(x float64) float64

// Eval evaluates f at x
func (f Func) Eval(x float64) float64 {
	return f(x)
}

// EvalBatch evaluates f elementwise
func (f Func) EvalBatch(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}
	return out
}

// VectorFunc pairs a scalar function with a dedicated batch implementation.
// A nil Batch falls back to elementwise scalar evaluation.
type VectorFunc struct {
	Scalar func(x float64) float64
	Batch  func(xs []float64) []float64
}

// Eval evaluates the scalar form at x
func (v VectorFunc) Eval(x float64) float64 {
	return v.Scalar(x)
}

// EvalBatch evaluates the batch form, if any
func (v VectorFunc) EvalBatch(xs []float64) []float64 {
	if v.Batch == nil {
		return Func(v.Scalar).EvalBatch(xs)
	}
	return v.Batch(xs)
}

// Method names in display order. The order is significant: it is the row
// order of every rendered comparison.
const (
	MethodMidpoint   = "Midpoint rectangles"
	MethodTrapezoid  = "Trapezoid"
	MethodSimpson    = "Simpson"
	MethodMonteCarlo = "Monte Carlo"
)

// MethodOrder lists the method names in display order
var MethodOrder = []string{MethodMidpoint, MethodTrapezoid, MethodSimpson, MethodMonteCarlo}

// Unavailable is the rendering of an error that cannot be computed because
// no exact value is known.
const Unavailable = "unavailable"

// ErrorValue is the absolute error of a result, or the unavailable sentinel
type ErrorValue struct {
	Value     float64
	Available bool
}

// AbsError returns an available error value
func AbsError(v float64) ErrorValue {
	return ErrorValue{Value: v, Available: true}
}

// NoError returns the unavailable sentinel
func NoError() ErrorValue {
	return ErrorValue{}
}

// String formats the error to 6 decimals, or N/A when unavailable
func (e ErrorValue) String() string {
	if !e.Available {
		return "N/A"
	}
	return fmt.Sprintf("%.6f", e.Value)
}

// MarshalJSON encodes a number, or the string "unavailable"
func (e ErrorValue) MarshalJSON() ([]byte, error) {
	if !e.Available {
		return json.Marshal(Unavailable)
	}
	return json.Marshal(e.Value)
}

// UnmarshalJSON accepts a number, null or the "unavailable" string
func (e *ErrorValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*e = NoError()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != Unavailable && s != "N/A" {
			return fmt.Errorf("invalid error value %q", s)
		}
		*e = NoError()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = AbsError(v)
	return nil
}

// MethodResult is one row of comparative output for a single method
type MethodResult struct {
	Method  string
	Value   float64
	Elapsed time.Duration
	Error   ErrorValue
}

// ElapsedSeconds returns the measured wall-clock time in seconds
func (r MethodResult) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

type methodResultJSON struct {
	Method         string     `json:"method"`
	Value          float64    `json:"value"`
	ElapsedSeconds float64    `json:"elapsed_seconds"`
	Error          ErrorValue `json:"error"`
}

// MarshalJSON encodes the elapsed time in seconds
func (r MethodResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(methodResultJSON{
		Method:         r.Method,
		Value:          r.Value,
		ElapsedSeconds: r.ElapsedSeconds(),
		Error:          r.Error,
	})
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON
func (r *MethodResult) UnmarshalJSON(data []byte) error {
	var raw methodResultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = MethodResult{
		Method:  raw.Method,
		Value:   raw.Value,
		Elapsed: time.Duration(math.Round(raw.ElapsedSeconds * float64(time.Second))),
		Error:   raw.Error,
	}
	return nil
}

// Run is a finished comparison together with the context it was computed in
type Run struct {
	ID        core.RunID     `json:"id"`
	Function  string         `json:"function"`
	A         float64        `json:"a"`
	B         float64        `json:"b"`
	N         int            `json:"n"`
	Exact     *float64       `json:"exact,omitempty"`
	Results   []MethodResult `json:"results"`
	CreatedAt time.Time      `json:"created_at"`
}

// Label describes the run the way sinks title it
func (r *Run) Label() string {
	return fmt.Sprintf("Function: %s, Interval: [%g, %g], Partitions: %d", r.Function, r.A, r.B, r.N)
}

// Result returns the row for a method name
func (r *Run) Result(method string) (MethodResult, bool) {
	for _, res := range r.Results {
		if res.Method == method {
			return res, true
		}
	}
	return MethodResult{}, false
}
