// Package quadrature implements the fixed-grid and stochastic integration
// rules compared by the harness.
//
// The rules are pure numeric kernels: they do not validate the interval and
// do not inspect the values the integrand returns. The only input they reject
// is a non-positive partition count, which in floating point would otherwise
// silently produce an infinite step width.
package quadrature

import (
	"strings"

	"gointegral/domain/core"
	"gointegral/domain/quadrature"
)

// Method is one integration rule
type Method interface {
	Name() string
	Description() string
	Integrate(f quadrature.Integrand, a, b float64, n int) (float64, error)
}

// Engine holds the methods in display order
type Engine struct {
	methods []Method
}

// NewEngine creates an engine with midpoint, trapezoid, Simpson and Monte
// Carlo, in that order. A nil mc uses a time-seeded Monte Carlo rule.
func NewEngine(mc *MonteCarlo) *Engine {
	if mc == nil {
		mc = NewMonteCarlo(nil)
	}
	return &Engine{
		methods: []Method{
			NewMidpointRule(),
			NewTrapezoidRule(),
			NewSimpsonRule(),
			mc,
		},
	}
}

// Methods returns the methods in display order
func (e *Engine) Methods() []Method {
	out := make([]Method, len(e.methods))
	copy(out, e.methods)
	return out
}

// Method finds a method by display name, ignoring case
func (e *Engine) Method(name string) (Method, bool) {
	for _, m := range e.methods {
		if strings.EqualFold(m.Name(), strings.TrimSpace(name)) {
			return m, true
		}
	}
	return nil, false
}

// stepWidth returns (b-a)/n, rejecting n <= 0
func stepWidth(a, b float64, n int) (float64, error) {
	if n <= 0 {
		return 0, core.ErrNonPositivePartitions
	}
	return (b - a) / float64(n), nil
}
