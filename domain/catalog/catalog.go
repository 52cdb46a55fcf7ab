// Package catalog holds the sample functions used by the comparison scenario
// together with their exact integrals over the scenario interval.
package catalog

import (
	"fmt"
	"math"
	"strings"

	"gointegral/domain/core"
	"gointegral/domain/quadrature"
)

// Reference scenario parameters shared by every catalog run
const (
	DefaultA = 0.5
	DefaultB = 20.5
	DefaultN = 10
)

// Scenario is the interval and partition count a catalog is evaluated over
type Scenario struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	N int     `json:"n"`
}

// DefaultScenario returns a=0.5, b=20.5, n=10
func DefaultScenario() Scenario {
	return Scenario{A: DefaultA, B: DefaultB, N: DefaultN}
}

// SampleFunction bundles a named integrand with its exact integral over the
// interval the catalog was built for.
type SampleFunction struct {
	Name       string
	Expression string
	Integrand  quadrature.Integrand
	Exact      float64
	HasExact   bool
}

// ExactValue returns the exact integral, or nil when none is known
func (sf SampleFunction) ExactValue() *float64 {
	if !sf.HasExact {
		return nil
	}
	v := sf.Exact
	return &v
}

// New wraps an integrand that has no known exact value
func New(name, expression string, f quadrature.Integrand) SampleFunction {
	return SampleFunction{Name: name, Expression: expression, Integrand: f}
}

type entry struct {
	name       string
	expression string
	f          func(x float64) float64
	antideriv  func(x float64) float64
}

var entries = []entry{
	{
		name:       "F1",
		expression: "x^2 - 10x + 35",
		f:          func(x float64) float64 { return x*x - 10*x + 35 },
		antideriv:  func(x float64) float64 { return x*x*x/3 - 5*x*x + 35*x },
	},
	{
		name:       "F2",
		expression: "sin(x)",
		f:          math.Sin,
		antideriv:  func(x float64) float64 { return -math.Cos(x) },
	},
	{
		name:       "F3",
		expression: "exp(x)",
		f:          math.Exp,
		antideriv:  math.Exp,
	},
	{
		name:       "F4",
		expression: "2^x",
		f:          math.Exp2,
		antideriv:  func(x float64) float64 { return math.Exp2(x) / math.Ln2 },
	},
}

// Build evaluates the closed-form antiderivatives once over [a, b] and
// returns F1..F4 in catalog order.
func Build(a, b float64) []SampleFunction {
	out := make([]SampleFunction, 0, len(entries))
	for _, e := range entries {
		out = append(out, SampleFunction{
			Name:       e.name,
			Expression: e.expression,
			Integrand:  quadrature.Func(e.f),
			Exact:      e.antideriv(b) - e.antideriv(a),
			HasExact:   true,
		})
	}
	return out
}

// Reference returns the default scenario and the catalog built for it
func Reference() (Scenario, []SampleFunction) {
	s := DefaultScenario()
	return s, Build(s.A, s.B)
}

// Lookup finds a function by name, ignoring case
func Lookup(fns []SampleFunction, name string) (SampleFunction, error) {
	for _, sf := range fns {
		if strings.EqualFold(sf.Name, name) {
			return sf, nil
		}
	}
	return SampleFunction{}, fmt.Errorf("%w: %s", core.ErrFunctionNotFound, name)
}

// Names lists the catalog function names in order
func Names(fns []SampleFunction) []string {
	names := make([]string, len(fns))
	for i, sf := range fns {
		names[i] = sf.Name
	}
	return names
}
