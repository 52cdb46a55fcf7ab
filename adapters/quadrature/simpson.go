package quadrature

import (
	"gointegral/domain/quadrature"
)

// SimpsonRule is the composite Simpson 1/3 rule
type SimpsonRule struct{}

// NewSimpsonRule creates Simpson's rule
func NewSimpsonRule() *SimpsonRule {
	return &SimpsonRule{}
}

// Name returns the display name
func (r *SimpsonRule) Name() string {
	return quadrature.MethodSimpson
}

// Description returns a human-readable description
func (r *SimpsonRule) Description() string {
	return "Composite Simpson 1/3 rule; exact for polynomials up to degree 3"
}

// Integrate applies Simpson
func (r *SimpsonRule) Integrate(f quadrature.Integrand, a, b float64, n int) (float64, error) {
	return Simpson(f, a, b, n)
}

// EffectivePartitions returns the partition count Simpson actually uses:
// n itself when even, n+1 when odd.
func EffectivePartitions(n int) int {
	if n%2 != 0 {
		return n + 1
	}
	return n
}

// Simpson computes dx/3 * (f(a) + f(b) + 4*sum_odd + 2*sum_even).
// An odd n is raised to n+1 here only; callers keep their own n.
func Simpson(f quadrature.Integrand, a, b float64, n int) (float64, error) {
	n = EffectivePartitions(n)

	dx, err := stepWidth(a, b, n)
	if err != nil {
		return 0, err
	}

	sum := f.Eval(a) + f.Eval(b)
	for i := 1; i < n; i++ {
		x := a + float64(i)*dx
		if i%2 == 0 {
			sum += 2 * f.Eval(x)
		} else {
			sum += 4 * f.Eval(x)
		}
	}
	return sum * dx / 3, nil
}
