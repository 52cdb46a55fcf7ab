package quadrature

import (
	"gointegral/domain/quadrature"
)

// MidpointRule samples each sub-interval at its midpoint
type MidpointRule struct{}

// NewMidpointRule creates the midpoint rectangle rule
func NewMidpointRule() *MidpointRule {
	return &MidpointRule{}
}

// Name returns the display name
func (r *MidpointRule) Name() string {
	return quadrature.MethodMidpoint
}

// Description returns a human-readable description
func (r *MidpointRule) Description() string {
	return "Rectangle rule sampled at sub-interval midpoints; exact for affine functions"
}

// Integrate applies Midpoint
func (r *MidpointRule) Integrate(f quadrature.Integrand, a, b float64, n int) (float64, error) {
	return Midpoint(f, a, b, n)
}

// Midpoint computes dx * sum f(a + (i+0.5)dx) over n equal sub-intervals
func Midpoint(f quadrature.Integrand, a, b float64, n int) (float64, error) {
	dx, err := stepWidth(a, b, n)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		sum += f.Eval(a + (float64(i)+0.5)*dx)
	}
	return sum * dx, nil
}
