package quadrature

import (
	"gointegral/domain/quadrature"
)

// TrapezoidRule weights the endpoints by half and interior nodes fully
type TrapezoidRule struct{}

// NewTrapezoidRule creates the trapezoidal rule
func NewTrapezoidRule() *TrapezoidRule {
	return &TrapezoidRule{}
}

// Name returns the display name
func (r *TrapezoidRule) Name() string {
	return quadrature.MethodTrapezoid
}

// Description returns a human-readable description
func (r *TrapezoidRule) Description() string {
	return "Composite trapezoidal rule; exact for affine functions"
}

// Integrate applies Trapezoid
func (r *TrapezoidRule) Integrate(f quadrature.Integrand, a, b float64, n int) (float64, error) {
	return Trapezoid(f, a, b, n)
}

// Trapezoid computes dx * (0.5(f(a)+f(b)) + sum_{i=1}^{n-1} f(a+i dx))
func Trapezoid(f quadrature.Integrand, a, b float64, n int) (float64, error) {
	dx, err := stepWidth(a, b, n)
	if err != nil {
		return 0, err
	}

	sum := 0.5 * (f.Eval(a) + f.Eval(b))
	for i := 1; i < n; i++ {
		sum += f.Eval(a + float64(i)*dx)
	}
	return sum * dx, nil
}
