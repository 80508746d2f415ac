package optimize

import (
	"math"
	"sync/atomic"

	"github.com/YuminosukeSato/statmodels/core/parallel"
)

// epsilon is the float64 machine epsilon.
const epsilon = 2.220446049250313e-16

// counter wraps the objective and counts its evaluations. Finite
// differences may call it from several goroutines.
type counter struct {
	fn    func([]float64) float64
	evals atomic.Int64
}

func (c *counter) eval(x []float64) float64 {
	c.evals.Add(1)
	return c.fn(x)
}

// finiteDifference returns a gradient function estimating ∇f by differences
// of f. fx is f at x and is only used by the forward scheme.
func finiteDifference(f func([]float64) float64, fd FiniteDifference, concurrent int) func(grad, x []float64, fx float64) {
	return func(grad, x []float64, fx float64) {
		n := len(x)
		parallel.ParallelizeN(n, concurrent, func(start, end int) {
			xi := make([]float64, n)
			copy(xi, x)
			for i := start; i < end; i++ {
				h := fd.Step * math.Max(1, math.Abs(x[i]))
				orig := xi[i]

				xi[i] = orig + h
				// the representable step, not h itself
				up := xi[i] - orig
				fUp := f(xi)

				if fd.Forward {
					grad[i] = (fUp - fx) / up
				} else {
					xi[i] = orig - h
					down := orig - xi[i]
					fDown := f(xi)
					grad[i] = (fUp - fDown) / (up + down)
				}
				xi[i] = orig
			}
		})
	}
}

// Gradient estimates the gradient of f at x with central differences using
// the default step. It is exported for checking analytic gradients.
func Gradient(grad []float64, f func([]float64) float64, x []float64) []float64 {
	if grad == nil {
		grad = make([]float64, len(x))
	}
	if len(grad) != len(x) {
		panic("optimize: gradient length mismatch")
	}
	g := finiteDifference(f, FiniteDifference{Step: math.Cbrt(epsilon)}, 1)
	g(grad, x, math.NaN())
	return grad
}
