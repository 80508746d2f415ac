// Package optimize implements unconstrained minimization of smooth functions
// with the BFGS quasi-Newton method.
//
// The minimizer keeps an explicit approximation of the inverse Hessian, which
// callers may use as an asymptotic covariance estimate once the iteration has
// converged. Gradients are taken from Problem.Grad when present and estimated
// by finite differences otherwise.
package optimize

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statmodels/pkg/log"
)

// Problem describes the function to minimize.
type Problem struct {
	// Func evaluates the objective at x. It must not modify x.
	Func func(x []float64) float64

	// Grad writes the gradient at x into grad. When nil the gradient is
	// estimated by finite differences of Func.
	Grad func(grad, x []float64)
}

// Status is the reason a minimization stopped.
type Status int

const (
	// NotTerminated is the zero value and never appears in a Result.
	NotTerminated Status = iota
	// Success means the gradient infinity norm fell below the threshold.
	Success
	// IterationLimit means MaxIterations iterations ran without convergence.
	IterationLimit
	// LineSearchFailure means no step along the search direction produced a
	// sufficient decrease with a finite objective.
	LineSearchFailure
	// NonFiniteStart means the objective or its gradient was not finite at x0.
	NonFiniteStart
)

func (s Status) String() string {
	switch s {
	case NotTerminated:
		return "NotTerminated"
	case Success:
		return "Success"
	case IterationLimit:
		return "IterationLimit"
	case LineSearchFailure:
		return "LineSearchFailure"
	case NonFiniteStart:
		return "NonFiniteStart"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Converged reports whether s is a successful termination.
func (s Status) Converged() bool { return s == Success }

// Default settings.
const (
	DefaultGradientThreshold = 1e-5
	DefaultIterationsPerDim  = 200
	DefaultMaxLineSearch     = 40
	DefaultArmijoC1          = 1e-4
)

// FiniteDifference configures gradient estimation when Problem.Grad is nil.
type FiniteDifference struct {
	// Forward selects one-sided differences. Central differences are used
	// otherwise.
	Forward bool

	// Step is the relative step size; the step for component i is
	// Step·max(1, |x_i|). Zero selects √eps for forward and ∛eps for central
	// differences.
	Step float64
}

// Settings controls a minimization. Zero fields take their defaults.
type Settings struct {
	// GradientThreshold is the convergence tolerance on ‖g‖∞.
	GradientThreshold float64

	// MaxIterations bounds the number of BFGS iterations. Zero means
	// DefaultIterationsPerDim times the problem dimension.
	MaxIterations int

	// MaxLineSearch bounds the number of step halvings per iteration.
	MaxLineSearch int

	// ArmijoC1 is the sufficient decrease constant of the line search.
	ArmijoC1 float64

	FiniteDifference FiniteDifference

	// Concurrent is the number of goroutines used to evaluate
	// finite-difference gradient components. Values below 2 evaluate them
	// sequentially. Func must be safe for concurrent use when set.
	Concurrent int

	// ScaleInitialHessian rescales the identity to (yᵀs/yᵀy)·I before the
	// first update. The default keeps the plain identity, which reproduces
	// the iterates of SciPy's BFGS start.
	ScaleInitialHessian bool

	// Logger receives per-iteration progress at debug level.
	Logger log.Logger
}

// DefaultSettings returns the settings used when nil is passed to Minimize.
func DefaultSettings() Settings {
	return Settings{
		GradientThreshold: DefaultGradientThreshold,
		MaxLineSearch:     DefaultMaxLineSearch,
		ArmijoC1:          DefaultArmijoC1,
		Concurrent:        1,
	}
}

// withDefaults fills zero fields for a problem of dimension n.
func (s Settings) withDefaults(n int) Settings {
	if s.GradientThreshold == 0 {
		s.GradientThreshold = DefaultGradientThreshold
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = DefaultIterationsPerDim * n
	}
	if s.MaxLineSearch == 0 {
		s.MaxLineSearch = DefaultMaxLineSearch
	}
	if s.ArmijoC1 == 0 {
		s.ArmijoC1 = DefaultArmijoC1
	}
	if s.FiniteDifference.Step == 0 {
		if s.FiniteDifference.Forward {
			s.FiniteDifference.Step = math.Sqrt(epsilon)
		} else {
			s.FiniteDifference.Step = math.Cbrt(epsilon)
		}
	}
	s.Logger = log.OrNop(s.Logger)
	return s
}

// Result is the outcome of Minimize.
type Result struct {
	// X is the final iterate and F the objective there.
	X []float64
	F float64

	// Gradient is the gradient at X and GradNorm its infinity norm.
	Gradient []float64
	GradNorm float64

	// InvHessian is the BFGS approximation of the inverse Hessian at X.
	InvHessian *mat.SymDense

	Status    Status
	Converged bool
	Message   string

	Iterations      int
	FuncEvaluations int
	GradEvaluations int

	// SkippedUpdates counts iterations whose curvature yᵀs was not positive.
	SkippedUpdates int
	// Resets counts iterations where the quasi-Newton direction was replaced
	// by steepest descent.
	Resets int
}

func statusMessage(s Status) string {
	switch s {
	case Success:
		return "Optimization terminated successfully."
	case IterationLimit:
		return "Maximum number of iterations has been exceeded."
	case LineSearchFailure:
		return "Desired error not necessarily achieved due to precision loss."
	case NonFiniteStart:
		return "Objective or gradient is not finite at the starting point."
	default:
		return s.String()
	}
}
