package optimize

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statmodels/pkg/errors"
	"github.com/YuminosukeSato/statmodels/pkg/log"
)

// bfgsState is the iterate owned by a single Minimize call.
type bfgsState struct {
	x    []float64
	f    float64
	grad []float64

	// invHess approximates the inverse Hessian at x.
	invHess *mat.SymDense
	// scaleInit requests the (yᵀs/yᵀy)·I rescaling before the first update;
	// scaled records that it happened.
	scaleInit bool
	scaled    bool
	// updated is set while invHess differs from the identity.
	updated bool

	iter     int
	gevals   int
	skipped  int
	resets   int
	stepSize float64
}

// Minimize minimizes p.Func starting from x0 with BFGS and a backtracking
// Armijo line search. A nil settings uses DefaultSettings. The inverse
// Hessian starts as the identity unless Settings.ScaleInitialHessian is set.
//
// An error is returned only for a malformed problem. Failure to converge is
// reported through Result.Status and a ConvergenceWarning.
func Minimize(p Problem, x0 []float64, settings *Settings) (*Result, error) {
	if p.Func == nil {
		return nil, errors.NewValueError("optimize.Minimize", "objective function is nil")
	}
	n := len(x0)
	if n == 0 {
		return nil, errors.NewValueError("optimize.Minimize", "starting point is empty")
	}

	s := DefaultSettings()
	if settings != nil {
		s = *settings
	}
	if err := validateSettings(s); err != nil {
		return nil, err
	}
	s = s.withDefaults(n)

	obj := &counter{fn: p.Func}
	var gradAt func(grad, x []float64, fx float64)
	if p.Grad != nil {
		gradAt = func(grad, x []float64, _ float64) { p.Grad(grad, x) }
	} else {
		gradAt = finiteDifference(obj.eval, s.FiniteDifference, s.Concurrent)
	}

	st := &bfgsState{
		x:         append([]float64(nil), x0...),
		grad:      make([]float64, n),
		invHess:   identity(n),
		scaleInit: s.ScaleInitialHessian,
	}
	st.f = obj.eval(st.x)

	status := run(st, obj, gradAt, s)

	res := &Result{
		X:               st.x,
		F:               st.f,
		Gradient:        st.grad,
		GradNorm:        floats.Norm(st.grad, math.Inf(1)),
		InvHessian:      st.invHess,
		Status:          status,
		Converged:       status.Converged(),
		Message:         statusMessage(status),
		Iterations:      st.iter,
		FuncEvaluations: int(obj.evals.Load()),
		GradEvaluations: st.gevals,
		SkippedUpdates:  st.skipped,
		Resets:          st.resets,
	}

	s.Logger.Debug("bfgs finished",
		log.StatusKey, status.String(),
		log.IterationKey, res.Iterations,
		log.ObjectiveKey, res.F,
		log.GradNormKey, res.GradNorm,
		log.FuncEvalsKey, res.FuncEvaluations,
		log.GradEvalsKey, res.GradEvaluations,
	)
	if !res.Converged {
		errors.Warn(errors.NewConvergenceWarning("BFGS", res.Iterations, res.Message))
	}
	return res, nil
}

func validateSettings(s Settings) error {
	switch {
	case s.GradientThreshold < 0 || math.IsNaN(s.GradientThreshold):
		return errors.NewValidationError("GradientThreshold", "must be non-negative", s.GradientThreshold)
	case s.MaxIterations < 0:
		return errors.NewValidationError("MaxIterations", "must be non-negative", s.MaxIterations)
	case s.MaxLineSearch < 0:
		return errors.NewValidationError("MaxLineSearch", "must be non-negative", s.MaxLineSearch)
	case s.ArmijoC1 < 0 || s.ArmijoC1 >= 1:
		return errors.NewValidationError("ArmijoC1", "must be in [0, 1)", s.ArmijoC1)
	case s.FiniteDifference.Step < 0:
		return errors.NewValidationError("FiniteDifference.Step", "must be non-negative", s.FiniteDifference.Step)
	}
	return nil
}

// run iterates until a termination condition holds and returns it.
func run(st *bfgsState, obj *counter, gradAt func(grad, x []float64, fx float64), s Settings) Status {
	n := len(st.x)
	if !isFinite(st.f) {
		return NonFiniteStart
	}
	gradAt(st.grad, st.x, st.f)
	st.gevals++
	if !allFinite(st.grad) {
		return NonFiniteStart
	}

	dir := make([]float64, n)
	xNew := make([]float64, n)
	gNew := make([]float64, n)
	sVec := make([]float64, n)
	yVec := make([]float64, n)
	debug := s.Logger.Enabled(context.Background(), log.LevelDebug)

	for {
		gnorm := floats.Norm(st.grad, math.Inf(1))
		if debug {
			s.Logger.Debug("bfgs iteration",
				log.IterationKey, st.iter,
				log.ObjectiveKey, st.f,
				log.GradNormKey, gnorm,
				log.StepKey, st.stepSize,
			)
		}
		if gnorm <= s.GradientThreshold {
			return Success
		}
		if st.iter >= s.MaxIterations {
			return IterationLimit
		}

		// d = -H g
		d := mat.NewVecDense(n, dir)
		d.MulVec(st.invHess, mat.NewVecDense(n, st.grad))
		floats.Scale(-1, dir)
		slope := floats.Dot(st.grad, dir)
		if !(slope < 0) {
			st.resetDirection(dir)
			slope = floats.Dot(st.grad, dir)
		}

		step, fNew, ok := lineSearch(obj, st.x, st.f, dir, slope, xNew, s)
		if !ok && st.updated {
			// retry once along steepest descent before giving up
			st.resetDirection(dir)
			slope = floats.Dot(st.grad, dir)
			step, fNew, ok = lineSearch(obj, st.x, st.f, dir, slope, xNew, s)
		}
		if !ok {
			return LineSearchFailure
		}

		gradAt(gNew, xNew, fNew)
		st.gevals++
		if !allFinite(gNew) {
			return LineSearchFailure
		}

		floats.SubTo(sVec, xNew, st.x)
		floats.SubTo(yVec, gNew, st.grad)
		st.update(sVec, yVec)

		copy(st.x, xNew)
		copy(st.grad, gNew)
		st.f = fNew
		st.stepSize = step
		st.iter++
	}
}

// resetDirection restores the identity inverse Hessian and sets dir to the
// steepest descent direction.
func (st *bfgsState) resetDirection(dir []float64) {
	st.invHess = identity(len(st.x))
	st.scaled = false
	st.updated = false
	st.resets++
	floats.ScaleTo(dir, -1, st.grad)
}

// update applies the BFGS inverse-Hessian update
//
//	H⁺ = (I - ρsyᵀ) H (I - ρysᵀ) + ρssᵀ,  ρ = 1/yᵀs
//
// skipping it when the curvature yᵀs is not positive.
func (st *bfgsState) update(s, y []float64) {
	ys := floats.Dot(y, s)
	if !(ys > 0) || math.IsInf(ys, 0) {
		st.skipped++
		errors.Warn(errors.NewCurvatureWarning(st.iter, ys))
		return
	}
	n := len(s)

	if st.scaleInit && !st.scaled {
		// H₀ = (yᵀs / yᵀy) I before the first update
		yy := floats.Dot(y, y)
		st.invHess = identity(n)
		st.invHess.ScaleSym(ys/yy, st.invHess)
		st.scaled = true
	}

	rho := 1 / ys
	sv := mat.NewVecDense(n, s)
	hy := mat.NewVecDense(n, nil)
	hy.MulVec(st.invHess, mat.NewVecDense(n, y))
	yhy := floats.Dot(y, hy.RawVector().Data)

	st.invHess.RankTwo(st.invHess, -rho, hy, sv)
	st.invHess.SymRankOne(st.invHess, rho*rho*yhy+rho, sv)
	st.updated = true
}

// lineSearch backtracks from a unit step along dir, halving until the Armijo
// condition f(x+αd) ≤ f(x) + c₁α∇fᵀd holds with a finite value. The accepted
// point is written to xNew.
func lineSearch(obj *counter, x []float64, f float64, dir []float64, slope float64, xNew []float64, s Settings) (step, fNew float64, ok bool) {
	step = 1
	for i := 0; i <= s.MaxLineSearch; i++ {
		floats.AddScaledTo(xNew, x, step, dir)
		fNew = obj.eval(xNew)
		if isFinite(fNew) && fNew <= f+s.ArmijoC1*step*slope {
			return step, fNew, true
		}
		step *= 0.5
	}
	return 0, f, false
}

func identity(n int) *mat.SymDense {
	h := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		h.SetSym(i, i, 1)
	}
	return h
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if !isFinite(x) {
			return false
		}
	}
	return true
}
