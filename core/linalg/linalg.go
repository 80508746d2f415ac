// Package linalg holds the dense linear algebra used by the estimators:
// solving square systems with a conditioning check, inversion through the
// same solve, diagonal extraction and symmetric helpers.
//
// Every function treats its arguments as read-only; results are freshly
// allocated.
package linalg

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statmodels/pkg/errors"
)

// DefaultMaxCondition is the largest 1-norm condition number a matrix may
// have, after diagonal equilibration, before it is treated as numerically
// singular.
const DefaultMaxCondition = 1e12

// Solver solves linear systems, rejecting matrices whose condition number
// exceeds MaxCondition. The zero value uses DefaultMaxCondition.
//
// Matrices with a nonzero diagonal are equilibrated to D·A·D with
// D = diag(1/√|a_ii|) before factorization, so a column measured in large
// units does not by itself make a Gram matrix look singular. The condition
// number is that of the equilibrated matrix.
type Solver struct {
	MaxCondition float64
}

func (s Solver) maxCondition() float64 {
	if s.MaxCondition > 0 {
		return s.MaxCondition
	}
	return DefaultMaxCondition
}

// factorization is the LU decomposition of D·A·D. scale holds the diagonal
// of D and is nil when A was factorized unscaled.
type factorization struct {
	lu    mat.LU
	scale []float64
}

// equilibrate returns D for a, or nil when some diagonal entry is zero or
// not finite.
func equilibrate(a mat.Matrix) []float64 {
	n, _ := a.Dims()
	d := make([]float64, n)
	for i := range d {
		v := math.Abs(a.At(i, i))
		if v == 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil
		}
		d[i] = 1 / math.Sqrt(v)
	}
	return d
}

func newFactorization(a mat.Matrix) *factorization {
	f := &factorization{scale: equilibrate(a)}
	if f.scale == nil {
		f.lu.Factorize(a)
		return f
	}
	n, _ := a.Dims()
	scaled := mat.NewDense(n, n, nil)
	scaled.Apply(func(i, j int, v float64) float64 {
		return f.scale[i] * v * f.scale[j]
	}, a)
	f.lu.Factorize(scaled)
	return f
}

// factorize factorizes a and checks its condition estimate.
func (s Solver) factorize(op string, a mat.Matrix) (*factorization, error) {
	r, c := a.Dims()
	if r != c {
		return nil, errors.NewDimensionError(op, r, c, 1)
	}
	if r == 0 {
		return nil, errors.NewModelError(op, "empty matrix", errors.ErrEmptyData)
	}

	f := newFactorization(a)
	limit := s.maxCondition()
	cond := f.lu.Cond()
	if math.IsNaN(cond) || math.IsInf(cond, 0) || cond > limit {
		return nil, errors.NewSingularMatrixError(op, r, cond, limit)
	}
	return f, nil
}

// Condition returns the estimated 1-norm condition number of the
// equilibrated square matrix a (+Inf when a is exactly singular).
func (s Solver) Condition(a mat.Matrix) float64 {
	r, c := a.Dims()
	if r != c || r == 0 {
		return math.Inf(1)
	}
	return newFactorization(a).lu.Cond()
}

// Solve returns x such that a·x = b.
func (s Solver) Solve(a mat.Matrix, b mat.Vector) (*mat.VecDense, error) {
	const op = "linalg.Solve"
	f, err := s.factorize(op, a)
	if err != nil {
		return nil, err
	}
	n, _ := a.Dims()
	if b.Len() != n {
		return nil, errors.NewDimensionError(op, n, b.Len(), 0)
	}

	// (DAD)(D⁻¹x) = Db
	rhs := mat.VecDenseCopyOf(b)
	for i, d := range f.scale {
		rhs.SetVec(i, d*rhs.AtVec(i))
	}
	x := mat.NewVecDense(n, nil)
	if err := f.lu.SolveVecTo(x, false, rhs); err != nil {
		return nil, errors.NewSingularMatrixError(op, n, f.lu.Cond(), s.maxCondition())
	}
	for i, d := range f.scale {
		x.SetVec(i, d*x.AtVec(i))
	}
	return x, nil
}

// Invert returns a⁻¹ by solving against the identity.
func (s Solver) Invert(a mat.Matrix) (*mat.Dense, error) {
	const op = "linalg.Invert"
	f, err := s.factorize(op, a)
	if err != nil {
		return nil, err
	}
	n, _ := a.Dims()

	var inv mat.Dense
	if err := f.lu.SolveTo(&inv, false, Identity(n)); err != nil {
		return nil, errors.NewSingularMatrixError(op, n, f.lu.Cond(), s.maxCondition())
	}
	if f.scale != nil {
		// A⁻¹ = D (DAD)⁻¹ D
		inv.Apply(func(i, j int, v float64) float64 {
			return f.scale[i] * v * f.scale[j]
		}, &inv)
	}
	return &inv, nil
}

// Solve solves a·x = b with DefaultMaxCondition.
func Solve(a mat.Matrix, b mat.Vector) (*mat.VecDense, error) {
	return Solver{}.Solve(a, b)
}

// Invert inverts a with DefaultMaxCondition.
func Invert(a mat.Matrix) (*mat.Dense, error) {
	return Solver{}.Invert(a)
}

// Identity returns the n×n identity matrix.
func Identity(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}
	return id
}

// Diag returns the main diagonal of a.
func Diag(a mat.Matrix) []float64 {
	r, c := a.Dims()
	n := min(r, c)
	d := make([]float64, n)
	for i := range d {
		d[i] = a.At(i, i)
	}
	return d
}

// Symmetrize returns (a + aᵀ)/2 as a SymDense. a must be square.
func Symmetrize(a mat.Matrix) *mat.SymDense {
	n, c := a.Dims()
	if n != c {
		panic(mat.ErrSquare)
	}
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}
	return s
}

// MinEigenvalue returns the smallest eigenvalue of s, or NaN when the
// eigendecomposition fails.
func MinEigenvalue(s mat.Symmetric) float64 {
	var eig mat.EigenSym
	if !eig.Factorize(s, false) {
		return math.NaN()
	}
	vals := eig.Values(nil)
	if len(vals) == 0 {
		return math.NaN()
	}
	// EigenSym returns eigenvalues in ascending order.
	return vals[0]
}

// IsPositiveSemidefinite reports whether every eigenvalue of s is at least
// -tol·max(1, |λmax|).
func IsPositiveSemidefinite(s mat.Symmetric, tol float64) bool {
	var eig mat.EigenSym
	if !eig.Factorize(s, false) {
		return false
	}
	vals := eig.Values(nil)
	if len(vals) == 0 {
		return true
	}
	scale := math.Max(1, math.Abs(vals[len(vals)-1]))
	return vals[0] >= -tol*scale
}
