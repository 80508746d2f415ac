package linalg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statmodels/pkg/errors"
)

func TestSolve(t *testing.T) {
	a := mat.NewDense(3, 3, []float64{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	})
	want := []float64{1, -2, 3}
	b := mat.NewVecDense(3, nil)
	b.MulVec(a, mat.NewVecDense(3, want))

	aBefore := mat.DenseCopyOf(a)
	bBefore := mat.VecDenseCopyOf(b)

	x, err := Solve(a, b)
	require.NoError(t, err)
	for i, w := range want {
		assert.InDelta(t, w, x.AtVec(i), 1e-12)
	}

	assert.True(t, mat.Equal(a, aBefore), "Solve must not modify its matrix argument")
	assert.True(t, mat.Equal(b, bBefore), "Solve must not modify its vector argument")
}

func TestSolveDimensionMismatch(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	_, err := Solve(a, mat.NewVecDense(3, nil))
	require.Error(t, err)

	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = Invert(mat.NewDense(2, 3, nil))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestInvert(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{2, 1, 1, 3})
	inv, err := Invert(a)
	require.NoError(t, err)

	var prod mat.Dense
	prod.Mul(a, inv)
	assert.True(t, mat.EqualApprox(&prod, Identity(2), 1e-12))

	// 1/5 * [3 -1; -1 2]
	assert.InDelta(t, 0.6, inv.At(0, 0), 1e-12)
	assert.InDelta(t, -0.2, inv.At(0, 1), 1e-12)
	assert.InDelta(t, 0.4, inv.At(1, 1), 1e-12)
}

func TestSingularMatrix(t *testing.T) {
	tests := []struct {
		name string
		a    *mat.Dense
	}{
		{
			name: "exactly singular",
			a: mat.NewDense(2, 2, []float64{
				1, 2,
				2, 4,
			}),
		},
		{
			name: "zero matrix",
			a:    mat.NewDense(3, 3, nil),
		},
		{
			name: "gram matrix of duplicated column",
			a: func() *mat.Dense {
				x := mat.NewDense(4, 3, []float64{
					1, 0.5, 0.5,
					1, 1.5, 1.5,
					1, 2.0, 2.0,
					1, 3.7, 3.7,
				})
				var g mat.Dense
				g.Mul(x.T(), x)
				return &g
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Invert(tt.a)
			require.Error(t, err)
			assert.True(t, errors.IsSingularMatrix(err))
			assert.True(t, errors.Is(err, errors.ErrSingularMatrix))

			var singular *errors.SingularMatrixError
			require.True(t, errors.As(err, &singular))
			assert.Equal(t, DefaultMaxCondition, singular.Threshold)

			n, _ := tt.a.Dims()
			_, err = Solve(tt.a, mat.NewVecDense(n, nil))
			assert.True(t, errors.IsSingularMatrix(err))
		})
	}
}

func TestSolverMaxCondition(t *testing.T) {
	// 1-norm condition number ≈ 4/δ
	const delta = 1e-6
	a := mat.NewDense(2, 2, []float64{
		1, 1,
		1, 1 + delta,
	})

	_, err := Solver{}.Invert(a)
	require.NoError(t, err)

	_, err = Solver{MaxCondition: 1e3}.Invert(a)
	require.Error(t, err)
	assert.True(t, errors.IsSingularMatrix(err))

	assert.InEpsilon(t, 4/delta, Solver{}.Condition(a), 0.1)
	assert.True(t, math.IsInf(Solver{}.Condition(mat.NewDense(2, 2, nil)), 1))
}

func TestSolveBadlyScaled(t *testing.T) {
	// the diagonal spans 12 orders of magnitude; equilibrated it is
	// [1 .2 3; .2 1 .5; 3 .5 1]
	a := mat.NewDense(3, 3, []float64{
		1e12, 2e5, 3e6,
		2e5, 1, 0.5,
		3e6, 0.5, 1,
	})
	assert.Less(t, Solver{}.Condition(a), 1e3)

	want := []float64{2e-6, -3, 0.25}
	b := mat.NewVecDense(3, nil)
	b.MulVec(a, mat.NewVecDense(3, want))

	x, err := Solve(a, b)
	require.NoError(t, err)
	for i, w := range want {
		assert.InEpsilon(t, w, x.AtVec(i), 1e-8)
	}

	inv, err := Invert(a)
	require.NoError(t, err)
	var prod mat.Dense
	prod.Mul(a, inv)
	assert.True(t, mat.EqualApprox(&prod, Identity(3), 1e-8))
}

func TestDiag(t *testing.T) {
	a := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	assert.Equal(t, []float64{1, 5}, Diag(a))
	assert.Equal(t, []float64{1, 1, 1}, Diag(Identity(3)))
}

func TestSymmetrize(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{
		1, 2,
		4, 3,
	})
	s := Symmetrize(a)
	assert.Equal(t, 3.0, s.At(0, 1))
	assert.Equal(t, 3.0, s.At(1, 0))
	assert.Equal(t, 1.0, s.At(0, 0))
	assert.Equal(t, 3.0, s.At(1, 1))

	assert.Panics(t, func() { Symmetrize(mat.NewDense(2, 3, nil)) })
}

func TestPositiveSemidefinite(t *testing.T) {
	pd := mat.NewSymDense(2, []float64{2, 1, 1, 2})
	assert.True(t, IsPositiveSemidefinite(pd, 1e-12))
	assert.InDelta(t, 1.0, MinEigenvalue(pd), 1e-12)

	indefinite := mat.NewSymDense(2, []float64{1, 2, 2, 1})
	assert.False(t, IsPositiveSemidefinite(indefinite, 1e-12))
	assert.InDelta(t, -1.0, MinEigenvalue(indefinite), 1e-12)
}
