package estimator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statmodels/core/linalg"
	"github.com/YuminosukeSato/statmodels/objective"
	"github.com/YuminosukeSato/statmodels/optimize"
	"github.com/YuminosukeSato/statmodels/pkg/errors"
)

func init() {
	errors.SetWarningHandler(func(error) {})
}

// linearData returns an n×3 design (two regressors and a constant) and
// y = 1.5·x₁ − 0.7·x₂ + 2 + noise·N(0,1).
func linearData(n int, noise float64, seed int64) (*mat.Dense, *mat.VecDense) {
	rng := rand.New(rand.NewSource(seed))
	x := mat.NewDense(n, 3, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x1 := rng.Float64()*10 - 5
		x2 := rng.NormFloat64() * 2
		x.Set(i, 0, x1)
		x.Set(i, 1, x2)
		x.Set(i, 2, 1)
		y.SetVec(i, 1.5*x1-0.7*x2+2+noise*rng.NormFloat64())
	}
	return x, y
}

// logitData draws 101 noisy binary responses from three regressors and a
// constant with true coefficients (1, −2, 0.5, 0.3).
func logitData(seed int64) (*mat.Dense, *mat.VecDense) {
	const n = 101
	rng := rand.New(rand.NewSource(seed))
	beta := []float64{1, -2, 0.5, 0.3}
	x := mat.NewDense(n, 4, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		eta := beta[3]
		for j := 0; j < 3; j++ {
			v := rng.NormFloat64()
			x.Set(i, j, v)
			eta += beta[j] * v
		}
		x.Set(i, 3, 1)
		if rng.Float64() < objective.Sigmoid(eta) {
			y.SetVec(i, 1)
		}
	}
	return x, y
}

func assertSymmetricPSD(t *testing.T, cov *mat.SymDense) {
	t.Helper()
	k := cov.SymmetricDim()
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			assert.Equal(t, cov.At(i, j), cov.At(j, i))
		}
	}
	assert.True(t, linalg.IsPositiveSemidefinite(cov, 1e-10), "covariance is not positive semidefinite")
}

func TestKind(t *testing.T) {
	assert.Equal(t, "ols", KindOLS.String())
	assert.Equal(t, "logit", KindLogit.String())
	assert.False(t, Kind(7).Valid())

	k, err := ParseKind(" Logit ")
	require.NoError(t, err)
	assert.Equal(t, KindLogit, k)

	_, err = ParseKind("probit")
	assert.True(t, errors.IsValidation(err))

	_, err = New(Kind(7), Config{})
	assert.True(t, errors.IsValidation(err))

	est, err := New(KindLogit, Config{})
	require.NoError(t, err)
	assert.Equal(t, KindLogit, est.Kind())
}

func TestOLSExactRecovery(t *testing.T) {
	x, _ := linearData(30, 0, 1)
	want := []float64{1.5, -0.7, 2}
	y := mat.NewVecDense(30, nil)
	y.MulVec(x, mat.NewVecDense(3, want))

	est, err := NewOLS(Config{}).Fit(x, y)
	require.NoError(t, err)
	for i, w := range want {
		assert.InDelta(t, w, est.Coefficients[i], 1e-8)
	}
	assert.InDelta(t, 0, est.Sigma2, 1e-12)
	assert.Equal(t, 27, est.DF)
	assert.Equal(t, 30, est.NObs)
	assert.True(t, est.Diagnostics.Converged)
}

func TestOLSNoisyFit(t *testing.T) {
	x, y := linearData(200, 0.5, 2)
	xBefore := mat.DenseCopyOf(x)
	yBefore := mat.VecDenseCopyOf(y)

	est, err := NewOLS(Config{}).Fit(x, y)
	require.NoError(t, err)

	assert.True(t, mat.Equal(x, xBefore))
	assert.True(t, mat.Equal(y, yBefore))

	assert.InDelta(t, 1.5, est.Coefficients[0], 0.1)
	assert.InDelta(t, -0.7, est.Coefficients[1], 0.1)
	assert.InDelta(t, 2, est.Coefficients[2], 0.2)
	assert.InDelta(t, 0.25, est.Sigma2, 0.1)

	// normal equations: Xᵀe = 0
	xte := mat.NewVecDense(3, nil)
	xte.MulVec(x.T(), mat.NewVecDense(len(est.Residuals), est.Residuals))
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0, xte.AtVec(i), 1e-8)
	}

	assertSymmetricPSD(t, est.Covariance)
	assert.False(t, math.IsInf(est.LogLikelihood, 0))
	assert.Positive(t, est.Diagnostics.Condition)
}

func TestOLSDeterministic(t *testing.T) {
	x, y := linearData(50, 1, 3)
	first, err := NewOLS(Config{}).Fit(x, y)
	require.NoError(t, err)
	second, err := NewOLS(Config{}).Fit(x, y)
	require.NoError(t, err)

	assert.Equal(t, first.Coefficients, second.Coefficients)
	assert.True(t, mat.Equal(first.Covariance, second.Covariance))
}

func TestOLSInsufficientDOF(t *testing.T) {
	x := mat.NewDense(3, 3, []float64{
		1, 0, 1,
		0, 1, 1,
		1, 1, 1,
	})
	y := mat.NewVecDense(3, []float64{1, 2, 3})

	_, err := NewOLS(Config{}).Fit(x, y)
	require.Error(t, err)
	assert.True(t, errors.IsInsufficientDOF(err))

	var dof *errors.InsufficientDOFError
	require.True(t, errors.As(err, &dof))
	assert.Equal(t, 0, dof.DF())
}

func TestOLSCollinear(t *testing.T) {
	x, y := linearData(40, 0.3, 4)
	dup := mat.NewDense(40, 4, nil)
	dup.Augment(x, x.ColView(0))

	_, err := NewOLS(Config{}).Fit(dup, y)
	require.Error(t, err)
	assert.True(t, errors.IsSingularMatrix(err))
}

// scaledData returns a design [a, b, 1] where a is centred on scale, and
// y = 2 + 3a/scale + b + 0.5·N(0,1). The same seed yields the same draws for
// every scale.
func scaledData(n int, scale float64, seed int64) (*mat.Dense, *mat.VecDense) {
	rng := rand.New(rand.NewSource(seed))
	x := mat.NewDense(n, 3, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		u := 1 + 0.3*rng.NormFloat64()
		b := rng.NormFloat64()
		x.Set(i, 0, scale*u)
		x.Set(i, 1, b)
		x.Set(i, 2, 1)
		y.SetVec(i, 2+3*u+b+0.5*rng.NormFloat64())
	}
	return x, y
}

func TestOLSLargeScalePredictor(t *testing.T) {
	ref, err := NewOLS(Config{}).Fit(scaledData(200, 1, 6))
	require.NoError(t, err)

	for _, scale := range []float64{1e3, 1e6, 1e8} {
		est, err := NewOLS(Config{}).Fit(scaledData(200, scale, 6))
		require.NoError(t, err, "scale %g", scale)

		assert.InEpsilon(t, 3/scale, est.Coefficients[0], 0.2, "scale %g", scale)
		assert.InEpsilon(t, ref.Coefficients[0], est.Coefficients[0]*scale, 1e-6, "scale %g", scale)
		assert.InEpsilon(t, ref.Coefficients[1], est.Coefficients[1], 1e-6, "scale %g", scale)
		assert.InEpsilon(t, ref.Coefficients[2], est.Coefficients[2], 1e-6, "scale %g", scale)
		assert.InEpsilon(t, ref.Sigma2, est.Sigma2, 1e-6, "scale %g", scale)
		assert.Less(t, est.Diagnostics.Condition, 1e4, "scale %g", scale)
	}

	x, y := scaledData(200, 1e6, 6)
	dup := mat.NewDense(200, 4, nil)
	dup.Augment(x, x.ColView(0))
	_, err = NewOLS(Config{}).Fit(dup, y)
	require.Error(t, err)
	assert.True(t, errors.IsSingularMatrix(err))
}

func TestOLSDimensionMismatch(t *testing.T) {
	x, _ := linearData(10, 0, 5)
	_, err := NewOLS(Config{}).Fit(x, mat.NewVecDense(9, nil))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestLogitFit(t *testing.T) {
	x, y := logitData(11)

	est, err := NewLogit(Config{}).Fit(x, y)
	require.NoError(t, err)
	require.Len(t, est.Coefficients, 4)

	d := est.Diagnostics
	assert.True(t, d.Converged)
	assert.LessOrEqual(t, d.GradNorm, optimize.DefaultGradientThreshold)
	assert.Positive(t, d.Iterations)
	assert.Positive(t, d.FuncEvaluations)

	assert.Positive(t, est.Coefficients[0])
	assert.Negative(t, est.Coefficients[1])
	for _, b := range est.Coefficients {
		assert.False(t, math.IsNaN(b) || math.IsInf(b, 0))
	}

	assertSymmetricPSD(t, est.Covariance)
	for i := 0; i < 4; i++ {
		assert.Positive(t, est.Covariance.At(i, i))
	}
	assert.Equal(t, 97, est.DF)
	assert.Negative(t, est.LogLikelihood)
}

func TestLogitDeterministic(t *testing.T) {
	x, y := logitData(14)
	first, err := NewLogit(Config{}).Fit(x, y)
	require.NoError(t, err)

	for _, cfg := range []Config{
		{},
		{Optimizer: optimize.Settings{Concurrent: 4}},
	} {
		again, err := NewLogit(cfg).Fit(x, y)
		require.NoError(t, err)
		assert.Equal(t, first.Coefficients, again.Coefficients)
		assert.True(t, mat.Equal(first.Covariance, again.Covariance))
		assert.Equal(t, first.LogLikelihood, again.LogLikelihood)
		assert.Equal(t, *first.Diagnostics, *again.Diagnostics)
	}
}

func TestLogitAnalyticGradientAgrees(t *testing.T) {
	x, y := logitData(12)

	fd, err := NewLogit(Config{}).Fit(x, y)
	require.NoError(t, err)
	an, err := NewLogit(Config{AnalyticGradient: true}).Fit(x, y)
	require.NoError(t, err)

	for i := range fd.Coefficients {
		assert.InDelta(t, fd.Coefficients[i], an.Coefficients[i], 1e-4)
	}
}

func TestLogitSeparable(t *testing.T) {
	x := mat.NewDense(6, 2, []float64{
		-3, 1,
		-2, 1,
		-1, 1,
		1, 1,
		2, 1,
		3, 1,
	})
	y := mat.NewVecDense(6, []float64{0, 0, 0, 1, 1, 1})

	est, err := NewLogit(Config{}).Fit(x, y)
	require.NoError(t, err)
	assert.LessOrEqual(t, est.Diagnostics.GradNorm, optimize.DefaultGradientThreshold)
	assert.Positive(t, est.Coefficients[0])
}

func TestLogitRejectsNonBinaryResponse(t *testing.T) {
	x, y := logitData(13)
	y.SetVec(5, 0.5)

	_, err := NewLogit(Config{}).Fit(x, y)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestLogitConvergenceError(t *testing.T) {
	x, y := logitData(14)
	cfg := Config{Optimizer: optimize.Settings{MaxIterations: 1}}

	_, err := NewLogit(cfg).Fit(x, y)
	require.Error(t, err)
	assert.True(t, errors.IsNotConverged(err))

	var ce *errors.ConvergenceError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.Iterations)
	assert.Equal(t, optimize.IterationLimit.String(), ce.Status)
	assert.Greater(t, ce.GradNorm, optimize.DefaultGradientThreshold)
}
