// Package objective defines the functions solved or minimized during
// estimation.
//
// For OLS these are the normal equations (XᵀX)β = Xᵀy; for Logit the
// negative log-likelihood and its gradient. All functions are pure and treat
// their arguments as read-only.
package objective

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// LogEpsilon is added inside ln(p) and ln(1-p) in the Logit objective so that
// saturated probabilities stay finite. The value is fixed to reproduce
// reference estimates; it biases the objective slightly near p = 0 or 1.
const LogEpsilon = 1e-9

// OLSNormalEquations returns XᵀX and Xᵀy.
func OLSNormalEquations(x mat.Matrix, y mat.Vector) (*mat.SymDense, *mat.VecDense) {
	_, k := x.Dims()

	xtx := mat.NewSymDense(k, nil)
	xtx.SymOuterK(1, x.T())

	xty := mat.NewVecDense(k, nil)
	xty.MulVec(x.T(), y)

	return xtx, xty
}

// Sigmoid computes the logistic function 1/(1+e^-z) without overflow by
// keeping the argument of exp non-positive.
func Sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	ez := math.Exp(z)
	return ez / (1 + ez)
}

// LinearPredictor writes η = Xβ into dst, allocating it when nil.
func LinearPredictor(dst *mat.VecDense, beta []float64, x mat.Matrix) *mat.VecDense {
	n, k := x.Dims()
	if len(beta) != k {
		panic(mat.ErrShape)
	}
	if dst == nil {
		dst = mat.NewVecDense(n, nil)
	}
	dst.MulVec(x, mat.NewVecDense(k, beta))
	return dst
}

// LogitNegLogLikelihood returns
//
//	-Σ [ yᵢ ln(pᵢ + ε) + (1-yᵢ) ln(1-pᵢ + ε) ],  pᵢ = σ(xᵢᵀβ)
//
// with ε = LogEpsilon.
func LogitNegLogLikelihood(beta []float64, x mat.Matrix, y mat.Vector) float64 {
	eta := LinearPredictor(nil, beta, x)

	var nll float64
	for i := 0; i < eta.Len(); i++ {
		p := Sigmoid(eta.AtVec(i))
		yi := y.AtVec(i)
		nll -= yi*math.Log(p+LogEpsilon) + (1-yi)*math.Log(1-p+LogEpsilon)
	}
	return nll
}

// LogitGradient writes the analytic gradient Xᵀ(p - y) into grad. It omits
// the ε terms, so it differs from a finite-difference gradient by O(ε).
func LogitGradient(grad, beta []float64, x mat.Matrix, y mat.Vector) {
	n, k := x.Dims()
	if len(grad) != k {
		panic(mat.ErrShape)
	}

	eta := LinearPredictor(nil, beta, x)
	resid := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		resid.SetVec(i, Sigmoid(eta.AtVec(i))-y.AtVec(i))
	}

	g := mat.NewVecDense(k, grad)
	g.MulVec(x.T(), resid)
}

// Logit binds a design matrix and response into the Logit objective. Func
// and Grad fit optimize.Problem directly.
type Logit struct {
	X mat.Matrix
	Y mat.Vector
}

// NewLogit creates a Logit objective.
func NewLogit(x mat.Matrix, y mat.Vector) *Logit {
	return &Logit{X: x, Y: y}
}

// Func returns the negative log-likelihood at beta.
func (l *Logit) Func(beta []float64) float64 {
	return LogitNegLogLikelihood(beta, l.X, l.Y)
}

// Grad writes the analytic gradient at beta into grad.
func (l *Logit) Grad(grad, beta []float64) {
	LogitGradient(grad, beta, l.X, l.Y)
}

// LogLikelihood returns the exact log-likelihood at beta, without ε, for
// information criteria and pseudo-R².
func (l *Logit) LogLikelihood(beta []float64) float64 {
	eta := LinearPredictor(nil, beta, l.X)

	var ll float64
	for i := 0; i < eta.Len(); i++ {
		z := eta.AtVec(i)
		// ln σ(z) = -log1p(e^-z), ln(1-σ(z)) = -log1p(e^z)
		if l.Y.AtVec(i) == 1 {
			ll -= log1pExp(-z)
		} else {
			ll -= log1pExp(z)
		}
	}
	return ll
}

// log1pExp computes ln(1+e^z) without overflow.
func log1pExp(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}
