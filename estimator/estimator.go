// Package estimator estimates regression coefficients and their covariance
// from a design matrix and a response vector.
//
// OLS has a closed-form solution through the normal equations; Logit is fit
// by maximum likelihood with BFGS. Estimators never modify their inputs and
// return identical results for identical inputs.
package estimator

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statmodels/optimize"
	"github.com/YuminosukeSato/statmodels/pkg/errors"
	"github.com/YuminosukeSato/statmodels/pkg/log"
)

// Kind selects the regression family.
type Kind int

const (
	// KindOLS is linear regression by ordinary least squares.
	KindOLS Kind = iota
	// KindLogit is binary logistic regression.
	KindLogit
)

func (k Kind) String() string {
	switch k {
	case KindOLS:
		return "ols"
	case KindLogit:
		return "logit"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindOLS || k == KindLogit
}

// ParseKind parses "ols" or "logit", ignoring case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ols":
		return KindOLS, nil
	case "logit":
		return KindLogit, nil
	}
	return 0, errors.NewValidationError("kind", "unknown model kind, expected \"ols\" or \"logit\"", s)
}

// Estimator is the fitting procedure of one regression family.
type Estimator interface {
	Kind() Kind
	Fit(x *mat.Dense, y *mat.VecDense) (*Estimate, error)
}

// Diagnostics describes how an estimate was obtained.
type Diagnostics struct {
	Converged       bool
	Status          string
	Message         string
	Iterations      int
	FuncEvaluations int
	GradEvaluations int
	GradNorm        float64
	SkippedUpdates  int
	// Condition is the estimated condition number of the equilibrated XᵀX
	// (OLS only).
	Condition float64
}

// Estimate is the outcome of one fit.
type Estimate struct {
	Coefficients []float64
	Covariance   *mat.SymDense
	// DF is the residual degrees of freedom n - k.
	DF   int
	NObs int

	// Residuals and Sigma2 are set for OLS only.
	Residuals []float64
	Sigma2    float64

	LogLikelihood float64
	Diagnostics   *Diagnostics
}

// Config configures an estimator.
type Config struct {
	// MaxCondition bounds the condition number of XᵀX for OLS. Zero uses
	// linalg.DefaultMaxCondition.
	MaxCondition float64
	// Optimizer holds the BFGS settings for Logit.
	Optimizer optimize.Settings
	// AnalyticGradient makes Logit use the analytic gradient instead of
	// finite differences.
	AnalyticGradient bool
	Logger           log.Logger
}

// New returns the estimator for kind.
func New(kind Kind, cfg Config) (Estimator, error) {
	switch kind {
	case KindOLS:
		return NewOLS(cfg), nil
	case KindLogit:
		return NewLogit(cfg), nil
	}
	return nil, errors.NewValidationError("kind", "unknown model kind", kind.String())
}

func checkShape(op string, x *mat.Dense, y *mat.VecDense) (n, k int, err error) {
	if x == nil || y == nil {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if x.IsEmpty() {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	n, k = x.Dims()
	if y.Len() != n {
		return 0, 0, errors.NewDimensionError(op, n, y.Len(), 0)
	}
	return n, k, nil
}
