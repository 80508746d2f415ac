package estimator

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statmodels/core/linalg"
	"github.com/YuminosukeSato/statmodels/metrics"
	"github.com/YuminosukeSato/statmodels/objective"
	"github.com/YuminosukeSato/statmodels/pkg/errors"
	"github.com/YuminosukeSato/statmodels/pkg/log"
)

// OLS is the least-squares estimator solving (XᵀX)β = Xᵀy.
type OLS struct {
	solver linalg.Solver
	logger log.Logger
}

// NewOLS creates an OLS estimator.
func NewOLS(cfg Config) *OLS {
	return &OLS{
		solver: linalg.Solver{MaxCondition: cfg.MaxCondition},
		logger: log.OrNop(cfg.Logger),
	}
}

func (o *OLS) Kind() Kind { return KindOLS }

// Fit computes the coefficients, residuals, σ̂² = eᵀe/(n-k) and the
// covariance σ̂²(XᵀX)⁻¹. n ≤ k is rejected before solving.
func (o *OLS) Fit(x *mat.Dense, y *mat.VecDense) (*Estimate, error) {
	const op = "OLS.Fit"
	n, k, err := checkShape(op, x, y)
	if err != nil {
		return nil, err
	}
	if n <= k {
		return nil, errors.NewInsufficientDOFError(op, n, k)
	}
	df := n - k

	xtx, xty := objective.OLSNormalEquations(x, y)
	cond := o.solver.Condition(xtx)
	o.logger.Debug("solving normal equations",
		log.SamplesKey, n,
		log.FeaturesKey, k,
		log.ConditionKey, cond,
	)

	beta, err := o.solver.Solve(xtx, xty)
	if err != nil {
		return nil, err
	}

	// e = y - Xβ
	fitted := mat.NewVecDense(n, nil)
	fitted.MulVec(x, beta)
	resid := mat.NewVecDense(n, nil)
	resid.SubVec(y, fitted)

	rss := mat.Dot(resid, resid)
	sigma2 := rss / float64(df)

	xtxInv, err := o.solver.Invert(xtx)
	if err != nil {
		return nil, err
	}
	xtxInv.Scale(sigma2, xtxInv)

	return &Estimate{
		Coefficients:  mat.Col(nil, 0, beta),
		Covariance:    linalg.Symmetrize(xtxInv),
		DF:            df,
		NObs:          n,
		Residuals:     mat.Col(nil, 0, resid),
		Sigma2:        sigma2,
		LogLikelihood: metrics.GaussianLogLikelihood(rss, n),
		Diagnostics: &Diagnostics{
			Converged: true,
			Status:    "ClosedForm",
			Message:   "closed-form solution of the normal equations",
			Condition: cond,
		},
	}, nil
}
