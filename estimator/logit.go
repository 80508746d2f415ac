package estimator

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statmodels/objective"
	"github.com/YuminosukeSato/statmodels/optimize"
	"github.com/YuminosukeSato/statmodels/pkg/errors"
	"github.com/YuminosukeSato/statmodels/pkg/log"
)

// Logit fits binary logistic regression by minimizing the negative
// log-likelihood with BFGS.
//
// The covariance is the final BFGS inverse-Hessian approximation. It is an
// asymptotic estimate and does not equal the inverse observed information.
type Logit struct {
	settings optimize.Settings
	analytic bool
	logger   log.Logger
}

// NewLogit creates a Logit estimator.
func NewLogit(cfg Config) *Logit {
	logger := log.OrNop(cfg.Logger)
	settings := cfg.Optimizer
	if settings.Logger == nil {
		settings.Logger = logger
	}
	return &Logit{
		settings: settings,
		analytic: cfg.AnalyticGradient,
		logger:   logger,
	}
}

func (l *Logit) Kind() Kind { return KindLogit }

// Fit computes the maximum likelihood estimate starting from β = 0. A run
// that does not converge returns a ConvergenceError.
func (l *Logit) Fit(x *mat.Dense, y *mat.VecDense) (*Estimate, error) {
	const op = "Logit.Fit"
	n, k, err := checkShape(op, x, y)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if v := y.AtVec(i); v != 0 && v != 1 {
			return nil, errors.NewValidationError("y", "logit response must be 0 or 1", v)
		}
	}

	obj := objective.NewLogit(x, y)
	problem := optimize.Problem{Func: obj.Func}
	if l.analytic {
		problem.Grad = obj.Grad
	}

	l.logger.Debug("starting maximum likelihood estimation",
		log.SamplesKey, n,
		log.FeaturesKey, k,
	)

	settings := l.settings
	res, err := optimize.Minimize(problem, make([]float64, k), &settings)
	if err != nil {
		return nil, errors.Wrap(err, "logit: optimizer setup")
	}
	if !res.Converged {
		return nil, errors.NewConvergenceError("BFGS", res.Iterations, res.GradNorm, res.Status.String(), res.Message)
	}

	cov := mat.NewSymDense(k, nil)
	cov.CopySym(res.InvHessian)

	return &Estimate{
		Coefficients:  append([]float64(nil), res.X...),
		Covariance:    cov,
		DF:            n - k,
		NObs:          n,
		LogLikelihood: obj.LogLikelihood(res.X),
		Diagnostics: &Diagnostics{
			Converged:       res.Converged,
			Status:          res.Status.String(),
			Message:         res.Message,
			Iterations:      res.Iterations,
			FuncEvaluations: res.FuncEvaluations,
			GradEvaluations: res.GradEvaluations,
			GradNorm:        res.GradNorm,
			SkippedUpdates:  res.SkippedUpdates,
		},
	}, nil
}
