// Package regression is the entry point for fitting OLS and Logit models.
//
// A Model validates its design matrix and response once, at construction,
// and picks the estimator for its Kind. Fit runs estimation and inference and
// either returns a complete Results or an error; a failed fit never replaces
// the results of an earlier successful one.
//
//	m, err := regression.New(X, []string{"age", "income"}, y,
//	    regression.WithKind(regression.KindLogit),
//	    regression.WithIntercept(true),
//	)
//	if err != nil {
//	    return err
//	}
//	res, err := m.Fit()
package regression

import (
	"fmt"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statmodels/core/model"
	"github.com/YuminosukeSato/statmodels/core/parallel"
	"github.com/YuminosukeSato/statmodels/estimator"
	"github.com/YuminosukeSato/statmodels/inference"
	"github.com/YuminosukeSato/statmodels/pkg/errors"
	"github.com/YuminosukeSato/statmodels/pkg/log"
)

// InterceptName is the name of the appended constant column.
const InterceptName = "intercept"

// parallelThreshold is the row count above which the intercept column is
// filled concurrently.
const parallelThreshold = 1000

// Model is a validated regression problem. It is safe to call Fit from
// several goroutines; fits are serialized.
type Model struct {
	cfg    config
	x      *mat.Dense
	names  []string
	y      *mat.VecDense
	est    estimator.Estimator
	logger log.Logger

	state *model.StateManager

	mu      sync.Mutex
	results *Results
}

// New validates x, names and y and returns a Model ready to fit. x and y are
// copied; later changes to them do not affect the model.
func New(x *mat.Dense, names []string, y *mat.VecDense, opts ...Option) (*Model, error) {
	const op = "regression.New"

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if !cfg.kind.Valid() {
		return nil, errors.NewValidationError("kind", "unknown model kind", cfg.kind.String())
	}
	if cfg.maxCondition < 0 {
		return nil, errors.NewValidationError("maxCondition", "must be non-negative", cfg.maxCondition)
	}
	if x == nil || x.IsEmpty() {
		return nil, errors.NewValidationError("x", "design matrix is empty", 0)
	}
	n, k := x.Dims()
	if len(names) != k {
		return nil, errors.NewDimensionError(op, k, len(names), 1)
	}
	if err := validateNames(names, cfg.intercept); err != nil {
		return nil, err
	}
	if y == nil || y.IsEmpty() {
		return nil, errors.NewValidationError("y", "response vector is empty", 0)
	}
	if y.Len() != n {
		return nil, errors.NewDimensionError(op, n, y.Len(), 0)
	}
	if err := errors.CheckMatrix("design matrix", x, n, k); err != nil {
		return nil, err
	}
	yData := mat.Col(nil, 0, y)
	if err := errors.CheckNumericalStability("response", yData, 0); err != nil {
		return nil, err
	}
	if cfg.kind == KindLogit {
		for i, v := range yData {
			if v != 0 && v != 1 {
				return nil, errors.NewValidationError("y", fmt.Sprintf("logit response must be 0 or 1 (row %d)", i), v)
			}
		}
	}

	logger := log.OrNop(cfg.logger).With(log.ModelKindKey, cfg.kind.String())
	est, err := estimator.New(cfg.kind, estimator.Config{
		MaxCondition:     cfg.maxCondition,
		Optimizer:        cfg.optimizer,
		AnalyticGradient: cfg.analytic,
		Logger:           logger,
	})
	if err != nil {
		return nil, err
	}

	design, allNames := buildDesign(x, names, cfg.intercept)
	return &Model{
		cfg:    cfg,
		x:      design,
		names:  allNames,
		y:      mat.NewVecDense(n, yData),
		est:    est,
		logger: logger,
		state:  model.NewStateManager(),
	}, nil
}

// NewFromRows is New for row-major input. Every row must have len(names)
// values.
func NewFromRows(rows [][]float64, names []string, y []float64, opts ...Option) (*Model, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.NewValidationError("rows", "design matrix is empty", len(rows))
	}
	k := len(rows[0])
	data := make([]float64, 0, len(rows)*k)
	for i, row := range rows {
		if len(row) != k {
			return nil, errors.NewValidationError("rows",
				fmt.Sprintf("row %d has %d values, expected %d", i, len(row), k), len(row))
		}
		data = append(data, row...)
	}
	if len(y) == 0 {
		return nil, errors.NewValidationError("y", "response vector is empty", 0)
	}
	return New(mat.NewDense(len(rows), k, data), names, mat.NewVecDense(len(y), append([]float64(nil), y...)), opts...)
}

func validateNames(names []string, intercept bool) error {
	seen := make(map[string]int, len(names))
	for i, name := range names {
		if name == "" {
			return errors.NewValidationError("names", fmt.Sprintf("column %d has an empty name", i), name)
		}
		if j, dup := seen[name]; dup {
			return errors.NewValidationError("names", fmt.Sprintf("duplicate column name (columns %d and %d)", j, i), name)
		}
		if intercept && name == InterceptName {
			return errors.NewValidationError("names", "column name clashes with the intercept column", name)
		}
		seen[name] = i
	}
	return nil
}

// buildDesign copies x and, when intercept is set, appends a column of ones
// after the last column.
func buildDesign(x *mat.Dense, names []string, intercept bool) (*mat.Dense, []string) {
	n, k := x.Dims()
	allNames := append([]string(nil), names...)
	if !intercept {
		return mat.DenseCopyOf(x), allNames
	}

	design := mat.NewDense(n, k+1, nil)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < k; j++ {
				design.Set(i, j, x.At(i, j))
			}
			design.Set(i, k, 1.0)
		}
	})
	return design, append(allNames, InterceptName)
}

// Kind returns the model's regression family.
func (m *Model) Kind() Kind { return m.cfg.kind }

// HasIntercept reports whether an intercept column was appended.
func (m *Model) HasIntercept() bool { return m.cfg.intercept }

// ColumnNames returns the design-matrix column names, intercept last.
func (m *Model) ColumnNames() []string {
	return append([]string(nil), m.names...)
}

// Design returns a copy of the design matrix including any intercept column.
func (m *Model) Design() *mat.Dense {
	return mat.DenseCopyOf(m.x)
}

// Response returns a copy of the response vector.
func (m *Model) Response() *mat.VecDense {
	return mat.VecDenseCopyOf(m.y)
}

// IsFitted reports whether Fit has succeeded at least once.
func (m *Model) IsFitted() bool { return m.state.IsFitted() }

// Results returns the results of the last successful fit.
func (m *Model) Results() (*Results, error) {
	if err := m.state.RequireFitted("regression.Model", "Results"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results, nil
}

// Fit estimates the coefficients and their inference. On failure it returns
// nil and leaves any previous results in place.
func (m *Model) Fit() (res *Results, err error) {
	const op = "regression.Fit"
	defer errors.Recover(&err, op)

	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	n, k := m.x.Dims()
	logger := m.logger.With(log.OperationKey, log.OperationFit)
	logger.Debug("fitting model",
		log.SamplesKey, n,
		log.FeaturesKey, k,
		log.InterceptKey, m.cfg.intercept,
	)

	est, err := m.est.Fit(m.x, m.y)
	if err != nil {
		return nil, m.fail(logger, op, err)
	}

	dist := distributionFor(m.cfg.kind, est.DF)
	stats, err := inference.Infer(est.Coefficients, est.Covariance, dist, m.names)
	if err != nil {
		return nil, m.fail(logger, op, err)
	}

	fitStats := m.fitStats(est)
	results := newResults(m, est, stats, dist, fitStats)

	m.results = results
	m.state.SetFitted(k, n)

	logger.Info("model fitted",
		log.DFKey, est.DF,
		log.LogLikelihoodKey, est.LogLikelihood,
		log.IterationKey, est.Diagnostics.Iterations,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return results, nil
}

// fail logs err with its error code and wraps it with the operation name.
func (m *Model) fail(logger log.Logger, op string, err error) error {
	logger.Error("fit failed",
		log.ErrAttrKey, err,
		log.ErrorCodeKey, errorCode(err),
	)
	return errors.NewModelError(op, m.cfg.kind.String(), err)
}

func errorCode(err error) string {
	var ni *errors.NumericalInstabilityError
	switch {
	case errors.IsSingularMatrix(err):
		return log.ErrorSingularMatrix
	case errors.IsInsufficientDOF(err):
		return log.ErrorInsufficientDOF
	case errors.IsNotConverged(err):
		return log.ErrorConvergence
	case errors.IsNegativeVariance(err):
		return log.ErrorNegativeVariance
	case errors.As(err, &ni):
		return log.ErrorNumericalInstability
	default:
		return log.ErrorInvalidInput
	}
}

// distributionFor returns Student's t with the residual degrees of freedom
// for OLS and the standard normal for Logit.
func distributionFor(kind Kind, df int) inference.Distribution {
	if kind == KindOLS {
		return inference.StudentT{DF: float64(df)}
	}
	return inference.StandardNormal{}
}

// FitBatch fits independent models on up to workers goroutines. The i-th
// result and error belong to models[i].
func FitBatch(models []*Model, workers int) ([]*Results, []error) {
	results := make([]*Results, len(models))
	errs := make([]error, len(models))
	parallel.ParallelizeN(len(models), workers, func(start, end int) {
		for i := start; i < end; i++ {
			if models[i] == nil {
				errs[i] = errors.NewValidationError("models", fmt.Sprintf("model %d is nil", i), nil)
				continue
			}
			results[i], errs[i] = models[i].Fit()
		}
	})
	return results, errs
}
