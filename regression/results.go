package regression

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statmodels/core/model"
	"github.com/YuminosukeSato/statmodels/estimator"
	"github.com/YuminosukeSato/statmodels/inference"
	"github.com/YuminosukeSato/statmodels/objective"
	"github.com/YuminosukeSato/statmodels/pkg/errors"
)

// Entry is the estimate and inference for one design-matrix column.
type Entry struct {
	Name          string
	Coefficient   float64
	StandardError float64
	TestStat      float64
	PValue        float64
}

// Interval is a confidence interval for one coefficient.
type Interval struct {
	Name  string
	Lower float64
	Upper float64
}

// Results is the immutable outcome of a successful fit. Entries are in
// design-matrix column order, intercept last when present.
type Results struct {
	kind      Kind
	entries   []Entry
	index     map[string]int
	dist      inference.Distribution
	cov       *mat.SymDense
	diag      Diagnostics
	stats     FitStats
	intercept bool
}

func newResults(m *Model, est *estimator.Estimate, stats []inference.Stat, dist inference.Distribution, fs FitStats) *Results {
	entries := make([]Entry, len(stats))
	index := make(map[string]int, len(stats))
	for i, s := range stats {
		entries[i] = Entry{
			Name:          m.names[i],
			Coefficient:   s.Coefficient,
			StandardError: s.StandardError,
			TestStat:      s.TestStat,
			PValue:        s.PValue,
		}
		index[m.names[i]] = i
	}

	cov := mat.NewSymDense(est.Covariance.SymmetricDim(), nil)
	cov.CopySym(est.Covariance)

	return &Results{
		kind:      m.cfg.kind,
		entries:   entries,
		index:     index,
		dist:      dist,
		cov:       cov,
		diag:      *est.Diagnostics,
		stats:     fs,
		intercept: m.cfg.intercept,
	}
}

// Kind returns the regression family that produced the results.
func (r *Results) Kind() Kind { return r.kind }

// StatLabel names the test statistic: "t-statistic" for OLS and
// "z-statistic" for Logit.
func (r *Results) StatLabel() string { return r.dist.StatLabel() }

// Len returns the number of coefficients.
func (r *Results) Len() int { return len(r.entries) }

// Names returns the coefficient names in column order.
func (r *Results) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of all entries in column order.
func (r *Results) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Get returns the entry for name.
func (r *Results) Get(name string) (Entry, bool) {
	i, ok := r.index[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Coefficients returns the estimated parameter vector.
func (r *Results) Coefficients() []float64 {
	beta := make([]float64, len(r.entries))
	for i, e := range r.entries {
		beta[i] = e.Coefficient
	}
	return beta
}

// Covariance returns a copy of the coefficient covariance matrix.
func (r *Results) Covariance() *mat.SymDense {
	cov := mat.NewSymDense(r.cov.SymmetricDim(), nil)
	cov.CopySym(r.cov)
	return cov
}

// Diagnostics returns how the estimate was obtained.
func (r *Results) Diagnostics() Diagnostics { return r.diag }

// Stats returns goodness-of-fit statistics.
func (r *Results) Stats() FitStats { return r.stats }

// ConfInt returns (1-alpha) confidence intervals using the same reference
// distribution as the p-values.
func (r *Results) ConfInt(alpha float64) ([]Interval, error) {
	out := make([]Interval, len(r.entries))
	for i, e := range r.entries {
		lo, hi, err := inference.ConfidenceInterval(e.Coefficient, e.StandardError, r.dist, alpha)
		if err != nil {
			return nil, err
		}
		out[i] = Interval{Name: e.Name, Lower: lo, Upper: hi}
	}
	return out, nil
}

// Predict returns Xβ for OLS and σ(Xβ) for Logit. x holds the predictor
// columns only; the intercept is appended when the model was fit with one.
func (r *Results) Predict(x *mat.Dense) (*mat.VecDense, error) {
	const op = "Results.Predict"
	if x == nil || x.IsEmpty() {
		return nil, errors.NewValidationError("x", "design matrix is empty", 0)
	}
	n, c := x.Dims()
	want := len(r.entries)
	if r.intercept {
		want--
	}
	if c != want {
		return nil, errors.NewDimensionError(op, want, c, 1)
	}

	design := x
	if r.intercept {
		design = mat.NewDense(n, c+1, nil)
		design.Augment(x, ones(n))
	}

	pred := objective.LinearPredictor(nil, r.Coefficients(), design)
	if r.kind == KindLogit {
		for i := 0; i < n; i++ {
			pred.SetVec(i, objective.Sigmoid(pred.AtVec(i)))
		}
	}
	return pred, nil
}

func ones(n int) *mat.VecDense {
	v := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v.SetVec(i, 1)
	}
	return v
}

// Summary returns a JSON-serializable snapshot of the results. Non-finite
// fit statistics are omitted.
func (r *Results) Summary() *model.Summary {
	k := len(r.entries)
	s := &model.Summary{
		Kind:           r.kind.String(),
		Version:        model.SummaryVersion,
		StatLabel:      r.StatLabel(),
		Names:          r.Names(),
		Coefficients:   make([]float64, k),
		StandardErrors: make([]float64, k),
		TestStats:      make([]float64, k),
		PValues:        make([]float64, k),
		Intercept:      r.intercept,
		NObs:           r.stats.NObs,
		DF:             r.stats.DF,
		Stats:          map[string]float64{},
		Diagnostics: map[string]interface{}{
			"converged":        r.diag.Converged,
			"status":           r.diag.Status,
			"message":          r.diag.Message,
			"iterations":       r.diag.Iterations,
			"func_evaluations": r.diag.FuncEvaluations,
			"grad_evaluations": r.diag.GradEvaluations,
			"skipped_updates":  r.diag.SkippedUpdates,
		},
	}
	for i, e := range r.entries {
		s.Coefficients[i] = e.Coefficient
		s.StandardErrors[i] = e.StandardError
		s.TestStats[i] = e.TestStat
		s.PValues[i] = e.PValue
	}
	if isFinite(r.diag.GradNorm) && r.kind == KindLogit {
		s.Diagnostics["grad_norm"] = r.diag.GradNorm
	}
	if isFinite(r.diag.Condition) && r.kind == KindOLS {
		s.Diagnostics["condition"] = r.diag.Condition
	}
	for name, v := range r.stats.Map() {
		if isFinite(v) {
			s.Stats[name] = v
		}
	}
	return s
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
