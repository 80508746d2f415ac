package regression

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statmodels/estimator"
	"github.com/YuminosukeSato/statmodels/metrics"
	"github.com/YuminosukeSato/statmodels/objective"
)

// FitStats holds goodness-of-fit statistics. Fields that do not apply to
// the model kind, or are undefined for the data, are NaN.
type FitStats struct {
	NObs    int
	NParams int
	DF      int

	LogLikelihood float64
	AIC           float64
	BIC           float64

	// OLS
	R2     float64
	AdjR2  float64
	Sigma2 float64
	MSE    float64

	// Logit
	NullLogLikelihood float64
	PseudoR2          float64
	Accuracy          float64
	AUC               float64
}

// Map returns the statistics keyed by snake_case name, skipping those that
// do not apply to the model kind.
func (s FitStats) Map() map[string]float64 {
	m := map[string]float64{
		"log_likelihood": s.LogLikelihood,
		"aic":            s.AIC,
		"bic":            s.BIC,
	}
	add := func(name string, v float64) {
		if !math.IsNaN(v) {
			m[name] = v
		}
	}
	add("r2", s.R2)
	add("adj_r2", s.AdjR2)
	add("sigma2", s.Sigma2)
	add("mse", s.MSE)
	add("null_log_likelihood", s.NullLogLikelihood)
	add("pseudo_r2", s.PseudoR2)
	add("accuracy", s.Accuracy)
	add("auc", s.AUC)
	return m
}

// fitStats computes statistics for est. A statistic that cannot be computed
// is left NaN rather than failing the fit.
func (m *Model) fitStats(est *estimator.Estimate) FitStats {
	n, k := m.x.Dims()
	nan := math.NaN()
	fs := FitStats{
		NObs:              n,
		NParams:           k,
		DF:                est.DF,
		LogLikelihood:     est.LogLikelihood,
		AIC:               metrics.AIC(est.LogLikelihood, k),
		BIC:               metrics.BIC(est.LogLikelihood, k, n),
		R2:                nan,
		AdjR2:             nan,
		Sigma2:            nan,
		MSE:               nan,
		NullLogLikelihood: nan,
		PseudoR2:          nan,
		Accuracy:          nan,
		AUC:               nan,
	}

	eta := objective.LinearPredictor(nil, est.Coefficients, m.x)

	switch m.cfg.kind {
	case KindOLS:
		fs.Sigma2 = est.Sigma2
		if mse, err := metrics.MSE(m.y, eta); err == nil {
			fs.MSE = mse
		}
		if r2, err := metrics.R2Score(m.y, eta); err == nil {
			fs.R2 = r2
			if adj, err := metrics.AdjustedR2(r2, n, k); err == nil {
				fs.AdjR2 = adj
			}
		}

	case KindLogit:
		prob := mat.NewVecDense(n, nil)
		label := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			p := objective.Sigmoid(eta.AtVec(i))
			prob.SetVec(i, p)
			if p >= 0.5 {
				label.SetVec(i, 1)
			}
		}
		if ll0, err := metrics.BernoulliNullLogLikelihood(m.y); err == nil {
			fs.NullLogLikelihood = ll0
			fs.PseudoR2 = metrics.McFaddenR2(est.LogLikelihood, ll0)
		}
		if acc, err := metrics.Accuracy(m.y, label); err == nil {
			fs.Accuracy = acc
		}
		if auc, err := metrics.AUC(m.y, prob); err == nil {
			fs.AUC = auc
		}
	}
	return fs
}
