// Package inference turns coefficient estimates and their covariance matrix
// into standard errors, test statistics and two-sided p-values.
package inference

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/statmodels/core/linalg"
	"github.com/YuminosukeSato/statmodels/pkg/errors"
)

// Distribution is the reference distribution of a test statistic under the
// null hypothesis that a coefficient is zero.
type Distribution interface {
	// Name is a short identifier ("t" or "normal").
	Name() string
	// StatLabel names the statistic, e.g. "t-statistic".
	StatLabel() string
	// TwoSidedPValue returns P(|T| ≥ |stat|) clamped to [0, 1].
	TwoSidedPValue(stat float64) float64
	// Quantile is the inverse CDF.
	Quantile(p float64) float64
}

// StudentT is Student's t distribution with DF degrees of freedom.
type StudentT struct {
	DF float64
}

func (d StudentT) dist() distuv.StudentsT {
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: d.DF}
}

func (StudentT) Name() string      { return "t" }
func (StudentT) StatLabel() string { return "t-statistic" }

func (d StudentT) TwoSidedPValue(stat float64) float64 {
	return clampProb(2 * d.dist().Survival(math.Abs(stat)))
}

func (d StudentT) Quantile(p float64) float64 { return d.dist().Quantile(p) }

// StandardNormal is the N(0, 1) distribution.
type StandardNormal struct{}

func (StandardNormal) Name() string      { return "normal" }
func (StandardNormal) StatLabel() string { return "z-statistic" }

func (StandardNormal) TwoSidedPValue(stat float64) float64 {
	return clampProb(2 * distuv.UnitNormal.Survival(math.Abs(stat)))
}

func (StandardNormal) Quantile(p float64) float64 { return distuv.UnitNormal.Quantile(p) }

func clampProb(p float64) float64 {
	if math.IsNaN(p) {
		return p
	}
	return math.Min(1, math.Max(0, p))
}

// Stat is the inference for a single coefficient.
type Stat struct {
	Coefficient   float64
	StandardError float64
	TestStat      float64
	PValue        float64
}

// StandardErrors returns the square roots of the covariance diagonal.
func StandardErrors(cov mat.Symmetric) ([]float64, error) {
	return StandardErrorsNamed(cov, nil)
}

// StandardErrorsNamed is StandardErrors with column names attached to any
// NegativeVarianceError. A diagonal entry that is zero, negative or NaN is
// rejected; zero variance would make the test statistic undefined.
func StandardErrorsNamed(cov mat.Symmetric, names []string) ([]float64, error) {
	variances := linalg.Diag(cov)
	se := make([]float64, len(variances))
	for i, v := range variances {
		if !(v > 0) || math.IsInf(v, 1) {
			name := ""
			if i < len(names) {
				name = names[i]
			}
			return nil, errors.NewNegativeVarianceError(i, name, v)
		}
		se[i] = math.Sqrt(v)
	}
	return se, nil
}

// Infer computes standard errors, test statistics coef/se and two-sided
// p-values against dist.
func Infer(coef []float64, cov mat.Symmetric, dist Distribution, names []string) ([]Stat, error) {
	if k := cov.SymmetricDim(); k != len(coef) {
		return nil, errors.NewDimensionError("inference.Infer", len(coef), k, 1)
	}
	if t, ok := dist.(StudentT); ok && !(t.DF > 0) {
		return nil, errors.NewInsufficientDOFError("inference.Infer", len(coef)+int(t.DF), len(coef))
	}

	se, err := StandardErrorsNamed(cov, names)
	if err != nil {
		return nil, err
	}

	stats := make([]Stat, len(coef))
	for i, b := range coef {
		ts := b / se[i]
		stats[i] = Stat{
			Coefficient:   b,
			StandardError: se[i],
			TestStat:      ts,
			PValue:        dist.TwoSidedPValue(ts),
		}
	}
	return stats, nil
}

// ConfidenceInterval returns the two-sided (1-alpha) interval coef ± q·se,
// where q is the 1-alpha/2 quantile of dist.
func ConfidenceInterval(coef, se float64, dist Distribution, alpha float64) (lower, upper float64, err error) {
	if !(alpha > 0 && alpha < 1) {
		return 0, 0, errors.NewValidationError("alpha", "must be in (0, 1)", alpha)
	}
	q := dist.Quantile(1 - alpha/2)
	return coef - q*se, coef + q*se, nil
}
