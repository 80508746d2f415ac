package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/statmodels/pkg/errors"
)

// AIC returns the Akaike information criterion 2k - 2·logL.
func AIC(logLikelihood float64, k int) float64 {
	return 2*float64(k) - 2*logLikelihood
}

// BIC returns the Bayesian information criterion k·ln(n) - 2·logL.
func BIC(logLikelihood float64, k, n int) float64 {
	return float64(k)*math.Log(float64(n)) - 2*logLikelihood
}

// BernoulliLogLikelihood returns the log-likelihood of the 0/1 responses
// yTrue under success probabilities prob.
func BernoulliLogLikelihood(yTrue, prob *mat.VecDense) (float64, error) {
	n, err := checkPair("BernoulliLogLikelihood", yTrue, prob)
	if err != nil {
		return 0, err
	}
	if err := checkBinary("BernoulliLogLikelihood", yTrue); err != nil {
		return 0, err
	}

	var ll float64
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			ll += math.Log(prob.AtVec(i))
		} else {
			ll += math.Log1p(-prob.AtVec(i))
		}
	}
	return ll, nil
}

// BernoulliNullLogLikelihood returns the log-likelihood of the
// intercept-only model, p = ȳ for every observation. 0·ln 0 is taken as 0.
func BernoulliNullLogLikelihood(yTrue *mat.VecDense) (float64, error) {
	if yTrue == nil || yTrue.IsEmpty() {
		return 0, errors.NewValueError("BernoulliNullLogLikelihood", "empty vector")
	}
	if err := checkBinary("BernoulliNullLogLikelihood", yTrue); err != nil {
		return 0, err
	}

	y := mat.Col(nil, 0, yTrue)
	pbar := stat.Mean(y, nil)
	n := float64(len(y))

	var ll float64
	if pbar > 0 {
		ll += n * pbar * math.Log(pbar)
	}
	if pbar < 1 {
		ll += n * (1 - pbar) * math.Log(1-pbar)
	}
	return ll, nil
}

// McFaddenR2 returns the pseudo-R² 1 - logL/logL₀. A zero logL₀ (constant
// response) yields NaN and an UndefinedMetricWarning.
func McFaddenR2(logLikelihood, nullLogLikelihood float64) float64 {
	if nullLogLikelihood == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("McFaddenR2", "null log-likelihood is zero (constant response)", math.NaN()))
		return math.NaN()
	}
	return 1 - logLikelihood/nullLogLikelihood
}
