package metrics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statmodels/pkg/errors"
)

func vec(v ...float64) *mat.VecDense {
	return mat.NewVecDense(len(v), v)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// pairwiseAUC counts the positive/negative pairs ordered correctly, ties
// counting one half.
func pairwiseAUC(y, score []float64) float64 {
	var hits float64
	var pairs int
	for i := range y {
		if y[i] != 1 {
			continue
		}
		for j := range y {
			if y[j] != 0 {
				continue
			}
			pairs++
			switch {
			case score[i] > score[j]:
				hits++
			case score[i] == score[j]:
				hits += 0.5
			}
		}
	}
	return hits / float64(pairs)
}

func TestAUC(t *testing.T) {
	tests := []struct {
		name  string
		y     *mat.VecDense
		score *mat.VecDense
		want  float64
	}{
		{"separated", vec(0, 0, 1, 1), vec(0.1, 0.3, 0.6, 0.9), 1},
		{"reversed", vec(0, 0, 1, 1), vec(0.9, 0.6, 0.3, 0.1), 0},
		{"one inversion", vec(0, 0, 1, 1), vec(0.1, 0.4, 0.35, 0.8), 0.75},
		{"tie across classes", vec(0, 1, 0, 1), vec(0.2, 0.2, 0.7, 0.9), 0.625},
		{"all tied", vec(0, 1, 1, 0, 1), vec(0.5, 0.5, 0.5, 0.5, 0.5), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AUC(tt.y, tt.score)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestAUCMatchesPairCount(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const n = 150
	y := make([]float64, n)
	score := make([]float64, n)
	for i := range y {
		eta := rng.NormFloat64()
		if rng.Float64() < sigmoid(2*eta) {
			y[i] = 1
		}
		// coarse rounding produces many ties
		score[i] = math.Round(sigmoid(eta)*10) / 10
	}

	got, err := AUC(vec(y...), vec(score...))
	require.NoError(t, err)
	assert.InDelta(t, pairwiseAUC(y, score), got, 1e-12)
}

func TestAUCSaturatedProbabilities(t *testing.T) {
	// fitted probabilities of a Logit model saturate to exactly 1 for large
	// linear predictors, which turns an ordered pair into a tie
	y := vec(0, 1, 1, 0)
	eta := []float64{-2, 40, 1, 45}
	prob := make([]float64, len(eta))
	for i, e := range eta {
		prob[i] = sigmoid(e)
	}
	require.Equal(t, 1.0, prob[1])
	require.Equal(t, 1.0, prob[3])

	onEta, err := AUC(y, vec(eta...))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, onEta, 1e-12)

	onProb, err := AUC(y, vec(prob...))
	require.NoError(t, err)
	assert.InDelta(t, 0.625, onProb, 1e-12)

	// below saturation the logistic map preserves the ranking
	mid := []float64{-2, 3, 1, 4}
	for i, e := range mid {
		prob[i] = sigmoid(e)
	}
	a, err := AUC(y, vec(mid...))
	require.NoError(t, err)
	b, err := AUC(y, vec(prob...))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAUCSingleClass(t *testing.T) {
	var warned []error
	errors.SetWarningHandler(func(w error) { warned = append(warned, w) })
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })

	got, err := AUC(vec(1, 1, 1), vec(0.2, 0.9, 0.4))
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)
	require.Len(t, warned, 1)
	var uw *errors.UndefinedMetricWarning
	assert.True(t, errors.As(warned[0], &uw))
}

func TestAUCInvalidInput(t *testing.T) {
	_, err := AUC(vec(0, 0.5, 1), vec(0.1, 0.5, 0.9))
	assert.True(t, errors.IsValidation(err))

	_, err = AUC(vec(0, 1), vec(0.1, 0.5, 0.9))
	assert.Error(t, err)
}

func TestAccuracyFromProbabilities(t *testing.T) {
	y := vec(1, 0, 1, 0, 1, 0)
	prob := []float64{0.9, 0.2, 0.5, 0.5, 0.3, 0.49}
	label := mat.NewVecDense(len(prob), nil)
	for i, p := range prob {
		// 0.5 is classified as 1
		if p >= 0.5 {
			label.SetVec(i, 1)
		}
	}

	acc, err := Accuracy(y, label)
	require.NoError(t, err)
	assert.InDelta(t, 4.0/6, acc, 1e-12)

	ce, err := ClassificationError(y, label)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/6, ce, 1e-12)

	_, err = ClassificationError(vec(1, 0), vec(1))
	assert.Error(t, err)
}

func TestBinaryLogLoss(t *testing.T) {
	y := vec(1, 0, 1, 0)
	prob := vec(0.8, 0.2, 0.6, 0.4)

	loss, err := BinaryLogLoss(y, prob)
	require.NoError(t, err)
	ll, err := BernoulliLogLikelihood(y, prob)
	require.NoError(t, err)
	assert.InDelta(t, -ll/4, loss, 1e-12)

	// a confident miss is clipped instead of producing +Inf
	clipped, err := BinaryLogLoss(vec(1, 0), vec(0, 1))
	require.NoError(t, err)
	assert.InDelta(t, -math.Log(logLossEpsilon), clipped, 1e-3)

	_, err = BinaryLogLoss(vec(2, 0), vec(0.5, 0.5))
	assert.True(t, errors.IsValidation(err))
}

func BenchmarkAUC(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	const n = 1000
	y := mat.NewVecDense(n, nil)
	score := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		eta := rng.NormFloat64()
		score.SetVec(i, sigmoid(eta))
		if rng.Float64() < sigmoid(eta) {
			y.SetVec(i, 1)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = AUC(y, score)
	}
}
