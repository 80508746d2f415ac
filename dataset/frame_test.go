package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/statmodels/pkg/errors"
	"github.com/YuminosukeSato/statmodels/regression"
)

func TestNewFrameSelect(t *testing.T) {
	f, err := NewFrame([]string{"y", "a", "b"}, [][]float64{
		{1, 10, 100},
		{2, 20, 200},
		{3, 30, 300},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, f.Rows())
	assert.Equal(t, []string{"y", "a", "b"}, f.Names())

	x, names, y, err := f.Select("y", "b", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, names)
	r, c := x.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 200.0, x.At(1, 0))
	assert.Equal(t, 20.0, x.At(1, 1))
	assert.Equal(t, 3.0, y.AtVec(2))

	// all remaining columns in frame order
	_, names, _, err = f.Select("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "b"}, names)
}

func TestSelectErrors(t *testing.T) {
	f, err := NewFrame([]string{"y", "a"}, [][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	_, _, _, err = f.Select("missing")
	assert.True(t, errors.IsValidation(err))

	_, _, _, err = f.Select("y", "nope")
	assert.True(t, errors.IsValidation(err))

	_, _, _, err = f.Select("y", "y")
	assert.True(t, errors.IsValidation(err))

	only, err := NewFrame([]string{"y"}, [][]float64{{1}})
	require.NoError(t, err)
	_, _, _, err = only.Select("y")
	assert.True(t, errors.IsValidation(err))

	empty, err := NewFrame([]string{"y", "a"}, nil)
	require.NoError(t, err)
	_, _, _, err = empty.Select("y")
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestNewFrameValidation(t *testing.T) {
	_, err := NewFrame(nil, nil)
	assert.True(t, errors.IsValidation(err))

	_, err = NewFrame([]string{"a", "b"}, [][]float64{{1, 2}, {3}})
	assert.True(t, errors.IsValidation(err))

	_, err = NewFrame([]string{"a", "a"}, [][]float64{{1, 2}})
	assert.True(t, errors.IsValidation(err))

	_, err = NewFrame([]string{"a", ""}, [][]float64{{1, 2}})
	assert.True(t, errors.IsValidation(err))
}

func TestFromColumns(t *testing.T) {
	cols := map[string][]float64{
		"b": {1, 2, 3},
		"a": {4, 5, 6},
	}
	f, err := FromColumns(cols, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, f.Names())

	ordered, err := FromColumns(cols, []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ordered.Names())

	// the frame owns its data
	cols["a"][0] = 99
	a, err := f.Column("a")
	require.NoError(t, err)
	assert.Equal(t, 4.0, a[0])

	_, err = FromColumns(map[string][]float64{"a": {1}, "b": {1, 2}}, nil)
	assert.True(t, errors.IsValidation(err))

	_, err = FromColumns(cols, []string{"a", "c"})
	assert.True(t, errors.IsValidation(err))

	_, err = FromColumns(cols, []string{"a"})
	assert.True(t, errors.IsValidation(err))
}

func TestSelectFeedsRegression(t *testing.T) {
	f, err := FromColumns(map[string][]float64{
		"y":  {1.1, 1.9, 3.2, 3.9, 5.1, 6.0},
		"x1": {1, 2, 3, 4, 5, 6},
		"x2": {0.5, -0.2, 0.1, 0.3, -0.4, 0.2},
	}, []string{"y", "x1", "x2"})
	require.NoError(t, err)

	x, names, y, err := f.Select("y")
	require.NoError(t, err)

	m, err := regression.New(x, names, y, regression.WithIntercept(true))
	require.NoError(t, err)
	res, err := m.Fit()
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "x2", regression.InterceptName}, res.Names())

	slope, ok := res.Get("x1")
	require.True(t, ok)
	assert.InDelta(t, 1, slope.Coefficient, 0.1)
}
