package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecover_WithPanic tests the Recover function when a panic occurs
func TestRecover_WithPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "regression.Fit")
		panic("mat: dimension mismatch")
	}

	err := testFunc()
	require.Error(t, err)

	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr), "expected PanicError, got %T", err)

	assert.Equal(t, "regression.Fit", panicErr.Operation)
	assert.Equal(t, "mat: dimension mismatch", panicErr.PanicValue)
	assert.NotEmpty(t, panicErr.StackTrace)
	assert.Equal(t, "panic in regression.Fit: mat: dimension mismatch", panicErr.Error())
}

// TestRecover_WithoutPanic tests the Recover function when no panic occurs
func TestRecover_WithoutPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "regression.Fit")
		return nil
	}

	assert.NoError(t, testFunc())
}

// TestRecover_WithExistingError tests Recover when function has existing error and panic occurs
func TestRecover_WithExistingError(t *testing.T) {
	originalErr := fmt.Errorf("validation failed")

	testFunc := func() (err error) {
		defer Recover(&err, "regression.Fit")
		err = originalErr
		panic("panic after error")
	}

	err := testFunc()
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{"panic in regression.Fit", "panic after error", "original error", "validation failed"} {
		assert.True(t, strings.Contains(msg, want), "error message should contain %q: %s", want, msg)
	}
	assert.True(t, errors.Is(err, originalErr), "original error must stay reachable")
}

func TestSafeExecute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		assert.NoError(t, SafeExecute("op", func() error { return nil }))
	})

	t.Run("function error is returned untouched", func(t *testing.T) {
		originalErr := fmt.Errorf("function error")
		err := SafeExecute("op", func() error { return originalErr })
		assert.Same(t, originalErr, err)
	})

	t.Run("panic becomes PanicError", func(t *testing.T) {
		err := SafeExecute("covariance", func() error {
			panic("boom")
		})
		var panicErr *PanicError
		require.True(t, errors.As(err, &panicErr))
		assert.Equal(t, "covariance", panicErr.Operation)
		assert.Equal(t, "boom", panicErr.PanicValue)
	})

	t.Run("error panic value is unwrappable", func(t *testing.T) {
		cause := fmt.Errorf("index out of range")
		err := SafeExecute("solve", func() error {
			panic(cause)
		})
		assert.True(t, errors.Is(err, cause))
	})
}

// TestPanicError_Interface tests PanicError implements error interface properly
func TestPanicError_Interface(t *testing.T) {
	panicErr := NewPanicError("TestOp", "test value")

	assert.Equal(t, "panic in TestOp: test value", panicErr.Error())

	str := panicErr.String()
	assert.Contains(t, str, "Stack trace:")
	assert.Contains(t, str, "panic in TestOp: test value")

	assert.Nil(t, panicErr.Unwrap(), "non-error panic values have nothing to unwrap")
}

// TestRecover_DifferentPanicTypes tests Recover with different types of panic values
func TestRecover_DifferentPanicTypes(t *testing.T) {
	testCases := []struct {
		name       string
		panicValue interface{}
	}{
		{"string panic", "string panic"},
		{"int panic", 42},
		{"error panic", fmt.Errorf("error as panic")},
		{"struct panic", struct{ Msg string }{"struct message"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testFunc := func() (err error) {
				defer Recover(&err, "TypeTest")
				panic(tc.panicValue)
			}

			err := testFunc()
			var panicErr *PanicError
			require.True(t, errors.As(err, &panicErr), "expected PanicError, got %T", err)
			assert.Equal(t, fmt.Sprintf("%v", tc.panicValue), fmt.Sprintf("%v", panicErr.PanicValue))
		})
	}
}

// BenchmarkRecover_NoPanic measures the overhead of Recover when no panic occurs
func BenchmarkRecover_NoPanic(b *testing.B) {
	for i := 0; i < b.N; i++ {
		func() (err error) {
			defer Recover(&err, "BenchmarkOp")
			return nil
		}()
	}
}
