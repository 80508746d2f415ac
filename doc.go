// Package statmodels estimates Ordinary Least Squares and binary Logistic
// regression models and reports classical inference for their coefficients.
//
// OLS is solved in closed form from the normal equations. Logit is fit by
// maximum likelihood with a native BFGS minimizer, whose inverse-Hessian
// approximation doubles as the coefficient covariance estimate. Every fit
// returns standard errors, test statistics (t for OLS, z for Logit) and
// two-sided p-values.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/statmodels/regression"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
//	    y := mat.NewVecDense(5, []float64{2.1, 3.9, 6.2, 7.8, 10.1})
//
//	    m, err := regression.New(X, []string{"x"}, y, regression.WithIntercept(true))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    res, err := m.Fit()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, e := range res.Entries() {
//	        fmt.Printf("%-10s %8.4f %8.4f %8.3f %8.4f\n",
//	            e.Name, e.Coefficient, e.StandardError, e.TestStat, e.PValue)
//	    }
//	}
//
// # Packages
//
//   - regression: model facade (validation, intercept, fit, results)
//   - dataset: named columns and design-matrix selection
//   - estimator: OLS and Logit estimators
//   - inference: standard errors, test statistics and p-values
//   - optimize: BFGS minimizer with finite-difference gradients
//   - objective: normal equations and the Logit likelihood
//   - metrics: R², information criteria, pseudo-R² and classification scores
//   - core/linalg: conditioned linear solves and inversion
//   - core/model: fitted-state bookkeeping and the JSON summary
//   - core/parallel: range-parallel helpers
//   - pkg/errors: typed errors and warnings
//   - pkg/log: structured logging (log/slog and zerolog backends)
package statmodels
