package regression

import (
	"github.com/YuminosukeSato/statmodels/estimator"
	"github.com/YuminosukeSato/statmodels/optimize"
	"github.com/YuminosukeSato/statmodels/pkg/log"
)

// Kind selects the regression family.
type Kind = estimator.Kind

const (
	KindOLS   = estimator.KindOLS
	KindLogit = estimator.KindLogit
)

// Diagnostics describes how an estimate was obtained.
type Diagnostics = estimator.Diagnostics

type config struct {
	kind         Kind
	intercept    bool
	optimizer    optimize.Settings
	analytic     bool
	logger       log.Logger
	maxCondition float64
}

func defaultConfig() config {
	return config{
		kind:      KindOLS,
		optimizer: optimize.DefaultSettings(),
	}
}

// Option is a function that configures a Model
type Option func(*config)

// WithKind sets the regression family. The default is KindOLS.
func WithKind(kind Kind) Option {
	return func(c *config) {
		c.kind = kind
	}
}

// WithIntercept appends a constant column named "intercept" to the design
// matrix, after the supplied columns.
func WithIntercept(intercept bool) Option {
	return func(c *config) {
		c.intercept = intercept
	}
}

// WithOptimizerSettings sets the BFGS settings used by Logit fits
func WithOptimizerSettings(s optimize.Settings) Option {
	return func(c *config) {
		c.optimizer = s
	}
}

// WithAnalyticGradient makes Logit fits use the closed-form gradient instead
// of finite differences
func WithAnalyticGradient(analytic bool) Option {
	return func(c *config) {
		c.analytic = analytic
	}
}

// WithLogger sets the logger for fit progress and failures
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMaxCondition sets the largest condition number of the equilibrated
// XᵀX accepted by OLS.
func WithMaxCondition(maxCond float64) Option {
	return func(c *config) {
		c.maxCondition = maxCond
	}
}
