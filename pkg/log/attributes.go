// Package log defines standard attribute keys for regression fitting.
//
// Using these keys keeps log records from the facade, the estimators and the
// optimizer consistent, so a fit can be traced end to end by filtering on
// them. Keys follow a hierarchical naming convention ("data.samples",
// "optimizer.iteration").
package log

// Model and Operation Context
const (
	// ModelKindKey identifies the regression family being fit.
	// Values: "ols", "logit"
	ModelKindKey = "model.kind"

	// EstimatorKey names the estimator implementation.
	// Examples: "estimator.OLS", "estimator.Logit"
	EstimatorKey = "model.estimator"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "infer"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "regression", "optimize", "linalg"
	ComponentKey = "ml.component"
)

// Data Shape
const (
	// SamplesKey indicates the number of observations (rows, n).
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of design-matrix columns (k),
	// including the intercept when one was appended.
	FeaturesKey = "data.features"

	// InterceptKey records whether an intercept column was appended.
	InterceptKey = "data.intercept"

	// DFKey records the residual degrees of freedom n − k.
	DFKey = "data.df"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LogLikelihoodKey records the log-likelihood at the estimate.
	LogLikelihoodKey = "metrics.log_likelihood"

	// R2ScoreKey records R² for OLS fits.
	R2ScoreKey = "metrics.r2_score"
)

// Optimizer Context
const (
	// IterationKey records the current optimizer iteration.
	IterationKey = "optimizer.iteration"

	// ObjectiveKey records the objective value at the current iterate.
	ObjectiveKey = "optimizer.objective"

	// GradNormKey records the infinity norm of the gradient.
	GradNormKey = "optimizer.grad_norm"

	// StepKey records the accepted line-search step length.
	StepKey = "optimizer.step"

	// FuncEvalsKey records the number of objective evaluations.
	FuncEvalsKey = "optimizer.func_evals"

	// GradEvalsKey records the number of gradient evaluations.
	GradEvalsKey = "optimizer.grad_evals"

	// StatusKey records the optimizer termination status.
	StatusKey = "optimizer.status"

	// ConditionKey records a matrix condition number.
	ConditionKey = "linalg.condition"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	// Examples: "SINGULAR_MATRIX", "CONVERGENCE_FAILURE"
	ErrorCodeKey = "error.code"

	// SuggestionKey provides helpful suggestions for resolving issues.
	// Examples: "Remove collinear columns", "Increase MaxIterations"
	SuggestionKey = "error.suggestion"
)

// Standard attribute value constants.
const (
	// Operations
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationInfer   = "infer"

	// Error codes
	ErrorInvalidInput         = "INVALID_INPUT"
	ErrorSingularMatrix       = "SINGULAR_MATRIX"
	ErrorInsufficientDOF      = "INSUFFICIENT_DOF"
	ErrorConvergence          = "CONVERGENCE_FAILURE"
	ErrorNegativeVariance     = "NEGATIVE_VARIANCE"
	ErrorNumericalInstability = "NUMERICAL_INSTABILITY"
)
