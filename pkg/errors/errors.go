// Package errors はstatmodels全体のエラーハンドリングと警告システムを提供します。
// 回帰推定の各段階（入力検証・線形代数・最適化・推測統計）で発生する失敗を
// 型付きのエラーとして表現し、呼び出し側が errors.As で分岐できるようにします。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("statmodels-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// CurvatureWarning や ConvergenceWarning の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// ConvergenceWarning は最適化アルゴリズムが収束しなかった場合に発生する警告です。
// 推定器はこの状況をエラー（ConvergenceError）として返しますが、
// 最適化器を直接使う呼び出し側には警告として通知されます。
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing MaxIterations or loosening GradientThreshold.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning は新しいConvergenceWarningを作成します。
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// CurvatureWarning はBFGS更新の曲率条件 yᵀs > 0 が満たされず、
// 逆ヘッセ行列の更新をスキップした場合の警告です。
type CurvatureWarning struct {
	Iteration int
	Curvature float64 // yᵀs の値
}

func (w *CurvatureWarning) Error() string {
	return fmt.Sprintf("BFGS update skipped at iteration %d: curvature condition violated (y's = %.6g)", w.Iteration, w.Curvature)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *CurvatureWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("iteration", w.Iteration).
		Float64("curvature", w.Curvature).
		Str("type", "CurvatureWarning")
}

// NewCurvatureWarning は新しいCurvatureWarningを作成します。
func NewCurvatureWarning(iteration int, curvature float64) *CurvatureWarning {
	return &CurvatureWarning{Iteration: iteration, Curvature: curvature}
}

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
// 例えば、応答がすべて同じ値でR²やMcFaddenの疑似R²が定義できない場合など。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	入力検証エラー
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で結果を参照した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("statmodels: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("statmodels: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力データや設定の検証に失敗した場合のエラーです
// （InputValidationError）。非二値の応答、重複した列名、未知のモデル種別などを示します。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("statmodels: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切な場合に発生するエラーです。
// 例えば、空のベクトルで評価指標を計算しようとした場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("statmodels: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は推定処理の失敗に操作名を付与するラッパーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("statmodels: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("statmodels: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	推定・推測のエラー型
//
// ===========================================================================

// SingularMatrixError は行列が数値的に正則でない場合のエラーです。
// 完全な特異性だけでなく、条件数が閾値を超えた場合も含みます。
type SingularMatrixError struct {
	Op        string
	Dim       int
	Condition float64 // 推定条件数（完全特異の場合は +Inf）
	Threshold float64 // 許容される最大条件数
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("statmodels: %s: %dx%d matrix is singular or ill-conditioned (condition number %.4g exceeds %.4g); check for collinear columns",
		e.Op, e.Dim, e.Dim, e.Condition, e.Threshold)
}

// Is は ErrSingularMatrix との比較を可能にします。
func (e *SingularMatrixError) Is(target error) bool {
	return target == ErrSingularMatrix
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SingularMatrixError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("dim", e.Dim).
		Float64("condition", e.Condition).
		Float64("threshold", e.Threshold).
		Str("type", "SingularMatrixError")
}

// NewSingularMatrixError は新しいSingularMatrixErrorを作成し、スタックトレースを付与します。
func NewSingularMatrixError(op string, dim int, condition, threshold float64) error {
	err := &SingularMatrixError{Op: op, Dim: dim, Condition: condition, Threshold: threshold}
	return errors.WithStack(err)
}

// InsufficientDOFError はOLSで観測数が係数の数以下（n ≤ k）の場合のエラーです。
type InsufficientDOFError struct {
	Op           string
	Observations int
	Parameters   int
}

// DF は残差自由度 n − k を返します（0以下）。
func (e *InsufficientDOFError) DF() int {
	return e.Observations - e.Parameters
}

func (e *InsufficientDOFError) Error() string {
	return fmt.Sprintf("statmodels: %s: insufficient degrees of freedom: n=%d observations, k=%d parameters, df=%d (need n > k)",
		e.Op, e.Observations, e.Parameters, e.DF())
}

// Is は ErrInsufficientDOF との比較を可能にします。
func (e *InsufficientDOFError) Is(target error) bool {
	return target == ErrInsufficientDOF
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InsufficientDOFError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("observations", e.Observations).
		Int("parameters", e.Parameters).
		Int("df", e.DF()).
		Str("type", "InsufficientDOFError")
}

// NewInsufficientDOFError は新しいInsufficientDOFErrorを作成し、スタックトレースを付与します。
func NewInsufficientDOFError(op string, n, k int) error {
	err := &InsufficientDOFError{Op: op, Observations: n, Parameters: k}
	return errors.WithStack(err)
}

// ConvergenceError は最適化が許容誤差を満たさずに終了した場合のエラーです
// （OptimizationDidNotConverge）。未収束の推定値は決して受け入れません。
type ConvergenceError struct {
	Algorithm  string
	Iterations int
	GradNorm   float64
	Status     string
	Message    string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("statmodels: %s did not converge after %d iterations (status %s, gradient norm %.4g): %s",
		e.Algorithm, e.Iterations, e.Status, e.GradNorm, e.Message)
}

// Is は ErrNotConverged との比較を可能にします。
func (e *ConvergenceError) Is(target error) bool {
	return target == ErrNotConverged
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ConvergenceError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("algorithm", e.Algorithm).
		Int("iterations", e.Iterations).
		Float64("grad_norm", e.GradNorm).
		Str("status", e.Status).
		Str("message", e.Message).
		Str("type", "ConvergenceError")
}

// NewConvergenceError は新しいConvergenceErrorを作成し、スタックトレースを付与します。
func NewConvergenceError(algorithm string, iterations int, gradNorm float64, status, message string) error {
	err := &ConvergenceError{
		Algorithm:  algorithm,
		Iterations: iterations,
		GradNorm:   gradNorm,
		Status:     status,
		Message:    message,
	}
	return errors.WithStack(err)
}

// NegativeVarianceError は共分散行列の対角要素が正でない場合のエラーです。
// 上流の数値的不安定を示すため、絶対値などで隠さずに必ず報告します。
type NegativeVarianceError struct {
	Index int
	Name  string // 列名（不明な場合は空）
	Value float64
}

func (e *NegativeVarianceError) Error() string {
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("#%d", e.Index)
	}
	return fmt.Sprintf("statmodels: non-positive variance %.6g on covariance diagonal for column %s (index %d); the curvature estimate is numerically unstable",
		e.Value, name, e.Index)
}

// Is は ErrNegativeVariance との比較を可能にします。
func (e *NegativeVarianceError) Is(target error) bool {
	return target == ErrNegativeVariance
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NegativeVarianceError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("index", e.Index).
		Str("name", e.Name).
		Float64("value", e.Value).
		Str("type", "NegativeVarianceError")
}

// NewNegativeVarianceError は新しいNegativeVarianceErrorを作成し、スタックトレースを付与します。
func NewNegativeVarianceError(index int, name string, value float64) error {
	err := &NegativeVarianceError{Index: index, Name: name, Value: value}
	return errors.WithStack(err)
}

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// 入力データや目的関数値に含まれるNaN、Infを検出します。
type NumericalInstabilityError struct {
	Operation string    // 発生した操作（例: "design_matrix", "objective"）
	Values    []float64 // 問題のある値
	Iteration int       // 発生したイテレーション番号
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("statmodels: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NumericalInstabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Int("iteration", e.Iteration).
		Floats64("values", e.Values).
		Str("type", "NumericalInstabilityError")
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
	}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// IsSingularMatrix は err の連鎖に SingularMatrixError が含まれるかを返します。
func IsSingularMatrix(err error) bool {
	var e *SingularMatrixError
	return errors.As(err, &e)
}

// IsInsufficientDOF は err の連鎖に InsufficientDOFError が含まれるかを返します。
func IsInsufficientDOF(err error) bool {
	var e *InsufficientDOFError
	return errors.As(err, &e)
}

// IsNotConverged は err の連鎖に ConvergenceError が含まれるかを返します。
func IsNotConverged(err error) bool {
	var e *ConvergenceError
	return errors.As(err, &e)
}

// IsNegativeVariance は err の連鎖に NegativeVarianceError が含まれるかを返します。
func IsNegativeVariance(err error) bool {
	var e *NegativeVarianceError
	return errors.As(err, &e)
}

// IsValidation は err の連鎖に入力検証系のエラー（ValidationError または DimensionError）が含まれるかを返します。
func IsValidation(err error) bool {
	var v *ValidationError
	if errors.As(err, &v) {
		return true
	}
	var d *DimensionError
	return errors.As(err, &d)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")

	// ErrInsufficientDOF は残差自由度が不足している場合のエラーです。
	ErrInsufficientDOF = New("insufficient degrees of freedom")

	// ErrNotConverged は最適化が収束しなかった場合のエラーです。
	ErrNotConverged = New("optimization did not converge")

	// ErrNegativeVariance は分散推定値が正でない場合のエラーです。
	ErrNegativeVariance = New("non-positive variance")
)
