// Package linear_model implements linear models for classification and
// regression.
package linear_model

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/core/model"
	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// LogisticRegression is a linear classifier trained by gradient descent
// on the log loss. Binary problems fit a single weight vector;
// multiclass problems fit one-vs-rest.
type LogisticRegression struct {
	state *model.StateManager

	penalty      string
	C            float64
	fitIntercept bool
	maxIter      int
	tol          float64

	coef_      [][]float64
	intercept_ []float64
	classes_   []int
	nClasses_  int
	nFeatures_ int
	nIter_     []int
}

// LogisticRegressionOption configures a LogisticRegression.
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a classifier with L2 regularization,
// C=1 and at most 100 gradient descent iterations.
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      "l2",
		C:            1.0,
		fitIntercept: true,
		maxIter:      100,
		tol:          1e-4,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// WithLRC sets the inverse regularization strength.
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.C = c }
}

// WithLRPenalty sets the regularization type: "l2" or "none".
func WithLRPenalty(penalty string) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.penalty = penalty }
}

// WithLogisticFitIntercept controls whether an intercept is fitted.
func WithLogisticFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.fitIntercept = fit }
}

// WithLRMaxIter sets the maximum number of gradient descent iterations.
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.maxIter = maxIter }
}

// WithLRTol sets the gradient norm below which training stops early.
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.tol = tol }
}

// Fit trains the model on X and y.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	if X == nil || y == nil {
		return errors.NewValueError("LogisticRegression.Fit", "nil input")
	}
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("LogisticRegression.Fit", "y must be a column vector")
	}

	lr.extractClasses(y)
	if lr.nClasses_ < 2 {
		return errors.NewValueError("LogisticRegression.Fit", "need at least 2 classes")
	}
	lr.nFeatures_ = nFeatures

	// One weight vector for binary, one per class for OVR.
	nModels := 1
	if lr.nClasses_ > 2 {
		nModels = lr.nClasses_
	}
	lr.coef_ = make([][]float64, nModels)
	for i := range lr.coef_ {
		lr.coef_[i] = make([]float64, nFeatures)
	}
	lr.intercept_ = make([]float64, nModels)
	lr.nIter_ = make([]int, nModels)

	for m := 0; m < nModels; m++ {
		positive := lr.classes_[1]
		if nModels > 1 {
			positive = lr.classes_[m]
		}
		lr.fitOneVsRest(X, y, m, positive)
	}

	lr.state.SetFitted()
	return nil
}

// fitOneVsRest trains weight vector m to separate the positive class
// from everything else, by full-batch gradient descent with a decaying
// learning rate.
func (lr *LogisticRegression) fitOneVsRest(X, y mat.Matrix, m, positive int) {
	nSamples, nFeatures := X.Dims()
	weights := lr.coef_[m]
	intercept := &lr.intercept_[m]

	target := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		if int(y.At(i, 0)) == positive {
			target[i] = 1
		}
	}

	lambda := 0.0
	if lr.penalty == "l2" {
		lambda = 1.0 / lr.C
	}

	grad := make([]float64, nFeatures)
	converged := false
	for iter := 0; iter < lr.maxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := *intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * weights[j]
			}
			residual := sigmoid(z) - target[i]
			gradIntercept += residual
			for j := 0; j < nFeatures; j++ {
				grad[j] += residual * X.At(i, j)
			}
		}

		maxGrad := math.Abs(gradIntercept / float64(nSamples))
		for j := range grad {
			grad[j] = grad[j]/float64(nSamples) + lambda*weights[j]
			if g := math.Abs(grad[j]); g > maxGrad {
				maxGrad = g
			}
		}
		gradIntercept /= float64(nSamples)

		learningRate := 1.0 / (1.0 + 0.1*float64(iter))
		for j := range weights {
			weights[j] -= learningRate * grad[j]
		}
		if lr.fitIntercept {
			*intercept -= learningRate * gradIntercept
		}

		lr.nIter_[m] = iter + 1
		if maxGrad < lr.tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.maxIter,
			"gradient descent did not reach tol; consider increasing max_iter"))
	}
}

func (lr *LogisticRegression) extractClasses(y mat.Matrix) {
	rows, _ := y.Dims()
	seen := map[int]struct{}{}
	for i := 0; i < rows; i++ {
		seen[int(y.At(i, 0))] = struct{}{}
	}
	lr.classes_ = make([]int, 0, len(seen))
	for class := range seen {
		lr.classes_ = append(lr.classes_, class)
	}
	sort.Ints(lr.classes_)
	lr.nClasses_ = len(lr.classes_)
}

// decision computes the raw scores of each weight vector for one row.
func (lr *LogisticRegression) decision(X mat.Matrix, i int) []float64 {
	scores := make([]float64, len(lr.coef_))
	for m := range lr.coef_ {
		z := lr.intercept_[m]
		for j := 0; j < lr.nFeatures_; j++ {
			z += X.At(i, j) * lr.coef_[m][j]
		}
		scores[m] = z
	}
	return scores
}

// Predict returns the most probable class for each row of X.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}
	n, _ := proba.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		best, bestProb := 0, proba.At(i, 0)
		for j := 1; j < lr.nClasses_; j++ {
			if p := proba.At(i, j); p > bestProb {
				best, bestProb = j, p
			}
		}
		out.Set(i, 0, float64(lr.classes_[best]))
	}
	return out, nil
}

// PredictProba returns class probabilities, one column per class in
// sorted label order. Multiclass probabilities are the normalized
// one-vs-rest sigmoid scores.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "PredictProba")
	}
	if X == nil {
		return nil, errors.NewValueError("LogisticRegression.PredictProba", "nil input")
	}
	n, c := X.Dims()
	if c != lr.nFeatures_ {
		return nil, errors.NewDimensionError("LogisticRegression.PredictProba", lr.nFeatures_, c, 1)
	}

	out := mat.NewDense(n, lr.nClasses_, nil)
	for i := 0; i < n; i++ {
		scores := lr.decision(X, i)
		if lr.nClasses_ == 2 {
			p := sigmoid(scores[0])
			out.Set(i, 0, 1-p)
			out.Set(i, 1, p)
			continue
		}

		var total float64
		for m, z := range scores {
			scores[m] = sigmoid(z)
			total += scores[m]
		}
		for m, p := range scores {
			if total > 0 {
				out.Set(i, m, p/total)
			} else {
				out.Set(i, m, 1/float64(lr.nClasses_))
			}
		}
	}
	return out, nil
}

// Score returns the accuracy on X against y. An unfitted or mismatched
// input scores 0.
func (lr *LogisticRegression) Score(X, y mat.Matrix) float64 {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0
	}
	n, _ := y.Dims()
	pn, _ := pred.Dims()
	if n == 0 || pn != n {
		return 0
	}
	correct := 0
	for i := 0; i < n; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(n)
}

// Classes returns the sorted class labels seen during Fit.
func (lr *LogisticRegression) Classes() []int {
	return append([]int(nil), lr.classes_...)
}

// Coef returns the fitted weight vectors, one per model.
func (lr *LogisticRegression) Coef() [][]float64 {
	out := make([][]float64, len(lr.coef_))
	for i, w := range lr.coef_ {
		out[i] = append([]float64(nil), w...)
	}
	return out
}

// Intercept returns the fitted intercepts, one per model.
func (lr *LogisticRegression) Intercept() []float64 {
	return append([]float64(nil), lr.intercept_...)
}

// GetParams returns the hyperparameters under their scikit-learn names.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"penalty":       lr.penalty,
		"C":             lr.C,
		"fit_intercept": lr.fitIntercept,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
	}
}

// SetParams updates hyperparameters from their scikit-learn names.
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "penalty":
			s, ok := value.(string)
			if !ok {
				return errors.NewValueError("LogisticRegression.SetParams", "penalty must be a string")
			}
			lr.penalty = s
		case "C":
			v, ok := value.(float64)
			if !ok {
				return errors.NewValueError("LogisticRegression.SetParams", "C must be a float64")
			}
			lr.C = v
		case "fit_intercept":
			b, ok := value.(bool)
			if !ok {
				return errors.NewValueError("LogisticRegression.SetParams", "fit_intercept must be a bool")
			}
			lr.fitIntercept = b
		case "max_iter":
			v, ok := value.(int)
			if !ok {
				return errors.NewValueError("LogisticRegression.SetParams", "max_iter must be an int")
			}
			lr.maxIter = v
		case "tol":
			v, ok := value.(float64)
			if !ok {
				return errors.NewValueError("LogisticRegression.SetParams", "tol must be a float64")
			}
			lr.tol = v
		default:
			return errors.NewValueError("LogisticRegression.SetParams", "unknown parameter "+key)
		}
	}
	return nil
}

func sigmoid(z float64) float64 {
	// Clamp to keep Exp from overflowing.
	if z > 35 {
		return 1
	}
	if z < -35 {
		return 0
	}
	return 1 / (1 + math.Exp(-z))
}
