// Additional interfaces composing the estimator contracts. This file
// complements the basic interfaces in estimator.go.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Scorer is the interface for models that can compute a score.
// For classifiers the score is mean accuracy; for regressors it is R².
type Scorer interface {
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// IncrementalLearner is the interface for models that support
// mini-batch learning via a partial fit.
type IncrementalLearner interface {
	// PartialFit updates the model with one batch of samples.
	// classes lists all class labels and is required on the first call
	// for classifiers; pass nil afterwards (and for regressors).
	PartialFit(X mat.Matrix, y mat.Matrix, classes []int) error
}

// Regressor combines the interfaces implemented by regression models.
type Regressor interface {
	Estimator
	Predictor
	Scorer
}

// Classifier combines the interfaces implemented by classification models.
type Classifier interface {
	Estimator
	Predictor
	Scorer

	// PredictProba returns probability estimates for each class,
	// one column per class in the order reported by Classes.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique class labels seen during fitting.
	Classes() []int
}

// Transformer is the interface for stateless-input, fitted-parameter
// data transformations such as scalers.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// Resampler is the interface for class-imbalance correction methods.
// FitResample returns a new dataset; the inputs are never mutated.
type Resampler interface {
	FitResample(X mat.Matrix, y mat.Matrix) (mat.Matrix, mat.Matrix, error)
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter modification.
type ParameterSetter interface {
	// SetParams sets the model's hyperparameters.
	SetParams(params map[string]interface{}) error
}
