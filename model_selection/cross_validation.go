package model_selection

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// Estimator is the minimal contract cross-validation needs: fit on one
// partition, score on another.
type Estimator interface {
	Fit(X, y mat.Matrix) error
	Score(X, y mat.Matrix) (float64, error)
}

// CVResult holds per-fold scores from CrossValScore.
type CVResult struct {
	TestScores []float64
}

// MeanScore returns the mean test score across folds.
func (r *CVResult) MeanScore() float64 {
	if len(r.TestScores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range r.TestScores {
		sum += s
	}
	return sum / float64(len(r.TestScores))
}

// StdScore returns the sample standard deviation of the test scores.
func (r *CVResult) StdScore() float64 {
	if len(r.TestScores) <= 1 {
		return 0
	}
	mean := r.MeanScore()
	var sumSq float64
	for _, s := range r.TestScores {
		diff := s - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(r.TestScores)-1))
}

// CrossValScore evaluates an estimator with cross-validation. build
// must return a fresh, unfitted estimator; it is called once per fold
// so that no state leaks between folds.
func CrossValScore(build func() Estimator, X, y mat.Matrix, splitter Splitter) (*CVResult, error) {
	if build == nil {
		return nil, errors.NewValueError("CrossValScore", "nil estimator builder")
	}
	if X == nil || y == nil {
		return nil, errors.NewValueError("CrossValScore", "nil input")
	}
	if splitter == nil {
		splitter = NewStratifiedKFold(5, true, 0)
	}

	n, _ := X.Dims()
	yr, _ := y.Dims()
	if yr != n {
		return nil, errors.NewDimensionError("CrossValScore", n, yr, 0)
	}

	folds := splitter.Split(X, y)
	result := &CVResult{TestScores: make([]float64, 0, len(folds))}

	for _, fold := range folds {
		if len(fold.TrainIndices) == 0 || len(fold.TestIndices) == 0 {
			return nil, errors.NewValueError("CrossValScore", "fold with empty train or test set; reduce n_splits")
		}

		est := build()
		if err := est.Fit(takeRows(X, fold.TrainIndices), takeRows(y, fold.TrainIndices)); err != nil {
			return nil, errors.Wrap(err, "CrossValScore: fit failed")
		}
		score, err := est.Score(takeRows(X, fold.TestIndices), takeRows(y, fold.TestIndices))
		if err != nil {
			return nil, errors.Wrap(err, "CrossValScore: score failed")
		}
		result.TestScores = append(result.TestScores, score)
	}
	return result, nil
}
