package neighbors

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/core/model"
	"github.com/YuminosukeSato/classgo/core/parallel"
	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// KNeighborsRegressor predicts the (optionally distance-weighted) mean
// target of the k nearest training samples.
type KNeighborsRegressor struct {
	state *model.StateManager

	nNeighbors int
	weights    string

	X_        *mat.Dense
	y_        []float64
	nSamples_ int
}

// NewKNeighborsRegressor creates a k-nearest neighbor regressor.
func NewKNeighborsRegressor(opts ...KNNOption) *KNeighborsRegressor {
	c := newKNNConfig(opts)
	return &KNeighborsRegressor{
		state:      model.NewStateManager(),
		nNeighbors: c.nNeighbors,
		weights:    c.weights,
	}
}

// Fit memorizes the training data.
func (knn *KNeighborsRegressor) Fit(X, y mat.Matrix) error {
	Xd, targets, err := checkFitInput("KNeighborsRegressor.Fit", X, y, knn.nNeighbors, knn.weights)
	if err != nil {
		return err
	}

	knn.X_ = Xd
	knn.y_ = targets
	r, c := Xd.Dims()
	knn.nSamples_ = r
	knn.state.SetFitted()
	knn.state.SetDimensions(c, r)
	return nil
}

// Predict returns the weighted neighbor mean for each row of X.
func (knn *KNeighborsRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !knn.state.IsFitted() {
		return nil, errors.NewNotFittedError("KNeighborsRegressor", "Predict")
	}
	if X == nil {
		return nil, errors.NewValueError("KNeighborsRegressor.Predict", "nil input")
	}
	n, c := X.Dims()
	_, trainCols := knn.X_.Dims()
	if c != trainCols {
		return nil, errors.NewDimensionError("KNeighborsRegressor.Predict", trainCols, c, 1)
	}

	k := knn.nNeighbors
	if k > knn.nSamples_ {
		k = knn.nSamples_
	}

	out := mat.NewDense(n, 1, nil)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			nearest := kNearest(knn.X_, X, i, k)
			var weighted, total float64
			for _, nb := range nearest {
				w := neighborWeight(knn.weights, nb.dist)
				weighted += w * knn.y_[nb.index]
				total += w
			}
			out.Set(i, 0, weighted/total)
		}
	})
	return out, nil
}

// Score returns the coefficient of determination R² on X against y.
func (knn *KNeighborsRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := knn.Predict(X)
	if err != nil {
		return 0, err
	}
	n, _ := y.Dims()
	if n == 0 {
		return 0, errors.NewValueError("KNeighborsRegressor.Score", "empty input")
	}

	var mean float64
	for i := 0; i < n; i++ {
		mean += y.At(i, 0)
	}
	mean /= float64(n)

	var ssTot, ssRes float64
	for i := 0; i < n; i++ {
		yi := y.At(i, 0)
		ssTot += (yi - mean) * (yi - mean)
		diff := yi - pred.At(i, 0)
		ssRes += diff * diff
	}
	if ssTot == 0 {
		return 0, errors.NewValueError("KNeighborsRegressor.Score", "zero variance in y")
	}
	return 1 - ssRes/ssTot, nil
}

// GetParams returns the hyperparameters under their scikit-learn names.
func (knn *KNeighborsRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_neighbors": knn.nNeighbors,
		"weights":     knn.weights,
	}
}
