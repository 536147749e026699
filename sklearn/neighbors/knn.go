// Package neighbors implements k-nearest neighbor estimators.
//
// These models keep the training data verbatim and defer all work to
// prediction time, which makes them the simplest instance-based
// counterpart to the model-based estimators elsewhere in this module.
package neighbors

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/core/model"
	"github.com/YuminosukeSato/classgo/core/parallel"
	"github.com/YuminosukeSato/classgo/pkg/errors"
)

const (
	// WeightsUniform gives every neighbor an equal vote.
	WeightsUniform = "uniform"
	// WeightsDistance weights each neighbor by inverse distance.
	WeightsDistance = "distance"
)

// parallelThreshold is the batch size below which prediction runs
// sequentially.
const parallelThreshold = 64

// KNeighborsClassifier predicts the majority class among the k training
// samples closest in Euclidean distance.
type KNeighborsClassifier struct {
	state *model.StateManager

	nNeighbors int
	weights    string

	X_        *mat.Dense
	y_        []int
	classes_  []int
	classIdx  map[int]int
	nSamples_ int
}

// KNNOption configures a KNeighborsClassifier or KNeighborsRegressor.
type KNNOption func(*knnConfig)

type knnConfig struct {
	nNeighbors int
	weights    string
}

// WithNNeighbors sets k, the number of neighbors consulted. Default 5.
func WithNNeighbors(k int) KNNOption {
	return func(c *knnConfig) { c.nNeighbors = k }
}

// WithWeights sets the vote weighting: WeightsUniform or WeightsDistance.
func WithWeights(weights string) KNNOption {
	return func(c *knnConfig) { c.weights = weights }
}

func newKNNConfig(opts []KNNOption) knnConfig {
	c := knnConfig{nNeighbors: 5, weights: WeightsUniform}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewKNeighborsClassifier creates a k-nearest neighbor classifier.
func NewKNeighborsClassifier(opts ...KNNOption) *KNeighborsClassifier {
	c := newKNNConfig(opts)
	return &KNeighborsClassifier{
		state:      model.NewStateManager(),
		nNeighbors: c.nNeighbors,
		weights:    c.weights,
	}
}

// Fit memorizes the training data. There is no model to train.
func (knn *KNeighborsClassifier) Fit(X, y mat.Matrix) error {
	Xd, labels, err := checkFitInput("KNeighborsClassifier.Fit", X, y, knn.nNeighbors, knn.weights)
	if err != nil {
		return err
	}

	knn.X_ = Xd
	knn.y_ = make([]int, len(labels))
	seen := map[int]struct{}{}
	for i, v := range labels {
		knn.y_[i] = int(v)
		seen[int(v)] = struct{}{}
	}
	knn.classes_ = make([]int, 0, len(seen))
	for class := range seen {
		knn.classes_ = append(knn.classes_, class)
	}
	sort.Ints(knn.classes_)
	knn.classIdx = make(map[int]int, len(knn.classes_))
	for i, class := range knn.classes_ {
		knn.classIdx[class] = i
	}

	r, c := Xd.Dims()
	knn.nSamples_ = r
	knn.state.SetFitted()
	knn.state.SetDimensions(c, r)
	return nil
}

// Predict returns the majority class among the k nearest neighbors of
// each row of X.
func (knn *KNeighborsClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := knn.PredictProba(X)
	if err != nil {
		return nil, err
	}
	n, _ := proba.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		best, bestProb := 0, proba.At(i, 0)
		for j := 1; j < len(knn.classes_); j++ {
			if p := proba.At(i, j); p > bestProb {
				best, bestProb = j, p
			}
		}
		out.Set(i, 0, float64(knn.classes_[best]))
	}
	return out, nil
}

// PredictProba returns the weighted vote share of each class among the
// k nearest neighbors, one column per class in sorted label order.
func (knn *KNeighborsClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !knn.state.IsFitted() {
		return nil, errors.NewNotFittedError("KNeighborsClassifier", "PredictProba")
	}
	if X == nil {
		return nil, errors.NewValueError("KNeighborsClassifier.PredictProba", "nil input")
	}
	n, c := X.Dims()
	_, trainCols := knn.X_.Dims()
	if c != trainCols {
		return nil, errors.NewDimensionError("KNeighborsClassifier.PredictProba", trainCols, c, 1)
	}

	k := knn.nNeighbors
	if k > knn.nSamples_ {
		k = knn.nSamples_
	}

	out := mat.NewDense(n, len(knn.classes_), nil)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			nearest := kNearest(knn.X_, X, i, k)
			votes := make([]float64, len(knn.classes_))
			var total float64
			for _, nb := range nearest {
				w := neighborWeight(knn.weights, nb.dist)
				votes[knn.classIdx[knn.y_[nb.index]]] += w
				total += w
			}
			for j, v := range votes {
				out.Set(i, j, v/total)
			}
		}
	})
	return out, nil
}

// Score returns the accuracy on X against y.
func (knn *KNeighborsClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := knn.Predict(X)
	if err != nil {
		return 0, err
	}
	n, _ := y.Dims()
	if n == 0 {
		return 0, errors.NewValueError("KNeighborsClassifier.Score", "empty input")
	}
	correct := 0
	for i := 0; i < n; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// Classes returns the sorted class labels seen during Fit.
func (knn *KNeighborsClassifier) Classes() []int {
	return append([]int(nil), knn.classes_...)
}

// GetParams returns the hyperparameters under their scikit-learn names.
func (knn *KNeighborsClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_neighbors": knn.nNeighbors,
		"weights":     knn.weights,
	}
}

type neighbor struct {
	index int
	dist  float64
}

// kNearest returns the k training rows closest to row i of X, nearest
// first. Ties break toward the lower training index via the stable sort.
func kNearest(train *mat.Dense, X mat.Matrix, i, k int) []neighbor {
	n, cols := train.Dims()
	all := make([]neighbor, n)
	for t := 0; t < n; t++ {
		var d2 float64
		for j := 0; j < cols; j++ {
			diff := X.At(i, j) - train.At(t, j)
			d2 += diff * diff
		}
		all[t] = neighbor{index: t, dist: math.Sqrt(d2)}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].dist < all[b].dist })
	return all[:k]
}

// neighborWeight maps a distance to a vote weight. An exact match gets
// a weight large enough to dominate any finite-distance neighbor.
func neighborWeight(weights string, dist float64) float64 {
	if weights != WeightsDistance {
		return 1
	}
	if dist == 0 {
		return 1e12
	}
	return 1 / dist
}

func checkFitInput(op string, X, y mat.Matrix, nNeighbors int, weights string) (*mat.Dense, []float64, error) {
	if X == nil || y == nil {
		return nil, nil, errors.NewValueError(op, "nil input")
	}
	if nNeighbors < 1 {
		return nil, nil, errors.NewValidationError("n_neighbors", "must be at least 1", nNeighbors)
	}
	if weights != WeightsUniform && weights != WeightsDistance {
		return nil, nil, errors.NewValidationError("weights", "must be uniform or distance", weights)
	}
	n, c := X.Dims()
	yr, _ := y.Dims()
	if n == 0 {
		return nil, nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if yr != n {
		return nil, nil, errors.NewDimensionError(op, n, yr, 0)
	}

	Xd := mat.NewDense(n, c, nil)
	Xd.Copy(X)
	labels := make([]float64, n)
	for i := 0; i < n; i++ {
		labels[i] = y.At(i, 0)
	}
	return Xd, labels, nil
}
