// Package naive_bayes implements naive Bayes classifiers.
package naive_bayes

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/core/model"
	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// MultinomialNB is a naive Bayes classifier for count features, the
// classic model for text classification on word counts. It learns from
// batches via PartialFit, so it can train on streams that never fit in
// memory.
type MultinomialNB struct {
	state *model.StateManager

	alpha    float64
	fitPrior bool

	classes_      []int
	classIndex    map[int]int
	nFeatures_    int
	nSamplesSeen_ int

	// featureCount_[c][j] accumulates the total count of feature j in
	// class c; classCount_[c] the number of samples of class c.
	featureCount_ [][]float64
	classCount_   []float64
}

// MultinomialNBOption configures a MultinomialNB.
type MultinomialNBOption func(*MultinomialNB)

// WithAlpha sets the additive (Laplace) smoothing parameter. Default 1.
func WithAlpha(alpha float64) MultinomialNBOption {
	return func(nb *MultinomialNB) { nb.alpha = alpha }
}

// WithFitPrior controls whether class priors are learned from the data.
// When false a uniform prior is used. Default true.
func WithFitPrior(fit bool) MultinomialNBOption {
	return func(nb *MultinomialNB) { nb.fitPrior = fit }
}

// NewMultinomialNB creates a multinomial naive Bayes classifier.
func NewMultinomialNB(opts ...MultinomialNBOption) *MultinomialNB {
	nb := &MultinomialNB{
		state:    model.NewStateManager(),
		alpha:    1.0,
		fitPrior: true,
	}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

// Fit trains the model from scratch on X and y.
func (nb *MultinomialNB) Fit(X, y mat.Matrix) error {
	if X == nil || y == nil {
		return errors.NewValueError("MultinomialNB.Fit", "nil input")
	}
	n, _ := y.Dims()
	seen := map[int]struct{}{}
	for i := 0; i < n; i++ {
		seen[int(y.At(i, 0))] = struct{}{}
	}
	classes := make([]int, 0, len(seen))
	for class := range seen {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	nb.reset()
	return nb.PartialFit(X, y, classes)
}

// PartialFit updates the model with one batch. The first call must
// name the full class set; later calls pass nil.
func (nb *MultinomialNB) PartialFit(X, y mat.Matrix, classes []int) error {
	if X == nil || y == nil {
		return errors.NewValueError("MultinomialNB.PartialFit", "nil input")
	}
	n, c := X.Dims()
	yr, _ := y.Dims()
	if n == 0 {
		return errors.NewModelError("MultinomialNB.PartialFit", "empty data", errors.ErrEmptyData)
	}
	if yr != n {
		return errors.NewDimensionError("MultinomialNB.PartialFit", n, yr, 0)
	}

	if nb.classes_ == nil {
		if len(classes) == 0 {
			return errors.NewValueError("MultinomialNB.PartialFit",
				"classes must be provided on the first call")
		}
		nb.classes_ = append([]int(nil), classes...)
		sort.Ints(nb.classes_)
		nb.classIndex = make(map[int]int, len(nb.classes_))
		for i, class := range nb.classes_ {
			nb.classIndex[class] = i
		}
		nb.nFeatures_ = c
		nb.featureCount_ = make([][]float64, len(nb.classes_))
		for i := range nb.featureCount_ {
			nb.featureCount_[i] = make([]float64, c)
		}
		nb.classCount_ = make([]float64, len(nb.classes_))
	}
	if c != nb.nFeatures_ {
		return errors.NewDimensionError("MultinomialNB.PartialFit", nb.nFeatures_, c, 1)
	}

	for i := 0; i < n; i++ {
		ci, ok := nb.classIndex[int(y.At(i, 0))]
		if !ok {
			return errors.NewValueError("MultinomialNB.PartialFit",
				"label outside the declared class set")
		}
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if v < 0 {
				return errors.NewValueError("MultinomialNB.PartialFit",
					"multinomial features must be non-negative counts")
			}
			nb.featureCount_[ci][j] += v
		}
		nb.classCount_[ci]++
	}
	nb.nSamplesSeen_ += n

	nb.state.SetFitted()
	nb.state.SetDimensions(nb.nFeatures_, nb.nSamplesSeen_)
	return nil
}

func (nb *MultinomialNB) reset() {
	nb.classes_ = nil
	nb.classIndex = nil
	nb.featureCount_ = nil
	nb.classCount_ = nil
	nb.nFeatures_ = 0
	nb.nSamplesSeen_ = 0
	nb.state.Reset()
}

// jointLogLikelihood computes log P(class) + log P(x|class) for one
// row, up to a constant.
func (nb *MultinomialNB) jointLogLikelihood(X mat.Matrix, i int) []float64 {
	nClasses := len(nb.classes_)
	joint := make([]float64, nClasses)

	var totalSamples float64
	for _, cnt := range nb.classCount_ {
		totalSamples += cnt
	}

	for ci := 0; ci < nClasses; ci++ {
		if nb.fitPrior {
			joint[ci] = math.Log(nb.classCount_[ci] / totalSamples)
		} else {
			joint[ci] = -math.Log(float64(nClasses))
		}

		var classTotal float64
		for _, cnt := range nb.featureCount_[ci] {
			classTotal += cnt
		}
		denom := classTotal + nb.alpha*float64(nb.nFeatures_)

		for j := 0; j < nb.nFeatures_; j++ {
			x := X.At(i, j)
			if x == 0 {
				continue
			}
			joint[ci] += x * math.Log((nb.featureCount_[ci][j]+nb.alpha)/denom)
		}
	}
	return joint
}

// Predict returns the most probable class for each row of X.
func (nb *MultinomialNB) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := nb.checkPredictInput(X, "Predict"); err != nil {
		return nil, err
	}
	n, _ := X.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		joint := nb.jointLogLikelihood(X, i)
		best := 0
		for ci := 1; ci < len(joint); ci++ {
			if joint[ci] > joint[best] {
				best = ci
			}
		}
		out.Set(i, 0, float64(nb.classes_[best]))
	}
	return out, nil
}

// PredictProba returns class probabilities, one column per class in
// sorted label order.
func (nb *MultinomialNB) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	logProba, err := nb.PredictLogProba(X)
	if err != nil {
		return nil, err
	}
	n, c := logProba.Dims()
	out := mat.NewDense(n, c, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, math.Exp(logProba.At(i, j)))
		}
	}
	return out, nil
}

// PredictLogProba returns normalized log probabilities via the
// log-sum-exp trick.
func (nb *MultinomialNB) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	if err := nb.checkPredictInput(X, "PredictLogProba"); err != nil {
		return nil, err
	}
	n, _ := X.Dims()
	nClasses := len(nb.classes_)
	out := mat.NewDense(n, nClasses, nil)

	for i := 0; i < n; i++ {
		joint := nb.jointLogLikelihood(X, i)

		maxJoint := joint[0]
		for _, v := range joint[1:] {
			if v > maxJoint {
				maxJoint = v
			}
		}
		var sumExp float64
		for _, v := range joint {
			sumExp += math.Exp(v - maxJoint)
		}
		logNorm := maxJoint + math.Log(sumExp)

		for ci, v := range joint {
			out.Set(i, ci, v-logNorm)
		}
	}
	return out, nil
}

// Score returns the accuracy on X against y.
func (nb *MultinomialNB) Score(X, y mat.Matrix) (float64, error) {
	pred, err := nb.Predict(X)
	if err != nil {
		return 0, err
	}
	n, _ := y.Dims()
	if n == 0 {
		return 0, errors.NewValueError("MultinomialNB.Score", "empty input")
	}
	correct := 0
	for i := 0; i < n; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// Classes returns the sorted class labels.
func (nb *MultinomialNB) Classes() []int {
	return append([]int(nil), nb.classes_...)
}

// NSamplesSeen returns the total number of samples consumed across Fit
// and PartialFit calls.
func (nb *MultinomialNB) NSamplesSeen() int {
	return nb.nSamplesSeen_
}

func (nb *MultinomialNB) checkPredictInput(X mat.Matrix, method string) error {
	if !nb.state.IsFitted() {
		return errors.NewNotFittedError("MultinomialNB", method)
	}
	if X == nil {
		return errors.NewValueError("MultinomialNB."+method, "nil input")
	}
	_, c := X.Dims()
	if c != nb.nFeatures_ {
		return errors.NewDimensionError("MultinomialNB."+method, nb.nFeatures_, c, 1)
	}
	return nil
}
