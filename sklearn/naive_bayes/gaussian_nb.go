package naive_bayes

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/core/model"
	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// GaussianNB is a naive Bayes classifier for continuous features. Each
// feature is modeled as a per-class normal distribution, which makes it
// the usual choice when features are measurements rather than counts.
type GaussianNB struct {
	state *model.StateManager

	varSmoothing float64

	classes_   []int
	nFeatures_ int

	theta_ [][]float64 // per-class feature means
	sigma_ [][]float64 // per-class feature variances
	prior_ []float64
}

// GaussianNBOption configures a GaussianNB.
type GaussianNBOption func(*GaussianNB)

// WithVarSmoothing sets the fraction of the largest feature variance
// added to every variance for numerical stability. Default 1e-9.
func WithVarSmoothing(eps float64) GaussianNBOption {
	return func(nb *GaussianNB) { nb.varSmoothing = eps }
}

// NewGaussianNB creates a Gaussian naive Bayes classifier.
func NewGaussianNB(opts ...GaussianNBOption) *GaussianNB {
	nb := &GaussianNB{
		state:        model.NewStateManager(),
		varSmoothing: 1e-9,
	}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

// Fit estimates per-class means, variances and priors from X and y.
func (nb *GaussianNB) Fit(X, y mat.Matrix) error {
	if X == nil || y == nil {
		return errors.NewValueError("GaussianNB.Fit", "nil input")
	}
	n, c := X.Dims()
	yr, _ := y.Dims()
	if n == 0 {
		return errors.NewModelError("GaussianNB.Fit", "empty data", errors.ErrEmptyData)
	}
	if yr != n {
		return errors.NewDimensionError("GaussianNB.Fit", n, yr, 0)
	}

	byClass := map[int][]int{}
	for i := 0; i < n; i++ {
		class := int(y.At(i, 0))
		byClass[class] = append(byClass[class], i)
	}
	nb.classes_ = make([]int, 0, len(byClass))
	for class := range byClass {
		nb.classes_ = append(nb.classes_, class)
	}
	sort.Ints(nb.classes_)
	nb.nFeatures_ = c

	nClasses := len(nb.classes_)
	nb.theta_ = make([][]float64, nClasses)
	nb.sigma_ = make([][]float64, nClasses)
	nb.prior_ = make([]float64, nClasses)

	var maxVar float64
	for ci, class := range nb.classes_ {
		rows := byClass[class]
		nb.prior_[ci] = float64(len(rows)) / float64(n)
		nb.theta_[ci] = make([]float64, c)
		nb.sigma_[ci] = make([]float64, c)

		for j := 0; j < c; j++ {
			var sum float64
			for _, r := range rows {
				sum += X.At(r, j)
			}
			mean := sum / float64(len(rows))
			var ss float64
			for _, r := range rows {
				d := X.At(r, j) - mean
				ss += d * d
			}
			variance := ss / float64(len(rows))
			nb.theta_[ci][j] = mean
			nb.sigma_[ci][j] = variance
			if variance > maxVar {
				maxVar = variance
			}
		}
	}

	// Shift every variance away from zero so constant features do not
	// produce infinite densities.
	eps := nb.varSmoothing * maxVar
	if eps == 0 {
		eps = nb.varSmoothing
	}
	for ci := range nb.sigma_ {
		for j := range nb.sigma_[ci] {
			nb.sigma_[ci][j] += eps
		}
	}

	nb.state.SetFitted()
	nb.state.SetDimensions(c, n)
	return nil
}

func (nb *GaussianNB) jointLogLikelihood(X mat.Matrix, i int) []float64 {
	joint := make([]float64, len(nb.classes_))
	for ci := range nb.classes_ {
		joint[ci] = math.Log(nb.prior_[ci])
		for j := 0; j < nb.nFeatures_; j++ {
			d := X.At(i, j) - nb.theta_[ci][j]
			v := nb.sigma_[ci][j]
			joint[ci] -= 0.5*math.Log(2*math.Pi*v) + d*d/(2*v)
		}
	}
	return joint
}

// Predict returns the most probable class for each row of X.
func (nb *GaussianNB) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := nb.checkInput(X, "Predict"); err != nil {
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
func (nb *GaussianNB) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := nb.checkInput(X, "PredictProba"); err != nil {
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
		var total float64
		for ci, v := range joint {
			joint[ci] = math.Exp(v - maxJoint)
			total += joint[ci]
		}
		for ci, v := range joint {
			out.Set(i, ci, v/total)
		}
	}
	return out, nil
}

// Score returns the accuracy on X against y.
func (nb *GaussianNB) Score(X, y mat.Matrix) (float64, error) {
	pred, err := nb.Predict(X)
	if err != nil {
		return 0, err
	}
	n, _ := y.Dims()
	if n == 0 {
		return 0, errors.NewValueError("GaussianNB.Score", "empty input")
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
func (nb *GaussianNB) Classes() []int {
	return append([]int(nil), nb.classes_...)
}

func (nb *GaussianNB) checkInput(X mat.Matrix, method string) error {
	if !nb.state.IsFitted() {
		return errors.NewNotFittedError("GaussianNB", method)
	}
	if X == nil {
		return errors.NewValueError("GaussianNB."+method, "nil input")
	}
	_, c := X.Dims()
	if c != nb.nFeatures_ {
		return errors.NewDimensionError("GaussianNB."+method, nb.nFeatures_, c, 1)
	}
	return nil
}
