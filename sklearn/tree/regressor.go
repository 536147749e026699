package tree

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/core/model"
	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// DecisionTreeRegressor is a CART regressor. Splits minimize the mean
// squared error; leaves predict the mean target of their samples.
type DecisionTreeRegressor struct {
	model.BaseEstimator

	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int

	root         *treeNode
	nFeatures_   int
	importances_ []float64
	depth_       int
	nLeaves_     int
}

// NewDecisionTreeRegressor creates a regressor with the given options.
// WithCriterion is ignored; the split criterion is always MSE.
func NewDecisionTreeRegressor(opts ...TreeOption) *DecisionTreeRegressor {
	cfg := applyTreeOptions(opts)
	return &DecisionTreeRegressor{
		maxDepth:        cfg.maxDepth,
		minSamplesSplit: cfg.minSamplesSplit,
		minSamplesLeaf:  cfg.minSamplesLeaf,
	}
}

// Fit grows the tree on X and y.
func (dt *DecisionTreeRegressor) Fit(X, y mat.Matrix) error {
	if X == nil || y == nil {
		return errors.NewValueError("DecisionTreeRegressor.Fit", "nil input")
	}
	n, c := X.Dims()
	yr, _ := y.Dims()
	if n == 0 {
		return errors.NewModelError("DecisionTreeRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if yr != n {
		return errors.NewDimensionError("DecisionTreeRegressor.Fit", n, yr, 0)
	}

	targets := make([]float64, n)
	for i := 0; i < n; i++ {
		targets[i] = y.At(i, 0)
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	dt.nFeatures_ = c
	g := &regressorGrower{
		X:       X,
		targets: targets,
		nTotal:  n,
		cfg: treeConfig{
			maxDepth:        dt.maxDepth,
			minSamplesSplit: dt.minSamplesSplit,
			minSamplesLeaf:  dt.minSamplesLeaf,
		},
		importances: make([]float64, c),
	}
	dt.root = g.grow(indices, 0)
	dt.depth_ = g.depth
	dt.nLeaves_ = g.leaves
	dt.importances_ = normalize(g.importances)

	dt.SetFitted()
	return nil
}

// Predict returns the leaf mean for each sample.
func (dt *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeRegressor", "Predict")
	}
	if X == nil {
		return nil, errors.NewValueError("DecisionTreeRegressor.Predict", "nil input")
	}
	n, c := X.Dims()
	if c != dt.nFeatures_ {
		return nil, errors.NewDimensionError("DecisionTreeRegressor.Predict", dt.nFeatures_, c, 1)
	}

	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		leaf := dt.root
		for !leaf.isLeaf {
			if X.At(i, leaf.feature) < leaf.threshold {
				leaf = leaf.left
			} else {
				leaf = leaf.right
			}
		}
		out.Set(i, 0, leaf.value)
	}
	return out, nil
}

// Score returns the R² of the predictions on X against y. An unfitted
// or degenerate input scores 0.
func (dt *DecisionTreeRegressor) Score(X, y mat.Matrix) float64 {
	pred, err := dt.Predict(X)
	if err != nil {
		return 0
	}
	n, _ := y.Dims()
	if n == 0 {
		return 0
	}

	var mean float64
	for i := 0; i < n; i++ {
		mean += y.At(i, 0)
	}
	mean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		t := y.At(i, 0)
		tss += (t - mean) * (t - mean)
		diff := t - pred.At(i, 0)
		rss += diff * diff
	}
	if tss == 0 {
		return 0
	}
	return 1 - rss/tss
}

// GetFeatureImportances returns the normalized variance reduction
// attributed to each feature.
func (dt *DecisionTreeRegressor) GetFeatureImportances() []float64 {
	return append([]float64(nil), dt.importances_...)
}

// GetDepth returns the depth of the fitted tree.
func (dt *DecisionTreeRegressor) GetDepth() int { return dt.depth_ }

// GetNLeaves returns the number of leaves in the fitted tree.
func (dt *DecisionTreeRegressor) GetNLeaves() int { return dt.nLeaves_ }

type regressorGrower struct {
	X       mat.Matrix
	targets []float64
	nTotal  int
	cfg     treeConfig

	importances []float64
	depth       int
	leaves      int
}

func (g *regressorGrower) grow(indices []int, depth int) *treeNode {
	mean, variance := g.stats(indices)

	if depth > g.depth {
		g.depth = depth
	}

	if variance == 0 ||
		len(indices) < g.cfg.minSamplesSplit ||
		(g.cfg.maxDepth > 0 && depth >= g.cfg.maxDepth) {
		g.leaves++
		return &treeNode{isLeaf: true, value: mean}
	}

	feature, threshold, gain, ok := g.bestSplit(indices, variance)
	if !ok {
		g.leaves++
		return &treeNode{isLeaf: true, value: mean}
	}

	var left, right []int
	for _, idx := range indices {
		if g.X.At(idx, feature) < threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	g.importances[feature] += float64(len(indices)) / float64(g.nTotal) * gain

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      g.grow(left, depth+1),
		right:     g.grow(right, depth+1),
	}
}

func (g *regressorGrower) stats(indices []int) (mean, variance float64) {
	n := float64(len(indices))
	for _, idx := range indices {
		mean += g.targets[idx]
	}
	mean /= n
	for _, idx := range indices {
		diff := g.targets[idx] - mean
		variance += diff * diff
	}
	return mean, variance / n
}

// bestSplit scans every feature for the threshold with the largest
// variance reduction, tracking running sums so each feature is a
// single pass over its sorted values.
func (g *regressorGrower) bestSplit(indices []int, parentVariance float64) (feature int, threshold, gain float64, ok bool) {
	n := len(indices)
	_, nFeatures := g.X.Dims()
	bestGain := 0.0

	var totalSum, totalSumSq float64
	for _, idx := range indices {
		t := g.targets[idx]
		totalSum += t
		totalSumSq += t * t
	}

	sorted := make([]int, n)
	for f := 0; f < nFeatures; f++ {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool {
			return g.X.At(sorted[a], f) < g.X.At(sorted[b], f)
		})

		var leftSum, leftSumSq float64
		for i := 0; i < n-1; i++ {
			t := g.targets[sorted[i]]
			leftSum += t
			leftSumSq += t * t

			v, next := g.X.At(sorted[i], f), g.X.At(sorted[i+1], f)
			if v == next {
				continue
			}
			nLeft, nRight := i+1, n-i-1
			if nLeft < g.cfg.minSamplesLeaf || nRight < g.cfg.minSamplesLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			rightSumSq := totalSumSq - leftSumSq
			varLeft := leftSumSq/float64(nLeft) - (leftSum/float64(nLeft))*(leftSum/float64(nLeft))
			varRight := rightSumSq/float64(nRight) - (rightSum/float64(nRight))*(rightSum/float64(nRight))

			childVariance := float64(nLeft)/float64(n)*varLeft + float64(nRight)/float64(n)*varRight
			if split := parentVariance - childVariance; split > bestGain {
				bestGain = split
				feature = f
				threshold = (v + next) / 2
			}
		}
	}

	if bestGain <= 0 {
		return 0, 0, 0, false
	}
	return feature, threshold, bestGain, true
}
