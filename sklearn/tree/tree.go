// Package tree implements CART decision trees for classification and
// regression.
package tree

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/core/model"
	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// treeNode is a single node of a fitted tree. Internal nodes split on
// feature < threshold; leaves carry the class distribution (classifier)
// or the mean target (regressor).
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode

	isLeaf bool
	// proba holds the class distribution at this leaf, indexed like
	// classes_.
	proba []float64
	// value is the regression prediction at this leaf.
	value float64
}

// DecisionTreeClassifier is a CART classifier supporting gini and
// entropy impurity.
type DecisionTreeClassifier struct {
	model.BaseEstimator

	criterion       string
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int

	root         *treeNode
	classes_     []float64
	nClasses_    int
	nFeatures_   int
	importances_ []float64
	depth_       int
	nLeaves_     int
}

// TreeOption configures a decision tree.
type TreeOption func(*treeConfig)

type treeConfig struct {
	criterion       string
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
}

// WithCriterion sets the split quality measure: "gini" or "entropy".
// Default "gini". Regressors ignore it and always use MSE.
func WithCriterion(criterion string) TreeOption {
	return func(c *treeConfig) { c.criterion = criterion }
}

// WithMaxDepth limits the depth of the tree. Values below 1 mean
// unlimited.
func WithMaxDepth(depth int) TreeOption {
	return func(c *treeConfig) { c.maxDepth = depth }
}

// WithMinSamplesSplit sets the minimum number of samples a node needs
// before it may be split. Default 2.
func WithMinSamplesSplit(n int) TreeOption {
	return func(c *treeConfig) { c.minSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum number of samples each leaf must
// keep. Default 1.
func WithMinSamplesLeaf(n int) TreeOption {
	return func(c *treeConfig) { c.minSamplesLeaf = n }
}

func applyTreeOptions(opts []TreeOption) treeConfig {
	cfg := treeConfig{
		criterion:       "gini",
		maxDepth:        -1,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewDecisionTreeClassifier creates a classifier with the given
// options.
func NewDecisionTreeClassifier(opts ...TreeOption) *DecisionTreeClassifier {
	cfg := applyTreeOptions(opts)
	return &DecisionTreeClassifier{
		criterion:       cfg.criterion,
		maxDepth:        cfg.maxDepth,
		minSamplesSplit: cfg.minSamplesSplit,
		minSamplesLeaf:  cfg.minSamplesLeaf,
	}
}

// Fit grows the tree on X and y.
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	if X == nil || y == nil {
		return errors.NewValueError("DecisionTreeClassifier.Fit", "nil input")
	}
	n, c := X.Dims()
	yr, _ := y.Dims()
	if n == 0 {
		return errors.NewModelError("DecisionTreeClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if yr != n {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", n, yr, 0)
	}
	if dt.criterion != "gini" && dt.criterion != "entropy" {
		return errors.NewValueError("DecisionTreeClassifier.Fit", "criterion must be \"gini\" or \"entropy\"")
	}

	labels := make([]float64, n)
	seen := map[float64]struct{}{}
	for i := 0; i < n; i++ {
		labels[i] = y.At(i, 0)
		seen[labels[i]] = struct{}{}
	}
	dt.classes_ = make([]float64, 0, len(seen))
	for label := range seen {
		dt.classes_ = append(dt.classes_, label)
	}
	sort.Float64s(dt.classes_)
	dt.nClasses_ = len(dt.classes_)
	dt.nFeatures_ = c

	classIndex := make(map[float64]int, dt.nClasses_)
	for i, label := range dt.classes_ {
		classIndex[label] = i
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	g := &classifierGrower{
		X:          X,
		labels:     labels,
		classIndex: classIndex,
		nClasses:   dt.nClasses_,
		nTotal:     n,
		cfg: treeConfig{
			criterion:       dt.criterion,
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

// Predict returns the majority class at the leaf each sample lands in.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := dt.PredictProba(X)
	if err != nil {
		return nil, err
	}
	n, _ := proba.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		best, bestProb := 0, proba.At(i, 0)
		for j := 1; j < dt.nClasses_; j++ {
			if p := proba.At(i, j); p > bestProb {
				best, bestProb = j, p
			}
		}
		out.Set(i, 0, dt.classes_[best])
	}
	return out, nil
}

// PredictProba returns the class distribution at the leaf each sample
// lands in, with one column per class in sorted label order.
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "PredictProba")
	}
	if X == nil {
		return nil, errors.NewValueError("DecisionTreeClassifier.PredictProba", "nil input")
	}
	n, c := X.Dims()
	if c != dt.nFeatures_ {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.PredictProba", dt.nFeatures_, c, 1)
	}

	out := mat.NewDense(n, dt.nClasses_, nil)
	for i := 0; i < n; i++ {
		leaf := dt.root
		for !leaf.isLeaf {
			if X.At(i, leaf.feature) < leaf.threshold {
				leaf = leaf.left
			} else {
				leaf = leaf.right
			}
		}
		for j, p := range leaf.proba {
			out.Set(i, j, p)
		}
	}
	return out, nil
}

// Score returns the accuracy of the tree on X against y. An unfitted or
// mismatched input scores 0.
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) float64 {
	pred, err := dt.Predict(X)
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
func (dt *DecisionTreeClassifier) Classes() []float64 {
	return append([]float64(nil), dt.classes_...)
}

// GetFeatureImportances returns the normalized impurity decrease
// attributed to each feature. Importances sum to 1.
func (dt *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	return append([]float64(nil), dt.importances_...)
}

// GetDepth returns the depth of the fitted tree.
func (dt *DecisionTreeClassifier) GetDepth() int { return dt.depth_ }

// GetNLeaves returns the number of leaves in the fitted tree.
func (dt *DecisionTreeClassifier) GetNLeaves() int { return dt.nLeaves_ }

// GetParams returns the hyperparameters under their scikit-learn names.
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":         dt.criterion,
		"max_depth":         dt.maxDepth,
		"min_samples_split": dt.minSamplesSplit,
		"min_samples_leaf":  dt.minSamplesLeaf,
	}
}

// SetParams updates hyperparameters from their scikit-learn names.
func (dt *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "criterion":
			s, ok := value.(string)
			if !ok {
				return errors.NewValueError("DecisionTreeClassifier.SetParams", "criterion must be a string")
			}
			dt.criterion = s
		case "max_depth":
			v, err := toInt("max_depth", value)
			if err != nil {
				return err
			}
			dt.maxDepth = v
		case "min_samples_split":
			v, err := toInt("min_samples_split", value)
			if err != nil {
				return err
			}
			dt.minSamplesSplit = v
		case "min_samples_leaf":
			v, err := toInt("min_samples_leaf", value)
			if err != nil {
				return err
			}
			dt.minSamplesLeaf = v
		default:
			return errors.NewValueError("DecisionTreeClassifier.SetParams", "unknown parameter "+key)
		}
	}
	return nil
}

func toInt(name string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, errors.NewValueError("SetParams", name+" must be an int")
	}
}

// classifierGrower carries the state shared across the recursive grow.
type classifierGrower struct {
	X          mat.Matrix
	labels     []float64
	classIndex map[float64]int
	nClasses   int
	nTotal     int
	cfg        treeConfig

	importances []float64
	depth       int
	leaves      int
}

func (g *classifierGrower) grow(indices []int, depth int) *treeNode {
	counts := g.countClasses(indices)
	impurity := g.impurity(counts, len(indices))

	if depth > g.depth {
		g.depth = depth
	}

	if impurity == 0 ||
		len(indices) < g.cfg.minSamplesSplit ||
		(g.cfg.maxDepth > 0 && depth >= g.cfg.maxDepth) {
		return g.leaf(counts, len(indices))
	}

	feature, threshold, gain, ok := g.bestSplit(indices, impurity)
	if !ok {
		return g.leaf(counts, len(indices))
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

func (g *classifierGrower) leaf(counts []float64, n int) *treeNode {
	g.leaves++
	proba := make([]float64, g.nClasses)
	for j, cnt := range counts {
		proba[j] = cnt / float64(n)
	}
	return &treeNode{isLeaf: true, proba: proba}
}

func (g *classifierGrower) countClasses(indices []int) []float64 {
	counts := make([]float64, g.nClasses)
	for _, idx := range indices {
		counts[g.classIndex[g.labels[idx]]]++
	}
	return counts
}

func (g *classifierGrower) impurity(counts []float64, n int) float64 {
	if n == 0 {
		return 0
	}
	switch g.cfg.criterion {
	case "entropy":
		var h float64
		for _, cnt := range counts {
			if cnt == 0 {
				continue
			}
			p := cnt / float64(n)
			h -= p * math.Log2(p)
		}
		return h
	default: // gini
		gini := 1.0
		for _, cnt := range counts {
			p := cnt / float64(n)
			gini -= p * p
		}
		return gini
	}
}

// bestSplit scans every feature for the threshold with the largest
// impurity decrease. Thresholds sit at midpoints between adjacent
// distinct values.
func (g *classifierGrower) bestSplit(indices []int, parentImpurity float64) (feature int, threshold, gain float64, ok bool) {
	n := len(indices)
	_, nFeatures := g.X.Dims()
	bestGain := 0.0

	sorted := make([]int, n)
	for f := 0; f < nFeatures; f++ {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool {
			return g.X.At(sorted[a], f) < g.X.At(sorted[b], f)
		})

		leftCounts := make([]float64, g.nClasses)
		rightCounts := g.countClasses(sorted)

		for i := 0; i < n-1; i++ {
			ci := g.classIndex[g.labels[sorted[i]]]
			leftCounts[ci]++
			rightCounts[ci]--

			v, next := g.X.At(sorted[i], f), g.X.At(sorted[i+1], f)
			if v == next {
				continue
			}
			nLeft, nRight := i+1, n-i-1
			if nLeft < g.cfg.minSamplesLeaf || nRight < g.cfg.minSamplesLeaf {
				continue
			}

			childImpurity := float64(nLeft)/float64(n)*g.impurity(leftCounts, nLeft) +
				float64(nRight)/float64(n)*g.impurity(rightCounts, nRight)
			if split := parentImpurity - childImpurity; split > bestGain {
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

// normalize scales values so they sum to 1; an all-zero input is
// returned unchanged.
func normalize(values []float64) []float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	if sum == 0 {
		return values
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / sum
	}
	return out
}
