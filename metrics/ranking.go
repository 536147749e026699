package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// rankPair couples a predicted score with the true relevance of the item
// it ranks.
type rankPair = struct {
	score     float64
	relevance float64
}

// NDCG computes the normalized discounted cumulative gain at k. yTrue
// holds non-negative graded relevance values and yPred the predicted
// scores used to rank the items. k = -1 evaluates the full ranking.
// When every item has zero relevance the metric is undefined and 0 is
// returned.
func NDCG(yTrue, yPred *mat.VecDense, k int) (float64, error) {
	n, err := checkLabelVectors("NDCG", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if k == 0 {
		return 0, errors.NewValueError("NDCG", "k must be positive or -1 for the full ranking")
	}
	if k < 0 || k > n {
		k = n
	}
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) < 0 {
			return 0, errors.NewValueError("NDCG", "relevance values must be non-negative")
		}
	}

	pairs := make([]rankPair, n)
	for i := 0; i < n; i++ {
		pairs[i] = rankPair{score: yPred.AtVec(i), relevance: yTrue.AtVec(i)}
	}

	ranked := make([]rankPair, n)
	copy(ranked, pairs)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	ideal := make([]rankPair, n)
	copy(ideal, pairs)
	sort.SliceStable(ideal, func(a, b int) bool {
		return ideal[a].relevance > ideal[b].relevance
	})

	idealDCG := dcg(ideal, k)
	if idealDCG == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("NDCG", "all relevance values are zero", 0))
		return 0, nil
	}
	return dcg(ranked, k) / idealDCG, nil
}

// NDCGMatrix computes NDCG over matrix inputs, using the first column of
// each matrix as the relevance and score vectors.
func NDCGMatrix(yTrue, yPred mat.Matrix, k int) (float64, error) {
	yTrueVec, yPredVec, err := firstColumns("NDCGMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return NDCG(yTrueVec, yPredVec, k)
}

// dcg computes the discounted cumulative gain of the first k pairs in
// ranked order, with exponential gain (2^rel - 1) and log2 position
// discount.
func dcg(pairs []rankPair, k int) float64 {
	if k > len(pairs) {
		k = len(pairs)
	}
	var sum float64
	for i := 0; i < k; i++ {
		gain := math.Exp2(pairs[i].relevance) - 1
		sum += gain / math.Log2(float64(i)+2)
	}
	return sum
}

// AveragePrecision computes the average precision of a binary relevance
// ranking: the mean of precision@r over the ranks r of the relevant
// items, ordered by descending score. With no relevant items the metric
// is undefined and 0 is returned.
func AveragePrecision(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLabelVectors("AveragePrecision", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if err := checkBinaryLabels("AveragePrecision", yTrue); err != nil {
		return 0, err
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return yPred.AtVec(idx[a]) > yPred.AtVec(idx[b])
	})

	var sum float64
	relevant := 0
	for rank, i := range idx {
		if yTrue.AtVec(i) == 1 {
			relevant++
			sum += float64(relevant) / float64(rank+1)
		}
	}
	if relevant == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("AveragePrecision", "no relevant items", 0))
		return 0, nil
	}
	return sum / float64(relevant), nil
}

// MeanAveragePrecision computes the mean of AveragePrecision over a set
// of queries.
func MeanAveragePrecision(yTrueList, yPredList []*mat.VecDense) (float64, error) {
	if len(yTrueList) == 0 {
		return 0, errors.NewValueError("MeanAveragePrecision", "empty query list")
	}
	if len(yTrueList) != len(yPredList) {
		return 0, errors.NewDimensionError("MeanAveragePrecision", len(yTrueList), len(yPredList), 0)
	}

	var sum float64
	for q := range yTrueList {
		ap, err := AveragePrecision(yTrueList[q], yPredList[q])
		if err != nil {
			return 0, err
		}
		sum += ap
	}
	return sum / float64(len(yTrueList)), nil
}
