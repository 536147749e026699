// Package metrics provides evaluation metrics for classification,
// regression, and ranking models.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// logLossEpsilon clips predicted probabilities away from 0 and 1 so that
// the log loss stays finite.
const logLossEpsilon = 1e-15

// Accuracy returns the fraction of labels in yPred that match yTrue.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLabelVectors("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError returns the fraction of misclassified samples,
// i.e. 1 - Accuracy.
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// AUC computes the area under the ROC curve for binary labels. yTrue must
// contain only 0 and 1; yPred holds scores where larger means more likely
// positive. Tied scores contribute half a concordant pair. When yTrue
// contains a single class the AUC is undefined; a UndefinedMetricWarning
// is emitted and 0.5 is returned.
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLabelVectors("AUC", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if err := checkBinaryLabels("AUC", yTrue); err != nil {
		return 0, err
	}

	nPos := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			nPos++
		}
	}
	nNeg := n - nPos
	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("AUC", "only one class present in yTrue", 0.5))
		return 0.5, nil
	}

	// Rank-sum formulation: sort by score, assign average ranks to ties,
	// then AUC = (R_pos - nPos(nPos+1)/2) / (nPos * nNeg).
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return yPred.AtVec(idx[a]) < yPred.AtVec(idx[b])
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && yPred.AtVec(idx[j]) == yPred.AtVec(idx[i]) {
			j++
		}
		avgRank := float64(i+j+1) / 2 // ranks are 1-based
		for k := i; k < j; k++ {
			ranks[idx[k]] = avgRank
		}
		i = j
	}

	var rankSumPos float64
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			rankSumPos += ranks[i]
		}
	}
	return (rankSumPos - float64(nPos)*float64(nPos+1)/2) / (float64(nPos) * float64(nNeg)), nil
}

// AUCMatrix computes AUC over matrix inputs, using the first column of
// each matrix as the label and score vectors.
func AUCMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	yTrueVec, yPredVec, err := firstColumns("AUCMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return AUC(yTrueVec, yPredVec)
}

// BinaryLogLoss computes the negative log likelihood of binary labels
// under predicted probabilities. Probabilities are clipped to
// [epsilon, 1-epsilon] so perfect (or perfectly wrong) predictions stay
// finite.
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLabelVectors("BinaryLogLoss", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if err := checkBinaryLabels("BinaryLogLoss", yTrue); err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		p := yPred.AtVec(i)
		if p < logLossEpsilon {
			p = logLossEpsilon
		} else if p > 1-logLossEpsilon {
			p = 1 - logLossEpsilon
		}
		if yTrue.AtVec(i) == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(n), nil
}

// ConfusionMatrix returns the confusion matrix for a multiclass problem
// together with the sorted class labels. Entry (i, j) counts samples whose
// true class is labels[i] and predicted class is labels[j].
func ConfusionMatrix(yTrue, yPred *mat.VecDense) (*mat.Dense, []int, error) {
	n, err := checkLabelVectors("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return nil, nil, err
	}

	labels := collectLabels(yTrue, yPred)
	index := make(map[int]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}

	cm := mat.NewDense(len(labels), len(labels), nil)
	for i := 0; i < n; i++ {
		ti := index[int(yTrue.AtVec(i))]
		pi := index[int(yPred.AtVec(i))]
		cm.Set(ti, pi, cm.At(ti, pi)+1)
	}
	return cm, labels, nil
}

// Averaging strategies for multiclass precision, recall and F1.
const (
	// AverageMacro takes the unweighted mean of per-class scores.
	AverageMacro = "macro"
	// AverageWeighted weights per-class scores by class support.
	AverageWeighted = "weighted"
	// AverageMicro computes the metric globally over all samples.
	AverageMicro = "micro"
)

// Precision computes precision with the given averaging strategy.
// Classes with no predicted samples score 0 and emit a
// UndefinedMetricWarning.
func Precision(yTrue, yPred *mat.VecDense, average string) (float64, error) {
	return averagedMetric("Precision", yTrue, yPred, average, func(tp, fp, fn float64) float64 {
		if tp+fp == 0 {
			errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted samples for class", 0))
			return 0
		}
		return tp / (tp + fp)
	})
}

// Recall computes recall with the given averaging strategy. Classes with
// no true samples score 0 and emit a UndefinedMetricWarning.
func Recall(yTrue, yPred *mat.VecDense, average string) (float64, error) {
	return averagedMetric("Recall", yTrue, yPred, average, func(tp, fp, fn float64) float64 {
		if tp+fn == 0 {
			errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true samples for class", 0))
			return 0
		}
		return tp / (tp + fn)
	})
}

// F1Score computes the harmonic mean of precision and recall with the
// given averaging strategy.
func F1Score(yTrue, yPred *mat.VecDense, average string) (float64, error) {
	return averagedMetric("F1Score", yTrue, yPred, average, func(tp, fp, fn float64) float64 {
		denom := 2*tp + fp + fn
		if denom == 0 {
			errors.Warn(errors.NewUndefinedMetricWarning("f1", "no true or predicted samples for class", 0))
			return 0
		}
		return 2 * tp / denom
	})
}

// BalancedAccuracy returns the macro-averaged recall. Unlike plain
// accuracy it is not inflated by a dominant majority class, which makes
// it the right headline number for imbalanced problems.
func BalancedAccuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	return Recall(yTrue, yPred, AverageMacro)
}

// ClassificationReport renders a per-class table of precision, recall,
// F1 and support, followed by accuracy and the macro and weighted
// averages. targetNames, when non-nil, maps class labels to display
// names.
func ClassificationReport(yTrue, yPred *mat.VecDense, targetNames []string) (string, error) {
	if _, err := checkLabelVectors("ClassificationReport", yTrue, yPred); err != nil {
		return "", err
	}

	cm, labels, err := ConfusionMatrix(yTrue, yPred)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %9s %9s %9s %9s\n", "", "precision", "recall", "f1-score", "support")
	b.WriteString("\n")

	var macroP, macroR, macroF float64
	var weightP, weightR, weightF float64
	total := 0.0
	for i, label := range labels {
		tp, fp, fn, support := cmCounts(cm, i)
		p := safeRatio(tp, tp+fp)
		r := safeRatio(tp, tp+fn)
		f := safeRatio(2*tp, 2*tp+fp+fn)

		name := fmt.Sprintf("%d", label)
		if label >= 0 && label < len(targetNames) {
			name = targetNames[label]
		}
		fmt.Fprintf(&b, "%-14s %9.3f %9.3f %9.3f %9.0f\n", name, p, r, f, support)

		macroP += p
		macroR += r
		macroF += f
		weightP += p * support
		weightR += r * support
		weightF += f * support
		total += support
	}

	k := float64(len(labels))
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return "", err
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-14s %9s %9s %9.3f %9.0f\n", "accuracy", "", "", acc, total)
	fmt.Fprintf(&b, "%-14s %9.3f %9.3f %9.3f %9.0f\n", "macro avg", macroP/k, macroR/k, macroF/k, total)
	fmt.Fprintf(&b, "%-14s %9.3f %9.3f %9.3f %9.0f\n", "weighted avg",
		weightP/total, weightR/total, weightF/total, total)
	return b.String(), nil
}

// averagedMetric computes a per-class metric from (tp, fp, fn) counts and
// combines the per-class values per the averaging strategy.
func averagedMetric(op string, yTrue, yPred *mat.VecDense, average string, score func(tp, fp, fn float64) float64) (float64, error) {
	if _, err := checkLabelVectors(op, yTrue, yPred); err != nil {
		return 0, err
	}

	cm, labels, err := ConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}

	switch average {
	case AverageMicro:
		var tp, fp, fn float64
		for i := range labels {
			ctp, cfp, cfn, _ := cmCounts(cm, i)
			tp += ctp
			fp += cfp
			fn += cfn
		}
		return score(tp, fp, fn), nil
	case AverageMacro:
		var sum float64
		for i := range labels {
			tp, fp, fn, _ := cmCounts(cm, i)
			sum += score(tp, fp, fn)
		}
		return sum / float64(len(labels)), nil
	case AverageWeighted:
		var sum, total float64
		for i := range labels {
			tp, fp, fn, support := cmCounts(cm, i)
			sum += score(tp, fp, fn) * support
			total += support
		}
		if total == 0 {
			return 0, errors.NewValueError(op, "no samples")
		}
		return sum / total, nil
	default:
		return 0, errors.NewValueError(op, fmt.Sprintf("unknown average %q", average))
	}
}

// cmCounts extracts tp, fp, fn and support for class i from a confusion
// matrix.
func cmCounts(cm *mat.Dense, i int) (tp, fp, fn, support float64) {
	n, _ := cm.Dims()
	tp = cm.At(i, i)
	for j := 0; j < n; j++ {
		if j == i {
			continue
		}
		fp += cm.At(j, i)
		fn += cm.At(i, j)
	}
	support = tp + fn
	return tp, fp, fn, support
}

func safeRatio(num, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return num / denom
}

// collectLabels returns the sorted union of integer labels in both
// vectors.
func collectLabels(yTrue, yPred *mat.VecDense) []int {
	seen := make(map[int]struct{})
	for i := 0; i < yTrue.Len(); i++ {
		seen[int(yTrue.AtVec(i))] = struct{}{}
	}
	for i := 0; i < yPred.Len(); i++ {
		seen[int(yPred.AtVec(i))] = struct{}{}
	}
	labels := make([]int, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Ints(labels)
	return labels
}

// checkLabelVectors validates that both vectors are non-nil, non-empty
// and the same length, returning that length.
func checkLabelVectors(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError(op, "nil vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// checkBinaryLabels validates that a label vector contains only 0 and 1.
func checkBinaryLabels(op string, y *mat.VecDense) error {
	for i := 0; i < y.Len(); i++ {
		if v := y.AtVec(i); v != 0 && v != 1 {
			return errors.NewValueError(op, fmt.Sprintf("labels must be 0 or 1, got %v", v))
		}
	}
	return nil
}

// firstColumns validates matrix inputs and extracts their first columns
// as vectors.
func firstColumns(op string, yTrue, yPred mat.Matrix) (*mat.VecDense, *mat.VecDense, error) {
	if yTrue == nil || yPred == nil {
		return nil, nil, errors.NewValueError(op, "nil matrix")
	}
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()
	if rTrue == 0 || cTrue == 0 || rPred == 0 || cPred == 0 {
		return nil, nil, errors.NewValueError(op, "empty matrix")
	}
	if rTrue != rPred {
		return nil, nil, errors.NewDimensionError(op, rTrue, rPred, 0)
	}

	yTrueVec := mat.NewVecDense(rTrue, nil)
	yPredVec := mat.NewVecDense(rPred, nil)
	for i := 0; i < rTrue; i++ {
		yTrueVec.SetVec(i, yTrue.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}
	return yTrueVec, yPredVec, nil
}
