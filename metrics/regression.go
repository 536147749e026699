package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// MSE returns the mean squared error between true and predicted values.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLabelVectors("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// MSEMatrix computes MSE over matrix inputs. Both matrices must be
// column vectors (n×1).
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("MSEMatrix", "nil matrix")
	}
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()
	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("MSEMatrix", "empty matrix")
	}
	if rTrue != rPred || cTrue != cPred {
		return 0, errors.NewDimensionError("MSEMatrix", rTrue, rPred, 0)
	}
	if cTrue != 1 {
		return 0, errors.NewValueError("MSEMatrix", "must be a column vector (n×1 matrix)")
	}

	yTrueVec := mat.NewVecDense(rTrue, nil)
	yPredVec := mat.NewVecDense(rPred, nil)
	for i := 0; i < rTrue; i++ {
		yTrueVec.SetVec(i, yTrue.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}
	return MSE(yTrueVec, yPredVec)
}

// RMSE returns the root mean squared error, i.e. the square root of MSE.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE returns the mean absolute error between true and predicted values.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLabelVectors("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score returns the coefficient of determination R². A model that
// always predicts the mean of yTrue scores 0; worse models score
// negative. Errors when yTrue has no variance.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLabelVectors("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		t := yTrue.AtVec(i)
		p := yPred.AtVec(i)
		tss += (t - yMean) * (t - yMean)
		rss += (t - p) * (t - p)
	}
	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}
	return 1 - rss/tss, nil
}

// MAPE returns the mean absolute percentage error. Samples where yTrue
// is zero are skipped; errors when every yTrue value is zero.
func MAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLabelVectors("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	valid := 0
	for i := 0; i < n; i++ {
		t := yTrue.AtVec(i)
		if t == 0 {
			continue
		}
		sum += math.Abs(t-yPred.AtVec(i)) / math.Abs(t)
		valid++
	}
	if valid == 0 {
		return 0, errors.Newf("MAPE: all yTrue values are zero")
	}
	return sum / float64(valid) * 100, nil
}

// ExplainedVarianceScore returns 1 - Var(yTrue - yPred) / Var(yTrue).
// Unlike R² it ignores a constant bias in the predictions.
func ExplainedVarianceScore(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLabelVectors("ExplainedVarianceScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var yMean, diffMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
		diffMean += yTrue.AtVec(i) - yPred.AtVec(i)
	}
	yMean /= float64(n)
	diffMean /= float64(n)

	var varY, varDiff float64
	for i := 0; i < n; i++ {
		t := yTrue.AtVec(i)
		diff := t - yPred.AtVec(i)
		varY += (t - yMean) * (t - yMean)
		varDiff += (diff - diffMean) * (diff - diffMean)
	}
	if varY == 0 {
		return 0, errors.Newf("ExplainedVarianceScore: no variance in yTrue")
	}
	return 1 - varDiff/varY, nil
}
