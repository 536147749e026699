package linear_model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/core/model"
	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// LinearRegression fits ordinary least squares by singular value
// decomposition. It is the regression counterpart the classifiers are
// contrasted against: same Fit/Predict shape, continuous output.
type LinearRegression struct {
	state *model.StateManager

	fitIntercept bool

	coef_      []float64
	intercept_ float64
	nFeatures_ int
	nSamples_  int
}

// LinearRegressionOption configures a LinearRegression.
type LinearRegressionOption func(*LinearRegression)

// WithLRFitIntercept controls whether an intercept is fitted. Default
// true.
func WithLRFitIntercept(fit bool) LinearRegressionOption {
	return func(lr *LinearRegression) { lr.fitIntercept = fit }
}

// NewLinearRegression creates an ordinary least squares model.
func NewLinearRegression(options ...LinearRegressionOption) *LinearRegression {
	lr := &LinearRegression{
		state:        model.NewStateManager(),
		fitIntercept: true,
	}
	for _, opt := range options {
		opt(lr)
	}
	return lr
}

// Fit solves the least squares problem for X and y.
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	if X == nil || y == nil {
		return errors.NewValueError("LinearRegression.Fit", "nil input")
	}
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if rows != yRows {
		return errors.NewDimensionError("LinearRegression.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("LinearRegression.Fit", 1, yCols, 1)
	}

	lr.nSamples_ = rows
	lr.nFeatures_ = cols

	// Prepend a column of ones when fitting the intercept, then solve
	// by SVD. The pseudoinverse gives the minimum-norm least squares
	// solution, so rank-deficient input (collinear features) fits
	// instead of erroring.
	XFit := mat.Matrix(X)
	if lr.fitIntercept {
		withBias := mat.NewDense(rows, cols+1, nil)
		for i := 0; i < rows; i++ {
			withBias.Set(i, 0, 1)
			for j := 0; j < cols; j++ {
				withBias.Set(i, j+1, X.At(i, j))
			}
		}
		XFit = withBias
	}
	_, fitCols := XFit.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(XFit, mat.SVDThin); !ok {
		return errors.NewModelError("LinearRegression.Fit", "numerical failure",
			errors.New("SVD factorization did not converge"))
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	singular := svd.Values(nil)

	// Directions with negligible singular values are dropped, matching
	// the lstsq rcond cutoff.
	const machEps = 2.220446049250313e-16
	tol := singular[0] * machEps * float64(max(rows, fitCols))

	solution := make([]float64, fitCols)
	for i := range singular {
		if singular[i] <= tol {
			continue
		}
		var dot float64
		for r := 0; r < rows; r++ {
			dot += u.At(r, i) * y.At(r, 0)
		}
		dot /= singular[i]
		for j := 0; j < fitCols; j++ {
			solution[j] += v.At(j, i) * dot
		}
	}

	lr.coef_ = make([]float64, cols)
	if lr.fitIntercept {
		lr.intercept_ = solution[0]
		copy(lr.coef_, solution[1:])
	} else {
		lr.intercept_ = 0
		copy(lr.coef_, solution)
	}

	lr.state.SetFitted()
	lr.state.SetDimensions(lr.nFeatures_, lr.nSamples_)
	return nil
}

// Predict returns the fitted linear function evaluated at each row of
// X.
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}
	rows, cols := X.Dims()
	if cols != lr.nFeatures_ {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.nFeatures_, cols, 1)
	}

	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		pred := lr.intercept_
		for j := 0; j < cols; j++ {
			pred += X.At(i, j) * lr.coef_[j]
		}
		predictions.Set(i, 0, pred)
	}
	return predictions, nil
}

// Score returns the coefficient of determination R² on X against y.
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	rows, _ := y.Dims()
	var yMean float64
	for i := 0; i < rows; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(rows)

	var ssTot, ssRes float64
	for i := 0; i < rows; i++ {
		yi := y.At(i, 0)
		ssTot += (yi - yMean) * (yi - yMean)
		diff := yi - predictions.At(i, 0)
		ssRes += diff * diff
	}
	if ssTot == 0 {
		return 0, errors.NewValueError("LinearRegression.Score", "zero variance in y")
	}
	return 1 - ssRes/ssTot, nil
}

// Coef returns a copy of the fitted coefficients.
func (lr *LinearRegression) Coef() []float64 {
	return append([]float64(nil), lr.coef_...)
}

// Intercept returns the fitted intercept.
func (lr *LinearRegression) Intercept() float64 {
	return lr.intercept_
}

// IsFitted reports whether Fit has completed.
func (lr *LinearRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// GetParams returns the hyperparameters under their scikit-learn names.
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"fit_intercept": lr.fitIntercept,
	}
}

// SetParams updates hyperparameters from their scikit-learn names.
func (lr *LinearRegression) SetParams(params map[string]interface{}) error {
	if v, ok := params["fit_intercept"].(bool); ok {
		lr.fitIntercept = v
	}
	return nil
}

// String returns a short description of the model and its fit state.
func (lr *LinearRegression) String() string {
	if !lr.state.IsFitted() {
		return fmt.Sprintf("LinearRegression(fit_intercept=%t)", lr.fitIntercept)
	}
	return fmt.Sprintf("LinearRegression(fit_intercept=%t, n_features=%d, fitted=true)",
		lr.fitIntercept, lr.nFeatures_)
}
