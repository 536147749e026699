package tree

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestDecisionTreeRegressor_FitPredict(t *testing.T) {
	// Piecewise constant target: 10 below x=5, 20 above.
	X := mat.NewDense(8, 1, []float64{1, 2, 3, 4, 6, 7, 8, 9})
	y := mat.NewDense(8, 1, []float64{10, 10, 10, 10, 20, 20, 20, 20})

	dt := NewDecisionTreeRegressor(WithMaxDepth(3))
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	pred, err := dt.Predict(mat.NewDense(2, 1, []float64{2.5, 8.5}))
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	if math.Abs(pred.At(0, 0)-10) > 1e-9 {
		t.Errorf("Predict(2.5) = %v, want 10", pred.At(0, 0))
	}
	if math.Abs(pred.At(1, 0)-20) > 1e-9 {
		t.Errorf("Predict(8.5) = %v, want 20", pred.At(1, 0))
	}
}

func TestDecisionTreeRegressor_Score(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 10, 11, 12})
	y := mat.NewDense(6, 1, []float64{1, 1, 1, 5, 5, 5})

	dt := NewDecisionTreeRegressor()
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	score := dt.Score(X, y)
	if math.Abs(score-1.0) > 1e-9 {
		t.Errorf("Score = %v, want 1.0 on separable data", score)
	}
}

func TestDecisionTreeRegressor_LeafMean(t *testing.T) {
	// With depth 1 the single split at x=5 leaves two mixed leaves; each
	// must predict its mean.
	X := mat.NewDense(4, 1, []float64{1, 2, 8, 9})
	y := mat.NewDense(4, 1, []float64{1, 3, 7, 9})

	dt := NewDecisionTreeRegressor(WithMaxDepth(1))
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	pred, err := dt.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	if math.Abs(pred.At(0, 0)-2) > 1e-9 {
		t.Errorf("left leaf mean = %v, want 2", pred.At(0, 0))
	}
	if math.Abs(pred.At(2, 0)-8) > 1e-9 {
		t.Errorf("right leaf mean = %v, want 8", pred.At(2, 0))
	}
	if dt.GetDepth() > 1 {
		t.Errorf("depth %d exceeds max_depth=1", dt.GetDepth())
	}
}

func TestDecisionTreeRegressor_FeatureImportances(t *testing.T) {
	// Feature 0 carries all of the signal, feature 1 is constant.
	X := mat.NewDense(6, 2, []float64{
		1, 5,
		2, 5,
		3, 5,
		10, 5,
		11, 5,
		12, 5,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 100, 100, 100})

	dt := NewDecisionTreeRegressor()
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	imp := dt.GetFeatureImportances()
	if len(imp) != 2 {
		t.Fatalf("importances length = %d, want 2", len(imp))
	}
	if math.Abs(imp[0]-1) > 1e-9 || imp[1] != 0 {
		t.Errorf("importances = %v, want [1 0]", imp)
	}
}

func TestDecisionTreeRegressor_NotFitted(t *testing.T) {
	dt := NewDecisionTreeRegressor()
	if _, err := dt.Predict(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Expected error when predicting without fitting")
	}
}

func TestDecisionTreeRegressor_DimensionMismatch(t *testing.T) {
	dt := NewDecisionTreeRegressor()
	X := mat.NewDense(4, 2, []float64{1, 1, 2, 2, 3, 3, 4, 4})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}
	if _, err := dt.Predict(mat.NewDense(1, 3, []float64{1, 2, 3})); err == nil {
		t.Error("Expected error for wrong feature count")
	}
}
