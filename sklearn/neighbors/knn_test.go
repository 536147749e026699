package neighbors

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestKNeighborsClassifier_FitPredict(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{0, 1, 2, 10, 11, 12})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	knn := NewKNeighborsClassifier(WithNNeighbors(3))
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	pred, err := knn.Predict(mat.NewDense(2, 1, []float64{1.5, 10.5}))
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	if pred.At(0, 0) != 0 {
		t.Errorf("Predict(1.5) = %v, want 0", pred.At(0, 0))
	}
	if pred.At(1, 0) != 1 {
		t.Errorf("Predict(10.5) = %v, want 1", pred.At(1, 0))
	}
}

func TestKNeighborsClassifier_PredictProba(t *testing.T) {
	// Query point 6 has neighbors 8 (class 1), 3 (class 0) and 9
	// (class 1) among the nearest three, so the vote is 2:1.
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 8, 9, 10})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	knn := NewKNeighborsClassifier(WithNNeighbors(3))
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	proba, err := knn.PredictProba(mat.NewDense(1, 1, []float64{6}))
	if err != nil {
		t.Fatalf("Failed to predict probabilities: %v", err)
	}
	if math.Abs(proba.At(0, 0)-1.0/3.0) > 1e-9 {
		t.Errorf("P(class 0) = %v, want 1/3", proba.At(0, 0))
	}
	if math.Abs(proba.At(0, 1)-2.0/3.0) > 1e-9 {
		t.Errorf("P(class 1) = %v, want 2/3", proba.At(0, 1))
	}
}

func TestKNeighborsClassifier_DistanceWeights(t *testing.T) {
	// With uniform weights the two distant class-1 points outvote the
	// single nearby class-0 point; distance weighting flips the call.
	X := mat.NewDense(3, 1, []float64{0, 10, 10.5})
	y := mat.NewDense(3, 1, []float64{0, 1, 1})
	query := mat.NewDense(1, 1, []float64{1})

	uniform := NewKNeighborsClassifier(WithNNeighbors(3))
	if err := uniform.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}
	pred, err := uniform.Predict(query)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	if pred.At(0, 0) != 1 {
		t.Errorf("uniform Predict(1) = %v, want 1", pred.At(0, 0))
	}

	weighted := NewKNeighborsClassifier(WithNNeighbors(3), WithWeights(WeightsDistance))
	if err := weighted.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}
	pred, err = weighted.Predict(query)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	if pred.At(0, 0) != 0 {
		t.Errorf("distance Predict(1) = %v, want 0", pred.At(0, 0))
	}
}

func TestKNeighborsClassifier_OneNeighborMemorizes(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{1, 1, 2, 2, 8, 8, 9, 9})
	y := mat.NewDense(4, 1, []float64{0, 1, 0, 1})

	knn := NewKNeighborsClassifier(WithNNeighbors(1))
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	score, err := knn.Score(X, y)
	if err != nil {
		t.Fatalf("Failed to score: %v", err)
	}
	if score != 1.0 {
		t.Errorf("training accuracy with k=1 = %v, want 1.0", score)
	}
}

func TestKNeighborsClassifier_Validation(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 2})
	y := mat.NewDense(2, 1, []float64{0, 1})

	if err := NewKNeighborsClassifier(WithNNeighbors(0)).Fit(X, y); err == nil {
		t.Error("Expected error for n_neighbors=0")
	}
	if err := NewKNeighborsClassifier(WithWeights("cosine")).Fit(X, y); err == nil {
		t.Error("Expected error for unknown weights")
	}

	knn := NewKNeighborsClassifier()
	if _, err := knn.Predict(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Expected error when predicting without fitting")
	}
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}
	if _, err := knn.Predict(mat.NewDense(1, 2, []float64{1, 2})); err == nil {
		t.Error("Expected error for wrong feature count")
	}
}

func TestKNeighborsRegressor_UniformMean(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{10, 20, 30, 40})

	knn := NewKNeighborsRegressor(WithNNeighbors(2))
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	pred, err := knn.Predict(mat.NewDense(1, 1, []float64{2.5}))
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	if math.Abs(pred.At(0, 0)-25) > 1e-9 {
		t.Errorf("Predict(2.5) = %v, want 25", pred.At(0, 0))
	}
}

func TestKNeighborsRegressor_DistanceWeightsExactMatch(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{10, 20, 30})

	knn := NewKNeighborsRegressor(WithNNeighbors(3), WithWeights(WeightsDistance))
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	pred, err := knn.Predict(mat.NewDense(1, 1, []float64{2}))
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	if math.Abs(pred.At(0, 0)-20) > 1e-6 {
		t.Errorf("Predict(2) = %v, want 20 at an exact training point", pred.At(0, 0))
	}
}

func TestKNeighborsRegressor_Score(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 10, 11, 12})
	y := mat.NewDense(6, 1, []float64{5, 5, 5, 50, 50, 50})

	knn := NewKNeighborsRegressor(WithNNeighbors(3))
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	score, err := knn.Score(X, y)
	if err != nil {
		t.Fatalf("Failed to score: %v", err)
	}
	if math.Abs(score-1.0) > 1e-9 {
		t.Errorf("R² = %v, want 1.0 on piecewise constant data", score)
	}
}

func TestKNeighborsRegressor_NotFitted(t *testing.T) {
	knn := NewKNeighborsRegressor()
	if _, err := knn.Predict(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Expected error when predicting without fitting")
	}
}
