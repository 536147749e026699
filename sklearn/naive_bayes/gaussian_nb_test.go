package naive_bayes

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestGaussianNB_SeparatedClusters(t *testing.T) {
	// Two clusters far apart on both features.
	X := mat.NewDense(8, 2, []float64{
		1.0, 1.1,
		1.2, 0.9,
		0.8, 1.0,
		1.1, 1.2,
		9.0, 9.1,
		9.2, 8.9,
		8.8, 9.0,
		9.1, 9.2,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})

	nb := NewGaussianNB()
	if err := nb.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	score, err := nb.Score(X, y)
	if err != nil {
		t.Fatalf("Failed to score: %v", err)
	}
	if score != 1.0 {
		t.Errorf("Score = %v, want 1.0 on well separated clusters", score)
	}

	pred, err := nb.Predict(mat.NewDense(2, 2, []float64{1, 1, 9, 9}))
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	if pred.At(0, 0) != 0 || pred.At(1, 0) != 1 {
		t.Errorf("predictions = [%v %v], want [0 1]", pred.At(0, 0), pred.At(1, 0))
	}
}

func TestGaussianNB_ProbaSumsToOne(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 7, 8, 9})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	nb := NewGaussianNB()
	if err := nb.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	proba, err := nb.PredictProba(mat.NewDense(3, 1, []float64{2, 5, 8}))
	if err != nil {
		t.Fatalf("Failed to predict probabilities: %v", err)
	}
	rows, cols := proba.Dims()
	if cols != 2 {
		t.Fatalf("proba columns = %d, want 2", cols)
	}
	for i := 0; i < rows; i++ {
		sum := proba.At(i, 0) + proba.At(i, 1)
		if math.Abs(sum-1.0) > 1e-10 {
			t.Errorf("row %d proba sum = %v, want 1", i, sum)
		}
	}

	// Points near a class mean should lean strongly toward that class.
	if proba.At(0, 0) < 0.9 {
		t.Errorf("P(class 0 | x=2) = %v, want > 0.9", proba.At(0, 0))
	}
	if proba.At(2, 1) < 0.9 {
		t.Errorf("P(class 1 | x=8) = %v, want > 0.9", proba.At(2, 1))
	}
}

func TestGaussianNB_ConstantFeature(t *testing.T) {
	// The second feature has zero variance; variance smoothing must keep
	// the densities finite.
	X := mat.NewDense(4, 2, []float64{
		1, 5,
		2, 5,
		8, 5,
		9, 5,
	})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})

	nb := NewGaussianNB()
	if err := nb.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	proba, err := nb.PredictProba(mat.NewDense(1, 2, []float64{1.5, 5}))
	if err != nil {
		t.Fatalf("Failed to predict probabilities: %v", err)
	}
	if math.IsNaN(proba.At(0, 0)) || math.IsInf(proba.At(0, 0), 0) {
		t.Errorf("probability is not finite: %v", proba.At(0, 0))
	}
	if proba.At(0, 0) < 0.5 {
		t.Errorf("P(class 0) = %v, want majority for x near class 0", proba.At(0, 0))
	}
}

func TestGaussianNB_Classes(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(6, 1, []float64{2, 0, 1, 2, 0, 1})

	nb := NewGaussianNB()
	if err := nb.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	classes := nb.Classes()
	want := []int{0, 1, 2}
	if len(classes) != len(want) {
		t.Fatalf("Classes() = %v, want %v", classes, want)
	}
	for i := range want {
		if classes[i] != want[i] {
			t.Errorf("Classes()[%d] = %d, want %d", i, classes[i], want[i])
		}
	}
}

func TestGaussianNB_NotFitted(t *testing.T) {
	nb := NewGaussianNB()
	if _, err := nb.Predict(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Expected error when predicting without fitting")
	}
}

func TestGaussianNB_DimensionMismatch(t *testing.T) {
	nb := NewGaussianNB()
	X := mat.NewDense(4, 2, []float64{1, 1, 2, 2, 8, 8, 9, 9})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
	if err := nb.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}
	if _, err := nb.Predict(mat.NewDense(1, 3, []float64{1, 2, 3})); err == nil {
		t.Error("Expected error for wrong feature count")
	}
}
