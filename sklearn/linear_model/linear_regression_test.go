package linear_model

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestLinearRegression_ExactFit tests recovery of known coefficients
func TestLinearRegression_ExactFit(t *testing.T) {
	// y = 2*x0 + 3*x1 - x2 + 5, no noise
	X := mat.NewDense(20, 3, nil)
	y := mat.NewDense(20, 1, nil)
	for i := 0; i < 20; i++ {
		x0 := float64(i)
		x1 := float64(i % 5)
		x2 := float64(i % 7)
		X.Set(i, 0, x0)
		X.Set(i, 1, x1)
		X.Set(i, 2, x2)
		y.Set(i, 0, 2*x0+3*x1-x2+5)
	}

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	coef := lr.Coef()
	wantCoef := []float64{2, 3, -1}
	for i, want := range wantCoef {
		if math.Abs(coef[i]-want) > 1e-6 {
			t.Errorf("coef[%d] = %v, want %v", i, coef[i], want)
		}
	}
	if math.Abs(lr.Intercept()-5) > 1e-6 {
		t.Errorf("intercept = %v, want 5", lr.Intercept())
	}

	score, err := lr.Score(X, y)
	if err != nil {
		t.Fatalf("Failed to score: %v", err)
	}
	if math.Abs(score-1.0) > 1e-9 {
		t.Errorf("R² = %v, want 1.0 on noiseless data", score)
	}
}

// TestLinearRegression_NoIntercept tests fitting through the origin
func TestLinearRegression_NoIntercept(t *testing.T) {
	// y = 4*x, intercept suppressed
	X := mat.NewDense(10, 1, nil)
	y := mat.NewDense(10, 1, nil)
	for i := 0; i < 10; i++ {
		X.Set(i, 0, float64(i+1))
		y.Set(i, 0, 4*float64(i+1))
	}

	lr := NewLinearRegression(WithLRFitIntercept(false))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	if math.Abs(lr.Coef()[0]-4) > 1e-6 {
		t.Errorf("coef = %v, want 4", lr.Coef()[0])
	}
	if lr.Intercept() != 0 {
		t.Errorf("intercept = %v, want 0", lr.Intercept())
	}
}

// TestLinearRegression_Reproducible tests that repeated fits agree bit
// for bit
func TestLinearRegression_Reproducible(t *testing.T) {
	X := mat.NewDense(100, 3, nil)
	y := mat.NewDense(100, 1, nil)
	for i := 0; i < 100; i++ {
		for j := 0; j < 3; j++ {
			X.Set(i, j, float64(i+j+1)/10.0)
		}
		y.Set(i, 0, 2*X.At(i, 0)+3*X.At(i, 1)-X.At(i, 2)+5)
	}

	m1 := NewLinearRegression()
	if err := m1.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit m1: %v", err)
	}
	m2 := NewLinearRegression()
	if err := m2.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit m2: %v", err)
	}

	coef1, coef2 := m1.Coef(), m2.Coef()
	for i := range coef1 {
		if coef1[i] != coef2[i] {
			t.Errorf("coefficient mismatch at %d: %.15f vs %.15f", i, coef1[i], coef2[i])
		}
	}
	if m1.Intercept() != m2.Intercept() {
		t.Errorf("intercept mismatch: %.15f vs %.15f", m1.Intercept(), m2.Intercept())
	}
}

// TestLinearRegression_CollinearFeatures tests rank-deficient input:
// duplicated columns must fit via the minimum-norm solution instead of
// erroring
func TestLinearRegression_CollinearFeatures(t *testing.T) {
	// Both feature columns are identical, y = 3*x + 1.
	X := mat.NewDense(8, 2, nil)
	y := mat.NewDense(8, 1, nil)
	for i := 0; i < 8; i++ {
		x := float64(i + 1)
		X.Set(i, 0, x)
		X.Set(i, 1, x)
		y.Set(i, 0, 3*x+1)
	}

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit collinear data: %v", err)
	}

	coef := lr.Coef()
	for i, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			t.Fatalf("coef[%d] = %v, want finite", i, c)
		}
	}
	// The two identical columns are interchangeable, so the minimum-norm
	// solution splits the weight evenly between them.
	if math.Abs(coef[0]-coef[1]) > 1e-9 {
		t.Errorf("coef = %v, want equal weights on identical columns", coef)
	}

	pred, err := lr.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	for i := 0; i < 8; i++ {
		if math.Abs(pred.At(i, 0)-y.At(i, 0)) > 1e-6 {
			t.Errorf("prediction[%d] = %v, want %v", i, pred.At(i, 0), y.At(i, 0))
		}
	}
}

// TestLinearRegression_ConstantShiftedColumns tests columns that are
// collinear with the intercept
func TestLinearRegression_ConstantShiftedColumns(t *testing.T) {
	// Each column is the first column plus a constant, so together with
	// the intercept the design matrix is rank deficient.
	X := mat.NewDense(30, 3, nil)
	y := mat.NewDense(30, 1, nil)
	for i := 0; i < 30; i++ {
		for j := 0; j < 3; j++ {
			X.Set(i, j, float64(i+j+1)/10.0)
		}
		y.Set(i, 0, 2*X.At(i, 0)+3*X.At(i, 1)-X.At(i, 2)+5)
	}

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	score, err := lr.Score(X, y)
	if err != nil {
		t.Fatalf("Failed to score: %v", err)
	}
	if math.Abs(score-1.0) > 1e-9 {
		t.Errorf("R² = %v, want 1.0 on noiseless data", score)
	}
}

// TestLinearRegression_NotFitted tests the unfitted error path
func TestLinearRegression_NotFitted(t *testing.T) {
	lr := NewLinearRegression()
	if _, err := lr.Predict(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Expected error when predicting without fitting")
	}
}

// TestLinearRegression_DimensionMismatch tests shape validation
func TestLinearRegression_DimensionMismatch(t *testing.T) {
	lr := NewLinearRegression()

	X := mat.NewDense(4, 2, []float64{1, 1, 2, 2, 3, 3, 4, 4})
	yShort := mat.NewDense(3, 1, []float64{1, 2, 3})
	if err := lr.Fit(X, yShort); err == nil {
		t.Error("Expected error for mismatched sample counts")
	}

	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}
	if _, err := lr.Predict(mat.NewDense(1, 3, []float64{1, 2, 3})); err == nil {
		t.Error("Expected error for wrong feature count")
	}
}
