package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Fit",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "classgo: Fit: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "classgo: Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 10, 3, 1)

	want := "classgo: Predict: dimension mismatch on axis 1 (features). Expected 10, got 3"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 10 || dimErr.Got != 3 {
		t.Errorf("DimensionError fields = (%d, %d), want (10, 3)", dimErr.Expected, dimErr.Got)
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("KNeighborsClassifier", "Predict")

	want := "classgo: KNeighborsClassifier: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("Accuracy", "empty vector")

	want := "classgo: Accuracy: empty vector"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValueError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValueError")
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	w := NewConvergenceWarning("LogisticRegression", 100, "")
	msg := w.Error()
	if !strings.Contains(msg, "LogisticRegression") || !strings.Contains(msg, "100") {
		t.Errorf("unexpected warning message: %s", msg)
	}
}

func TestUndefinedMetricWarning(t *testing.T) {
	w := NewUndefinedMetricWarning("precision", "no predicted positives", 0.0)
	msg := w.Error()
	if !strings.Contains(msg, "precision") || !strings.Contains(msg, "ill-defined") {
		t.Errorf("unexpected warning message: %s", msg)
	}
}

func TestWarningHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(nil)

	w := NewUndefinedMetricWarning("recall", "no true positives", 0.0)
	Warn(w)

	if captured == nil {
		t.Fatal("warning handler was not invoked")
	}
	if !strings.Contains(captured.Error(), "recall") {
		t.Errorf("handler received wrong warning: %v", captured)
	}
}

func TestWrapAndIs(t *testing.T) {
	base := New("base error")
	wrapped := Wrap(base, "context")

	if !Is(wrapped, base) {
		t.Error("wrapped error should match base error with Is()")
	}
	if !strings.Contains(wrapped.Error(), "context") {
		t.Errorf("wrapped error message should contain context: %v", wrapped)
	}
}

func TestErrorChaining(t *testing.T) {
	inner := NewValueError("inner", "bad value")
	outer := NewModelError("Fit", "validation failed", inner)

	var valErr *ValueError
	if !As(outer, &valErr) {
		t.Error("chained error should expose inner *ValueError via As()")
	}
}
