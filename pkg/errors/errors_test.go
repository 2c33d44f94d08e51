package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestNewDimensionError(t *testing.T) {
	tests := []struct {
		name    string
		axis    int
		wantMsg string
	}{
		{
			name:    "rows",
			axis:    0,
			wantMsg: "fedscaffold: LogisticObjective.Gradient: dimension mismatch on axis 0 (rows). Expected 10, got 9",
		},
		{
			name:    "features",
			axis:    1,
			wantMsg: "fedscaffold: LogisticObjective.Gradient: dimension mismatch on axis 1 (features). Expected 10, got 9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError("LogisticObjective.Gradient", 10, 9, tt.axis)
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			var dimErr *DimensionError
			if !As(err, &dimErr) {
				t.Fatal("Error should be castable to *DimensionError")
			}
			if dimErr.Expected != 10 || dimErr.Got != 9 {
				t.Errorf("unexpected fields: %+v", dimErr)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}
		})
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("iterations", "must be positive", 0)

	want := "fedscaffold: validation failed for parameter 'iterations': must be positive (got: 0)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Fatal("Error should be castable to *ValidationError")
	}
	if valErr.ParamName != "iterations" {
		t.Errorf("ParamName = %q, want iterations", valErr.ParamName)
	}
}

func TestNewNotInitializedError(t *testing.T) {
	err := NewNotInitializedError("LocalOptimizer", "Weights")

	want := "fedscaffold: LocalOptimizer: parameters are not initialized yet. Call Initialize() or train before using Weights()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notInit *NotInitializedError
	if !As(err, &notInit) {
		t.Error("Error should be castable to *NotInitializedError")
	}
}

func TestNumericalInstabilityError_Message(t *testing.T) {
	err := NewNumericalInstabilityError("sgd_update", []float64{math.NaN(), 1, 2, 3, 4, 5, 6}, 3)

	msg := err.Error()
	if !strings.Contains(msg, "sgd_update") || !strings.Contains(msg, "iteration 3") {
		t.Errorf("unexpected message: %s", msg)
	}
	if !strings.Contains(msg, "...") {
		t.Errorf("long value lists should be truncated: %s", msg)
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	warn := NewConvergenceWarning("SCAFFOLD", 20, "objective did not decrease")

	want := "SCAFFOLD failed to converge after 20 iterations: objective did not decrease"
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}
}

func TestWarn_RoutesToZerologFunc(t *testing.T) {
	var got []error
	SetZerologWarnFunc(func(w error) { got = append(got, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewConvergenceWarning("SGD", 1, ""))

	if len(got) != 1 {
		t.Fatalf("expected 1 routed warning, got %d", len(got))
	}
}

func TestWarn_FallsBackToHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(nil)

	Warn(NewConvergenceWarning("SGD", 1, ""))

	if len(got) != 1 {
		t.Fatalf("expected 1 handled warning, got %d", len(got))
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: %d rows", "RunSGD", 0)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}
	if !strings.Contains(wrapped.Error(), "in RunSGD: 0 rows") {
		t.Errorf("unexpected message: %s", wrapped.Error())
	}
}
