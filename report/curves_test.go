package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
)

func TestSaveCurves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objective.png")
	series := []Series{
		{Name: "SGD", Values: []float64{0.69, 0.5, 0.4, 0.35}},
		{Name: "SCAFFOLD", Values: []float64{0.69, 0.45, 0.36}},
	}

	if err := SaveCurves(path, "Objective", "f(w)", series); err != nil {
		t.Fatalf("SaveCurves() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("chart file is empty")
	}
}

func TestSaveCurves_Errors(t *testing.T) {
	dir := t.TempDir()
	var valErr *errors.ValueError

	if err := SaveCurves(filepath.Join(dir, "a.png"), "t", "y", nil); !errors.As(err, &valErr) {
		t.Errorf("no series: expected ValueError, got %v", err)
	}
	if err := SaveCurves(filepath.Join(dir, "b.png"), "t", "y", []Series{{Name: "empty"}}); !errors.As(err, &valErr) {
		t.Errorf("empty series: expected ValueError, got %v", err)
	}
	if err := SaveCurves(filepath.Join(dir, "c.unknown"), "t", "y", []Series{{Name: "x", Values: []float64{1}}}); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
