package model

import (
	"testing"

	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
)

func TestLifecycle_Transitions(t *testing.T) {
	l := NewLifecycle()
	if l.IsReady() {
		t.Fatal("new lifecycle should be Uninitialized")
	}
	if err := l.RequireReady("LocalOptimizer", "Weights"); err == nil {
		t.Error("RequireReady should fail before initialization")
	}

	if err := l.CheckDim("Initialize", 4); err != nil {
		t.Fatalf("CheckDim on Uninitialized: %v", err)
	}
	l.MarkReady(4)
	if !l.IsReady() || l.State.String() != "Ready" {
		t.Fatalf("expected Ready, got %v", l.State)
	}

	err := l.CheckDim("RunSGD", 5)
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
	if dimErr.Expected != 4 || dimErr.Got != 5 {
		t.Errorf("unexpected dims: %+v", dimErr)
	}

	l.Reset()
	if l.IsReady() || l.Dim != 0 {
		t.Error("Reset should return to Uninitialized")
	}
}

func TestLifecycle_CheckDimRejectsNonPositive(t *testing.T) {
	l := NewLifecycle()
	var valErr *errors.ValidationError
	if err := l.CheckDim("Initialize", 0); !errors.As(err, &valErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestModelWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		weights ModelWeights
		wantErr bool
	}{
		{
			name:    "ready with state",
			weights: ModelWeights{ModelType: "LogisticObjective", Version: "1", IsReady: true, Coefficients: []float64{1, 2}, ControlVariate: []float64{0, 0}},
		},
		{
			name:    "uninitialized empty",
			weights: ModelWeights{ModelType: "LogisticObjective", Version: "1"},
		},
		{
			name:    "missing type",
			weights: ModelWeights{Version: "1"},
			wantErr: true,
		},
		{
			name:    "ready without coefficients",
			weights: ModelWeights{ModelType: "x", Version: "1", IsReady: true},
			wantErr: true,
		},
		{
			name:    "control variate length mismatch",
			weights: ModelWeights{ModelType: "x", Version: "1", IsReady: true, Coefficients: []float64{1, 2}, ControlVariate: []float64{0}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.weights.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestModelWeights_JSONAndClone(t *testing.T) {
	mw := &ModelWeights{
		ModelType:      "LogisticObjective",
		Version:        "1.0.0",
		Coefficients:   []float64{0.5, -1.25},
		ControlVariate: []float64{0.1, 0.2},
		Rounds:         3,
		IsReady:        true,
		Metadata:       map[string]interface{}{"client": "a"},
	}

	data, err := mw.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	var loaded ModelWeights
	if err := loaded.FromJSON(data); err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if loaded.Rounds != 3 || loaded.Coefficients[1] != -1.25 || loaded.ControlVariate[0] != 0.1 {
		t.Errorf("loaded = %+v", loaded)
	}

	clone := mw.Clone()
	clone.Coefficients[0] = 99
	clone.Metadata["client"] = "b"
	if mw.Coefficients[0] != 0.5 || mw.Metadata["client"] != "a" {
		t.Error("Clone should not share storage with the original")
	}
}
