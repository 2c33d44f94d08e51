// Package model provides lifecycle management for local optimizers.
package model

import (
	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
)

// Lifecycle tracks the Uninitialized -> Ready transition of an optimizer and the
// dimension its parameter vector was materialized with. There is no terminal
// state; a Ready optimizer is reused across epochs and rounds.
type Lifecycle struct {
	State  State
	Dim    int
	Rounds int // completed federated rounds
}

// NewLifecycle returns a lifecycle in the Uninitialized state.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{State: Uninitialized}
}

// IsReady reports whether the parameter vector exists.
func (l *Lifecycle) IsReady() bool {
	return l.State == Ready
}

// MarkReady moves to Ready with the given dimension.
func (l *Lifecycle) MarkReady(dim int) {
	l.State = Ready
	l.Dim = dim
}

// CheckDim returns a DimensionError when a Ready lifecycle sees a different
// feature count. An Uninitialized lifecycle accepts any positive dim.
func (l *Lifecycle) CheckDim(op string, dim int) error {
	if dim <= 0 {
		return errors.NewValidationError("dim", "must be positive", dim)
	}
	if l.State == Ready && l.Dim != dim {
		return errors.NewDimensionError(op, l.Dim, dim, 1)
	}
	return nil
}

// RequireReady returns a NotInitializedError unless the lifecycle is Ready.
func (l *Lifecycle) RequireReady(modelName, method string) error {
	if l.State != Ready {
		return errors.NewNotInitializedError(modelName, method)
	}
	return nil
}

// Reset returns to the Uninitialized state.
func (l *Lifecycle) Reset() {
	l.State = Uninitialized
	l.Dim = 0
	l.Rounds = 0
}
