package linear

import (
	"github.com/YuminosukeSato/fedscaffold/core/model"
	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// NumericalGradient approximates the gradient of obj at w with central
// differences of width eps. Useful for checking analytic gradients.
func NumericalGradient(obj model.ObjectiveModel, w mat.Vector, X, y mat.Matrix, reg, eps float64) (*mat.VecDense, error) {
	if eps <= 0 {
		return nil, errors.NewValidationError("eps", "must be positive", eps)
	}
	d := w.Len()
	shifted := mat.VecDenseCopyOf(w)
	grad := mat.NewVecDense(d, nil)

	for j := 0; j < d; j++ {
		orig := shifted.AtVec(j)

		shifted.SetVec(j, orig+eps)
		plus, err := obj.Objective(shifted, X, y, reg)
		if err != nil {
			return nil, err
		}

		shifted.SetVec(j, orig-eps)
		minus, err := obj.Objective(shifted, X, y, reg)
		if err != nil {
			return nil, err
		}

		shifted.SetVec(j, orig)
		grad.SetVec(j, (plus-minus)/(2*eps))
	}
	return grad, nil
}
