package linear

import (
	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// parallelThreshold is the row count above which per-sample terms are computed
// across CPU cores.
const parallelThreshold = 4096

// checkShapes validates a (w, X, y) triple and returns the batch dimensions.
func checkShapes(op string, w mat.Vector, X, y mat.Matrix) (n, d int, err error) {
	n, d = X.Dims()
	if n == 0 || d == 0 {
		return 0, 0, errors.NewValueError(op, "empty batch")
	}
	yr, yc := y.Dims()
	if yc != 1 {
		return 0, 0, errors.NewDimensionError(op, 1, yc, 1)
	}
	if yr != n {
		return 0, 0, errors.NewDimensionError(op, n, yr, 0)
	}
	if w.Len() != d {
		return 0, 0, errors.NewDimensionError(op, d, w.Len(), 1)
	}
	return n, d, nil
}

// addL2 returns grad + reg*w, written into grad.
func addL2(grad *mat.VecDense, w mat.Vector, reg float64) {
	if reg != 0 {
		grad.AddScaledVec(grad, reg, w)
	}
}
