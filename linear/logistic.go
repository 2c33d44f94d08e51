package linear

import (
	"github.com/YuminosukeSato/fedscaffold/core/parallel"
	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LogisticObjective is the L2-regularized logistic loss for labels in {-1, +1}:
//
//	f(w) = 1/n Σ log(1 + exp(-y_i·x_iᵀw)) + reg/2·wᵀw
//	∇f(w) = 1/n Xᵀ(y ⊙ (σ(y ⊙ Xw) - 1)) + reg·w
type LogisticObjective struct{}

// NewLogisticObjective returns the logistic-regression objective.
func NewLogisticObjective() *LogisticObjective {
	return &LogisticObjective{}
}

// Name implements the optional naming hook used for weight export.
func (o *LogisticObjective) Name() string {
	return "LogisticObjective"
}

// Objective returns the regularized mean logistic loss.
func (o *LogisticObjective) Objective(w mat.Vector, X, y mat.Matrix, reg float64) (float64, error) {
	n, _, err := checkShapes("LogisticObjective.Objective", w, X, y)
	if err != nil {
		return 0, err
	}

	margins := mat.NewVecDense(n, nil)
	margins.MulVec(X, w)

	losses := make([]float64, n)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			losses[i] = errors.Softplus(-y.At(i, 0) * margins.AtVec(i))
		}
	})

	return floats.Sum(losses)/float64(n) + 0.5*reg*mat.Dot(w, w), nil
}

// Gradient returns the gradient of Objective with respect to w.
func (o *LogisticObjective) Gradient(w mat.Vector, X, y mat.Matrix, reg float64) (*mat.VecDense, error) {
	n, d, err := checkShapes("LogisticObjective.Gradient", w, X, y)
	if err != nil {
		return nil, err
	}

	margins := mat.NewVecDense(n, nil)
	margins.MulVec(X, w)

	residual := mat.NewVecDense(n, nil)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			yi := y.At(i, 0)
			residual.SetVec(i, yi*(errors.Sigmoid(yi*margins.AtVec(i))-1))
		}
	})

	grad := mat.NewVecDense(d, nil)
	grad.MulVec(X.T(), residual)
	grad.ScaleVec(1/float64(n), grad)
	addL2(grad, w, reg)
	return grad, nil
}
