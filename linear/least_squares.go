package linear

import (
	"gonum.org/v1/gonum/mat"
)

// LeastSquaresObjective is the ridge-regression objective
//
//	f(w) = 1/(2n) ||Xw - y||² + reg/2·wᵀw
//	∇f(w) = 1/n Xᵀ(Xw - y) + reg·w
type LeastSquaresObjective struct{}

// NewLeastSquaresObjective returns the squared-error objective.
func NewLeastSquaresObjective() *LeastSquaresObjective {
	return &LeastSquaresObjective{}
}

// Name implements the optional naming hook used for weight export.
func (o *LeastSquaresObjective) Name() string {
	return "LeastSquaresObjective"
}

func (o *LeastSquaresObjective) residual(w mat.Vector, X, y mat.Matrix, n int) *mat.VecDense {
	r := mat.NewVecDense(n, nil)
	r.MulVec(X, w)
	for i := 0; i < n; i++ {
		r.SetVec(i, r.AtVec(i)-y.At(i, 0))
	}
	return r
}

// Objective returns the regularized half mean squared error.
func (o *LeastSquaresObjective) Objective(w mat.Vector, X, y mat.Matrix, reg float64) (float64, error) {
	n, _, err := checkShapes("LeastSquaresObjective.Objective", w, X, y)
	if err != nil {
		return 0, err
	}
	r := o.residual(w, X, y, n)
	return mat.Dot(r, r)/(2*float64(n)) + 0.5*reg*mat.Dot(w, w), nil
}

// Gradient returns the gradient of Objective with respect to w.
func (o *LeastSquaresObjective) Gradient(w mat.Vector, X, y mat.Matrix, reg float64) (*mat.VecDense, error) {
	n, d, err := checkShapes("LeastSquaresObjective.Gradient", w, X, y)
	if err != nil {
		return nil, err
	}
	r := o.residual(w, X, y, n)

	grad := mat.NewVecDense(d, nil)
	grad.MulVec(X.T(), r)
	grad.ScaleVec(1/float64(n), grad)
	addL2(grad, w, reg)
	return grad, nil
}
