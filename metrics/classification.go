package metrics

import (
	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// SignAccuracy は ±1 ラベルに対する線形分類器 sign(Xw) の正解率を計算する
// スコアが 0 の場合は +1 と予測する
func SignAccuracy(X, y mat.Matrix, w mat.Vector) (float64, error) {
	n, d := X.Dims()
	if n == 0 {
		return 0, errors.NewValueError("SignAccuracy", "empty data")
	}
	yr, yc := y.Dims()
	if yc != 1 {
		return 0, errors.NewDimensionError("SignAccuracy", 1, yc, 1)
	}
	if yr != n {
		return 0, errors.NewDimensionError("SignAccuracy", n, yr, 0)
	}
	if w.Len() != d {
		return 0, errors.NewDimensionError("SignAccuracy", d, w.Len(), 1)
	}

	scores := mat.NewVecDense(n, nil)
	scores.MulVec(X, w)

	correct := 0
	for i := 0; i < n; i++ {
		pred := 1.0
		if scores.AtVec(i) < 0 {
			pred = -1.0
		}
		if pred == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}
