package metrics

import (
	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ParameterError は推定パラメータと真のパラメータの L2 距離 ||w - wStar||₂ を計算する
func ParameterError(w, wStar mat.Vector) (float64, error) {
	a, b, err := pair("ParameterError", w, wStar)
	if err != nil {
		return 0, err
	}
	return floats.Distance(a, b, 2), nil
}

// MeanSquaredDeviation は平均二乗偏差 (1/d)·||w - wStar||² を計算する
func MeanSquaredDeviation(w, wStar mat.Vector) (float64, error) {
	a, b, err := pair("MeanSquaredDeviation", w, wStar)
	if err != nil {
		return 0, err
	}
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	return floats.Dot(diff, diff) / float64(len(diff)), nil
}

func pair(op string, w, wStar mat.Vector) ([]float64, []float64, error) {
	n := w.Len()
	if n == 0 {
		return nil, nil, errors.NewValueError(op, "empty vector")
	}
	if wStar.Len() != n {
		return nil, nil, errors.NewDimensionError(op, n, wStar.Len(), 1)
	}
	return mat.Col(nil, 0, w), mat.Col(nil, 0, wStar), nil
}
