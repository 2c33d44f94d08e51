package model

import "gonum.org/v1/gonum/mat"

// ObjectiveModel は損失関数とその勾配を提供するインターフェース
//
// 実装は純粋関数でなければならない。同じ入力に対しては常に同じ値を返し、
// w・X・y を変更しない。
type ObjectiveModel interface {
	// Objective はバッチ全体の平均損失に正則化項 reg/2·wᵀw を加えた値を返す
	Objective(w mat.Vector, X, y mat.Matrix, reg float64) (float64, error)

	// Gradient は Objective の w に関する勾配を返す（長さは w と同じ）
	Gradient(w mat.Vector, X, y mat.Matrix, reg float64) (*mat.VecDense, error)
}
