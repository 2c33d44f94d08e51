package preprocessing

import (
	"github.com/YuminosukeSato/fedscaffold/core/model"
	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// StandardScaler は特徴量を平均0、標準偏差1に変換する
// クライアントのシャードを学習前に同じスケールへ揃えるために使う
type StandardScaler struct {
	state *model.Lifecycle

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差（ほぼ0の場合は1）
	Scale []float64

	// WithMean は平均を引くかどうか
	WithMean bool

	// WithStd は標準偏差で割るかどうか
	WithStd bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	XScaled, err := scaler.FitTransform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewLifecycle(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// Fit は訓練データから列ごとの平均と母標準偏差を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "StandardScaler.Fit")
	}

	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, std := stat.PopMeanStdDev(col, nil)
		if s.WithMean {
			s.Mean[j] = mean
		}
		s.Scale[j] = 1
		// 定数列はゼロ除算を避けるためスケールしない
		if s.WithStd && std > 1e-8 {
			s.Scale[j] = std
		}
	}

	s.state.Reset()
	s.state.MarkReady(c)
	return nil
}

// Transform は学習済みの統計情報でデータを標準化した新しい行列を返す
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	return s.apply("Transform", X, func(v float64, j int) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	})
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	return s.apply("InverseTransform", X, func(v float64, j int) float64 {
		return v*s.Scale[j] + s.Mean[j]
	})
}

func (s *StandardScaler) apply(method string, X mat.Matrix, fn func(v float64, j int) float64) (*mat.Dense, error) {
	if err := s.state.RequireReady("StandardScaler", method); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if c != s.state.Dim {
		return nil, errors.NewDimensionError("StandardScaler."+method, s.state.Dim, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return fn(v, j)
	}, X)
	return result, nil
}
