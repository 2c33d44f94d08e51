// Package datasets generates synthetic logistic-regression data with a known
// ground-truth parameter and splits it into client shards.
package datasets

import (
	"math/rand"

	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Shard is one client's slice of a dataset.
type Shard struct {
	X *mat.Dense
	Y *mat.Dense
}

// MakeLogistic draws n rows x ~ N(0, I_dim) and a reference wStar ~ N(0, I_dim),
// then labels each row +1 with probability σ(xᵀwStar) and -1 otherwise.
func MakeLogistic(rng *rand.Rand, n, dim int) (X, y *mat.Dense, wStar []float64, err error) {
	if n <= 0 {
		return nil, nil, nil, errors.NewValidationError("n_samples", "must be positive", n)
	}
	if dim <= 0 {
		return nil, nil, nil, errors.NewValidationError("n_features", "must be positive", dim)
	}

	wStar = make([]float64, dim)
	for j := range wStar {
		wStar[j] = rng.NormFloat64()
	}

	X = mat.NewDense(n, dim, nil)
	y = mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		var margin float64
		for j := 0; j < dim; j++ {
			v := rng.NormFloat64()
			X.Set(i, j, v)
			margin += v * wStar[j]
		}
		if rng.Float64() < errors.Sigmoid(margin) {
			y.Set(i, 0, 1)
		} else {
			y.Set(i, 0, -1)
		}
	}
	return X, y, wStar, nil
}

// Partition shuffles the rows of (X, y) and deals them round-robin into k
// shards. Shard sizes differ by at most one.
func Partition(rng *rand.Rand, X, y mat.Matrix, k int) ([]Shard, error) {
	n, d := X.Dims()
	if yr, yc := y.Dims(); yr != n || yc != 1 {
		if yc != 1 {
			return nil, errors.NewDimensionError("Partition", 1, yc, 1)
		}
		return nil, errors.NewDimensionError("Partition", n, yr, 0)
	}
	if k <= 0 || k > n {
		return nil, errors.NewValidationError("n_shards", "must be in [1, n_samples]", k)
	}

	perm := rng.Perm(n)
	shards := make([]Shard, k)
	for s := range shards {
		rows := (n - s + k - 1) / k
		shards[s] = Shard{X: mat.NewDense(rows, d, nil), Y: mat.NewDense(rows, 1, nil)}
	}
	for pos, src := range perm {
		s, row := pos%k, pos/k
		for j := 0; j < d; j++ {
			shards[s].X.Set(row, j, X.At(src, j))
		}
		shards[s].Y.Set(row, 0, y.At(src, 0))
	}
	return shards, nil
}
