package optim

import (
	"math/rand"

	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// SampleIndices draws batchSize row indices uniformly from [0, n) with
// replacement. Duplicates are expected, including when batchSize == n.
func SampleIndices(rng *rand.Rand, n, batchSize int) []int {
	idx := make([]int, batchSize)
	for i := range idx {
		idx[i] = rng.Intn(n)
	}
	return idx
}

// GatherRows copies the selected rows of X and y into new dense matrices.
func GatherRows(X, y mat.Matrix, idx []int) (*mat.Dense, *mat.Dense) {
	_, d := X.Dims()
	Xb := mat.NewDense(len(idx), d, nil)
	yb := mat.NewDense(len(idx), 1, nil)
	for i, row := range idx {
		for j := 0; j < d; j++ {
			Xb.Set(i, j, X.At(row, j))
		}
		yb.Set(i, 0, y.At(row, 0))
	}
	return Xb, yb
}

// SampleBatch draws a batch with replacement and gathers it.
func SampleBatch(rng *rand.Rand, X, y mat.Matrix, batchSize int) (*mat.Dense, *mat.Dense, error) {
	n, _ := X.Dims()
	if n == 0 {
		return nil, nil, errors.NewValueError("SampleBatch", "empty dataset")
	}
	if batchSize <= 0 || batchSize > n {
		return nil, nil, errors.NewValidationError("batch_size", "must be in [1, n_samples]", batchSize)
	}
	Xb, yb := GatherRows(X, y, SampleIndices(rng, n, batchSize))
	return Xb, yb, nil
}
