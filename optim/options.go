package optim

import (
	"math/rand"

	"github.com/YuminosukeSato/fedscaffold/pkg/log"
)

// Option configures a LocalOptimizer.
type Option func(*LocalOptimizer)

// WithRandomState seeds the generator used for initialization and batch sampling.
func WithRandomState(seed int64) Option {
	return func(o *LocalOptimizer) {
		o.randomState = seed
		o.rng = rand.New(rand.NewSource(seed))
	}
}

// WithInitScale sets the standard deviation of the random initial weights.
func WithInitScale(scale float64) Option {
	return func(o *LocalOptimizer) {
		o.initScale = scale
	}
}

// WithLogger sets the logger used for progress records.
func WithLogger(logger log.Logger) Option {
	return func(o *LocalOptimizer) {
		o.logger = logger
	}
}
