package optim

import (
	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
)

// SGDConfig holds the hyperparameters of RunSGD.
type SGDConfig struct {
	StepSize  float64
	Reg       float64
	Epochs    int
	BatchSize int
}

// DefaultSGDConfig returns step 0.1, reg 1e-4, one epoch, batches of 50.
func DefaultSGDConfig() SGDConfig {
	return SGDConfig{StepSize: 0.1, Reg: 1e-4, Epochs: 1, BatchSize: 50}
}

// Validate checks the config against a dataset of nSamples rows.
func (c SGDConfig) Validate(nSamples int) error {
	if err := validateStep(c.StepSize, c.Reg); err != nil {
		return err
	}
	if c.Epochs < 0 {
		return errors.NewValidationError("epochs", "must be non-negative", c.Epochs)
	}
	return validateBatch(c.BatchSize, nSamples)
}

// RoundConfig holds the hyperparameters of RunFederatedRound.
type RoundConfig struct {
	StepSize   float64
	Reg        float64
	Iterations int
	BatchSize  int
}

// DefaultRoundConfig returns step 0.1, reg 1e-4, one local iteration, batches of 50.
func DefaultRoundConfig() RoundConfig {
	return RoundConfig{StepSize: 0.1, Reg: 1e-4, Iterations: 1, BatchSize: 50}
}

// Validate checks the config against a dataset of nSamples rows.
func (c RoundConfig) Validate(nSamples int) error {
	if c.Iterations <= 0 {
		return errors.NewValidationError("iterations", "must be positive", c.Iterations)
	}
	if err := validateStep(c.StepSize, c.Reg); err != nil {
		return err
	}
	return validateBatch(c.BatchSize, nSamples)
}

func validateStep(stepSize, reg float64) error {
	if !(stepSize > 0) {
		return errors.NewValidationError("step_size", "must be positive", stepSize)
	}
	if !(reg >= 0) {
		return errors.NewValidationError("reg", "must be non-negative", reg)
	}
	return nil
}

func validateBatch(batchSize, nSamples int) error {
	if nSamples == 0 {
		return errors.NewValueError("optim", "empty dataset")
	}
	if batchSize <= 0 || batchSize > nSamples {
		return errors.NewValidationError("batch_size", "must be in [1, n_samples]", batchSize)
	}
	return nil
}
