// Package log defines standard attribute keys for training runs.
//
// Keys follow a hierarchical naming convention ("data.samples", "fl.round") so
// logs from many simulated clients can be filtered and aggregated.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the optimizer or objective type.
	// Examples: "LocalOptimizer", "LogisticObjective", "Server"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies the package emitting the record.
	ComponentKey = "ml.component"
)

// Data shape.
const (
	SamplesKey   = "data.samples"
	FeaturesKey  = "data.features"
	BatchSizeKey = "data.batch_size"
)

// Training progress and metrics.
const (
	// LossKey records the full-dataset objective value.
	LossKey = "metrics.loss"

	// ParamErrorKey records ||w - w_star||_2 when a reference is known.
	ParamErrorKey = "metrics.param_error"

	IterationKey = "training.iteration"
	EpochKey     = "training.epoch"

	DurationMsKey = "perf.duration_ms"
)

// Federated context.
const (
	// RoundKey is the server round number, starting at 1.
	RoundKey = "fl.round"

	// ClientIDKey identifies a simulated client.
	ClientIDKey = "fl.client_id"

	// ClientsKey is the number of clients participating in a round.
	ClientsKey = "fl.clients"

	// TotalClientsKey is the number of clients registered with a simulation.
	TotalClientsKey = "fl.total_clients"

	// ClientsPerRoundKey is the number of clients sampled each round.
	ClientsPerRoundKey = "fl.clients_per_round"

	// WorkersKey is the cap on clients trained concurrently.
	WorkersKey = "fl.workers"
)

// Hyperparameters.
const (
	LearningRateKey   = "hyperparams.learning_rate"
	RegularizationKey = "hyperparams.regularization"
	RandomSeedKey     = "config.random_seed"
)

// Error context.
const (
	ErrorKey      = "error"
	StacktraceKey = "error.stacktrace"
	ErrorCodeKey  = "error.code"
)

// Standard attribute values.
const (
	OperationSGD           = "sgd"
	OperationFederatedStep = "federated_round"
	OperationAggregate     = "aggregate"

	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidArgument   = "INVALID_ARGUMENT"
	ErrorNumerical         = "NUMERICAL_INSTABILITY"
)
