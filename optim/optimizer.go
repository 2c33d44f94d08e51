package optim

import (
	"fmt"
	"math/rand"

	"github.com/YuminosukeSato/fedscaffold/core/model"
	"github.com/YuminosukeSato/fedscaffold/metrics"
	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
	"github.com/YuminosukeSato/fedscaffold/pkg/log"
	"gonum.org/v1/gonum/mat"
)

const modelName = "LocalOptimizer"

// weightsVersion tags exported client state.
const weightsVersion = "1.0.0"

// LocalOptimizer owns one client's parameter vector w and control variate
// c_client, and trains them with plain SGD or SCAFFOLD local rounds.
//
// A LocalOptimizer is not safe for concurrent use. Simulations run one
// instance per client.
type LocalOptimizer struct {
	state     *model.Lifecycle
	objective model.ObjectiveModel

	w       *mat.VecDense
	wStar   *mat.VecDense // nil when no reference is known
	cClient *mat.VecDense

	randomState int64
	rng         *rand.Rand
	initScale   float64
	logger      log.Logger
}

// SGDHistory holds the diagnostics recorded by RunSGD. They are observational
// only and never feed back into the update.
type SGDHistory struct {
	// EpochObjective has one full-dataset objective per epoch, taken before the epoch.
	EpochObjective []float64
	// IterObjective has one full-dataset objective per iteration, taken before the step.
	IterObjective []float64
	// ParamError has ||w - w_star||_2 per iteration; nil without a reference.
	ParamError []float64
}

// RoundUpdate is what a client sends back to the server after a local round.
type RoundUpdate struct {
	DeltaW     *mat.VecDense
	DeltaC     *mat.VecDense
	NumSamples int
}

// NewLocalOptimizer creates an Uninitialized optimizer for objective. wStar is
// the ground-truth parameter used for the error diagnostic; it is copied and
// may be nil.
func NewLocalOptimizer(objective model.ObjectiveModel, wStar []float64, opts ...Option) *LocalOptimizer {
	o := &LocalOptimizer{
		state:       model.NewLifecycle(),
		objective:   objective,
		randomState: -1,
		initScale:   0.001,
	}
	if len(wStar) > 0 {
		o.wStar = mat.NewVecDense(len(wStar), append([]float64(nil), wStar...))
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if o.logger == nil {
		o.logger = log.GetLogger()
	}
	o.logger = o.logger.With(log.ModelNameKey, modelName)

	return o
}

// Initialize materializes w (initScale·N(0,1) per coordinate) and a zero control
// variate. Calling it again with the same dim is a no-op.
func (o *LocalOptimizer) Initialize(dim int) error {
	if err := o.checkDim("Initialize", dim); err != nil {
		return err
	}
	if o.state.IsReady() {
		return nil
	}
	o.commit(o.initialWeights(dim), mat.NewVecDense(dim, nil), dim)
	return nil
}

// RunSGD runs cfg.Epochs passes of mini-batch SGD over (X, y). Each epoch makes
// floor(N/BatchSize) updates w <- w - StepSize·∇f(w; batch). The optimizer is
// initialized on first use; on error its state is left untouched.
func (o *LocalOptimizer) RunSGD(X, y mat.Matrix, cfg SGDConfig) (SGDHistory, error) {
	const op = "LocalOptimizer.RunSGD"

	n, d, err := checkData(op, X, y)
	if err != nil {
		return SGDHistory{}, err
	}
	if err := cfg.Validate(n); err != nil {
		return SGDHistory{}, err
	}
	w, c, err := o.working(op, d)
	if err != nil {
		return SGDHistory{}, err
	}

	itersPerEpoch := n / cfg.BatchSize
	total := cfg.Epochs * itersPerEpoch
	hist := SGDHistory{
		EpochObjective: make([]float64, 0, cfg.Epochs),
		IterObjective:  make([]float64, 0, total),
	}
	if o.wStar != nil {
		hist.ParamError = make([]float64, 0, total)
	}

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		epochObj, err := o.objective.Objective(w, X, y, cfg.Reg)
		if err != nil {
			return SGDHistory{}, err
		}
		if err := errors.CheckScalar("sgd_objective", epochObj, epoch*itersPerEpoch); err != nil {
			o.logger.Error("Objective is not finite", err, log.OperationKey, log.OperationSGD, log.EpochKey, epoch)
			return SGDHistory{}, err
		}
		hist.EpochObjective = append(hist.EpochObjective, epochObj)

		for j := 0; j < itersPerEpoch; j++ {
			iter := epoch*itersPerEpoch + j
			Xb, yb := GatherRows(X, y, SampleIndices(o.rng, n, cfg.BatchSize))

			obj, err := o.objective.Objective(w, X, y, cfg.Reg)
			if err != nil {
				return SGDHistory{}, err
			}
			if err := errors.CheckScalar("sgd_objective", obj, iter); err != nil {
				o.logger.Error("Objective is not finite", err, log.OperationKey, log.OperationSGD, log.IterationKey, iter)
				return SGDHistory{}, err
			}
			hist.IterObjective = append(hist.IterObjective, obj)
			if o.wStar != nil {
				dist, err := metrics.ParameterError(w, o.wStar)
				if err != nil {
					return SGDHistory{}, err
				}
				hist.ParamError = append(hist.ParamError, dist)
			}

			grad, err := o.objective.Gradient(w, Xb, yb, cfg.Reg)
			if err != nil {
				return SGDHistory{}, err
			}
			w.AddScaledVec(w, -cfg.StepSize, grad)
			if err := errors.CheckNumericalStability("sgd_update", w.RawVector().Data, iter); err != nil {
				o.logger.Error("SGD diverged", err, log.OperationKey, log.OperationSGD, log.LearningRateKey, cfg.StepSize)
				return SGDHistory{}, err
			}
		}

		o.logger.Debug("Epoch finished",
			log.OperationKey, log.OperationSGD,
			log.EpochKey, epoch,
			log.LossKey, epochObj,
		)
	}

	o.commit(w, c, d)
	return hist, nil
}

// RunFederatedRound performs one SCAFFOLD local round starting from the server
// broadcast:
//
//	w <- serverW
//	repeat Iterations times: w <- w - η(∇f(w; batch) - c_client + serverControl)
//	c_client <- c_client - serverControl + (serverW - w)/(Iterations·η)
//
// It returns ΔW = w - serverW and ΔC = c_client(new) - c_client(old). The local
// w and c_client persist as this client's state. On error nothing is mutated.
func (o *LocalOptimizer) RunFederatedRound(X, y mat.Matrix, serverW, serverControl mat.Vector, cfg RoundConfig) (RoundUpdate, error) {
	const op = "LocalOptimizer.RunFederatedRound"

	n, d, err := checkData(op, X, y)
	if err != nil {
		return RoundUpdate{}, err
	}
	if err := cfg.Validate(n); err != nil {
		return RoundUpdate{}, err
	}
	if serverW.Len() != d {
		return RoundUpdate{}, errors.NewDimensionError(op, d, serverW.Len(), 1)
	}
	if serverControl.Len() != d {
		return RoundUpdate{}, errors.NewDimensionError(op, d, serverControl.Len(), 1)
	}
	_, oldC, err := o.working(op, d)
	if err != nil {
		return RoundUpdate{}, err
	}

	// correction = serverControl - c_client, constant through the round
	correction := mat.NewVecDense(d, nil)
	correction.SubVec(serverControl, oldC)

	w := mat.VecDenseCopyOf(serverW)
	for i := 0; i < cfg.Iterations; i++ {
		Xb, yb := GatherRows(X, y, SampleIndices(o.rng, n, cfg.BatchSize))
		grad, err := o.objective.Gradient(w, Xb, yb, cfg.Reg)
		if err != nil {
			return RoundUpdate{}, err
		}
		grad.AddVec(grad, correction)
		w.AddScaledVec(w, -cfg.StepSize, grad)
	}

	newC := mat.NewVecDense(d, nil)
	newC.SubVec(serverW, w)
	newC.ScaleVec(1/(float64(cfg.Iterations)*cfg.StepSize), newC)
	newC.AddVec(newC, oldC)
	newC.SubVec(newC, serverControl)

	if err := errors.CheckNumericalStability("scaffold_weights", w.RawVector().Data, cfg.Iterations); err != nil {
		o.logger.Error("Local round diverged", err, log.OperationKey, log.OperationFederatedStep)
		return RoundUpdate{}, err
	}
	if err := errors.CheckNumericalStability("scaffold_control", newC.RawVector().Data, cfg.Iterations); err != nil {
		o.logger.Error("Control variate diverged", err, log.OperationKey, log.OperationFederatedStep)
		return RoundUpdate{}, err
	}

	update := RoundUpdate{
		DeltaW:     mat.NewVecDense(d, nil),
		DeltaC:     mat.NewVecDense(d, nil),
		NumSamples: n,
	}
	update.DeltaW.SubVec(w, serverW)
	update.DeltaC.SubVec(newC, oldC)

	o.commit(w, newC, d)
	o.state.Rounds++

	o.logger.Debug("Local round finished",
		log.OperationKey, log.OperationFederatedStep,
		log.RoundKey, o.state.Rounds,
		log.IterationKey, cfg.Iterations,
		log.SamplesKey, n,
	)
	return update, nil
}

// Loss evaluates the objective at the current parameters.
func (o *LocalOptimizer) Loss(X, y mat.Matrix, reg float64) (float64, error) {
	if err := o.state.RequireReady(modelName, "Loss"); err != nil {
		return 0, err
	}
	return o.objective.Objective(o.w, X, y, reg)
}

// Weights returns a copy of w.
func (o *LocalOptimizer) Weights() (*mat.VecDense, error) {
	if err := o.state.RequireReady(modelName, "Weights"); err != nil {
		return nil, err
	}
	return mat.VecDenseCopyOf(o.w), nil
}

// ControlVariate returns a copy of c_client.
func (o *LocalOptimizer) ControlVariate() (*mat.VecDense, error) {
	if err := o.state.RequireReady(modelName, "ControlVariate"); err != nil {
		return nil, err
	}
	return mat.VecDenseCopyOf(o.cClient), nil
}

// State returns Uninitialized or Ready.
func (o *LocalOptimizer) State() model.State {
	return o.state.State
}

// Dim returns the parameter dimension, or 0 before initialization.
func (o *LocalOptimizer) Dim() int {
	return o.state.Dim
}

// Rounds returns the number of completed federated rounds.
func (o *LocalOptimizer) Rounds() int {
	return o.state.Rounds
}

// ExportWeights captures w and c_client for persistence or transfer.
func (o *LocalOptimizer) ExportWeights() (*model.ModelWeights, error) {
	mw := &model.ModelWeights{
		ModelType: objectiveName(o.objective),
		Version:   weightsVersion,
		Rounds:    o.state.Rounds,
		IsReady:   o.state.IsReady(),
		Metadata: map[string]interface{}{
			"init_scale":   o.initScale,
			"random_state": o.randomState,
		},
	}
	if o.state.IsReady() {
		mw.Coefficients = append([]float64(nil), o.w.RawVector().Data...)
		mw.ControlVariate = append([]float64(nil), o.cClient.RawVector().Data...)
	}
	return mw, nil
}

// ImportWeights restores state produced by ExportWeights.
func (o *LocalOptimizer) ImportWeights(weights *model.ModelWeights) error {
	const op = "LocalOptimizer.ImportWeights"
	if weights == nil {
		return errors.NewValueError(op, "weights cannot be nil")
	}
	if err := weights.Validate(); err != nil {
		return errors.Wrap(err, op)
	}
	if name := objectiveName(o.objective); weights.ModelType != name {
		return errors.NewValueError(op, fmt.Sprintf("model type mismatch: expected %s, got %s", name, weights.ModelType))
	}
	if !weights.IsReady {
		o.state.Reset()
		o.w, o.cClient = nil, nil
		return nil
	}

	d := len(weights.Coefficients)
	if o.wStar != nil && o.wStar.Len() != d {
		return errors.NewDimensionError(op, o.wStar.Len(), d, 1)
	}
	c := mat.NewVecDense(d, nil)
	if len(weights.ControlVariate) > 0 {
		c = mat.NewVecDense(d, append([]float64(nil), weights.ControlVariate...))
	}
	o.state.Reset()
	o.commit(mat.NewVecDense(d, append([]float64(nil), weights.Coefficients...)), c, d)
	o.state.Rounds = weights.Rounds
	return nil
}

// checkDim validates dim against the lifecycle and the reference vector.
func (o *LocalOptimizer) checkDim(op string, dim int) error {
	if err := o.state.CheckDim(op, dim); err != nil {
		return err
	}
	if o.wStar != nil && o.wStar.Len() != dim {
		return errors.NewDimensionError(op, o.wStar.Len(), dim, 1)
	}
	return nil
}

// working returns copies of (w, c_client) to train on, freshly initialized when
// the optimizer is still Uninitialized.
func (o *LocalOptimizer) working(op string, dim int) (*mat.VecDense, *mat.VecDense, error) {
	if err := o.checkDim(op, dim); err != nil {
		return nil, nil, err
	}
	if !o.state.IsReady() {
		return o.initialWeights(dim), mat.NewVecDense(dim, nil), nil
	}
	return mat.VecDenseCopyOf(o.w), mat.VecDenseCopyOf(o.cClient), nil
}

func (o *LocalOptimizer) initialWeights(dim int) *mat.VecDense {
	w := mat.NewVecDense(dim, nil)
	for j := 0; j < dim; j++ {
		w.SetVec(j, o.initScale*o.rng.NormFloat64())
	}
	return w
}

func (o *LocalOptimizer) commit(w, c *mat.VecDense, dim int) {
	o.w = w
	o.cClient = c
	o.state.MarkReady(dim)
}

// checkData validates that y is a column vector with one label per row of X.
func checkData(op string, X, y mat.Matrix) (n, d int, err error) {
	n, d = X.Dims()
	yr, yc := y.Dims()
	if yc != 1 {
		return 0, 0, errors.NewDimensionError(op, 1, yc, 1)
	}
	if yr != n {
		return 0, 0, errors.NewDimensionError(op, n, yr, 0)
	}
	if n == 0 || d == 0 {
		return 0, 0, errors.NewValueError(op, "empty dataset")
	}
	return n, d, nil
}

func objectiveName(obj model.ObjectiveModel) string {
	if named, ok := obj.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", obj)
}
