package federated

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/YuminosukeSato/fedscaffold/core/model"
	"github.com/YuminosukeSato/fedscaffold/core/parallel"
	"github.com/YuminosukeSato/fedscaffold/metrics"
	"github.com/YuminosukeSato/fedscaffold/optim"
	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
	"github.com/YuminosukeSato/fedscaffold/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// Client is one participant: its private shard and the optimizer that owns its
// local parameters and control variate.
type Client struct {
	ID        string
	X         mat.Matrix
	Y         mat.Matrix
	Optimizer *optim.LocalOptimizer
}

// History records the global model after every round. Sequences are empty when
// no evaluation set is configured; ParamError is nil without a reference.
type History struct {
	Objective  []float64
	ParamError []float64
	Accuracy   []float64
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithClientsPerRound sets how many clients are sampled each round. The default
// is every client.
func WithClientsPerRound(m int) Option {
	return func(s *Simulation) {
		s.clientsPerRound = m
	}
}

// WithRoundConfig sets the local round hyperparameters sent to every client.
func WithRoundConfig(cfg optim.RoundConfig) Option {
	return func(s *Simulation) {
		s.roundCfg = cfg
	}
}

// WithRandomState seeds client selection.
func WithRandomState(seed int64) Option {
	return func(s *Simulation) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLauncher sets the launcher bracketing the run.
func WithLauncher(l Launcher) Option {
	return func(s *Simulation) {
		s.launcher = l
	}
}

// WithWorkers caps the number of clients trained concurrently.
func WithWorkers(n int) Option {
	return func(s *Simulation) {
		s.workers = n
	}
}

// WithLogger sets the logger for round records.
func WithLogger(logger log.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// WithEvaluation evaluates the global model on (X, y) with objective after every
// round. wStar may be nil.
func WithEvaluation(objective model.ObjectiveModel, X, y mat.Matrix, wStar []float64) Option {
	return func(s *Simulation) {
		s.eval = &evaluation{objective: objective, X: X, y: y}
		if len(wStar) > 0 {
			s.eval.wStar = mat.NewVecDense(len(wStar), append([]float64(nil), wStar...))
		}
	}
}

type evaluation struct {
	objective model.ObjectiveModel
	X, y      mat.Matrix
	wStar     *mat.VecDense
}

// Simulation runs SCAFFOLD rounds in-process. Each client is trained by exactly
// one goroutine per round and clients share no mutable state; the server is only
// touched between rounds.
type Simulation struct {
	server  *Server
	clients []Client

	clientsPerRound int
	workers         int
	roundCfg        optim.RoundConfig
	rng             *rand.Rand
	launcher        Launcher
	logger          log.Logger
	eval            *evaluation
}

// NewSimulation wires clients to server.
func NewSimulation(server *Server, clients []Client, opts ...Option) (*Simulation, error) {
	if server == nil {
		return nil, errors.NewValueError("NewSimulation", "server cannot be nil")
	}
	if len(clients) == 0 {
		return nil, errors.NewValueError("NewSimulation", "at least one client is required")
	}
	for i, c := range clients {
		if c.Optimizer == nil || c.X == nil || c.Y == nil {
			return nil, errors.NewValueError("NewSimulation", fmt.Sprintf("client %d (%s) is incomplete", i, c.ID))
		}
		if _, d := c.X.Dims(); d != server.Dim() {
			return nil, errors.NewDimensionError("NewSimulation", server.Dim(), d, 1)
		}
	}

	s := &Simulation{
		server:          server,
		clients:         clients,
		clientsPerRound: len(clients),
		workers:         runtime.NumCPU(),
		roundCfg:        optim.DefaultRoundConfig(),
		launcher:        NopLauncher{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.clientsPerRound <= 0 || s.clientsPerRound > len(clients) {
		return nil, errors.NewValidationError("clients_per_round", fmt.Sprintf("must be in [1, %d]", len(clients)), s.clientsPerRound)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if s.logger == nil {
		s.logger = log.GetLogger()
	}
	s.logger = s.logger.With(log.ComponentKey, "Simulation")
	return s, nil
}

// Run executes rounds of client training and aggregation. Cancellation of ctx is
// observed between rounds; the launcher is always stopped once started.
func (s *Simulation) Run(ctx context.Context, rounds int) (hist History, err error) {
	if rounds < 0 {
		return History{}, errors.NewValidationError("rounds", "must be non-negative", rounds)
	}

	if err := s.launcher.Start(ctx, s.clientsPerRound); err != nil {
		return History{}, errors.Wrap(err, "launcher start")
	}
	defer func() {
		if stopErr := s.launcher.Stop(context.WithoutCancel(ctx)); stopErr != nil && err == nil {
			err = errors.Wrap(stopErr, "launcher stop")
		}
	}()
	s.logger.Info("Simulation started",
		log.TotalClientsKey, len(s.clients),
		log.ClientsPerRoundKey, s.clientsPerRound,
		log.WorkersKey, s.workers,
		log.LearningRateKey, s.roundCfg.StepSize,
	)

	for r := 1; r <= rounds; r++ {
		if err := ctx.Err(); err != nil {
			return hist, errors.Wrapf(err, "round %d", r)
		}

		start := time.Now()
		if err := s.round(r); err != nil {
			return hist, err
		}
		if err := s.evaluate(&hist); err != nil {
			return hist, err
		}

		fields := []any{log.RoundKey, r, log.DurationMsKey, time.Since(start).Milliseconds()}
		if n := len(hist.Objective); n > 0 {
			fields = append(fields, log.LossKey, hist.Objective[n-1])
		}
		if n := len(hist.ParamError); n > 0 {
			fields = append(fields, log.ParamErrorKey, hist.ParamError[n-1])
		}
		s.logger.Info("Round finished", fields...)
	}

	if n := len(hist.Objective); n > 1 && !(hist.Objective[n-1] < hist.Objective[0]) {
		errors.Warn(errors.NewConvergenceWarning("SCAFFOLD", rounds,
			fmt.Sprintf("objective went from %.6g to %.6g", hist.Objective[0], hist.Objective[n-1])))
	}
	return hist, nil
}

// round trains the selected clients and aggregates their updates. Client state
// is rolled back when any client or the aggregation fails, so clients never run
// ahead of the server.
func (s *Simulation) round(r int) (err error) {
	selected := s.rng.Perm(len(s.clients))[:s.clientsPerRound]
	serverW := s.server.Weights()
	serverC := s.server.Control()

	snapshots := make([]*model.ModelWeights, len(selected))
	for i, idx := range selected {
		if snapshots[i], err = s.clients[idx].Optimizer.ExportWeights(); err != nil {
			return errors.Wrapf(err, "round %d: snapshot client %s", r, s.clients[idx].ID)
		}
	}
	defer func() {
		if err != nil {
			s.rollback(selected, snapshots)
		}
	}()

	updates := make([]optim.RoundUpdate, len(selected))
	errs := parallel.ForEach(len(selected), s.workers, func(i int) error {
		c := s.clients[selected[i]]
		return errors.SafeExecute("client "+c.ID, func() error {
			u, err := c.Optimizer.RunFederatedRound(c.X, c.Y, serverW, serverC, s.roundCfg)
			if err != nil {
				return err
			}
			updates[i] = u
			return nil
		})
	})
	for i, err := range errs {
		if err != nil {
			id := s.clients[selected[i]].ID
			s.logger.Error("Client round failed", err, log.RoundKey, r, log.ClientIDKey, id)
			return errors.Wrapf(err, "round %d: client %s", r, id)
		}
	}

	return s.server.Aggregate(updates, len(s.clients))
}

func (s *Simulation) rollback(selected []int, snapshots []*model.ModelWeights) {
	for i, idx := range selected {
		c := s.clients[idx]
		if err := c.Optimizer.ImportWeights(snapshots[i]); err != nil {
			s.logger.Error("Client rollback failed", err, log.ClientIDKey, c.ID)
		}
	}
}

func (s *Simulation) evaluate(hist *History) error {
	if s.eval == nil {
		return nil
	}
	w := s.server.Weights()

	obj, err := s.eval.objective.Objective(w, s.eval.X, s.eval.y, s.roundCfg.Reg)
	if err != nil {
		return err
	}
	hist.Objective = append(hist.Objective, obj)

	acc, err := metrics.SignAccuracy(s.eval.X, s.eval.y, w)
	if err != nil {
		return err
	}
	hist.Accuracy = append(hist.Accuracy, acc)

	if s.eval.wStar != nil {
		dist, err := metrics.ParameterError(w, s.eval.wStar)
		if err != nil {
			return err
		}
		hist.ParamError = append(hist.ParamError, dist)
	}
	return nil
}

// Server returns the simulation's server.
func (s *Simulation) Server() *Server {
	return s.server
}
