// Package federated aggregates SCAFFOLD client updates and drives simulated
// training rounds across many local optimizers.
package federated

import (
	"fmt"

	"github.com/YuminosukeSato/fedscaffold/optim"
	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
	"github.com/YuminosukeSato/fedscaffold/pkg/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Server holds the global model w and the server control variate c.
//
// Aggregate applies
//
//	w <- w + η_g · mean(ΔW)
//	c <- c + |S|/N · mean(ΔC)
//
// where S is the set of participating clients and N the total client count.
type Server struct {
	w []float64
	c []float64

	globalStepSize float64
	rounds         int
	logger         log.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithGlobalStepSize sets η_g. The default is 1.
func WithGlobalStepSize(eta float64) ServerOption {
	return func(s *Server) {
		s.globalStepSize = eta
	}
}

// WithInitialWeights starts the global model from w instead of zero.
func WithInitialWeights(w []float64) ServerOption {
	return func(s *Server) {
		s.w = append([]float64(nil), w...)
	}
}

// WithServerLogger sets the logger for aggregation records.
func WithServerLogger(logger log.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server for dim-dimensional models.
func NewServer(dim int, opts ...ServerOption) (*Server, error) {
	if dim <= 0 {
		return nil, errors.NewValidationError("dim", "must be positive", dim)
	}
	s := &Server{
		w:              make([]float64, dim),
		c:              make([]float64, dim),
		globalStepSize: 1,
	}
	for _, opt := range opts {
		opt(s)
	}

	if len(s.w) != dim {
		return nil, errors.NewDimensionError("NewServer", dim, len(s.w), 1)
	}
	if !(s.globalStepSize > 0) {
		return nil, errors.NewValidationError("global_step_size", "must be positive", s.globalStepSize)
	}
	if s.logger == nil {
		s.logger = log.GetLogger()
	}
	s.logger = s.logger.With(log.ComponentKey, "Server")
	return s, nil
}

// Aggregate folds the updates of one round into the global state. On error the
// state is unchanged.
func (s *Server) Aggregate(updates []optim.RoundUpdate, totalClients int) error {
	const op = "Server.Aggregate"

	if len(updates) == 0 {
		return errors.Wrap(errors.ErrNoUpdates, op)
	}
	if totalClients < len(updates) {
		return errors.NewValidationError("total_clients", fmt.Sprintf("must be at least the %d participating clients", len(updates)), totalClients)
	}

	d := len(s.w)
	sumW := make([]float64, d)
	sumC := make([]float64, d)
	for i, u := range updates {
		if u.DeltaW == nil || u.DeltaC == nil {
			return errors.NewValueError(op, fmt.Sprintf("update %d is missing a delta", i))
		}
		if u.DeltaW.Len() != d {
			return errors.NewDimensionError(op, d, u.DeltaW.Len(), 1)
		}
		if u.DeltaC.Len() != d {
			return errors.NewDimensionError(op, d, u.DeltaC.Len(), 1)
		}
		floats.Add(sumW, u.DeltaW.RawVector().Data)
		floats.Add(sumC, u.DeltaC.RawVector().Data)
	}

	k := float64(len(updates))
	newW := append([]float64(nil), s.w...)
	newC := append([]float64(nil), s.c...)
	floats.AddScaled(newW, s.globalStepSize/k, sumW)
	// |S|/N · (sum/|S|) = sum/N
	floats.AddScaled(newC, 1/float64(totalClients), sumC)

	if err := errors.CheckNumericalStability("server_aggregate", append(newW, newC...), s.rounds); err != nil {
		s.logger.Error("Aggregation diverged", err, log.OperationKey, log.OperationAggregate)
		return err
	}

	s.w, s.c = newW, newC
	s.rounds++
	s.logger.Debug("Aggregated round",
		log.OperationKey, log.OperationAggregate,
		log.RoundKey, s.rounds,
		log.ClientsKey, len(updates),
	)
	return nil
}

// Weights returns a copy of the global model.
func (s *Server) Weights() *mat.VecDense {
	return mat.NewVecDense(len(s.w), append([]float64(nil), s.w...))
}

// Control returns a copy of the server control variate.
func (s *Server) Control() *mat.VecDense {
	return mat.NewVecDense(len(s.c), append([]float64(nil), s.c...))
}

// Dim returns the model dimension.
func (s *Server) Dim() int {
	return len(s.w)
}

// Rounds returns the number of aggregated rounds.
func (s *Server) Rounds() int {
	return s.rounds
}
