// Package fedscaffold trains linear classifiers with plain mini-batch SGD and
// with SCAFFOLD, the federated algorithm that corrects client drift with
// control variates.
//
// # Quick Start
//
//	opt := optim.NewLocalOptimizer(linear.NewLogisticObjective(), wStar,
//	    optim.WithRandomState(42),
//	)
//
//	// centralized baseline
//	hist, err := opt.RunSGD(X, y, optim.DefaultSGDConfig())
//
//	// one SCAFFOLD local round from the server broadcast
//	update, err := opt.RunFederatedRound(X, y, serverW, serverControl, optim.RoundConfig{
//	    StepSize:   0.1,
//	    Iterations: 10,
//	    BatchSize:  50,
//	})
//
// # Packages
//
//   - optim: LocalOptimizer (RunSGD, RunFederatedRound), batch sampling
//   - linear: objective variants (logistic, least squares) and gradient checks
//   - federated: Server aggregation and the in-process multi-client Simulation
//   - datasets: synthetic logistic data with a known reference parameter
//   - preprocessing: feature standardization
//   - metrics: parameter error and sign accuracy
//   - report: objective and error charts
//   - core/model: ObjectiveModel interface, lifecycle and weight export
//   - core/parallel: parallel processing utilities
//
// See examples/scaffold for a runnable comparison of SGD and SCAFFOLD.
package fedscaffold
