package federated

import "context"

// Launcher starts and stops the external workers a simulation runs on.
// Process and cluster management live outside this module; the simulation only
// brackets its rounds with Start and Stop.
type Launcher interface {
	Start(ctx context.Context, workers int) error
	Stop(ctx context.Context) error
}

// NopLauncher does nothing. It is the default when no launcher is configured.
type NopLauncher struct{}

// Start implements Launcher.
func (NopLauncher) Start(context.Context, int) error { return nil }

// Stop implements Launcher.
func (NopLauncher) Stop(context.Context) error { return nil }
