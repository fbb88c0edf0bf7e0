package engine

import (
	"context"

	"solverd/pkg/types"
)

// Problem is one prepared problem instance handed to the runtime. All
// instances of a batch reference the same model file; each carries its own
// copy of the raw bytes, mirroring per-instance parsing on the solver side.
type Problem struct {
	Path string
	Data []byte
}

// Settings are the solver parameters forwarded into the runtime.
type Settings struct {
	// Compute-time limit in seconds, enforced by the solver itself.
	TimeLimit float64
}

// Runtime solves a batch of problem instances in a single call. The GPU
// runtime is not reentrant at the process level; the engine guarantees
// SolveBatch is never invoked concurrently.
type Runtime interface {
	// SolveBatch returns one outcome per problem, in order, plus the
	// wall-clock seconds spent solving.
	SolveBatch(ctx context.Context, problems []Problem, s Settings) ([]types.InstanceOutcome, float64, error)
}
