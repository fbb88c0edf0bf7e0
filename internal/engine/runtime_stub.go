//go:build !cuopt

package engine

import (
	"context"

	"solverd/pkg/types"
)

// This stub stands in for the cuOpt runtime when the 'cuopt' build tag is
// not set, so the service builds and serves everywhere; solve requests
// report the runtime as unavailable.

type stubRuntime struct{}

// NewCuOptRuntime returns a placeholder runtime that rejects all solves.
func NewCuOptRuntime() Runtime { return stubRuntime{} }

func (stubRuntime) SolveBatch(ctx context.Context, problems []Problem, s Settings) ([]types.InstanceOutcome, float64, error) {
	return nil, 0, ErrRuntimeUnavailable("cuopt runtime not built into this binary (rebuild with -tags cuopt)")
}
