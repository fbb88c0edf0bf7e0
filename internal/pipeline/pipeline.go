// Package pipeline sequences a local presolve with a remote solve,
// handing the reduced model between the two stages by path.
package pipeline

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"solverd/internal/backend"
	"solverd/pkg/types"
)

// Stage tags attached to pipeline failures and results.
const (
	StagePresolve = "presolve"
	StageSolve    = "solve"
)

// StageError wraps a stage failure with the stage it occurred in.
// The underlying error kind is preserved, not converted.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return "pipeline stage " + e.Stage + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// Stage returns the stage tag of err if it is a StageError, else "".
func Stage(err error) string {
	if se, ok := err.(*StageError); ok {
		return se.Stage
	}
	return ""
}

// Presolver reduces a model file to a presolved artifact.
type Presolver interface {
	Presolve(ctx context.Context, input, output string) (*backend.LocalResult, error)
}

// RemoteSolver submits a solve request to the remote service.
type RemoteSolver interface {
	Solve(ctx context.Context, req types.SolveRequest) (*backend.RemoteResult, error)
}

// Result is the outcome of a completed pipeline run: the presolve artifact
// and the remote service's raw response.
type Result struct {
	Presolve *backend.LocalResult
	Remote   *backend.RemoteResult
}

// Controller runs the two stages in order. One presolve, one remote solve,
// no internal retries.
type Controller struct {
	presolver Presolver
	remote    RemoteSolver
	log       zerolog.Logger
}

// New builds a pipeline controller over the two injected stages.
func New(p Presolver, r RemoteSolver, log zerolog.Logger) *Controller {
	return &Controller{presolver: p, remote: r, log: log}
}

// Run presolves input into artifact, then submits the artifact for a
// remote solve. A presolve failure aborts the run before the remote
// adapter is touched. The remote service resolves file names against its
// own mount, so only the artifact's basename is sent; the artifact itself
// must already be visible in that mount.
func (c *Controller) Run(ctx context.Context, input, artifact string, timeLimit float64, batchSize int) (*Result, error) {
	pre, err := c.presolver.Presolve(ctx, input, artifact)
	if err != nil {
		return nil, &StageError{Stage: StagePresolve, Err: err}
	}
	c.log.Info().Str("artifact", artifact).Msg("presolve complete")

	req := types.SolveRequest{
		FileName:  filepath.Base(artifact),
		TimeLimit: timeLimit,
		BatchSize: batchSize,
	}
	req.ApplyDefaults()
	remote, err := c.remote.Solve(ctx, req)
	if err != nil {
		return nil, &StageError{Stage: StageSolve, Err: err}
	}
	return &Result{Presolve: pre, Remote: remote}, nil
}
