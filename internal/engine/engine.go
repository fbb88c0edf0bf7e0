// Package engine validates solve requests, resolves model files inside the
// service mount, and drives the solver runtime with all invocations
// serialized behind a single gate.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"solverd/internal/common/fsutil"
	"solverd/pkg/types"
)

type Engine struct {
	root string
	rt   Runtime
	log  zerolog.Logger
	// gate serializes runtime calls: the GPU solver is non-reentrant at
	// the process level, so overlapping batches must never be launched.
	gate chan struct{}
}

// New builds an engine serving model files under root with the given
// runtime.
func New(root string, rt Runtime, log zerolog.Logger) *Engine {
	return &Engine{root: root, rt: rt, log: log, gate: make(chan struct{}, 1)}
}

// Solve validates and executes one solve request and returns a normalized
// response. Validation and file resolution run outside the gate; only the
// runtime call holds it.
func (e *Engine) Solve(ctx context.Context, req types.SolveRequest) (types.SolveResponse, error) {
	req.ApplyDefaults()
	if req.FileName == "" {
		return types.SolveResponse{}, ErrInvalidRequest("file_name is required")
	}
	if req.TimeLimit <= 0 {
		return types.SolveResponse{}, ErrInvalidRequest(fmt.Sprintf("time_limit must be > 0, got %g", req.TimeLimit))
	}
	if req.BatchSize < 1 {
		return types.SolveResponse{}, ErrInvalidRequest(fmt.Sprintf("batch_size must be >= 1, got %d", req.BatchSize))
	}

	path, err := fsutil.ResolveWithin(e.root, req.FileName)
	if err != nil {
		if errors.Is(err, fsutil.ErrOutsideRoot) {
			return types.SolveResponse{}, ErrInvalidRequest("invalid file path specified")
		}
		return types.SolveResponse{}, ErrInvalidRequest(err.Error())
	}
	if !fsutil.PathExists(path) {
		return types.SolveResponse{}, ErrNotFound(req.FileName)
	}

	problems, err := e.prepare(ctx, path, req.BatchSize)
	if err != nil {
		return types.SolveResponse{}, err
	}

	solveID := uuid.NewString()
	waitStart := time.Now()
	select {
	case e.gate <- struct{}{}:
	case <-ctx.Done():
		return types.SolveResponse{}, ctx.Err()
	}
	gateWait.Observe(time.Since(waitStart).Seconds())

	start := time.Now()
	outcomes, solveTime, err := e.callRuntime(ctx, problems, Settings{TimeLimit: req.TimeLimit})
	<-e.gate
	solveDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		solvesTotal.WithLabelValues(string(types.StatusError)).Inc()
		if IsRuntimeUnavailable(err) || IsSolverFailure(err) || ctx.Err() != nil {
			return types.SolveResponse{}, err
		}
		return types.SolveResponse{}, ErrSolverFailure(err.Error())
	}
	if len(outcomes) != req.BatchSize {
		solvesTotal.WithLabelValues(string(types.StatusError)).Inc()
		return types.SolveResponse{}, ErrSolverFailure(fmt.Sprintf(
			"runtime returned %d outcomes for batch of %d", len(outcomes), req.BatchSize))
	}

	resp := normalize(req, solveID, solveTime, outcomes)
	solvesTotal.WithLabelValues(string(resp.Status)).Inc()
	e.log.Info().Str("solve_id", solveID).Str("file", req.FileName).
		Int("batch_size", req.BatchSize).Str("status", string(resp.Status)).
		Float64("solve_time", solveTime).Msg("solve finished")
	return resp, nil
}

// prepare reads one copy of the model per batch instance. Reads run
// concurrently; the runtime parses each instance from its own bytes.
func (e *Engine) prepare(ctx context.Context, path string, batchSize int) ([]Problem, error) {
	problems := make([]Problem, batchSize)
	g, ctx := errgroup.WithContext(ctx)
	for i := range problems {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return ErrSolverFailure("reading model: " + err.Error())
			}
			problems[i] = Problem{Path: path, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return problems, nil
}

// callRuntime invokes the runtime and contains its panics: a crashing
// solver must produce an error response, not take the service down.
func (e *Engine) callRuntime(ctx context.Context, problems []Problem, s Settings) (outcomes []types.InstanceOutcome, solveTime float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Msg("solver runtime panicked")
			outcomes, solveTime = nil, 0
			err = ErrSolverFailure(fmt.Sprintf("solver panicked: %v", r))
		}
	}()
	return e.rt.SolveBatch(ctx, problems, s)
}

// normalize shapes the per-instance outcomes into the response contract:
// a single outcome object for batch_size == 1, an ordered list otherwise.
// The top-level status and objective come from the first instance, and an
// objective is reported only for successful statuses.
func normalize(req types.SolveRequest, solveID string, solveTime float64, outcomes []types.InstanceOutcome) types.SolveResponse {
	for i := range outcomes {
		if !outcomes[i].Status.HasObjective() {
			outcomes[i].ObjectiveValue = nil
		}
	}
	resp := types.SolveResponse{
		Status: outcomes[0].Status,
		Details: types.SolveDetails{
			SolveID:          solveID,
			FileName:         req.FileName,
			BatchSize:        req.BatchSize,
			SolveTimeSeconds: solveTime,
		},
	}
	if resp.Status.HasObjective() {
		resp.ObjectiveValue = outcomes[0].ObjectiveValue
	}
	if req.BatchSize == 1 {
		resp.Details.Instance = &outcomes[0]
	} else {
		resp.Details.Instances = outcomes
	}
	return resp
}
