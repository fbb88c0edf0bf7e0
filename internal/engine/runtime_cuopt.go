//go:build cuopt

package engine

/*
#cgo LDFLAGS: -lcuopt
#include <stdlib.h>
#include <cuopt/linear_programming/cuopt_c.h>
*/
import "C"

import (
	"context"
	"fmt"
	"time"
	"unsafe"

	"solverd/pkg/types"
)

// cuoptRuntime links the cuOpt LP solver in-process through its C API.
// One SolveBatch call keeps all instances GPU-resident; the engine's gate
// guarantees no two batches overlap.
type cuoptRuntime struct{}

// NewCuOptRuntime returns the in-process cuOpt runtime.
func NewCuOptRuntime() Runtime { return cuoptRuntime{} }

func (cuoptRuntime) SolveBatch(ctx context.Context, problems []Problem, s Settings) ([]types.InstanceOutcome, float64, error) {
	outcomes := make([]types.InstanceOutcome, 0, len(problems))
	start := time.Now()
	for _, p := range problems {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		out, err := solveOne(p.Path, s.TimeLimit)
		if err != nil {
			return nil, 0, err
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, time.Since(start).Seconds(), nil
}

func solveOne(path string, timeLimit float64) (types.InstanceOutcome, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	var problem C.cuOptOptimizationProblem
	if st := C.cuOptReadProblem(cPath, &problem); st != C.CUOPT_SUCCESS {
		return types.InstanceOutcome{}, ErrSolverFailure(fmt.Sprintf("cuopt failed to read %s (code %d)", path, int(st)))
	}
	defer C.cuOptDestroyProblem(&problem)

	var settings C.cuOptSolverSettings
	if st := C.cuOptCreateSolverSettings(&settings); st != C.CUOPT_SUCCESS {
		return types.InstanceOutcome{}, ErrSolverFailure(fmt.Sprintf("cuopt settings init failed (code %d)", int(st)))
	}
	defer C.cuOptDestroySolverSettings(&settings)
	cTimeLimit := C.CString(C.CUOPT_TIME_LIMIT)
	defer C.free(unsafe.Pointer(cTimeLimit))
	C.cuOptSetFloatParameter(settings, cTimeLimit, C.double(timeLimit))

	var solution C.cuOptSolution
	if st := C.cuOptSolve(problem, settings, &solution); st != C.CUOPT_SUCCESS {
		return types.InstanceOutcome{}, ErrSolverFailure(fmt.Sprintf("cuopt solve failed (code %d)", int(st)))
	}
	defer C.cuOptDestroySolution(&solution)

	var term C.int32_t
	C.cuOptGetTerminationStatus(solution, &term)
	out := types.InstanceOutcome{Status: terminationStatus(term)}
	if out.Status.HasObjective() {
		var obj C.double
		C.cuOptGetObjectiveValue(solution, &obj)
		v := float64(obj)
		out.ObjectiveValue = &v
	}
	return out, nil
}

func terminationStatus(term C.int32_t) types.StatusCode {
	switch term {
	case C.CUOPT_TERIMINATION_STATUS_OPTIMAL:
		return types.StatusOptimal
	case C.CUOPT_TERIMINATION_STATUS_INFEASIBLE:
		return types.StatusInfeasible
	case C.CUOPT_TERIMINATION_STATUS_UNBOUNDED:
		return types.StatusUnbounded
	case C.CUOPT_TERIMINATION_STATUS_TIME_LIMIT:
		return types.StatusTimeout
	default:
		return types.StatusError
	}
}
