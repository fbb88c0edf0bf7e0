package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"solverd/pkg/types"
)

type fakeRuntime struct {
	mu        sync.Mutex
	calls     int
	lastBatch []Problem
	intervals [][2]time.Time
	delay     time.Duration
	outcomes  []types.InstanceOutcome
	perBatch  bool // if true, return one copy of outcomes[0] per problem
	err       error
	panicMsg  string
}

func (f *fakeRuntime) SolveBatch(ctx context.Context, problems []Problem, s Settings) ([]types.InstanceOutcome, float64, error) {
	start := time.Now()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.calls++
	f.lastBatch = problems
	f.intervals = append(f.intervals, [2]time.Time{start, time.Now()})
	f.mu.Unlock()
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return nil, 0, f.err
	}
	if f.perBatch {
		out := make([]types.InstanceOutcome, len(problems))
		for i := range out {
			out[i] = f.outcomes[0]
		}
		return out, 0.01, nil
	}
	return f.outcomes, 0.01, nil
}

func newTestEngine(t *testing.T, rt Runtime) (*Engine, string) {
	t.Helper()
	root := t.TempDir()
	p := filepath.Join(root, "model.mps")
	if err := os.WriteFile(p, []byte("NAME test\nENDATA\n"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return New(root, rt, zerolog.Nop()), root
}

func optimal(v float64) types.InstanceOutcome {
	return types.InstanceOutcome{Status: types.StatusOptimal, ObjectiveValue: &v}
}

func TestSolveValidation(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeRuntime{})
	cases := []types.SolveRequest{
		{FileName: ""},
		{FileName: "model.mps", TimeLimit: -1},
		{FileName: "model.mps", BatchSize: -2},
	}
	for _, req := range cases {
		if _, err := eng.Solve(context.Background(), req); !IsInvalidRequest(err) {
			t.Fatalf("req %+v: expected invalid-request, got %v", req, err)
		}
	}
}

func TestSolveRejectsMountEscape(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeRuntime{})
	_, err := eng.Solve(context.Background(), types.SolveRequest{FileName: "../escape.mps"})
	if !IsInvalidRequest(err) {
		t.Fatalf("expected invalid-request, got %v", err)
	}
}

func TestSolveMissingFileIsNotFound(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeRuntime{})
	_, err := eng.Solve(context.Background(), types.SolveRequest{FileName: "absent.mps"})
	if !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestSolveSingleInstanceShape(t *testing.T) {
	rt := &fakeRuntime{outcomes: []types.InstanceOutcome{optimal(-464.75)}}
	eng, _ := newTestEngine(t, rt)
	resp, err := eng.Solve(context.Background(), types.SolveRequest{FileName: "model.mps"})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if resp.Status != types.StatusOptimal {
		t.Fatalf("status=%q", resp.Status)
	}
	if resp.ObjectiveValue == nil || *resp.ObjectiveValue != -464.75 {
		t.Fatalf("objective=%v", resp.ObjectiveValue)
	}
	// batch_size 1 yields a single outcome, not a length-1 list.
	if resp.Details.Instance == nil || resp.Details.Instances != nil {
		t.Fatalf("details shape: %+v", resp.Details)
	}
	if resp.Details.SolveID == "" {
		t.Fatalf("missing solve id")
	}
	if resp.Details.BatchSize != 1 {
		t.Fatalf("batch_size=%d", resp.Details.BatchSize)
	}
}

func TestSolveBatchShape(t *testing.T) {
	rt := &fakeRuntime{outcomes: []types.InstanceOutcome{optimal(1), optimal(2), optimal(3)}}
	eng, _ := newTestEngine(t, rt)
	resp, err := eng.Solve(context.Background(), types.SolveRequest{FileName: "model.mps", BatchSize: 3})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if resp.Details.Instance != nil {
		t.Fatalf("batched details must not carry a single instance")
	}
	if len(resp.Details.Instances) != 3 {
		t.Fatalf("instances len=%d", len(resp.Details.Instances))
	}
	for i, want := range []float64{1, 2, 3} {
		if got := resp.Details.Instances[i].ObjectiveValue; got == nil || *got != want {
			t.Fatalf("instance %d out of order: %v", i, got)
		}
	}
	if len(rt.lastBatch) != 3 {
		t.Fatalf("runtime saw %d problems", len(rt.lastBatch))
	}
	if rt.calls != 1 {
		t.Fatalf("batch must be one runtime call, got %d", rt.calls)
	}
}

func TestSolvePreparesOneCopyPerInstance(t *testing.T) {
	rt := &fakeRuntime{outcomes: []types.InstanceOutcome{optimal(0)}, perBatch: true}
	eng, _ := newTestEngine(t, rt)
	if _, err := eng.Solve(context.Background(), types.SolveRequest{FileName: "model.mps", BatchSize: 2}); err != nil {
		t.Fatalf("solve: %v", err)
	}
	for i, p := range rt.lastBatch {
		if len(p.Data) == 0 {
			t.Fatalf("problem %d has no model bytes", i)
		}
	}
}

func TestSolveStripsObjectiveOnFailureStatuses(t *testing.T) {
	bad := 12.5
	rt := &fakeRuntime{outcomes: []types.InstanceOutcome{{Status: types.StatusInfeasible, ObjectiveValue: &bad}}}
	eng, _ := newTestEngine(t, rt)
	resp, err := eng.Solve(context.Background(), types.SolveRequest{FileName: "model.mps"})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if resp.ObjectiveValue != nil || resp.Details.Instance.ObjectiveValue != nil {
		t.Fatalf("objective must be absent for infeasible: %+v", resp)
	}
}

func TestSolveRuntimePanicIsContained(t *testing.T) {
	rt := &fakeRuntime{panicMsg: "cuda device lost"}
	eng, _ := newTestEngine(t, rt)
	_, err := eng.Solve(context.Background(), types.SolveRequest{FileName: "model.mps"})
	if !IsSolverFailure(err) {
		t.Fatalf("expected solver failure, got %v", err)
	}
	// The engine must remain usable after a panic (gate released).
	rt.panicMsg = ""
	rt.outcomes = []types.InstanceOutcome{optimal(1)}
	if _, err := eng.Solve(context.Background(), types.SolveRequest{FileName: "model.mps"}); err != nil {
		t.Fatalf("engine wedged after panic: %v", err)
	}
}

func TestSolveOutcomeCountMismatch(t *testing.T) {
	rt := &fakeRuntime{outcomes: []types.InstanceOutcome{optimal(1)}}
	eng, _ := newTestEngine(t, rt)
	_, err := eng.Solve(context.Background(), types.SolveRequest{FileName: "model.mps", BatchSize: 2})
	if !IsSolverFailure(err) {
		t.Fatalf("expected solver failure on count mismatch, got %v", err)
	}
}

func TestStubRuntimeReportsUnavailable(t *testing.T) {
	eng, _ := newTestEngine(t, NewCuOptRuntime())
	_, err := eng.Solve(context.Background(), types.SolveRequest{FileName: "model.mps"})
	if !IsRuntimeUnavailable(err) {
		t.Fatalf("expected runtime-unavailable, got %v", err)
	}
}

// The GPU is non-reentrant at the process level: concurrent requests must
// queue, never overlap inside the runtime.
func TestSolveSerializesRuntimeCalls(t *testing.T) {
	rt := &fakeRuntime{outcomes: []types.InstanceOutcome{optimal(0)}, delay: 20 * time.Millisecond}
	eng, _ := newTestEngine(t, rt)

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := eng.Solve(context.Background(), types.SolveRequest{FileName: "model.mps"})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("solve: %v", err)
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if len(rt.intervals) != 8 {
		t.Fatalf("calls=%d", len(rt.intervals))
	}
	for i := range rt.intervals {
		for j := i + 1; j < len(rt.intervals); j++ {
			a, b := rt.intervals[i], rt.intervals[j]
			if a[0].Before(b[1]) && b[0].Before(a[1]) {
				t.Fatalf("runtime calls overlapped: %v and %v", a, b)
			}
		}
	}
}

func TestSolveCanceledContext(t *testing.T) {
	rt := &fakeRuntime{outcomes: []types.InstanceOutcome{optimal(0)}}
	eng, _ := newTestEngine(t, rt)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := eng.Solve(ctx, types.SolveRequest{FileName: "model.mps"}); err == nil {
		t.Fatalf("expected context error")
	}
}
