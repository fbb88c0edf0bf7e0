package backend

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"solverd/internal/common/fsutil"
)

// Invocation is one concrete solver process launch: argv after the
// executable, plus an optional script fed on stdin for shell-driven
// solvers.
type Invocation struct {
	Args  []string
	Stdin string
}

// Profile builds invocations for one solver flavor. The adapter itself is
// solver-agnostic; the profile owns the binary's argument contract.
type Profile interface {
	Name() string
	Solve(input, output string) Invocation
	Presolve(input, output string) Invocation
}

type scipProfile struct{}

// SCIP drives the scip binary through its interactive shell on stdin.
func SCIP() Profile { return scipProfile{} }

func (scipProfile) Name() string { return "scip" }

func (scipProfile) Solve(input, output string) Invocation {
	var b strings.Builder
	fmt.Fprintf(&b, "read %s\n", input)
	b.WriteString("optimize\n")
	if output != "" {
		fmt.Fprintf(&b, "write solution %s\n", output)
	}
	b.WriteString("quit\n")
	return Invocation{Stdin: b.String()}
}

func (scipProfile) Presolve(input, output string) Invocation {
	// Node limit 0 disables the branch-and-bound run; only the presolved
	// (transformed) problem is written out.
	var b strings.Builder
	fmt.Fprintf(&b, "read %s\n", input)
	b.WriteString("set limits nodes 0\n")
	b.WriteString("presolve\n")
	fmt.Fprintf(&b, "write transproblem %s\n", output)
	b.WriteString("quit\n")
	return Invocation{Stdin: b.String()}
}

type highsProfile struct{}

// HiGHS drives the highs binary through command-line options.
func HiGHS() Profile { return highsProfile{} }

func (highsProfile) Name() string { return "highs" }

func (highsProfile) Solve(input, output string) Invocation {
	args := []string{input}
	if output != "" {
		args = append(args, "--solution_file", output)
	}
	return Invocation{Args: args}
}

func (highsProfile) Presolve(input, output string) Invocation {
	return Invocation{Args: []string{input, "--presolve", "only", "--write_model_file", output}}
}

// LocalResult is what a local solver run hands back: the raw combined
// output and the artifact path. Solver status strings are deliberately
// left uninterpreted; reading them is the caller's business.
type LocalResult struct {
	Stdout     string
	OutputPath string
}

// LocalAdapter invokes a configured solver executable as a child process
// and waits for it synchronously.
type LocalAdapter struct {
	exe     string
	profile Profile
	log     zerolog.Logger
}

// NewLocal builds an adapter around the given executable path and profile.
// The path is validated at call time, not here.
func NewLocal(exe string, profile Profile, log zerolog.Logger) *LocalAdapter {
	return &LocalAdapter{exe: exe, profile: profile, log: log}
}

// preflight checks the executable and input before any process is spawned.
func (a *LocalAdapter) preflight(input string) error {
	if a.exe == "" {
		return ErrConfiguration(a.profile.Name() + " executable is not configured")
	}
	if !fsutil.IsExecutableFile(a.exe) {
		return ErrConfiguration(a.profile.Name() + " executable not found: " + a.exe)
	}
	if !fsutil.PathExists(input) {
		return ErrInputNotFound(input)
	}
	return nil
}

// Solve runs the solver to completion. Success is exit code 0; the
// solver's own status strings (optimal, infeasible, ...) are surfaced
// raw in the result, not parsed.
func (a *LocalAdapter) Solve(ctx context.Context, input, output string) (*LocalResult, error) {
	if err := a.preflight(input); err != nil {
		return nil, err
	}
	out, err := a.run(ctx, a.profile.Solve(input, output))
	if err != nil {
		return nil, err
	}
	return &LocalResult{Stdout: out, OutputPath: output}, nil
}

// Presolve runs the solver in reduce-and-stop mode. Success requires exit
// code 0 and the artifact on disk: some solvers exit 0 on a no-op presolve
// (e.g. the problem was decided during presolving) without writing one.
func (a *LocalAdapter) Presolve(ctx context.Context, input, output string) (*LocalResult, error) {
	if err := a.preflight(input); err != nil {
		return nil, err
	}
	out, err := a.run(ctx, a.profile.Presolve(input, output))
	if err != nil {
		return nil, err
	}
	if !fsutil.PathExists(output) {
		return nil, ErrBackend(a.profile.Name() + " exited 0 but wrote no presolved model at " + output)
	}
	return &LocalResult{Stdout: out, OutputPath: output}, nil
}

func (a *LocalAdapter) run(ctx context.Context, inv Invocation) (string, error) {
	cmd := exec.CommandContext(ctx, a.exe, inv.Args...)
	if inv.Stdin != "" {
		cmd.Stdin = strings.NewReader(inv.Stdin)
	}
	a.log.Debug().Str("exe", a.exe).Strs("args", inv.Args).Msg("spawning solver")
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return "", ErrBackend(fmt.Sprintf("%s exited with code %d: %s",
				a.profile.Name(), ee.ExitCode(), tail(string(out), 400)))
		}
		return "", ErrBackend(fmt.Sprintf("%s failed to run: %v", a.profile.Name(), err))
	}
	a.log.Debug().Int("stdout_bytes", len(out)).Msg("solver finished")
	return string(out), nil
}

// tail returns the last n bytes of s, for compact error messages.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
