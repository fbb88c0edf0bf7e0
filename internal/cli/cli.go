// Package cli wires the solve commands to the back-end adapters. It is the
// single place where adapter errors become process exit codes.
package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"solverd/internal/backend"
	"solverd/internal/config"
	"solverd/internal/pipeline"
	"solverd/pkg/types"
)

// NewRootCmd builds the `solve` command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Route MPS models to SCIP, HiGHS, or a remote cuOpt service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "config.toml", "config file (toml, yaml or json)")
	cmd.PersistentFlags().StringP("log", "l", "info", "Set log level. Available: debug, info, warn, error")

	cmd.PersistentPreRun = func(c *cobra.Command, args []string) {
		levelStr, _ := c.Flags().GetString("log")
		switch levelStr {
		case "debug":
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		case "info":
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		case "warn":
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		case "error":
			zerolog.SetGlobalLevel(zerolog.ErrorLevel)
		default:
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	}

	cmd.AddCommand(newSolveSCIPCmd())
	cmd.AddCommand(newSolveHiGHSCmd())
	cmd.AddCommand(newSolveCuOptCmd())
	cmd.AddCommand(newPresolveAndSolveCmd())
	return cmd
}

// Execute runs the CLI and maps any error to a nonzero exit.
func Execute() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if err := config.LoadDotEnv(); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}

	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
		os.Exit(1)
	}
}

// describe prefixes an error with its kind so operators can tell a bad
// config from a failed solver without reading source.
func describe(err error) string {
	switch {
	case backend.IsConfiguration(err):
		return "configuration: " + err.Error()
	case backend.IsInputNotFound(err):
		return "input: " + err.Error()
	case backend.IsBackend(err):
		return "backend: " + err.Error()
	case backend.IsTransport(err):
		return "transport: " + err.Error()
	}
	if se, ok := err.(*pipeline.StageError); ok {
		return describe(se.Err) + " (stage " + se.Stage + ")"
	}
	return err.Error()
}

// loadConfig reads the configured file. When the default path is absent and
// the flag was not set explicitly, an empty config is returned; the missing
// keys surface as configuration errors at first use.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if _, err := os.Stat(path); os.IsNotExist(err) && !cmd.Flags().Changed("config") {
		var cfg config.Config
		cfg.ApplyEnv()
		return cfg, nil
	}
	return config.Load(path)
}

func newSolveSCIPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solve-scip <input.mps> [output.sol]",
		Short: "Solve a model with the local SCIP executable",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			exe, err := cfg.SCIPExe()
			if err != nil {
				return err
			}
			return runLocalSolve(cmd, backend.NewLocal(exe, backend.SCIP(), log.Logger), args)
		},
	}
}

func newSolveHiGHSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solve-highs <input.mps> [output.sol]",
		Short: "Solve a model with the local HiGHS executable",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			exe, err := cfg.HiGHSExe()
			if err != nil {
				return err
			}
			return runLocalSolve(cmd, backend.NewLocal(exe, backend.HiGHS(), log.Logger), args)
		},
	}
}

// runLocalSolve executes a direct local solve and prints the raw solver
// output followed by a one-line summary. Solver status strings are not
// interpreted here; exit 0 means the process ran to completion.
func runLocalSolve(cmd *cobra.Command, adapter *backend.LocalAdapter, args []string) error {
	input := args[0]
	output := ""
	if len(args) > 1 {
		output = args[1]
	}
	res, err := adapter.Solve(cmd.Context(), input, output)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, res.Stdout)
	if output != "" {
		fmt.Fprintf(out, "solve finished, solution written to %s\n", output)
	} else {
		fmt.Fprintln(out, "solve finished")
	}
	return nil
}

func newSolveCuOptCmd() *cobra.Command {
	var timeLimit float64
	var batchSize int
	cmd := &cobra.Command{
		Use:   "solve-cuopt [file-name]",
		Short: "Solve a model on the remote cuOpt service",
		Long: "Submits file-name to the remote solving service. The name is resolved\n" +
			"inside the service's storage mount, not on this machine. Without an\n" +
			"argument, example_mps_path from the config is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			url, err := cfg.RemoteURL()
			if err != nil {
				return err
			}
			fileName := ""
			if len(args) > 0 {
				fileName = args[0]
			} else if fileName, err = cfg.ExampleMPS(); err != nil {
				return err
			}
			adapter := backend.NewRemote(url, http.DefaultClient, log.Logger)
			res, err := adapter.Solve(cmd.Context(), types.SolveRequest{
				FileName:  fileName,
				TimeLimit: timeLimit,
				BatchSize: batchSize,
			})
			if err != nil {
				return err
			}
			printRemote(cmd, res)
			return nil
		},
	}
	cmd.Flags().Float64Var(&timeLimit, "time-limit", types.DefaultTimeLimit, "solver time limit in seconds")
	cmd.Flags().IntVar(&batchSize, "batch-size", types.DefaultBatchSize, "number of instances to solve as one batch")
	return cmd
}

func newPresolveAndSolveCmd() *cobra.Command {
	var timeLimit float64
	var batchSize int
	cmd := &cobra.Command{
		Use:   "presolve-and-solve <input.mps> <presolved.mps>",
		Short: "Presolve with SCIP, then solve the reduced model remotely",
		Long: "Reduces input.mps with SCIP into presolved.mps, then submits the\n" +
			"artifact's basename to the remote service. The artifact must land\n" +
			"somewhere the service's mount can see.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			exe, err := cfg.SCIPExe()
			if err != nil {
				return err
			}
			url, err := cfg.RemoteURL()
			if err != nil {
				return err
			}
			ctl := pipeline.New(
				backend.NewLocal(exe, backend.SCIP(), log.Logger),
				backend.NewRemote(url, http.DefaultClient, log.Logger),
				log.Logger,
			)
			res, err := ctl.Run(cmd.Context(), args[0], args[1], timeLimit, batchSize)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "presolve complete, reduced model at %s\n", res.Presolve.OutputPath)
			printRemote(cmd, res.Remote)
			return nil
		},
	}
	cmd.Flags().Float64Var(&timeLimit, "time-limit", types.DefaultTimeLimit, "solver time limit in seconds")
	cmd.Flags().IntVar(&batchSize, "batch-size", types.DefaultBatchSize, "number of instances to solve as one batch")
	return cmd
}

// printRemote dumps the service response verbatim: status code plus the
// body, pretty-printed when it is JSON. A non-2xx answer still counts as a
// result; its body is the diagnostic the operator needs.
func printRemote(cmd *cobra.Command, res *backend.RemoteResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Status Code: %d\n", res.StatusCode)
	fmt.Fprintln(out, res.IndentedBody())
}
