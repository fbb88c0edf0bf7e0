package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"solverd/internal/backend"
)

// Config holds the solver paths and service endpoints shared by the CLI
// and the service. Zero values mean "unspecified"; accessors turn missing
// values into configuration errors at first use, so a config file only
// needs the keys the invoked command actually touches.
type Config struct {
	SCIPSolverExe  string `json:"scip_solver_exe" yaml:"scip_solver_exe" toml:"scip_solver_exe"`
	HiGHSSolverExe string `json:"highs_solver_exe" yaml:"highs_solver_exe" toml:"highs_solver_exe"`
	ExampleMPSPath string `json:"example_mps_path" yaml:"example_mps_path" toml:"example_mps_path"`
	ServerURL      string `json:"server_url" yaml:"server_url" toml:"server_url"`
	Addr           string `json:"addr" yaml:"addr" toml:"addr"`
	MountDir       string `json:"mount_dir" yaml:"mount_dir" toml:"mount_dir"`
	// HTTP surface tuning for the service. Zero values keep the
	// built-in defaults (CORS off, 1 MiB body limit).
	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	CORSAllowedMethods []string `json:"cors_allowed_methods" yaml:"cors_allowed_methods" toml:"cors_allowed_methods"`
	CORSAllowedHeaders []string `json:"cors_allowed_headers" yaml:"cors_allowed_headers" toml:"cors_allowed_headers"`
	MaxBodyBytes       int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv lets SOLVERD_* environment variables override file values. Load
// calls it; callers running without a config file can apply it directly.
func (c *Config) ApplyEnv() {
	overrideEnv(&c.SCIPSolverExe, "SOLVERD_SCIP_EXE")
	overrideEnv(&c.HiGHSSolverExe, "SOLVERD_HIGHS_EXE")
	overrideEnv(&c.ExampleMPSPath, "SOLVERD_EXAMPLE_MPS")
	overrideEnv(&c.ServerURL, "SOLVERD_SERVER_URL")
	overrideEnv(&c.Addr, "SOLVERD_ADDR")
	overrideEnv(&c.MountDir, "SOLVERD_MOUNT_DIR")
}

func overrideEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// SCIPExe returns the configured SCIP executable path.
func (c Config) SCIPExe() (string, error) {
	if c.SCIPSolverExe == "" {
		return "", backend.ErrConfiguration("scip_solver_exe is not configured")
	}
	return c.SCIPSolverExe, nil
}

// HiGHSExe returns the configured HiGHS executable path.
func (c Config) HiGHSExe() (string, error) {
	if c.HiGHSSolverExe == "" {
		return "", backend.ErrConfiguration("highs_solver_exe is not configured")
	}
	return c.HiGHSSolverExe, nil
}

// RemoteURL returns the configured solve-service base URL.
func (c Config) RemoteURL() (string, error) {
	if c.ServerURL == "" {
		return "", backend.ErrConfiguration("server_url is not configured")
	}
	return c.ServerURL, nil
}

// ExampleMPS returns the configured fallback model path for commands
// invoked without an explicit input.
func (c Config) ExampleMPS() (string, error) {
	if c.ExampleMPSPath == "" {
		return "", backend.ErrConfiguration("example_mps_path is not configured")
	}
	return c.ExampleMPSPath, nil
}
