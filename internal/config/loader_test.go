package config

import (
	"os"
	"path/filepath"
	"testing"

	"solverd/internal/backend"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml",
		"scip_solver_exe=\"/opt/scip/bin/scip\"\nhighs_solver_exe=\"/usr/bin/highs\"\nexample_mps_path=\"afiro.mps\"\nserver_url=\"http://localhost:8000\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SCIPSolverExe != "/opt/scip/bin/scip" || cfg.HiGHSSolverExe != "/usr/bin/highs" ||
		cfg.ExampleMPSPath != "afiro.mps" || cfg.ServerURL != "http://localhost:8000" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "scip_solver_exe: /s\nserver_url: http://h:8000\naddr: :9000\nmount_dir: /data\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SCIPSolverExe != "/s" || cfg.ServerURL != "http://h:8000" || cfg.Addr != ":9000" || cfg.MountDir != "/data" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"highs_solver_exe":"/h","example_mps_path":"/m/x.mps"}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HiGHSSolverExe != "/h" || cfg.ExampleMPSPath != "/m/x.mps" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadHTTPSurfaceKeys(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml",
		"cors_enabled=true\ncors_allowed_origins=[\"http://ui.local\"]\ncors_allowed_methods=[\"GET\",\"POST\"]\nmax_body_bytes=2048\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.CORSEnabled || len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://ui.local" {
		t.Fatalf("cors config lost: %+v", cfg)
	}
	if len(cfg.CORSAllowedMethods) != 2 || cfg.MaxBodyBytes != 2048 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.ini", "[Paths]\nsolver_exe=scip\n")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "scip_solver_exe=\"/from/file\"\n")
	t.Setenv("SOLVERD_SCIP_EXE", "/from/env")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SCIPSolverExe != "/from/env" {
		t.Fatalf("env override lost: %+v", cfg)
	}
}

// Missing keys are not a load failure; they surface at first use.
func TestAccessorsErrorAtFirstUse(t *testing.T) {
	var cfg Config
	if _, err := cfg.SCIPExe(); !backend.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := cfg.HiGHSExe(); !backend.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := cfg.RemoteURL(); !backend.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := cfg.ExampleMPS(); !backend.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	cfg.ServerURL = "http://localhost:8000"
	if url, err := cfg.RemoteURL(); err != nil || url != "http://localhost:8000" {
		t.Fatalf("got %q err=%v", url, err)
	}
}
