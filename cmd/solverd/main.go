package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"solverd/internal/common/fsutil"
	"solverd/internal/config"
	"solverd/internal/engine"
	"solverd/internal/httpapi"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	if err := config.LoadDotEnv(); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}

	// Flags with environment variable defaults
	defaultAddr := ":8000"
	if v := os.Getenv("SOLVERD_ADDR"); v != "" {
		defaultAddr = v
	}
	defaultMount := "/app"
	if v := os.Getenv("SOLVERD_MOUNT_DIR"); v != "" {
		defaultMount = v
	}
	addr := flag.String("addr", defaultAddr, "HTTP listen address, e.g. :8000")
	mountDir := flag.String("mount-dir", defaultMount, "Storage root where model files are mounted")
	configPath := flag.String("config", "", "Optional config file (toml, yaml or json)")
	flag.Parse()

	var cfg config.Config
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
		cfg = loaded
		if cfg.Addr != "" {
			*addr = cfg.Addr
		}
		if cfg.MountDir != "" {
			*mountDir = cfg.MountDir
		}
	}
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSAllowedOrigins, cfg.CORSAllowedMethods, cfg.CORSAllowedHeaders)

	root, err := fsutil.ExpandHome(*mountDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve mount dir")
	}
	if !fsutil.PathExists(root) {
		log.Fatal().Str("mount_dir", root).Msg("mount dir does not exist")
	}

	eng := engine.New(root, engine.NewCuOptRuntime(), log)
	httpapi.SetLogger(log)

	// Base context canceled on shutdown so in-flight handlers unwind.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{Addr: *addr, Handler: httpapi.NewMux(eng)}

	go func() {
		log.Info().Str("addr", *addr).Str("mount_dir", root).Msg("solverd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}
