package serverrun

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	cfgpkg "github.com/liinahamari/Loggy/internal/config"
	"github.com/liinahamari/Loggy/internal/runtime"
	grpcserver "github.com/liinahamari/Loggy/internal/server/grpc"
	httpserver "github.com/liinahamari/Loggy/internal/server/http"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

type Options struct {
	Config cfgpkg.Config
	// Logger overrides the process logger built from Config.Log.
	Logger logpkg.Logger
	// FreeSpace overrides the disk probe. Optional.
	FreeSpace func(dir string) (int64, error)
}

// LoadConfig reads path (if any), overlays LOGGY_* variables and fills in the
// data directory.
func LoadConfig(path string) (cfgpkg.Config, error) {
	cfg, err := cfgpkg.Load(path)
	if err != nil {
		return cfgpkg.Config{}, err
	}
	cfgpkg.FromEnv(&cfg)
	if cfg.DataDir == "" {
		cfg.DataDir = cfgpkg.DefaultDataDir()
	}
	return cfg, nil
}

// Run opens the runtime, starts the gRPC and HTTP servers and blocks until
// ctx is cancelled or a termination signal arrives.
func Run(ctx context.Context, opts Options) error {
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := opts.Config
	if cfg.DataDir == "" {
		cfg.DataDir = cfgpkg.DefaultDataDir()
	}
	procLogger := opts.Logger
	if procLogger == nil {
		l, err := logpkg.ApplyConfig(&cfg.Log)
		if err != nil {
			return err
		}
		procLogger = l
	}
	restore := logpkg.RedirectStdLog(procLogger)
	defer restore()

	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: procLogger, FreeSpace: opts.FreeSpace})
	if err != nil {
		return err
	}
	defer rt.Close()

	procLogger.Info("Starting Loggy server",
		logpkg.Str("grpc", cfg.Server.GRPCAddr),
		logpkg.Str("http", cfg.Server.HTTPAddr),
		logpkg.Str("backend", cfg.Backend),
		logpkg.Str("data_dir", cfg.DataDir),
		logpkg.Int64("volume", cfg.Volume),
		logpkg.Str("level", cfg.Log.Level),
		logpkg.Str("format", cfg.Log.Format),
	)

	gsrv := grpcserver.New(rt, procLogger)
	hsrv := httpserver.New(rt, procLogger)

	errCh := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := gsrv.ListenAndServe(sctx, cfg.Server.GRPCAddr); err != nil && sctx.Err() == nil {
			procLogger.Error("grpc server failed", logpkg.Err(err))
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, cfg.Server.HTTPAddr); err != nil && sctx.Err() == nil {
			procLogger.Error("http server failed", logpkg.Err(err))
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-sctx.Done():
	case runErr = <-errCh:
	}
	// Servers stop before the runtime closes the store.
	gsrv.Close()
	hsrv.Close()
	wg.Wait()
	procLogger.Info("Loggy server stopped")
	return runErr
}
