package runtime

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	cfgpkg "github.com/liinahamari/Loggy/internal/config"
	"github.com/liinahamari/Loggy/internal/errs"
	"github.com/liinahamari/Loggy/internal/export"
	"github.com/liinahamari/Loggy/internal/logbox"
	"github.com/liinahamari/Loggy/internal/logstore"
	"github.com/liinahamari/Loggy/internal/metrics"
	"github.com/liinahamari/Loggy/internal/query"
	"github.com/liinahamari/Loggy/internal/recorder"
	pebblestore "github.com/liinahamari/Loggy/internal/storage/pebble"
	"github.com/liinahamari/Loggy/internal/tape"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger logpkg.Logger
	// Clock overrides the entry clock (ms). Optional.
	Clock func() int64
	// FreeSpace overrides the disk probe. Optional.
	FreeSpace func(dir string) (int64, error)
}

// Identifiers tag a deployment. They are metadata only.
type Identifiers struct {
	IntegratorEmail string `json:"integrator_email,omitempty"`
	UserID          string `json:"user_id"`
}

// Info describes a running instance.
type Info struct {
	Identifiers
	Backend   string `json:"backend"`
	Volume    int64  `json:"volume"`
	SizeBytes int64  `json:"size_bytes"`
	Location  string `json:"location"`
	StartedAt string `json:"started_at"`
}

// Runtime wires storage, config, and facades for a single instance.
type Runtime struct {
	config   cfgpkg.Config
	logger   logpkg.Logger
	ids      Identifiers
	started  time.Time
	location string

	store    logstore.Store
	recorder *recorder.Recorder
	query    *query.Service
	exporter *export.Exporter

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// Open validates the configuration, checks free space and opens the store.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNop()
	}
	logger = logger.WithComponent("runtime")

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, errs.NewIOError("mkdir", cfg.DataDir, err)
	}
	probe := opts.FreeSpace
	if probe == nil {
		probe = freeSpace
	}
	free, err := probe(cfg.DataDir)
	switch {
	case err != nil:
		logger.Warn("free space check skipped", logpkg.Str("dir", cfg.DataDir), logpkg.Err(err))
	case free <= cfg.Volume:
		return nil, errs.NewSpaceError(free, cfg.Volume)
	}

	overflow, err := recorder.ParseOverflow(cfg.Recorder.Overflow)
	if err != nil {
		return nil, errs.NewConfigError("recorder.overflow", cfg.Recorder.Overflow)
	}

	ids := Identifiers{IntegratorEmail: cfg.IntegratorEmail, UserID: cfg.UserID}
	if ids.UserID == "" {
		ids.UserID = uuid.NewString()
	}

	store, location, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		config:   cfg,
		logger:   logger,
		ids:      ids,
		started:  time.Now(),
		location: location,
		store:    store,
	}
	rt.recorder = recorder.New(store, recorder.Options{
		Threshold: cfg.Threshold,
		QueueSize: cfg.Recorder.QueueSize,
		Overflow:  overflow,
		Logger:    opts.Logger,
		Echo:      cfg.Recorder.Echo,
		Clock:     opts.Clock,
	})
	rt.query = query.NewService(store, opts.Logger)
	rt.exporter = export.New(store, export.Options{
		Dir:     cfg.ExportPath(),
		Comment: fmt.Sprintf("integrator=%s user=%s", ids.IntegratorEmail, ids.UserID),
		Logger:  opts.Logger,
	})

	logger.Info("runtime opened",
		logpkg.Str("backend", cfg.Backend),
		logpkg.Str("location", location),
		logpkg.Int64("volume", cfg.Volume),
		logpkg.Str("user_id", ids.UserID))
	return rt, nil
}

func openStore(cfg cfgpkg.Config, logger logpkg.Logger) (logstore.Store, string, error) {
	switch cfg.Backend {
	case logstore.BackendTape:
		t := tape.New(cfg.Volume, tape.WithEvictionHook(metrics.TapeHook{}))
		if err := t.PointAt(cfg.TapePath()); err != nil {
			return nil, "", err
		}
		return logstore.NewTapeStore(t, cfg.Threshold, logger), t.Path(), nil
	case logstore.BackendBox:
		fsync, err := pebblestore.ParseFsyncMode(cfg.Box.Fsync)
		if err != nil {
			return nil, "", errs.NewConfigError("box.fsync", cfg.Box.Fsync)
		}
		dir := cfg.BoxPath()
		db, err := pebblestore.Open(pebblestore.Options{
			DataDir: dir,
			Fsync:   fsync,
			Metrics: metrics.PebbleHook{},
			Logger:  logger.WithComponent("pebble"),
		})
		if err != nil {
			return nil, "", errs.NewIOError("open box", dir, err)
		}
		box, err := logbox.Open(db, cfg.Box.Name, logbox.WithEvictionHook(metrics.BoxHook{}))
		if err != nil {
			_ = db.Close()
			return nil, "", err
		}
		return logstore.NewBoxStore(box, db, cfg.Volume), dir, nil
	default:
		return nil, "", fmt.Errorf("%w: %q", errs.ErrUnknownBackend, cfg.Backend)
	}
}

// Close drains the recorder and closes the store.
func (r *Runtime) Close() error {
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		_ = r.recorder.Close()
		r.closeErr = r.store.Close()
		r.logger.Info("runtime closed")
	})
	return r.closeErr
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.closed.Load() {
		return errs.ErrClosed
	}
	if sizer, ok := r.store.(logstore.Sizer); ok {
		if _, err := sizer.SizeBytes(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Info reports identifiers, backend and current size.
func (r *Runtime) Info(ctx context.Context) Info {
	info := Info{
		Identifiers: r.ids,
		Backend:     r.config.Backend,
		Volume:      r.config.Volume,
		Location:    r.location,
		StartedAt:   r.started.UTC().Format(time.RFC3339),
	}
	if sizer, ok := r.store.(logstore.Sizer); ok {
		if n, err := sizer.SizeBytes(ctx); err == nil {
			info.SizeBytes = n
		}
	}
	return info
}

// Recorder returns the emission surface.
func (r *Runtime) Recorder() *recorder.Recorder { return r.recorder }

// Query returns the read/clear service.
func (r *Runtime) Query() *query.Service { return r.query }

// Exporter returns the zip exporter.
func (r *Runtime) Exporter() *export.Exporter { return r.exporter }

// Store exposes the underlying store (internal use only).
func (r *Runtime) Store() logstore.Store { return r.store }

// Identifiers returns the deployment identifiers.
func (r *Runtime) Identifiers() Identifiers { return r.ids }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Logger returns the process logger.
func (r *Runtime) Logger() logpkg.Logger { return r.logger }
