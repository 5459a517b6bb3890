// Package loggy is the embedding API: initialize once, then emit from
// anywhere in the program.
//
//	if err := loggy.Init(cfg, logger); err != nil { /* handle */ }
//	defer loggy.Shutdown()
//	loggy.Info("app started")
//	loggy.Error("sync failed", err)
//
// Emission before Init is a no-op.
package loggy

import (
	"context"
	"sync"
	"time"

	cfgpkg "github.com/liinahamari/Loggy/internal/config"
	"github.com/liinahamari/Loggy/internal/errs"
	"github.com/liinahamari/Loggy/internal/runtime"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

// Errors reported by Init and Default.
var (
	ErrAlreadyInitialized = errs.ErrAlreadyInitialized
	ErrNotInitialized     = errs.ErrNotInitialized
	ErrInsufficientSpace  = errs.ErrInsufficientSpace
)

// shutdownTimeout bounds the flush in Shutdown.
const shutdownTimeout = 5 * time.Second

var (
	mu      sync.RWMutex
	current *runtime.Runtime
)

// Init opens the default runtime. Calling it again before Shutdown fails
// with ErrAlreadyInitialized; a failed Init leaves nothing installed.
func Init(cfg cfgpkg.Config, logger logpkg.Logger) error {
	return InitWithOptions(runtime.Options{Config: cfg, Logger: logger})
}

// InitWithOptions is Init with full runtime options.
func InitWithOptions(opts runtime.Options) error {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return ErrAlreadyInitialized
	}
	rt, err := runtime.Open(opts)
	if err != nil {
		return err
	}
	current = rt
	return nil
}

// Default returns the runtime opened by Init.
func Default() (*runtime.Runtime, error) {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return nil, ErrNotInitialized
	}
	return current, nil
}

// Shutdown flushes and closes the default runtime. Init may be called again
// afterwards.
func Shutdown() error {
	mu.Lock()
	rt := current
	current = nil
	mu.Unlock()
	if rt == nil {
		return ErrNotInitialized
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = rt.Recorder().Flush(ctx)
	return rt.Close()
}

func with(fn func(*runtime.Runtime)) {
	mu.RLock()
	rt := current
	mu.RUnlock()
	if rt != nil {
		fn(rt)
	}
}

func Info(msg string)      { with(func(rt *runtime.Runtime) { rt.Recorder().Info(msg) }) }
func Debug(msg string)     { with(func(rt *runtime.Runtime) { rt.Recorder().Debug(msg) }) }
func Warn(msg string)      { with(func(rt *runtime.Runtime) { rt.Recorder().Warn(msg) }) }
func Lifecycle(msg string) { with(func(rt *runtime.Runtime) { rt.Recorder().Lifecycle(msg) }) }
func WTF(msg string)       { with(func(rt *runtime.Runtime) { rt.Recorder().WTF(msg) }) }

// Error records err under label.
func Error(label string, err error) {
	with(func(rt *runtime.Runtime) { rt.Recorder().Error(label, err) })
}

// Flush waits until pending entries are persisted.
func Flush(ctx context.Context) error {
	rt, err := Default()
	if err != nil {
		return err
	}
	return rt.Recorder().Flush(ctx)
}
