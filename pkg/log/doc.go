// Package log provides Loggy's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. It is backed by zap; file output
// goes through lumberjack so the process log rotates by size. This is the
// log of the Loggy process itself, not the captured application records
// that live on the tape.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormat(log.TextFormat),
//	    log.WithOutput(os.Stderr),
//	)
//	l = l.With(log.Component("server"), log.Str("backend", "tape"))
//	l.Info("server started", log.Int("port", 8080))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config: level,
// text or JSON encoding, and an optional rotated file.
//
// # Interop
//
// RedirectStdLog sends the standard library logger through the facade so
// Pebble's and net/http's messages share one format.
package log
