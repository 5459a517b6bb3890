// Package runtime wires configuration, the selected store, the recorder,
// the query service and the exporter into a single Loggy instance. It
// exposes Open/Close and a basic health check.
//
// Example:
//
//	cfg := config.Default()
//	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: logger})
//	if err != nil { /* ErrInsufficientSpace, ErrConfigInvalid, ErrIO */ }
//	defer rt.Close()
//	rt.Recorder().Info("hello")
//	res := rt.Query().Page(ctx, query.Request{Page: 0})
package runtime
