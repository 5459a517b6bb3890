// Package config loads Loggy's configuration: a Default() baseline, an
// optional JSON, YAML or TOML file and a LOGGY_* environment overlay.
//
// Example:
//
//	cfg, err := config.Load("/etc/loggy/loggy.toml")
//	if err != nil { /* handle */ }
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil { /* handle */ }
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
package config
