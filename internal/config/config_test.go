package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/liinahamari/Loggy/internal/errs"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Backend != "tape" {
		t.Fatalf("default backend should be tape, got %q", cfg.Backend)
	}
	if cfg.Volume != 10<<20 {
		t.Fatalf("default volume: %d", cfg.Volume)
	}
	if cfg.Threshold != 50 || cfg.PageSize != 20 {
		t.Fatalf("threshold/page size defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadByExtension(t *testing.T) {
	files := map[string]string{
		"loggy.json": `{"backend":"box","volume":2048,"box":{"name":"audit"},"recorder":{"overflow":"drop"},"log":{"level":"debug"}}`,
		"loggy.yaml": "backend: box\nvolume: 2048\nbox:\n  name: audit\nrecorder:\n  overflow: drop\nlog:\n  level: debug\n",
		"loggy.toml": "backend = \"box\"\nvolume = 2048\n[box]\nname = \"audit\"\n[recorder]\noverflow = \"drop\"\n[log]\nlevel = \"debug\"\n",
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), name)
			if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			cfg, err := Load(file)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if cfg.Backend != "box" || cfg.Volume != 2048 {
				t.Fatalf("top-level fields not loaded: %+v", cfg)
			}
			if cfg.Box.Name != "audit" || cfg.Box.Dir != "box" {
				t.Fatalf("nested fields should merge over defaults: %+v", cfg.Box)
			}
			if cfg.Recorder.Overflow != "drop" || cfg.Recorder.QueueSize != 1024 {
				t.Fatalf("recorder: %+v", cfg.Recorder)
			}
			if cfg.Log.Level != "debug" {
				t.Fatalf("log level: %q", cfg.Log.Level)
			}
		})
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != Default().Backend {
		t.Fatalf("expected defaults")
	}
}

func TestLoadMalformed(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(file, []byte("backend = "), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(file); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFromEnvOverridesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "loggy.json")
	if err := os.WriteFile(file, []byte(`{"backend":"box","threshold":30}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("LOGGY_BACKEND", "tape")
	t.Setenv("LOGGY_VOLUME", "4096")
	t.Setenv("LOGGY_ECHO", "true")
	t.Setenv("LOGGY_QUEUE_SIZE", "not-a-number")

	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	FromEnv(&cfg)
	if cfg.Backend != "tape" {
		t.Fatalf("env should win over file")
	}
	if cfg.Threshold != 30 {
		t.Fatalf("file value should survive when env is unset")
	}
	if cfg.Volume != 4096 || !cfg.Recorder.Echo {
		t.Fatalf("env overrides: %+v", cfg)
	}
	if cfg.Recorder.QueueSize != 1024 {
		t.Fatalf("unparsable env values are ignored")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Backend = "sqlite" }},
		{"volume", func(c *Config) { c.Volume = 0 }},
		{"threshold", func(c *Config) { c.Threshold = -1 }},
		{"overflow", func(c *Config) { c.Recorder.Overflow = "spill" }},
		{"fsync", func(c *Config) { c.Box.Fsync = "sometimes" }},
		{"data dir", func(c *Config) { c.DataDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, errs.ErrConfigInvalid) {
				t.Fatalf("expected ErrConfigInvalid, got %v", err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/srv/loggy"
	if got := cfg.TapePath(); got != filepath.Join("/srv/loggy", "logs", "tape.log") {
		t.Fatalf("tape path: %s", got)
	}
	cfg.ExportDir = "/tmp/out"
	if got := cfg.ExportPath(); got != "/tmp/out" {
		t.Fatalf("absolute paths stay: %s", got)
	}
}
