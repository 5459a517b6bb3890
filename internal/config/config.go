package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/liinahamari/Loggy/internal/errs"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// DataDir roots the tape file, the box directory and the export directory.
	DataDir string `json:"dataDir" yaml:"dataDir" toml:"data_dir"`
	// Backend selects the store: tape or box.
	Backend string `json:"backend" yaml:"backend" toml:"backend"`
	Tape    Tape   `json:"tape" yaml:"tape" toml:"tape"`
	Box     Box    `json:"box" yaml:"box" toml:"box"`
	// Volume caps the store in bytes.
	Volume int64 `json:"volume" yaml:"volume" toml:"volume"`
	// Threshold is the title split threshold in runes.
	Threshold int      `json:"threshold" yaml:"threshold" toml:"threshold"`
	PageSize  int      `json:"pageSize" yaml:"pageSize" toml:"page_size"`
	Recorder  Recorder `json:"recorder" yaml:"recorder" toml:"recorder"`
	// ExportDir holds SharedLogs/logs.zip. Relative paths resolve under DataDir.
	ExportDir       string        `json:"exportDir" yaml:"exportDir" toml:"export_dir"`
	IntegratorEmail string        `json:"integratorEmail" yaml:"integratorEmail" toml:"integrator_email"`
	UserID          string        `json:"userId" yaml:"userId" toml:"user_id"`
	Log             logpkg.Config `json:"log" yaml:"log" toml:"log"`
	Server          Server        `json:"server" yaml:"server" toml:"server"`
}

// Tape configures the flat-file backend.
type Tape struct {
	// File is the tape path. Relative paths resolve under DataDir.
	File string `json:"file" yaml:"file" toml:"file"`
}

// Box configures the Pebble backend.
type Box struct {
	// Dir is the Pebble directory. Relative paths resolve under DataDir.
	Dir  string `json:"dir" yaml:"dir" toml:"dir"`
	Name string `json:"name" yaml:"name" toml:"name"`
	// Fsync is always, interval or never.
	Fsync string `json:"fsync" yaml:"fsync" toml:"fsync"`
}

// Recorder configures the emission queue.
type Recorder struct {
	QueueSize int `json:"queueSize" yaml:"queueSize" toml:"queue_size"`
	// Overflow is block or drop.
	Overflow string `json:"overflow" yaml:"overflow" toml:"overflow"`
	// Echo mirrors persisted entries to the process logger.
	Echo bool `json:"echo" yaml:"echo" toml:"echo"`
}

// Server holds listener addresses.
type Server struct {
	HTTPAddr string `json:"httpAddr" yaml:"httpAddr" toml:"http_addr"`
	GRPCAddr string `json:"grpcAddr" yaml:"grpcAddr" toml:"grpc_addr"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		DataDir:   DefaultDataDir(),
		Backend:   "tape",
		Tape:      Tape{File: filepath.Join("logs", "tape.log")},
		Box:       Box{Dir: "box", Name: "logs", Fsync: "interval"},
		Volume:    10 << 20,
		Threshold: 50,
		PageSize:  20,
		Recorder:  Recorder{QueueSize: 1024, Overflow: "block"},
		ExportDir: "export",
		Log:       logpkg.Config{Level: "info", Format: "text"},
		Server:    Server{HTTPAddr: ":8080", GRPCAddr: ":9090"},
	}
}

// Load reads configuration from a JSON, YAML or TOML file (by extension).
// If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		err = json.Unmarshal(b, &cfg)
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.DataDir == "":
		return errs.NewConfigError("dataDir", c.DataDir)
	case c.Backend != "tape" && c.Backend != "box":
		return errs.NewConfigError("backend", c.Backend)
	case c.Volume <= 0:
		return errs.NewConfigError("volume", c.Volume)
	case c.Threshold <= 0:
		return errs.NewConfigError("threshold", c.Threshold)
	case c.PageSize <= 0:
		return errs.NewConfigError("pageSize", c.PageSize)
	case c.Recorder.QueueSize <= 0:
		return errs.NewConfigError("recorder.queueSize", c.Recorder.QueueSize)
	}
	switch strings.ToLower(c.Recorder.Overflow) {
	case "", "block", "drop":
	default:
		return errs.NewConfigError("recorder.overflow", c.Recorder.Overflow)
	}
	switch c.Box.Fsync {
	case "", "always", "interval", "never":
	default:
		return errs.NewConfigError("box.fsync", c.Box.Fsync)
	}
	if c.Backend == "tape" && c.Tape.File == "" {
		return errs.NewConfigError("tape.file", c.Tape.File)
	}
	if c.Backend == "box" && (c.Box.Dir == "" || c.Box.Name == "") {
		return errs.NewConfigError("box", c.Box)
	}
	return nil
}

// Resolve joins p onto DataDir unless it is absolute.
func (c Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

// TapePath is the resolved tape file.
func (c Config) TapePath() string { return c.Resolve(c.Tape.File) }

// BoxPath is the resolved Pebble directory.
func (c Config) BoxPath() string { return c.Resolve(c.Box.Dir) }

// ExportPath is the resolved export root.
func (c Config) ExportPath() string { return c.Resolve(c.ExportDir) }
