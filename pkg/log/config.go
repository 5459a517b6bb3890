package log

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config declares a logger: level, encoding and where it writes.
type Config struct {
	Level  string `json:"level" yaml:"level" toml:"level"`
	Format string `json:"format" yaml:"format" toml:"format"`
	// File, when set, writes through a size-rotated file in addition to stderr.
	File       string `json:"file" yaml:"file" toml:"file"`
	MaxSizeMB  int    `json:"maxSizeMB" yaml:"maxSizeMB" toml:"max_size_mb"`
	MaxBackups int    `json:"maxBackups" yaml:"maxBackups" toml:"max_backups"`
	MaxAgeDays int    `json:"maxAgeDays" yaml:"maxAgeDays" toml:"max_age_days"`
	Compress   bool   `json:"compress" yaml:"compress" toml:"compress"`
	// Quiet drops the stderr output when File is set.
	Quiet bool `json:"quiet" yaml:"quiet" toml:"quiet"`
}

// ApplyConfig builds a Logger from cfg. A nil cfg yields an info-level text logger.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		return NewLogger(), nil
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := []LoggerOption{WithLevel(level), WithFormat(parseFormat(cfg.Format))}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, err
		}
		opts = append(opts, WithOutput(newRotator(cfg)))
		if !cfg.Quiet {
			opts = append(opts, WithOutput(os.Stderr))
		}
	}
	return NewLogger(opts...), nil
}

func newRotator(cfg *Config) io.Writer {
	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}

func parseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(JSONFormat)) {
		return JSONFormat
	}
	return TextFormat
}
