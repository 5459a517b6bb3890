// Package log provides a structured logging system for Loggy services.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zap() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func fromZap(l zapcore.Level) Level {
	switch {
	case l <= zapcore.DebugLevel:
		return DebugLevel
	case l == zapcore.InfoLevel:
		return InfoLevel
	case l == zapcore.WarnLevel:
		return WarnLevel
	case l == zapcore.ErrorLevel:
		return ErrorLevel
	default:
		return FatalLevel
	}
}

// ParseLevel converts a level name (debug|info|warn|error|fatal) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("log: unknown level %q", s)
	}
}

// Format selects the encoder used for output.
type Format string

const (
	TextFormat Format = "text"
	JSONFormat Format = "json"
)

// Context keys carried as structured fields.
const (
	ComponentKey = "component"
	OperationKey = "operation"
	RequestIDKey = "request_id"
	ErrorKey     = "error"
)

// Logger defines the core logging interface for Loggy components.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Debugf(msg string, args ...interface{})
	Infof(msg string, args ...interface{})
	Warnf(msg string, args ...interface{})
	Errorf(msg string, args ...interface{})

	// With adds fields to every subsequent entry.
	With(fields ...Field) Logger
	WithError(err error) Logger
	WithComponent(component string) Logger

	SetLevel(level Level)
	GetLevel() Level

	// Sync flushes buffered output.
	Sync() error
}

// LoggerOption configures a logger built by NewLogger.
type LoggerOption func(*options)

type options struct {
	level  Level
	format Format
	out    []zapcore.WriteSyncer
	caller bool
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(o *options) { o.level = level }
}

// WithFormat selects text or JSON encoding.
func WithFormat(f Format) LoggerOption {
	return func(o *options) { o.format = f }
}

// WithOutput adds a destination. Without any, output goes to stderr.
func WithOutput(w io.Writer) LoggerOption {
	return func(o *options) { o.out = append(o.out, zapcore.AddSync(w)) }
}

// WithCaller annotates entries with the calling file:line.
func WithCaller(enabled bool) LoggerOption {
	return func(o *options) { o.caller = enabled }
}

// BaseLogger implements Logger on top of zap.
type BaseLogger struct {
	z     *zap.Logger
	level zap.AtomicLevel
}

// NewLogger creates a new logger with the given options.
func NewLogger(opts ...LoggerOption) Logger {
	o := options{level: InfoLevel, format: TextFormat}
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.out) == 0 {
		o.out = append(o.out, zapcore.Lock(os.Stderr))
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder
	var enc zapcore.Encoder
	if o.format == JSONFormat {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	level := zap.NewAtomicLevelAt(o.level.zap())
	core := zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(o.out...), level)
	zopts := []zap.Option{}
	if o.caller {
		zopts = append(zopts, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	return &BaseLogger{z: zap.New(core, zopts...), level: level}
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return &BaseLogger{z: zap.NewNop(), level: zap.NewAtomicLevelAt(zapcore.FatalLevel)}
}

func (l *BaseLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, toZap(fields)...) }
func (l *BaseLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, toZap(fields)...) }
func (l *BaseLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, toZap(fields)...) }
func (l *BaseLogger) Error(msg string, fields ...Field) { l.z.Error(msg, toZap(fields)...) }
func (l *BaseLogger) Fatal(msg string, fields ...Field) { l.z.Fatal(msg, toZap(fields)...) }

func (l *BaseLogger) Debugf(msg string, args ...interface{}) { l.z.Sugar().Debugf(msg, args...) }
func (l *BaseLogger) Infof(msg string, args ...interface{})  { l.z.Sugar().Infof(msg, args...) }
func (l *BaseLogger) Warnf(msg string, args ...interface{})  { l.z.Sugar().Warnf(msg, args...) }
func (l *BaseLogger) Errorf(msg string, args ...interface{}) { l.z.Sugar().Errorf(msg, args...) }

// With returns a child logger carrying fields.
func (l *BaseLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return &BaseLogger{z: l.z.With(toZap(fields)...), level: l.level}
}

// WithError returns a child logger carrying err under the "error" key.
func (l *BaseLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.With(Err(err))
}

// WithComponent tags logs with a component name.
func (l *BaseLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}

// SetLevel changes the level for this logger and every child sharing it.
func (l *BaseLogger) SetLevel(level Level) { l.level.SetLevel(level.zap()) }

// GetLevel returns the current minimum level.
func (l *BaseLogger) GetLevel() Level { return fromZap(l.level.Level()) }

// Sync flushes buffered output.
func (l *BaseLogger) Sync() error { return l.z.Sync() }

// Zap exposes the underlying zap logger for libraries that want one.
func (l *BaseLogger) Zap() *zap.Logger { return l.z }

// Field is one structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// Field constructors.

func Str(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func Component(name string) Field {
	return Field{Key: ComponentKey, Value: name}
}

func Operation(name string) Field {
	return Field{Key: OperationKey, Value: name}
}

func RequestID(id string) Field {
	return Field{Key: RequestIDKey, Value: id}
}

// Err attaches an error under the "error" key.
func Err(err error) Field { return Field{Key: ErrorKey, Value: err} }

func toZap(fields []Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case error:
			out = append(out, zap.NamedError(f.Key, v))
		case time.Duration:
			out = append(out, zap.Duration(f.Key, v))
		default:
			out = append(out, zap.Any(f.Key, v))
		}
	}
	return out
}
