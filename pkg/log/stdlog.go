package log

import (
	stdlog "log"

	"go.uber.org/zap"
)

// RedirectStdLog routes the standard library logger (used by Pebble and
// net/http) through l at info level. The returned func restores it.
func RedirectStdLog(l Logger) func() {
	if bl, ok := l.(*BaseLogger); ok {
		return zap.RedirectStdLog(bl.z)
	}
	prevFlags, prevPrefix, prevOut := stdlog.Flags(), stdlog.Prefix(), stdlog.Writer()
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(writerFunc(func(p []byte) (int, error) {
		l.Info(string(trimNewline(p)))
		return len(p), nil
	}))
	return func() {
		stdlog.SetFlags(prevFlags)
		stdlog.SetPrefix(prevPrefix)
		stdlog.SetOutput(prevOut)
	}
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func trimNewline(p []byte) []byte {
	for len(p) > 0 && (p[len(p)-1] == '\n' || p[len(p)-1] == '\r') {
		p = p[:len(p)-1]
	}
	return p
}
