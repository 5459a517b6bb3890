package recorder

import "github.com/liinahamari/Loggy/internal/entry"

// Emitter emits entries stamped with one thread name. Methods are
// fire-and-forget.
type Emitter struct {
	r      *Recorder
	thread string
}

// ThreadName returns the name stamped on entries.
func (e Emitter) ThreadName() string { return e.thread }

func (e Emitter) Info(msg string)      { e.emit(entry.Info, msg) }
func (e Emitter) Debug(msg string)     { e.emit(entry.Debug, msg) }
func (e Emitter) Warn(msg string)      { e.emit(entry.Warn, msg) }
func (e Emitter) Lifecycle(msg string) { e.emit(entry.Lifecycle, msg) }
func (e Emitter) WTF(msg string)       { e.emit(entry.WTF, msg) }

// Error records err under label, with every wrapped cause on its own line.
func (e Emitter) Error(label string, err error) {
	e.emit(entry.Error, entry.ErrorMessage(label, err))
}

func (e Emitter) emit(p entry.Priority, msg string) {
	_, _ = e.r.Emit(p, e.thread, msg)
}
