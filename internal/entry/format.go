package entry

import (
	"errors"
	"strings"
	"time"
)

const (
	// Separator delimits the priority tag in a formatted record: "/E/".
	Separator = "/"
	// TimeLayout renders year-month-day 24h time with milliseconds.
	TimeLayout = "2006-01-02 15:04:05.000"
	// RecordTerminator leaves a blank line between records on the tape.
	RecordTerminator = "\n\n"
)

// Format renders one tape record:
//
//	/I/ 2020-12-23 00:12:11.101 (Thread: main): message
//
// followed by a blank line.
func Format(body string, p Priority, thread string, now time.Time) string {
	var b strings.Builder
	b.Grow(len(body) + len(thread) + 48)
	b.WriteString(p.Marker())
	b.WriteByte(' ')
	b.WriteString(now.Format(TimeLayout))
	b.WriteString(" (Thread: ")
	b.WriteString(thread)
	b.WriteString("): ")
	b.WriteString(body)
	b.WriteString(RecordTerminator)
	return b.String()
}

// FormatEntry renders e the way Format does.
func FormatEntry(e Entry) string {
	return Format(e.Text(), e.Priority, e.Thread, e.Time())
}

// ErrorMessage builds the message logged for a failure: the label, the
// error text, then every wrapped cause on its own tab-indented line.
func ErrorMessage(label string, err error) string {
	var b strings.Builder
	b.WriteString("label: ")
	b.WriteString(label)
	if err == nil {
		return b.String()
	}
	b.WriteByte('\n')
	b.WriteString(err.Error())
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		b.WriteString("\n\t")
		b.WriteString(cause.Error())
	}
	return b.String()
}
