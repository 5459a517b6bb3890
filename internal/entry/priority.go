package entry

import (
	"fmt"
	"strings"
)

// Priority is the severity or category of an entry. The numeric values are
// persisted by the box backend and must not be reordered.
type Priority uint8

const (
	Info Priority = iota
	Debug
	Warn
	Error
	Lifecycle
	WTF
)

var priorityNames = [...]string{"INFO", "DEBUG", "WARN", "ERROR", "LIFECYCLE", "WTF"}
var priorityTags = [...]string{"I", "D", "W", "E", "L", "A"}

// Priorities lists every priority in ordinal order.
func Priorities() []Priority {
	return []Priority{Info, Debug, Warn, Error, Lifecycle, WTF}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool { return int(p) < len(priorityNames) }

// String returns the priority name, e.g. "ERROR".
func (p Priority) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Priority(%d)", uint8(p))
	}
	return priorityNames[p]
}

// Tag returns the one-letter marker used on the tape.
func (p Priority) Tag() string {
	if !p.Valid() {
		return "?"
	}
	return priorityTags[p]
}

// Marker returns the tag delimited by Separator on both sides, e.g. "/E/".
func (p Priority) Marker() string { return Separator + p.Tag() + Separator }

// ParsePriority accepts a tag ("E") or a name ("error"), case-insensitive.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i := range priorityNames {
		if s == priorityNames[i] || s == priorityTags[i] {
			return Priority(i), nil
		}
	}
	return 0, fmt.Errorf("entry: unknown priority %q", s)
}

// MarshalText encodes the priority by tag.
func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("entry: invalid priority %d", uint8(p))
	}
	return []byte(p.Tag()), nil
}

// UnmarshalText accepts anything ParsePriority does.
func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
