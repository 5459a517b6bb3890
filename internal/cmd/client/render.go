package client

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/liinahamari/Loggy/internal/entry"
)

// priorityStyles colours records by priority.
var priorityStyles = map[entry.Priority]lipgloss.Style{
	entry.Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")),
	entry.Debug:     lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4")),
	entry.Warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C")),
	entry.Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true),
	entry.Lifecycle: lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")),
	entry.WTF:       lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6")).Bold(true).Underline(true),
}

var mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))

type renderer struct {
	color bool
}

func (r renderer) style(p entry.Priority, s string) string {
	if !r.color {
		return s
	}
	if st, ok := priorityStyles[p]; ok {
		return st.Render(s)
	}
	return s
}

func (r renderer) muted(s string) string {
	if !r.color {
		return s
	}
	return mutedStyle.Render(s)
}

// entry renders one entry as a tape record without the trailing blank line.
func (r renderer) entry(e entry.Entry) string {
	return r.style(e.Priority, strings.TrimSuffix(entry.FormatEntry(e), entry.RecordTerminator))
}

// lineStyler colours raw tape lines. Continuation lines keep the priority of
// the record they belong to.
type lineStyler struct {
	r       renderer
	current entry.Priority
	known   bool
}

func (s *lineStyler) line(l string) string {
	for _, p := range entry.Priorities() {
		if strings.HasPrefix(l, p.Marker()+" ") {
			s.current, s.known = p, true
			break
		}
	}
	if !s.known {
		return s.r.muted(l)
	}
	return s.r.style(s.current, l)
}
