package entry

import (
	"strings"
	"unicode/utf8"

	"github.com/liinahamari/Loggy/internal/errs"
)

const (
	// DefaultThreshold is the title length used when none is configured.
	DefaultThreshold = 50
	// Ellipsis marks a title cut out of a long single-line message.
	Ellipsis = "..."

	indent = "\t"
)

// Split extracts an optional title from message.
//
// Messages shorter than 2*threshold runes come back untouched with no title.
// Longer multi-line messages use the first line as title and keep the rest,
// tab-indented, as body. Longer single-line messages use the first threshold
// runes plus an ellipsis as title and the remainder as body. A long message
// whose title part or remainder is blank has no usable title and is kept
// whole.
//
// The split is reversible: Entry.Text rebuilds message exactly.
func Split(message string, threshold int) (title, body string, err error) {
	title, body, _, err = split(message, threshold)
	return title, body, err
}

// split also reports whether the title was clipped from a single line.
func split(message string, threshold int) (title, body string, clipped bool, err error) {
	if strings.TrimSpace(message) == "" {
		return "", "", false, errs.NewArgumentError("message", message)
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if utf8.RuneCountInString(message) < 2*threshold {
		return "", message, false, nil
	}

	if first, rest, ok := strings.Cut(message, "\n"); ok {
		if strings.TrimSpace(first) == "" || strings.TrimSpace(rest) == "" {
			return "", message, false, nil
		}
		return first, indent + strings.ReplaceAll(rest, "\n", "\n"+indent), false, nil
	}

	cut := runeOffset(message, threshold)
	if strings.TrimSpace(message[cut:]) == "" {
		return "", message, false, nil
	}
	return message[:cut] + Ellipsis, message[cut:], true, nil
}

// join reverses split.
func join(title, body string, clipped bool) string {
	switch {
	case title == "":
		return body
	case clipped:
		return strings.TrimSuffix(title, Ellipsis) + body
	default:
		lines := strings.Split(body, "\n")
		for i, l := range lines {
			lines[i] = strings.TrimPrefix(l, indent)
		}
		return title + "\n" + strings.Join(lines, "\n")
	}
}

// runeOffset returns the byte offset of the n-th rune of s.
func runeOffset(s string, n int) int {
	i := 0
	for off := range s {
		if i == n {
			return off
		}
		i++
	}
	return len(s)
}
