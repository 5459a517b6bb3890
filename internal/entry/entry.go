package entry

import (
	"time"

	"github.com/liinahamari/Loggy/pkg/id"
)

// Entry is one captured log record. Entries are immutable once built.
// Clipped marks a title cut out of a single long line rather than taken
// from a first line of its own.
type Entry struct {
	ID        id.ID    `json:"id"`
	Timestamp int64    `json:"timestamp"`
	Title     string   `json:"title,omitempty"`
	Priority  Priority `json:"priority"`
	Body      string   `json:"body"`
	Thread    string   `json:"thread"`
	Clipped   bool     `json:"clipped,omitempty"`
}

// New builds an entry from a raw message, splitting off a title when the
// message is long enough. Blank messages are rejected with ErrInvalidArgument.
func New(entryID id.ID, p Priority, thread, message string, threshold int) (Entry, error) {
	title, body, clipped, err := split(message, threshold)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		ID:        entryID,
		Timestamp: entryID.Ms(),
		Title:     title,
		Priority:  p,
		Body:      body,
		Thread:    thread,
		Clipped:   clipped,
	}, nil
}

// HasTitle reports whether a title was extracted.
func (e Entry) HasTitle() bool { return e.Title != "" }

// Headline is the title when present, otherwise the body.
func (e Entry) Headline() string {
	if e.HasTitle() {
		return e.Title
	}
	return e.Body
}

// Time returns the timestamp as a time.Time.
func (e Entry) Time() time.Time { return time.UnixMilli(e.Timestamp) }

// Text returns the message the entry was built from. Splitting it again
// with the same threshold yields the same title and body.
func (e Entry) Text() string { return join(e.Title, e.Body, e.Clipped) }

// IsError reports whether the entry carries ERROR priority.
func (e Entry) IsError() bool { return e.Priority == Error }
