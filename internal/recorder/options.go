package recorder

import (
	"fmt"
	"strings"

	"github.com/liinahamari/Loggy/internal/entry"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

// DefaultQueueSize bounds the entries waiting for the worker.
const DefaultQueueSize = 1024

// Overflow decides what emission does when the queue is full.
type Overflow int

const (
	// Block waits for room in the queue.
	Block Overflow = iota
	// Drop discards the entry and reports ErrQueueFull.
	Drop
)

func (o Overflow) String() string {
	if o == Drop {
		return "drop"
	}
	return "block"
}

// ParseOverflow maps block|drop to an Overflow.
func ParseOverflow(s string) (Overflow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "block":
		return Block, nil
	case "drop":
		return Drop, nil
	default:
		return Block, fmt.Errorf("recorder: invalid overflow policy %q; use block|drop", s)
	}
}

// Options configures a Recorder.
type Options struct {
	// Threshold is the title split threshold. Zero selects entry.DefaultThreshold.
	Threshold int
	// QueueSize bounds pending entries. Zero selects DefaultQueueSize.
	QueueSize int
	Overflow  Overflow
	// Logger receives persistence failures.
	Logger logpkg.Logger
	// Echo also writes every persisted entry to Logger.
	Echo bool
	// Clock returns wall-clock milliseconds. Nil uses the system clock.
	Clock func() int64
	// DefaultThread names the thread of the Recorder's own emitters.
	DefaultThread string
}

func (o *Options) withDefaults() {
	if o.Threshold <= 0 {
		o.Threshold = entry.DefaultThreshold
	}
	if o.QueueSize <= 0 {
		o.QueueSize = DefaultQueueSize
	}
	if o.Logger == nil {
		o.Logger = logpkg.NewNop()
	}
	if o.DefaultThread == "" {
		o.DefaultThread = "main"
	}
}
