package logstore

import (
	"context"

	"github.com/liinahamari/Loggy/internal/entry"
	"github.com/liinahamari/Loggy/internal/tape"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

// TapeStore keeps entries as formatted records on a bounded tape.
type TapeStore struct {
	tape      *tape.Tape
	threshold int
	logger    logpkg.Logger
}

// NewTapeStore wraps a pointed tape. threshold re-derives titles when the
// tape is read back.
func NewTapeStore(t *tape.Tape, threshold int, logger logpkg.Logger) *TapeStore {
	if logger == nil {
		logger = logpkg.NewNop()
	}
	return &TapeStore{tape: t, threshold: threshold, logger: logger.WithComponent("tapestore")}
}

// Tape returns the underlying tape.
func (s *TapeStore) Tape() *tape.Tape { return s.tape }

func (s *TapeStore) Append(_ context.Context, e entry.Entry) error {
	return s.tape.Append(entry.FormatEntry(e))
}

func (s *TapeStore) Entries(_ context.Context) ([]entry.Entry, error) {
	data, err := s.tape.ReadAll()
	if err != nil {
		return nil, err
	}
	parsed := entry.ParseTape(data, s.threshold)
	if parsed.Skipped > 0 {
		s.logger.Debug("skipped partial record at tape head",
			logpkg.Int("bytes", parsed.Skipped),
			logpkg.Str("path", s.tape.Path()))
	}
	return parsed.Entries, nil
}

func (s *TapeStore) Raw(_ context.Context) (string, error) { return s.tape.ReadAll() }

func (s *TapeStore) Clear(_ context.Context) error { return s.tape.Clear() }

func (s *TapeStore) SizeBytes(_ context.Context) (int64, error) { return s.tape.Size() }

func (s *TapeStore) Close() error { return nil }
