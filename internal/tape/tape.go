package tape

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/liinahamari/Loggy/internal/errs"
)

// DefaultVolume is the default cap: 10 MiB.
const DefaultVolume int64 = 10 << 20

// EvictionHook observes front evictions. Implementations must be cheap;
// they run under the tape lock.
type EvictionHook interface {
	Evicted(bytes int64)
}

type noopHook struct{}

func (noopHook) Evicted(int64) {}

// Tape is a size-capped append-only file. Safe for concurrent use.
type Tape struct {
	mu     sync.Mutex
	path   string
	volume int64
	hook   EvictionHook
}

// Option configures a Tape.
type Option func(*Tape)

// WithEvictionHook registers h to observe evictions.
func WithEvictionHook(h EvictionHook) Option {
	return func(t *Tape) {
		if h != nil {
			t.hook = h
		}
	}
}

// New returns an unbound tape capped at volume bytes. A non-positive
// volume selects DefaultVolume.
func New(volume int64, opts ...Option) *Tape {
	if volume <= 0 {
		volume = DefaultVolume
	}
	t := &Tape{volume: volume, hook: noopHook{}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// PointAt binds the tape to path, creating its parent directory. Existing
// content is kept. Calling it again with the same path is a no-op.
func (t *Tape) PointAt(path string) error {
	if strings.TrimSpace(path) == "" {
		return errs.NewArgumentError("path", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.NewIOError("mkdir", filepath.Dir(path), err)
	}
	t.mu.Lock()
	t.path = path
	t.mu.Unlock()
	return nil
}

// Path returns the bound file, or "" before PointAt.
func (t *Tape) Path() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

// Volume returns the byte cap.
func (t *Tape) Volume() int64 { return t.volume }

// Append writes line to the end of the tape, evicting from the front when
// the cap would be exceeded. Blank lines are ignored without touching disk.
func (t *Tape) Append(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.path == "" {
		return errs.ErrNotPointed
	}

	data := []byte(line)
	if int64(len(data)) > t.volume {
		data = data[int64(len(data))-t.volume:]
	}
	n := int64(len(data))

	size, err := t.sizeLocked()
	if err != nil {
		return err
	}
	if size+n > t.volume {
		drop := n
		if over := size + n - t.volume; over > drop {
			drop = over
		}
		if drop > size {
			drop = size
		}
		return t.evictAndAppendLocked(drop, data)
	}

	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errs.NewIOError("open", t.path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return errs.NewIOError("append", t.path, err)
	}
	if err := f.Close(); err != nil {
		return errs.NewIOError("close", t.path, err)
	}
	return nil
}

// evictAndAppendLocked writes tape[drop:] + data to a staging file and
// renames it over the tape.
func (t *Tape) evictAndAppendLocked(drop int64, data []byte) (err error) {
	src, err := os.Open(t.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.NewIOError("open", t.path, err)
	}
	if src != nil {
		defer src.Close()
	}

	staging, err := os.CreateTemp(filepath.Dir(t.path), "."+filepath.Base(t.path)+".evict-*")
	if err != nil {
		return errs.NewIOError("stage", t.path, err)
	}
	defer func() {
		if err != nil {
			_ = staging.Close()
			_ = os.Remove(staging.Name())
		}
	}()

	if src != nil {
		if _, err = src.Seek(drop, io.SeekStart); err != nil {
			return errs.NewIOError("seek", t.path, err)
		}
		if _, err = io.Copy(staging, src); err != nil {
			return errs.NewIOError("copy", t.path, err)
		}
	}
	if _, err = staging.Write(data); err != nil {
		return errs.NewIOError("append", staging.Name(), err)
	}
	if err = staging.Sync(); err != nil {
		return errs.NewIOError("sync", staging.Name(), err)
	}
	if err = staging.Close(); err != nil {
		return errs.NewIOError("close", staging.Name(), err)
	}
	if err = os.Rename(staging.Name(), t.path); err != nil {
		return errs.NewIOError("rename", t.path, err)
	}
	if drop > 0 {
		t.hook.Evicted(drop)
	}
	return nil
}

// ReadAll returns the whole tape. A missing file is created empty.
func (t *Tape) ReadAll() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.path == "" {
		return "", errs.ErrNotPointed
	}
	b, err := os.ReadFile(t.path)
	if err == nil {
		return string(b), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", errs.NewIOError("read", t.path, err)
	}
	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", errs.NewIOError("create", t.path, err)
	}
	if err := f.Close(); err != nil {
		return "", errs.NewIOError("close", t.path, err)
	}
	return "", nil
}

// Clear truncates the tape to zero bytes.
func (t *Tape) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.path == "" {
		return errs.ErrNotPointed
	}
	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errs.NewIOError("truncate", t.path, err)
	}
	if err := f.Close(); err != nil {
		return errs.NewIOError("close", t.path, err)
	}
	return nil
}

// Size returns the current file size; a missing file has size zero.
func (t *Tape) Size() (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.path == "" {
		return 0, errs.ErrNotPointed
	}
	return t.sizeLocked()
}

func (t *Tape) sizeLocked() (int64, error) {
	fi, err := os.Stat(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, errs.NewIOError("stat", t.path, err)
	}
	return fi.Size(), nil
}

// String implements fmt.Stringer for diagnostics.
func (t *Tape) String() string {
	return fmt.Sprintf("tape(%s, volume=%d)", t.Path(), t.volume)
}
