// Package export packages stored entries into a shareable zip archive.
package export

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	"github.com/liinahamari/Loggy/internal/entry"
	"github.com/liinahamari/Loggy/internal/errs"
	"github.com/liinahamari/Loggy/internal/logstore"
	"github.com/liinahamari/Loggy/internal/metrics"
	"github.com/liinahamari/Loggy/internal/query"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

const (
	// SharedDir is the directory under the export root holding the archive.
	SharedDir = "SharedLogs"
	// ArchiveName is the archive file name.
	ArchiveName = "logs.zip"
	// TextName is the single entry inside the archive.
	TextName = "logs.txt"
	// MIMEType is the archive content type.
	MIMEType = "application/zip"
)

// Archive is a finished export.
type Archive struct {
	Path     string `json:"path"`
	MIMEType string `json:"mime_type"`
	// Ref is a file:// URI for handing the archive to other programs.
	Ref     string `json:"ref"`
	Entries int    `json:"entries"`
	Size    int64  `json:"size"`

	gen uint64
}

// ErrSuperseded is returned by Open when a later export or a Delete has
// replaced the archive.
var ErrSuperseded = errors.New("archive superseded")

// Result is one value on the Zip channel: InProgress first, then exactly
// one of Success (Archive set), IOError or NoSpace (Err set).
type Result struct {
	Status  query.Status
	Archive Archive
	Err     error
}

// Options configures an Exporter.
type Options struct {
	// Dir is the export root; the archive lands in Dir/SharedLogs.
	Dir string
	// Comment is stored as the archive comment.
	Comment string
	Logger  logpkg.Logger
}

// Exporter writes archives of one store. Exports are serialized.
type Exporter struct {
	store   logstore.Store
	dir     string
	comment string
	logger  logpkg.Logger

	mu  sync.Mutex
	gen uint64 // bumped whenever the file at Path changes
}

// New returns an Exporter over store.
func New(store logstore.Store, opts Options) *Exporter {
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNop()
	}
	return &Exporter{
		store:   store,
		dir:     filepath.Join(opts.Dir, SharedDir),
		comment: opts.Comment,
		logger:  logger.WithComponent("export"),
	}
}

// Path is where the archive is written.
func (x *Exporter) Path() string { return filepath.Join(x.dir, ArchiveName) }

// Zip exports the entries match selects. The returned channel is closed
// after the final result.
func (x *Exporter) Zip(ctx context.Context, match logstore.Match) <-chan Result {
	out := make(chan Result, 2)
	out <- Result{Status: query.InProgress}
	go func() {
		defer close(out)
		res := x.run(ctx, match)
		metrics.Exports.WithLabelValues(res.Status.String()).Inc()
		out <- res
	}()
	return out
}

// Delete removes the archive. A missing archive is not an error.
func (x *Exporter) Delete() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.gen++
	if err := os.Remove(x.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errs.NewIOError("delete archive", x.Path(), err)
	}
	return nil
}

// Open opens the file arch describes. It fails with ErrSuperseded when the
// archive has since been replaced, so the handle always matches arch.
func (x *Exporter) Open(arch Archive) (*os.File, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if arch.gen == 0 || arch.gen != x.gen {
		return nil, ErrSuperseded
	}
	f, err := os.Open(arch.Path)
	if err != nil {
		return nil, errs.NewIOError("open archive", arch.Path, err)
	}
	return f, nil
}

func (x *Exporter) run(ctx context.Context, match logstore.Match) Result {
	x.mu.Lock()
	defer x.mu.Unlock()

	logger := x.logger.With(logpkg.RequestID(uuid.NewString()))
	fail := func(op string, err error) Result {
		logger.Error("export failed", logpkg.Operation(op), logpkg.Err(err))
		status := query.IOError
		if errors.Is(err, syscall.ENOSPC) {
			status = query.NoSpace
		}
		return Result{Status: status, Err: errs.NewIOError(op, x.Path(), err)}
	}

	if err := ctx.Err(); err != nil {
		return fail("export", err)
	}
	entries, err := x.store.Entries(ctx)
	if err != nil {
		return fail("read store", err)
	}
	entries = logstore.Filter(entries, match)

	if err := os.MkdirAll(x.dir, 0o755); err != nil {
		return fail("mkdir", err)
	}
	size, err := x.writeStaged(entries)
	if err != nil {
		return fail("write archive", err)
	}
	x.gen++

	arch := Archive{
		Path:     x.Path(),
		MIMEType: MIMEType,
		Ref:      (&url.URL{Scheme: "file", Path: filepath.ToSlash(x.Path())}).String(),
		Entries:  len(entries),
		Size:     size,
		gen:      x.gen,
	}
	logger.Info("export written",
		logpkg.Str("path", arch.Path),
		logpkg.Int("entries", arch.Entries),
		logpkg.Int64("bytes", arch.Size))
	return Result{Status: query.Success, Archive: arch}
}

// writeStaged builds the archive next to its final path and renames it into
// place only after a successful sync.
func (x *Exporter) writeStaged(entries []entry.Entry) (size int64, err error) {
	staging, err := os.CreateTemp(x.dir, ArchiveName+".*.tmp")
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = staging.Close()
			_ = os.Remove(staging.Name())
		}
	}()

	if err = WriteArchive(staging, entries, x.comment); err != nil {
		return 0, err
	}
	if err = staging.Sync(); err != nil {
		return 0, err
	}
	fi, err := staging.Stat()
	if err != nil {
		return 0, err
	}
	if err = staging.Close(); err != nil {
		return 0, err
	}
	if err = os.Rename(staging.Name(), x.Path()); err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// WriteArchive writes a zip holding TextName with one line per entry.
func WriteArchive(w io.Writer, entries []entry.Entry, comment string) error {
	zw := zip.NewWriter(w)
	if comment != "" {
		if err := zw.SetComment(comment); err != nil {
			return err
		}
	}
	f, err := zw.Create(TextName)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	for _, e := range entries {
		if _, err := bw.WriteString(FormatLine(e)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return zw.Close()
}

// lineEscaper keeps every export record on one line.
var lineEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// FormatLine renders one export line:
//
//	2020-12-23 00:12:11.101 /I/ (Thread: main): title body
//
// Line breaks and tabs in the thread and message are backslash-escaped.
func FormatLine(e entry.Entry) string {
	var b strings.Builder
	b.WriteString(e.Time().Format(entry.TimeLayout))
	b.WriteByte(' ')
	b.WriteString(e.Priority.Marker())
	b.WriteString(" (Thread: ")
	_, _ = lineEscaper.WriteString(&b, e.Thread)
	b.WriteString("): ")
	_, _ = lineEscaper.WriteString(&b, e.Headline())
	if e.HasTitle() {
		b.WriteByte(' ')
		_, _ = lineEscaper.WriteString(&b, e.Body)
	}
	return b.String()
}
