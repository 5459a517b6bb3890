package query

import (
	"context"

	"github.com/liinahamari/Loggy/internal/entry"
	"github.com/liinahamari/Loggy/internal/logstore"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

// Status tags the outcome of a read, clear or export.
type Status int

const (
	Success Status = iota
	Empty
	IOError
	InProgress
	// NoSpace is an IOError caused by a full disk.
	NoSpace
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Empty:
		return "empty"
	case IOError:
		return "io_error"
	case InProgress:
		return "in_progress"
	case NoSpace:
		return "no_space"
	default:
		return "unknown"
	}
}

// Request selects one page of filtered entries.
type Request struct {
	Page    int
	Size    int
	Filters FilterSet
	Expr    *Expr
}

// Match combines the request's predicates into one.
func (r Request) Match() logstore.Match {
	if r.Filters == 0 && r.Expr == nil {
		return nil
	}
	filters, expr := r.Filters, r.Expr
	return func(e entry.Entry) bool { return filters.Match(e) && expr.Match(e) }
}

// Result is the outcome of Page. Entries is set on Success, Err on IOError.
type Result struct {
	Status  Status
	Entries []entry.Entry
	Err     error
}

// ClearResult reports the progress of Clear.
type ClearResult struct {
	Status Status
	Err    error
}

// Service reads from and clears one store.
type Service struct {
	store  logstore.Store
	logger logpkg.Logger
}

// NewService returns a Service over store.
func NewService(store logstore.Store, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewNop()
	}
	return &Service{store: store, logger: logger.WithComponent("query")}
}

// Entries returns every entry matching the request predicates, oldest first.
func (s *Service) Entries(ctx context.Context, req Request) ([]entry.Entry, error) {
	all, err := s.store.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return logstore.Filter(all, req.Match()), nil
}

// Page returns one page of matching entries. Empty is reported when the
// store holds nothing that matches or the page is past the end.
func (s *Service) Page(ctx context.Context, req Request) Result {
	size := req.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	if req.Page < 0 {
		return Result{Status: Empty, Entries: []entry.Entry{}}
	}

	var (
		page []entry.Entry
		err  error
	)
	if pager, ok := s.store.(logstore.Pager); ok {
		page, err = pager.Page(ctx, req.Match(), req.Page*size, size)
	} else {
		var matched []entry.Entry
		matched, err = s.Entries(ctx, req)
		page = Page(matched, req.Page, size)
	}
	if err != nil {
		s.logger.Error("page read failed", logpkg.Operation("page"), logpkg.Err(err))
		return Result{Status: IOError, Err: err}
	}
	if len(page) == 0 {
		return Result{Status: Empty, Entries: []entry.Entry{}}
	}
	return Result{Status: Success, Entries: page}
}

// Clear removes every entry. The channel yields InProgress, then Success or
// IOError, and is closed.
func (s *Service) Clear(ctx context.Context) <-chan ClearResult {
	out := make(chan ClearResult, 2)
	out <- ClearResult{Status: InProgress}
	go func() {
		defer close(out)
		if err := s.store.Clear(ctx); err != nil {
			s.logger.Error("clear failed", logpkg.Operation("clear"), logpkg.Err(err))
			out <- ClearResult{Status: IOError, Err: err}
			return
		}
		out <- ClearResult{Status: Success}
	}()
	return out
}
