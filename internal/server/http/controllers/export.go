package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/liinahamari/Loggy/internal/export"
	"github.com/liinahamari/Loggy/internal/query"
	"github.com/liinahamari/Loggy/internal/runtime"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

// ExportController builds and serves the zip archive.
type ExportController struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
}

// NewExportController creates a new export controller.
func NewExportController(rt *runtime.Runtime, logger logpkg.Logger) *ExportController {
	return &ExportController{rt: rt, logger: logger}
}

// RegisterRoutes registers export routes with the given mux.
func (c *ExportController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/export", c.handleExport)
}

func (c *ExportController) handleExport(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.handleZip(w, r)
	case http.MethodDelete:
		if err := c.rt.Exporter().Delete(); err != nil {
			writeError(w, http.StatusInternalServerError, "io")
			return
		}
		writeNoContent(w)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleZip exports the entries matching the query filters and streams the
// archive back.
func (c *ExportController) handleZip(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r.URL.Query(), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := c.rt.Recorder().Flush(r.Context()); err != nil {
		c.logger.Warn("flush before export", logpkg.Err(err))
	}

	var final export.Result
	for res := range c.rt.Exporter().Zip(r.Context(), req.Match()) {
		final = res
	}
	switch final.Status {
	case query.Success:
	case query.NoSpace:
		writeError(w, http.StatusInsufficientStorage, "no_space")
		return
	default:
		writeError(w, http.StatusInternalServerError, "io")
		return
	}

	f, err := c.rt.Exporter().Open(final.Archive)
	if errors.Is(err, export.ErrSuperseded) {
		writeError(w, http.StatusConflict, "superseded")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "io")
		return
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "io")
		return
	}
	w.Header().Set("Content-Type", final.Archive.MIMEType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.ArchiveName+`"`)
	w.Header().Set("Content-Length", strconv.FormatInt(fi.Size(), 10))
	w.Header().Set("X-Loggy-Entries", strconv.Itoa(final.Archive.Entries))
	if _, err := io.Copy(w, f); err != nil {
		c.logger.Warn("stream archive", logpkg.Err(err))
	}
}
