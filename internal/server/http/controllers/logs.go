package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/liinahamari/Loggy/internal/entry"
	"github.com/liinahamari/Loggy/internal/errs"
	"github.com/liinahamari/Loggy/internal/query"
	"github.com/liinahamari/Loggy/internal/runtime"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

// LogsController records, pages and clears entries.
type LogsController struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
}

// NewLogsController creates a new logs controller.
func NewLogsController(rt *runtime.Runtime, logger logpkg.Logger) *LogsController {
	return &LogsController{rt: rt, logger: logger}
}

// RegisterRoutes registers log routes with the given mux.
func (c *LogsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/logs", c.handleLogs)
	mux.HandleFunc("/v1/logs/clear", c.handleClear)
}

func (c *LogsController) handleLogs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.handlePage(w, r)
	case http.MethodPost:
		c.handleEmit(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handlePage returns {"status":"success|empty","entries":[...]}.
func (c *LogsController) handlePage(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r.URL.Query(), c.rt.Config().PageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := c.rt.Query().Page(r.Context(), req)
	if res.Status == query.IOError {
		writeError(w, http.StatusInternalServerError, "io")
		return
	}
	writeJSON(w, logsResp{Status: res.Status.String(), Page: req.Page, Size: req.Size, Entries: res.Entries})
}

// handleEmit records one entry. Returns 202 Accepted once queued.
func (c *LogsController) handleEmit(w http.ResponseWriter, r *http.Request) {
	var req emitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p := entry.Info
	if req.Priority != "" {
		var err error
		if p, err = entry.ParsePriority(req.Priority); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	msg := req.Message
	if p == entry.Error && req.Label != "" {
		msg = entry.ErrorMessage(req.Label, errors.New(req.Message))
	}
	e, err := c.rt.Recorder().Emit(p, req.Thread, msg)
	switch {
	case errors.Is(err, errs.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, errs.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "queue_full")
		return
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSONStatus(w, http.StatusAccepted, emitResp{ID: e.ID.String(), Timestamp: e.Timestamp})
}

// handleClear removes every entry. Returns 204 No Content.
func (c *LogsController) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	// Entries queued before the clear are cleared with the rest.
	if err := c.rt.Recorder().Flush(r.Context()); err != nil {
		c.logger.Warn("flush before clear", logpkg.Err(err))
	}
	for res := range c.rt.Query().Clear(r.Context()) {
		if res.Status == query.IOError {
			writeError(w, http.StatusInternalServerError, "io")
			return
		}
	}
	writeNoContent(w)
}
