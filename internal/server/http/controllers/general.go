package controllers

import (
	"net/http"

	"github.com/liinahamari/Loggy/internal/logstore"
	"github.com/liinahamari/Loggy/internal/runtime"
)

// GeneralController handles health, instance info and the raw tape view.
type GeneralController struct {
	rt *runtime.Runtime
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime) *GeneralController {
	return &GeneralController{rt: rt}
}

// RegisterRoutes registers general routes with the given mux.
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/healthz", c.handleHealth)
	mux.HandleFunc("/v1/info", c.handleInfo)
	mux.HandleFunc("/v1/tape", c.handleTape)
}

// handleHealth returns 200 {"status":"ok"} if healthy, 503 otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (c *GeneralController) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, c.rt.Info(r.Context()))
}

// handleTape returns the stored records as formatted text.
func (c *GeneralController) handleTape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	text, err := logstore.Raw(r.Context(), c.rt.Store())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "io")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}
