package controllers

import (
	"net/http"

	"github.com/liinahamari/Loggy/internal/metrics"
	"github.com/liinahamari/Loggy/internal/runtime"
	"github.com/liinahamari/Loggy/internal/server/http/live"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

// ControllerRegistry manages all HTTP controllers.
type ControllerRegistry struct {
	general *GeneralController
	logs    *LogsController
	export  *ExportController
	hub     *live.Hub
}

// NewControllerRegistry creates a new controller registry.
func NewControllerRegistry(rt *runtime.Runtime, hub *live.Hub, logger logpkg.Logger) *ControllerRegistry {
	if logger == nil {
		logger = logpkg.NewNop()
	}
	logger = logger.WithComponent("http")
	return &ControllerRegistry{
		general: NewGeneralController(rt),
		logs:    NewLogsController(rt, logger),
		export:  NewExportController(rt, logger),
		hub:     hub,
	}
}

// RegisterAllRoutes registers all controller routes with the given mux,
// plus the live stream and the Prometheus endpoint.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.logs.RegisterRoutes(mux)
	r.export.RegisterRoutes(mux)
	if r.hub != nil {
		mux.HandleFunc("/v1/logs/ws", r.hub.HandleWebSocket)
	}
	mux.Handle("/metrics", metrics.Handler())
}
