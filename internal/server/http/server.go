package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/liinahamari/Loggy/internal/runtime"
	"github.com/liinahamari/Loggy/internal/server/http/controllers"
	"github.com/liinahamari/Loggy/internal/server/http/live"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

type Server struct {
	rt          *runtime.Runtime
	srv         *http.Server
	lis         net.Listener
	logger      logpkg.Logger
	hub         *live.Hub
	unsubscribe func()
	cancel      context.CancelFunc
}

func New(rt *runtime.Runtime, logger logpkg.Logger) *Server {
	if logger == nil {
		logger = logpkg.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	hub := live.NewHub(logger)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	controllers.NewControllerRegistry(rt, hub, logger).RegisterAllRoutes(mux)

	return &Server{
		rt:          rt,
		srv:         &http.Server{Handler: cors(mux), ReadHeaderTimeout: 10 * time.Second},
		logger:      logger.WithComponent("http"),
		hub:         hub,
		unsubscribe: rt.Recorder().Subscribe(hub.Publish),
		cancel:      cancel,
	}
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("http listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		s.stopLive()
		return nil
	case err := <-errCh:
		s.stopLive()
		return err
	}
}

func (s *Server) Close() {
	s.stopLive()
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func (s *Server) stopLive() {
	s.unsubscribe()
	s.cancel()
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
