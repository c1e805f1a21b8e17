package web

import (
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"ganttview/internal/config"
	"ganttview/internal/gantt"
	appLog "ganttview/internal/log"
	"ganttview/internal/model"
)

// Server exposes one chart over HTTP: the rendered page, its layout as
// JSON, and the click/drag/resize interactions.
//
// The chart model is single-threaded; mu serializes every access to it and
// to the open gestures.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux

	limiter *rateLimiterStore

	mu       sync.Mutex
	chart    *gantt.Chart
	gestures map[string]*gestureEntry
	now      func() time.Time
}

type gestureEntry struct {
	g       *gantt.Gesture
	started time.Time
}

// gestureTTL drops gestures whose client never committed or aborted.
const gestureTTL = 10 * time.Minute

// embeddedStatic holds the stylesheet and gesture script served under
// /static/.
//
//go:embed all:static
var embeddedStatic embed.FS

// NewServer constructs a Server around an already laid-out chart. Reload
// rebuilds the chart with the same options.
func NewServer(cfg *config.Config, chart *gantt.Chart) *Server {
	s := &Server{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		chart:    chart,
		gestures: make(map[string]*gestureEntry),
		now:      time.Now,
	}
	if cfg != nil && cfg.RateLimit.PerMinute > 0 {
		s.limiter = newRateLimiterStore(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.limiter != nil {
		h = s.limiter.middleware(h)
	}
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		h = s.basicAuthMiddleware(h)
	}
	return h
}

// Reload replaces the chart with one built from groups. Open gestures refer
// to the old layout and are dropped. On error the current chart stays.
func (s *Server) Reload(groups []model.Group) error {
	s.mu.Lock()
	opts := s.chart.Options()
	s.mu.Unlock()

	c, err := gantt.New(groups, opts)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chart = c
	dropped := len(s.gestures)
	clear(s.gestures)

	appLog.Info("chart reloaded", "groups", len(groups), "adjusted", c.Adjusted, "dropped_gestures", dropped)
	return nil
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password disables auth.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="ganttview", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ListenAndServe runs an http.Server on cfg.Listen until ctx is cancelled,
// then shuts it down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		appLog.Info("shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handlePage)

	s.mux.HandleFunc("GET /api/chart", s.handleChart)
	s.mux.HandleFunc("POST /api/blocks/click", s.handleClick)
	s.mux.HandleFunc("POST /api/gestures", s.handleGestureBegin)
	s.mux.HandleFunc("PATCH /api/gestures/{id}", s.handleGestureUpdate)
	s.mux.HandleFunc("POST /api/gestures/{id}/commit", s.handleGestureCommit)
	s.mux.HandleFunc("DELETE /api/gestures/{id}", s.handleGestureAbort)
	s.mux.HandleFunc("PUT /api/slide-width", s.handleSlideWidth)

	s.mux.Handle("GET /static/", s.staticFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// staticFileServer serves the embedded assets under /static/.
func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static assets not available", http.StatusServiceUnavailable)
		})
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

// statusFor maps chart errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, gantt.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, gantt.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, gantt.ErrInvalidState), errors.Is(err, gantt.ErrBehaviorDisabled):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeChartError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		appLog.Error("chart operation failed", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", gantt.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
