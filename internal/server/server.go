// Package server provides the HTTP and websocket server for handsign.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/handsign/internal/gesture"
	"github.com/ayusman/handsign/internal/model"
	"github.com/ayusman/handsign/internal/server/api"
	"github.com/ayusman/handsign/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Default connection settings applied when Config leaves them zero.
const (
	DefaultMaxMessageBytes = 64 << 10
	DefaultWriteWait       = 10 * time.Second
	DefaultPongWait        = 60 * time.Second
)

// Config holds the server configuration.
type Config struct {
	Registry *model.Registry
	Store    *store.Store // optional; enables /api/sessions, /api/dataset, and session auditing
	Logger   *zap.Logger

	// Normalize applies wrist-relative normalization to inbound vectors.
	Normalize bool

	MaxMessageBytes int64
	WriteWait       time.Duration
	PongWait        time.Duration
	PingInterval    time.Duration
}

// Server serves the /ws session loop and the JSON API.
type Server struct {
	config   Config
	engine   *gesture.Engine
	logger   *zap.Logger
	router   chi.Router
	upgrader websocket.Upgrader
	metrics  *metrics
	start    time.Time

	httpServer *http.Server

	mu       sync.Mutex
	clients  map[*client]struct{}
	sessions sync.WaitGroup
	closing  atomic.Bool
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Registry == nil {
		config.Registry = model.NewRegistry()
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.MaxMessageBytes <= 0 {
		config.MaxMessageBytes = DefaultMaxMessageBytes
	}
	if config.WriteWait <= 0 {
		config.WriteWait = DefaultWriteWait
	}
	if config.PongWait <= 0 {
		config.PongWait = DefaultPongWait
	}
	if config.PingInterval <= 0 || config.PingInterval >= config.PongWait {
		config.PingInterval = config.PongWait * 9 / 10
	}

	s := &Server{
		config:  config,
		engine:  gesture.NewEngine(config.Registry),
		logger:  config.Logger,
		metrics: newMetrics(),
		start:   time.Now(),
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.handleWS)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requestLogger)
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.Compress(5))

		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)

		// Register store-backed handlers if Store is configured
		if s.config.Store != nil {
			dataset := api.NewDatasetHandler(s.config.Store)
			r.Handle("/sessions", api.NewSessionsHandler(s.config.Store))
			r.Handle("/dataset", dataset)
			r.Handle("/dataset/{label}", dataset)
		}
	})

	s.router = r
}

// requestLogger logs each API request through zap.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":       "ok",
		"uptime":       time.Since(s.start).String(),
		"model_loaded": s.config.Registry.Loaded(),
	}
	if src := s.config.Registry.Source(); src != "" {
		response["model_source"] = src
	}

	respondJSON(w, http.StatusOK, response)
}

// handleStatus handles GET requests to /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.Metrics())
}

// Metrics returns a snapshot of the server counters.
func (s *Server) Metrics() MetricsSnapshot {
	return s.metrics.snapshot()
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// ListenAndServe starts the HTTP server on the given address and blocks until
// Shutdown is called. It returns nil after a clean shutdown, including when
// Shutdown ran before the listener started.
func (s *Server) ListenAndServe(addr string) error {
	s.mu.Lock()
	if s.closing.Load() {
		s.mu.Unlock()
		return nil
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("starting server", zap.String("addr", addr), zap.Bool("model_loaded", s.config.Registry.Loaded()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections, closes every websocket session with a
// going-away frame, and waits for the session loops to finish or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing.Store(true)
	srv := s.httpServer
	s.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}

	s.closeClients()

	done := make(chan struct{})
	go func() {
		s.sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}

	s.logger.Info("server stopped")
	return err
}
