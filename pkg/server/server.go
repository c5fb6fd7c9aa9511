// Package server is HelixDB's HTTP ingress (spec.md §4.7, §6): a small
// fixed set of goroutines running net/http's own event loop, each
// request either dispatched into the worker pool (compiled queries) or
// answered directly from the shared storage handle (node-details,
// graphvis, introspect).
//
// Grounded on pkg/server/server.go (teacher): the Config/Server/
// New/Start/Stop shape, the CORS/logging/recovery middleware chain, and
// the writeJSON/writeError/responseWriter helpers. Generalized from the
// teacher's Neo4j-compatible multi-database transaction API (explicit
// tx open/execute/commit/rollback, Bolt-shaped notifications) down to
// spec.md §6's four built-in routes, since compiled HelixDB queries are
// single-shot request/response rather than long-lived client sessions.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/helixdb/helixdb/pkg/herrors"
	"github.com/helixdb/helixdb/pkg/logging"
	"github.com/helixdb/helixdb/pkg/model"
	"github.com/helixdb/helixdb/pkg/storage"
	"github.com/helixdb/helixdb/pkg/txn"
	"github.com/helixdb/helixdb/pkg/worker"
)

// ErrServerClosed is returned by Start if the server has already been
// stopped.
var ErrServerClosed = fmt.Errorf("server closed")

// Config holds the HTTP server's own settings, separate from the
// process-wide config.Config (spec.md §6).
type Config struct {
	Address        string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	EnableCORS     bool
	CORSOrigins    []string
	// GraphvisSampleSize bounds how many nodes/edges /graphvis renders.
	GraphvisSampleSize int
}

// DefaultConfig matches spec.md §6's documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:            "0.0.0.0",
		Port:               6969,
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		IdleTimeout:        120 * time.Second,
		MaxRequestSize:     10 << 20,
		EnableCORS:         true,
		CORSOrigins:        []string{"*"},
		GraphvisSampleSize: 200,
	}
}

// Server is HelixDB's HTTP ingress. It owns no storage state directly —
// every query runs through pool, and node-details/introspect read
// straight from store.
type Server struct {
	config *Config
	pool   *worker.Pool
	store  *storage.Store
	graph  *txn.Graph

	httpServer *http.Server
	listener   net.Listener

	closed  atomic.Bool
	started time.Time

	requestCount   atomic.Int64
	errorCount     atomic.Int64
	activeRequests atomic.Int64
}

// New builds a Server bound to pool (for compiled queries) and store
// plus graph (for node-details/graphvis's own read-only fetches, which
// bypass the query pipeline entirely).
func New(pool *worker.Pool, store *storage.Store, graph *txn.Graph, cfg *Config) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Server{config: cfg, pool: pool, store: store, graph: graph}
}

// Start begins accepting connections in a background goroutine.
func (s *Server) Start() error {
	if s.closed.Load() {
		return ErrServerClosed
	}

	addr := fmt.Sprintf("%s:%d", s.config.Address, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	s.started = time.Now()

	s.httpServer = &http.Server{
		Handler:      s.buildRouter(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logging.Errorf("http server error: %v", err)
		}
	}()
	return nil
}

// Stop gracefully shuts the server down, waiting for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the server's bound listen address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// Stats reports runtime request counters.
type Stats struct {
	Uptime         time.Duration `json:"uptime"`
	RequestCount   int64         `json:"request_count"`
	ErrorCount     int64         `json:"error_count"`
	ActiveRequests int64         `json:"active_requests"`
}

func (s *Server) Stats() Stats {
	return Stats{
		Uptime:         time.Since(s.started),
		RequestCount:   s.requestCount.Load(),
		ErrorCount:     s.errorCount.Load(),
		ActiveRequests: s.activeRequests.Load(),
	}
}

func (s *Server) buildRouter() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/node-details", s.handleNodeDetails)
	mux.HandleFunc("/graphvis", s.handleGraphvis)
	mux.HandleFunc("/introspect", s.handleIntrospect)
	// Every other path names a compiled query (spec.md §6 "POST
	// /{query_name} — invoke a compiled query").
	mux.HandleFunc("/", s.handleQuery)

	return s.recoveryMiddleware(s.metricsMiddleware(s.loggingMiddleware(s.corsMiddleware(mux))))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.EnableCORS {
			origin := r.Header.Get("Origin")
			if origin == "" {
				origin = "*"
			}
			allowed := false
			for _, o := range s.config.CORSOrigins {
				if o == "*" || o == origin {
					allowed = true
					break
				}
			}
			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		logging.Infof("[http] %s %s %d %v", r.Method, r.URL.Path, wrapped.status, time.Since(start))
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)
				logging.Errorf("panic: %v\n%s", rec, buf[:n])
				s.errorCount.Add(1)
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requestCount.Add(1)
		s.activeRequests.Add(1)
		defer s.activeRequests.Add(-1)
		next.ServeHTTP(w, r)
	})
}

// handleQuery is POST /{query_name} (spec.md §6).
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		s.writeError(w, http.StatusNotFound, "no query name given")
		return
	}
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusNotFound, "unknown route")
		return
	}
	name := r.URL.Path[1:]

	var body map[string]any
	if r.ContentLength != 0 {
		if err := json.NewDecoder(io.LimitReader(r.Body, s.config.MaxRequestSize)).Decode(&body); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
	}

	resp := s.pool.Dispatch(worker.Request{Name: name, Body: body})
	if resp.Err != nil {
		s.writeQueryError(w, resp.Err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp.Result)
}

// handleNodeDetails is GET /node-details?id=… (spec.md §6).
func (s *Server) handleNodeDetails(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		s.writeError(w, http.StatusBadRequest, "missing id parameter")
		return
	}
	id, err := model.ParseID(idStr)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid id: "+err.Error())
		return
	}

	node, fetchErr := s.fetchNode(id)
	if fetchErr != nil {
		s.writeQueryError(w, fetchErr)
		return
	}
	s.writeJSON(w, http.StatusOK, node)
}

func (s *Server) fetchNode(id model.ID) (*model.Node, error) {
	rh := s.graph.ReadTxn()
	defer rh.Discard()
	return s.store.GetNode(rh.Bind(), id)
}

func (s *Server) sampleGraph(limit int) ([]*model.Node, error) {
	rh := s.graph.ReadTxn()
	defer rh.Discard()
	return s.store.SampleNodes(rh.Bind(), limit)
}

// handleGraphvis is GET /graphvis (spec.md §6): a bounded HTML sample of
// the graph, not a full export.
func (s *Server) handleGraphvis(w http.ResponseWriter, r *http.Request) {
	sample, err := s.sampleGraph(s.config.GraphvisSampleSize)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "<!doctype html><html><body><h1>HelixDB graph sample</h1><ul>")
	for _, n := range sample {
		fmt.Fprintf(w, "<li>%s (%s)</li>", html.EscapeString(n.ID.String()), html.EscapeString(n.Label))
	}
	fmt.Fprintf(w, "</ul></body></html>")
}

// handleIntrospect is GET /introspect (spec.md §6): a JSON schema of
// every registered compiled query name and whether it mutates.
func (s *Server) handleIntrospect(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.pool.Introspect())
}

func (s *Server) writeQueryError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch herrors.KindOf(err) {
	case herrors.KindNotFound:
		status = http.StatusNotFound
	case herrors.KindInvalidInput:
		status = http.StatusBadRequest
	case herrors.KindNotEnabled:
		status = http.StatusServiceUnavailable
	}
	s.writeError(w, status, err.Error())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.errorCount.Add(1)
	s.writeJSON(w, status, map[string]any{"error": true, "message": message, "code": status})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
