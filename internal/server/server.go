package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jpalmerr/statebox"
	"github.com/jpalmerr/statebox/internal/broadcast"
	"github.com/jpalmerr/statebox/internal/counter"
	"github.com/jpalmerr/statebox/internal/todo"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write operation.
	// This prevents goroutine leaks when clients are slow or disconnected.
	// Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	// maxBodyBytes limits request bodies of the mutation endpoints.
	maxBodyBytes = 1 << 16
)

// Server handles HTTP requests for the demo API.
//
// Server provides these endpoints:
//   - GET /api/info: Service title
//   - GET, POST /api/todos: List and add todos
//   - POST /api/todos/{id}/toggle, DELETE /api/todos/{id}: Toggle and remove
//   - GET /api/counters, POST /api/counters/{n}/inc: Read and increment counters
//   - GET /api/sse: Server-Sent Events stream of state snapshots
//   - GET /metrics: Prometheus metrics (when a handler is configured)
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	todos      *todo.Store
	counters   *counter.Store
	hub        broadcast.Publisher
	metrics    http.Handler
	port       int
	title      string
	httpServer *http.Server
	logger     *slog.Logger

	// mu serialises the mutation handlers so a request never reaches a store
	// while another request's notification pass is running.
	mu sync.Mutex
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - todos, counters: Stores the mutation endpoints act on
//   - hub: Snapshot publisher streamed by /api/sse
//   - metrics: Handler served at /metrics (may be nil)
//   - port: TCP port to listen on
//   - title: Service title reported by /api/info
//   - logger: Logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(todos *todo.Store, counters *counter.Store, hub broadcast.Publisher, metrics http.Handler, port int, title string, logger *slog.Logger) *Server {
	return &Server{
		todos:    todos,
		counters: counters,
		hub:      hub,
		metrics:  metrics,
		port:     port,
		title:    title,
		logger:   logger,
	}
}

// Routes returns the HTTP handler with all routes mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/info", s.handleInfo)

		r.Get("/todos", s.handleListTodos)
		r.Post("/todos", s.handleAddTodo)
		r.Post("/todos/{id}/toggle", s.handleToggleTodo)
		r.Delete("/todos/{id}", s.handleRemoveTodo)

		r.Get("/counters", s.handleCounters)
		r.Post("/counters/{n}/inc", s.handleIncrement)

		r.Get("/sse", s.handleSSE)
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return r
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler: s.Routes(),
		// request contexts derive from ctx so SSE handlers stop on shutdown
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// logRequests logs each request at debug level once it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

type addTodoRequest struct {
	Title string `json:"title"`
}

type countersResponse struct {
	Count1 int `json:"count1"`
	Count2 int `json:"count2"`
	Total  int `json:"total"`
}

func newCountersResponse(st counter.State) countersResponse {
	return countersResponse{
		Count1: st.Count1,
		Count2: st.Count2,
		Total:  counter.SelectTotal(st),
	}
}

// writeJSON writes v as a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps a store error to a status code.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, todo.ErrEmptyTitle):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, statebox.ErrReentrantMutation):
		s.writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("store update failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "update failed")
	}
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"title": s.title})
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.todos.Todos())
}

func (s *Server) handleAddTodo(w http.ResponseWriter, r *http.Request) {
	var req addTodoRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.todos.AddTodo(req.Title)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, todo.Todo{ID: id, Title: req.Title})
}

func (s *Server) handleToggleTodo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos.Get(id); !ok {
		s.writeError(w, http.StatusNotFound, "todo not found")
		return
	}

	if err := s.todos.ToggleTodo(id); err != nil {
		s.writeStoreError(w, err)
		return
	}

	t, _ := s.todos.Get(id)
	s.writeJSON(w, http.StatusOK, t)
}

// handleRemoveTodo removes a todo. Removing an unknown id succeeds.
func (s *Server) handleRemoveTodo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.todos.RemoveTodo(id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCounters(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, newCountersResponse(s.counters.State()))
}

func (s *Server) handleIncrement(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || (n != 1 && n != 2) {
		s.writeError(w, http.StatusBadRequest, "counter must be 1 or 2")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.counters.Increment(n); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newCountersResponse(s.counters.State()))
}

// handleSSE streams state snapshots via Server-Sent Events.
//
// The handler uses write deadlines to prevent goroutine leaks when clients are
// slow or disconnected. Without deadlines, a blocked Fprintf call would prevent
// the handler from detecting context cancellation or channel closure.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)

	// some ResponseWriter implementations do not support deadlines
	deadlinesSupported := true

	writeAndFlush := func(data []byte) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				s.logger.Warn("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}

		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// subscribe before reading the latest snapshots so none are missed
	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)

	for _, snap := range s.hub.Latest() {
		data, err := json.Marshal(snap)
		if err != nil {
			continue
		}
		if err := writeAndFlush(data); err != nil {
			return
		}
	}

	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			if err := writeAndFlush(data); err != nil {
				return
			}

		case <-r.Context().Done():
			// fires on both client disconnect and server shutdown
			return
		}
	}
}
