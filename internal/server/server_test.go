package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jpalmerr/statebox"
	"github.com/jpalmerr/statebox/internal/broadcast"
	"github.com/jpalmerr/statebox/internal/counter"
	"github.com/jpalmerr/statebox/internal/metrics"
	"github.com/jpalmerr/statebox/internal/todo"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	todos    *todo.Store
	counters *counter.Store
	hub      *broadcast.Hub
	srv      *Server
}

func newFixture(t testing.TB, opts ...statebox.Option) *fixture {
	t.Helper()

	todos, err := todo.New(opts...)
	if err != nil {
		t.Fatalf("todo.New() error = %v", err)
	}
	counters, err := counter.New(counter.State{}, opts...)
	if err != nil {
		t.Fatalf("counter.New() error = %v", err)
	}
	hub := broadcast.NewHub()

	return &fixture{
		todos:    todos,
		counters: counters,
		hub:      hub,
		srv:      NewServer(todos, counters, hub, nil, 0, "test", testLogger()),
	}
}

// do sends a request through the full router.
func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	f.srv.Routes().ServeHTTP(rec, req)
	return rec
}

// --- REST handler tests ---

func TestHandleInfo(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/info", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if got["title"] != "test" {
		t.Errorf("title = %q, want %q", got["title"], "test")
	}
}

func TestHandleTodos_AddToggleRemove(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/todos", `{"title":"buy milk"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d, want %d, body: %s", rec.Code, http.StatusCreated, rec.Body)
	}
	var added todo.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &added); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if added.ID != 1 || added.Title != "buy milk" || added.Done {
		t.Errorf("added = %+v", added)
	}

	rec = f.do(http.MethodPost, "/api/todos/1/toggle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d, want %d", rec.Code, http.StatusOK)
	}
	var toggled todo.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &toggled); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if !toggled.Done {
		t.Error("toggled todo should be done")
	}

	rec = f.do(http.MethodGet, "/api/todos", "")
	var list []todo.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if len(list) != 1 || !list[0].Done {
		t.Errorf("list = %+v", list)
	}

	rec = f.do(http.MethodDelete, "/api/todos/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("remove status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = f.do(http.MethodGet, "/api/todos", "")
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("list after remove = %s, want []", body)
	}
}

func TestHandleTodos_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"empty title", http.MethodPost, "/api/todos", `{"title":"  "}`, http.StatusBadRequest},
		{"bad body", http.MethodPost, "/api/todos", `{`, http.StatusBadRequest},
		{"toggle bad id", http.MethodPost, "/api/todos/abc/toggle", "", http.StatusBadRequest},
		{"toggle missing", http.MethodPost, "/api/todos/42/toggle", "", http.StatusNotFound},
		{"remove bad id", http.MethodDelete, "/api/todos/abc", "", http.StatusBadRequest},
		{"remove missing", http.MethodDelete, "/api/todos/42", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d, body: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}

	if n := len(f.todos.Todos()); n != 0 {
		t.Errorf("failed requests changed the store: %d todos", n)
	}
}

func TestHandleCounters(t *testing.T) {
	f := newFixture(t)

	f.do(http.MethodPost, "/api/counters/1/inc", "")
	f.do(http.MethodPost, "/api/counters/1/inc", "")
	rec := f.do(http.MethodPost, "/api/counters/2/inc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = f.do(http.MethodGet, "/api/counters", "")
	var got countersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	want := countersResponse{Count1: 2, Count2: 1, Total: 3}
	if got != want {
		t.Errorf("counters = %+v, want %+v", got, want)
	}

	for _, path := range []string{"/api/counters/3/inc", "/api/counters/x/inc"} {
		if rec := f.do(http.MethodPost, path, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want %d", path, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestWriteStoreError(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty title", todo.ErrEmptyTitle, http.StatusBadRequest},
		{"reentrant", statebox.ErrReentrantMutation, http.StatusConflict},
		{"queued failure", fmt.Errorf("%w: boom", statebox.ErrQueuedUpdate), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			f.srv.writeStoreError(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

// slowPass keeps every notification pass of both stores open for a while so
// concurrent requests overlap with it.
func slowPass(f *fixture) {
	f.todos.Store().Watch(func(*todo.State, *todo.State) { time.Sleep(time.Millisecond) })
	f.counters.Store().Watch(func(counter.State, counter.State) { time.Sleep(time.Millisecond) })
}

func TestHandleMutations_ConcurrentRequests(t *testing.T) {
	const n = 20

	for _, policy := range []statebox.Reentrancy{statebox.ReentrancyQueue, statebox.ReentrancyReject} {
		t.Run(policy.String(), func(t *testing.T) {
			f := newFixture(t, statebox.WithReentrancy(policy))
			slowPass(f)
			stop := Bridge(f.todos, f.counters, f.hub, testLogger())
			defer stop()

			if rec := f.do(http.MethodPost, "/api/todos", `{"title":"buy milk"}`); rec.Code != http.StatusCreated {
				t.Fatalf("add status = %d", rec.Code)
			}

			var wg sync.WaitGroup
			incs := make([]*httptest.ResponseRecorder, n)
			toggles := make([]*httptest.ResponseRecorder, n)
			for i := 0; i < n; i++ {
				wg.Add(2)
				go func(i int) {
					defer wg.Done()
					incs[i] = f.do(http.MethodPost, "/api/counters/1/inc", "")
				}(i)
				go func(i int) {
					defer wg.Done()
					toggles[i] = f.do(http.MethodPost, "/api/todos/1/toggle", "")
				}(i)
			}
			wg.Wait()

			// every increment sees its own result, so the totals are 1..n
			seen := make(map[int]bool, n)
			for i, rec := range incs {
				if rec.Code != http.StatusOK {
					t.Fatalf("inc %d status = %d, body: %s", i, rec.Code, rec.Body)
				}
				var got countersResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
					t.Fatalf("failed to parse body: %v", err)
				}
				if got.Count1 < 1 || got.Count1 > n || seen[got.Count1] {
					t.Errorf("inc %d count1 = %d, want a unique value in 1..%d", i, got.Count1, n)
				}
				seen[got.Count1] = true
			}

			// toggles alternate, so exactly half of them report done
			done := 0
			for i, rec := range toggles {
				if rec.Code != http.StatusOK {
					t.Fatalf("toggle %d status = %d, body: %s", i, rec.Code, rec.Body)
				}
				var got todo.Todo
				if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
					t.Fatalf("failed to parse body: %v", err)
				}
				if got.Done {
					done++
				}
			}
			if done != n/2 {
				t.Errorf("toggles reporting done = %d, want %d", done, n/2)
			}

			if got := f.counters.State().Count1; got != n {
				t.Errorf("Count1 = %d, want %d", got, n)
			}
			if got, _ := f.todos.Get(1); got.Done {
				t.Error("todo done after an even number of toggles")
			}
		})
	}
}

func TestRoutes_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := metrics.New(metrics.WithRegistry(reg))

	todos, err := todo.New(statebox.WithName("todos"), statebox.WithObserver(obs))
	if err != nil {
		t.Fatalf("todo.New() error = %v", err)
	}
	counters, err := counter.New(counter.State{})
	if err != nil {
		t.Fatalf("counter.New() error = %v", err)
	}
	srv := NewServer(todos, counters, broadcast.NewHub(), promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), 0, "", testLogger())

	if _, err := todos.AddTodo("buy milk"); err != nil {
		t.Fatalf("AddTodo() error = %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `statebox_mutations_total{result="applied",store="todos"} 1`) {
		t.Errorf("metrics output missing applied mutation:\n%s", rec.Body)
	}
}

func TestRoutes_MetricsDisabled(t *testing.T) {
	f := newFixture(t)

	if rec := f.do(http.MethodGet, "/metrics", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

// --- SSE tests ---

func TestHandleSSE_BasicFlow(t *testing.T) {
	f := newFixture(t)
	_ = f.hub.Publish(TopicTodos, []string{"API-1"})
	_ = f.hub.Publish(TopicCounters, map[string]int{"API-2": 2})

	req := httptest.NewRequest(http.MethodGet, "/api/sse", nil)
	rec := httptest.NewRecorder()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	f.srv.handleSSE(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "API-1") {
		t.Errorf("response should contain API-1, got: %s", body)
	}
	if !strings.Contains(body, "API-2") {
		t.Errorf("response should contain API-2, got: %s", body)
	}
}

func TestHandleSSE_StreamsUpdates(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sse", nil)
	rec := httptest.NewRecorder()

	ctx, cancel := context.WithCancel(context.Background())
	req = req.WithContext(ctx)

	done := make(chan struct{})
	go func() {
		f.srv.handleSSE(rec, req)
		close(done)
	}()

	// give handler time to subscribe
	time.Sleep(50 * time.Millisecond)

	_ = f.hub.Publish(TopicTodos, []string{"streamed"})

	// give time for update to be written
	time.Sleep(50 * time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("handler did not exit after context cancellation")
	}

	if body := rec.Body.String(); !strings.Contains(body, "streamed") {
		t.Errorf("response should contain streamed update, got: %s", body)
	}
}

func TestHandleSSE_ClientDisconnect(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sse", nil)
	rec := httptest.NewRecorder()

	ctx, cancel := context.WithCancel(context.Background())
	req = req.WithContext(ctx)

	done := make(chan struct{})
	go func() {
		f.srv.handleSSE(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("handler did not exit after client disconnect")
	}
}

func TestHandleSSE_NoGoroutineLeaks(t *testing.T) {
	runtime.GC()
	time.Sleep(100 * time.Millisecond)
	before := runtime.NumGoroutine()

	f := newFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			req := httptest.NewRequest(http.MethodGet, "/api/sse", nil)
			req = req.WithContext(ctx)
			rec := httptest.NewRecorder()

			f.srv.handleSSE(rec, req)
		}()
	}

	wg.Wait()

	runtime.GC()
	time.Sleep(200 * time.Millisecond)

	after := runtime.NumGoroutine()
	if after > before+2 { // small tolerance for runtime variance
		t.Errorf("potential goroutine leak: before=%d, after=%d", before, after)
	}
}

func TestHandleSSE_ConcurrentClientsShutdown(t *testing.T) {
	f := newFixture(t)
	_ = f.hub.Publish(TopicCounters, countersResponse{})

	serverCtx, serverCancel := context.WithCancel(context.Background())

	numClients := 10
	var wg sync.WaitGroup
	started := make(chan struct{})
	var startedCount atomic.Int32

	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := httptest.NewRequest(http.MethodGet, "/api/sse", nil)
			req = req.WithContext(serverCtx)
			rec := httptest.NewRecorder()

			if startedCount.Add(1) == int32(numClients) {
				close(started)
			}

			f.srv.handleSSE(rec, req)
		}()
	}

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("clients did not start in time")
	}

	time.Sleep(100 * time.Millisecond)
	serverCancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("not all handlers exited after shutdown")
	}
}

func TestHandleSSE_SSENotSupported(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sse", nil)
	w := &nonFlushWriter{header: make(http.Header)}

	f.srv.handleSSE(w, req)

	if w.statusCode != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.statusCode)
	}
}

type nonFlushWriter struct {
	header     http.Header
	statusCode int
	body       []byte
}

func (n *nonFlushWriter) Header() http.Header {
	return n.header
}

func (n *nonFlushWriter) Write(b []byte) (int, error) {
	n.body = append(n.body, b...)
	return len(b), nil
}

func (n *nonFlushWriter) WriteHeader(statusCode int) {
	n.statusCode = statusCode
}

func TestHandleSSE_Headers(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/sse", nil)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	f.srv.handleSSE(rec, req)

	expectedHeaders := map[string]string{
		"Content-Type":                "text/event-stream",
		"Cache-Control":               "no-cache",
		"Connection":                  "keep-alive",
		"Access-Control-Allow-Origin": "*",
	}

	for key, expected := range expectedHeaders {
		if got := rec.Header().Get(key); got != expected {
			t.Errorf("header %s = %q, want %q", key, got, expected)
		}
	}
}

func TestHandleSSE_JSONFormat(t *testing.T) {
	f := newFixture(t)
	if err := f.counters.Set(counter.State{Count1: 4, Count2: -1}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	stop := Bridge(f.todos, f.counters, f.hub, testLogger())
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/sse", nil)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	f.srv.handleSSE(rec, req)

	events := parseSSEEvents(rec.Body.String())
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %s", len(events), rec.Body)
	}

	// latest snapshots are sent in topic order
	if events[0].Topic != TopicCounters || events[1].Topic != TopicTodos {
		t.Errorf("topics = %q, %q", events[0].Topic, events[1].Topic)
	}

	var got countersResponse
	if err := json.Unmarshal(events[0].Data, &got); err != nil {
		t.Fatalf("failed to parse data: %v, data: %s", err, events[0].Data)
	}
	want := countersResponse{Count1: 4, Count2: -1, Total: 3}
	if got != want {
		t.Errorf("counters = %+v, want %+v", got, want)
	}
}

// --- Integration tests for slow client / shutdown behavior ---
//
// These tests use httptest.Server to create real HTTP connections that support
// write deadlines. Mock ResponseWriters don't support SetWriteDeadline.

func TestHandleSSE_ServerShutdownIntegration(t *testing.T) {
	f := newFixture(t)
	_ = f.hub.Publish(TopicTodos, []string{"IntegrationAPI"})

	serverCtx, serverCancel := context.WithCancel(context.Background())

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// derive request context from server context (simulates BaseContext)
		r = r.WithContext(serverCtx)
		f.srv.handleSSE(w, r)
	})

	ts := httptest.NewServer(handler)
	defer ts.Close()

	client := ts.Client()
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	connDone := make(chan error, 1)
	go func() {
		resp, err := client.Do(req)
		if err != nil {
			connDone <- err
			return
		}
		defer func() { _ = resp.Body.Close() }()

		buf := make([]byte, 1024)
		for {
			if _, err := resp.Body.Read(buf); err != nil {
				connDone <- nil // expected - connection closed
				return
			}
		}
	}()

	time.Sleep(100 * time.Millisecond)
	serverCancel()

	select {
	case <-connDone:
	case <-time.After(3 * time.Second):
		t.Fatal("SSE connection did not close after server shutdown")
	}
}

// parseSSEEvents decodes the data lines of an SSE response body.
func parseSSEEvents(body string) []broadcast.Snapshot {
	var snaps []broadcast.Snapshot
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "data: ") {
			var snap broadcast.Snapshot
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &snap); err == nil {
				snaps = append(snaps, snap)
			}
		}
	}
	return snaps
}

func TestServer_SSEIntegration(t *testing.T) {
	f := newFixture(t)
	stop := Bridge(f.todos, f.counters, f.hub, testLogger())
	defer stop()

	ts := httptest.NewServer(f.srv.Routes())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/sse", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		buf := make([]byte, 4096)
		var pending string
		for {
			n, err := resp.Body.Read(buf)
			pending += string(buf[:n])
			for {
				i := strings.Index(pending, "\n\n")
				if i < 0 {
					break
				}
				lines <- pending[:i]
				pending = pending[i+2:]
			}
			if err != nil {
				return
			}
		}
	}()

	// two initial snapshots, then the add
	for i := 0; i < 2; i++ {
		select {
		case <-lines:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for initial snapshot")
		}
	}

	rec := httptest.NewRecorder()
	f.srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/todos", strings.NewReader(`{"title":"Integration-API"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d", rec.Code)
	}

	select {
	case line := <-lines:
		events := parseSSEEvents(line)
		if len(events) != 1 || events[0].Topic != TopicTodos {
			t.Fatalf("event = %q", line)
		}
		if !strings.Contains(string(events[0].Data), "Integration-API") {
			t.Errorf("data = %s, want the added todo", events[0].Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for streamed snapshot")
	}
}

// --- Server Start Tests ---

func TestStart_AvailablePort_ReturnsNil(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := f.srv.Start(ctx); err != nil {
		t.Errorf("Start() on available port returned error: %v", err)
	}
}

func TestStart_PortInUse_ReturnsError(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}
	defer func() { _ = ln.Close() }()

	port := ln.Addr().(*net.TCPAddr).Port

	f := newFixture(t)
	srv := NewServer(f.todos, f.counters, f.hub, nil, port, "", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = srv.Start(ctx)
	if err == nil {
		t.Fatal("Start() on occupied port should return error")
	}
	if !strings.Contains(err.Error(), "failed to bind") {
		t.Errorf("expected bind error, got: %v", err)
	}
}

func TestStart_InvalidPort_ReturnsError(t *testing.T) {
	f := newFixture(t)
	srv := NewServer(f.todos, f.counters, f.hub, nil, -1, "", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Start(ctx); err == nil {
		t.Fatal("Start() with invalid port should return error")
	}
}

// --- Benchmark ---

func BenchmarkHandleSSE_SingleClient(b *testing.B) {
	f := newFixture(b)
	for i := 0; i < 10; i++ {
		_ = f.hub.Publish("topic-"+string(rune('A'+i)), i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		req := httptest.NewRequest(http.MethodGet, "/api/sse", nil)
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()

		f.srv.handleSSE(rec, req)
		cancel()
	}
}
