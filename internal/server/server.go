// Package server exposes the dispatcher over HTTP.
//
// Routes:
//
//	GET    /                  liveness payload
//	GET    /health            database reachability
//	GET    /{table}           list rows
//	POST   /{table}           create a row
//	GET    /{table}/{id}      rows with the given id
//	PUT    /{table}/{id}      partial update
//	DELETE /{table}/{id}      delete
//
// Every allow-listed table is also mounted on its own fixed route; both
// paths reach the same dispatcher.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/0x6d61/mustwatch/internal/dispatch"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP front of a Dispatcher.
type Server struct {
	dispatcher *dispatch.Dispatcher
	pinger     Pinger
	log        *zap.SugaredLogger
	limiter    *rate.Limiter
	handler    http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithPinger enables the /health database check.
func WithPinger(p Pinger) Option {
	return func(s *Server) {
		s.pinger = p
	}
}

// WithRateLimit limits the whole server to rps requests per second with the
// given burst. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
		}
	}
}

// New builds a Server around d.
func New(d *dispatch.Dispatcher, opts ...Option) *Server {
	s := &Server{
		dispatcher: d,
		log:        zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleGeneric)
	for _, t := range d.Registry().Tables() {
		h := s.tableRoute(t.Name)
		mux.Handle("/"+t.Name, h)
		mux.Handle("/"+t.Name+"/", h)
	}

	var h http.Handler = mux
	h = withRateLimit(s.limiter, h)
	h = withRecover(s.log, h)
	h = withAccessLog(s.log, h)
	h = withRequestID(h)
	s.handler = h
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully,
// waiting at most shutdownTimeout for in-flight requests.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Infow("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleGeneric serves "/", "/health" and the /{table}[/{id}] routes for
// any table name; unknown tables are rejected by the dispatcher.
func (s *Server) handleGeneric(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/":
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeMethodNotAllowed(w, "GET, HEAD")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"Series": "Must Watch"})
		return
	case "/health":
		s.handleHealth(w, r)
		return
	}

	segments := splitPath(r.URL.Path)
	s.route(w, r, segments)
}

// tableRoute serves the fixed route of one table.
func (s *Server) tableRoute(table string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		segments := splitPath(r.URL.Path)
		if len(segments) == 0 || segments[0] != table {
			writeMessage(w, http.StatusNotFound, MsgNotFound, "")
			return
		}
		s.route(w, r, segments)
	})
}

func (s *Server) route(w http.ResponseWriter, r *http.Request, segments []string) {
	switch len(segments) {
	case 1:
		s.handleCollection(w, r, segments[0])
	case 2:
		id, err := strconv.ParseInt(segments[1], 10, 64)
		if err != nil {
			writeMessage(w, http.StatusUnprocessableEntity, MsgInvalid, "id: must be an integer")
			return
		}
		s.handleItem(w, r, segments[0], id)
	default:
		writeMessage(w, http.StatusNotFound, MsgNotFound, "")
	}
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request, table string) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		records, err := s.dispatcher.List(ctx, table)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	case http.MethodPost:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		ack, err := s.dispatcher.Create(ctx, table, body)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ack)
	default:
		writeMethodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request, table string, id int64) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		records, err := s.dispatcher.Get(ctx, table, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	case http.MethodPut:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		ack, err := s.dispatcher.Update(ctx, table, id, body)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ack)
	case http.MethodDelete:
		ack, err := s.dispatcher.Delete(ctx, table, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ack)
	default:
		writeMethodNotAllowed(w, "GET, PUT, DELETE")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeMethodNotAllowed(w, "GET, HEAD")
		return
	}
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			s.log.Warnw("health check failed", "error", err)
			writeMessage(w, http.StatusServiceUnavailable, MsgUnavailable, rootCause(err).Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readBody reads a capped request body, answering 422 itself on failure.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, MsgInvalid, "unreadable request body")
		return nil, false
	}
	return body, true
}

// splitPath turns "/serie/5/" into ["serie", "5"].
func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
