// Package preview serves the development output root with live reload.
package preview

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Reloader = (*Server)(nil)

const readHeaderTimeout = 10 * time.Second

// Server is the development preview HTTP server.
type Server struct {
	cfg     domain.PreviewConfig
	root    string
	hasher  ports.Hasher
	logger  ports.Logger
	metrics *Metrics
	hub     *Hub

	generation atomic.Uint64

	mu   sync.Mutex
	srv  *http.Server
	ln   net.Listener
	done chan error

	closeOnce sync.Once
	closeErr  error
}

// New creates a server for the output directory root.
func New(cfg domain.PreviewConfig, root string, hasher ports.Hasher, logger ports.Logger, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Server{
		cfg:     cfg,
		root:    root,
		hasher:  hasher,
		logger:  logger,
		metrics: metrics,
		hub:     NewHub(metrics),
	}
}

// Handler returns the router: the SSE stream, the client script, metrics, and
// the static file server with script injection.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/livereload", s.hub.ServeHTTP)
	r.Get(ClientScriptPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = w.Write([]byte(ClientScript))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	r.Handle("/*", injectScript(http.FileServer(http.Dir(s.root))))

	return r
}

// Start binds the listener and serves in the background until Close.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return zerr.With(domain.ErrPreviewStartFailed, "reason", "already started")
	}

	host := s.cfg.Host
	if host == "" {
		host = "localhost"
	}
	addr := net.JoinHostPort(host, strconv.Itoa(s.cfg.Port))

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPreviewStartFailed.Error()), "addr", addr)
	}

	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	s.done = make(chan error, 1)

	go func() {
		err := s.srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// URL returns the browsable address of the server.
func (s *Server) URL() string {
	host, port, err := net.SplitHostPort(s.Addr())
	if err != nil {
		return "http://" + s.Addr() + "/"
	}
	if host == "" || host == "::" || host == "0.0.0.0" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

// Reload broadcasts a reload token to every connected client. The token
// combines a digest of the output tree with a generation counter, so identical
// output still reloads.
func (s *Server) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sum, err := s.hasher.ComputeTreeHash(s.root)
	if err != nil {
		return zerr.Wrap(err, "failed to digest output tree")
	}
	token := fmt.Sprintf("%016x-%d", sum, s.generation.Add(1))

	n := s.hub.Broadcast(token)
	s.logger.Info(fmt.Sprintf("Reloading %d client(s)", n))
	return nil
}

// Clients returns the number of connected live-reload clients.
func (s *Server) Clients() int {
	return s.hub.Clients()
}

// Close disconnects clients and stops the server, waiting for in-flight
// requests until ctx expires. Later calls return the first call's result.
func (s *Server) Close(ctx context.Context) error {
	s.hub.Shutdown()

	s.mu.Lock()
	srv, done := s.srv, s.done
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.closeOnce.Do(func() {
		if err := srv.Shutdown(ctx); err != nil {
			s.closeErr = zerr.Wrap(err, "failed to stop preview server")
			return
		}
		s.closeErr = <-done
	})
	return s.closeErr
}
