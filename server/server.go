// Package server exposes a primego.Service over HTTP.
//
// Routes:
//
//	GET    /api/primes    generate primes (limit, algorithm, threads, cache)
//	GET    /api/info      algorithms, guard bounds, CPU and cache stats
//	GET    /api/requests  recent request log
//	DELETE /api/cache     clear the result cache
//	GET    /healthz       liveness
//	GET    /metrics       Prometheus exposition
//	GET    /              redirect to /api/info
//
// Every JSON response is wrapped in an Envelope. Unknown paths, wrong
// methods and handler panics answer with an ErrorPayload.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/hupe1980/primego"
	"github.com/hupe1980/primego/codec"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8080"
	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

type options struct {
	addr            string
	gatherer        prometheus.Gatherer
	logger          *primego.Logger
	codec           codec.Codec
	shutdownTimeout time.Duration
	now             func() time.Time
}

// Option configures a Server.
type Option func(*options)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *options) {
		o.addr = addr
	}
}

// WithGatherer sets the registry served on /metrics.
// Defaults to prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(o *options) {
		o.gatherer = g
	}
}

// WithLogger sets the request logger. Defaults to the service logger.
func WithLogger(l *primego.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCodec sets the JSON codec used for response bodies.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithShutdownTimeout bounds how long Serve waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		o.shutdownTimeout = d
	}
}

// Server serves the prime API.
type Server struct {
	svc     *primego.Service
	opts    options
	handler http.Handler
}

// New creates a Server for svc.
func New(svc *primego.Service, optFns ...Option) *Server {
	opts := options{
		addr:            DefaultAddr,
		gatherer:        prometheus.DefaultGatherer,
		logger:          svc.Logger(),
		codec:           codec.GoJSON{},
		shutdownTimeout: DefaultShutdownTimeout,
		now:             time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{svc: svc, opts: opts}
	s.handler = s.routes()

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.opts.addr
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/api/primes", s.handlePrimes)
	mux.HandleFunc("/api/info", s.handleInfo)
	mux.HandleFunc("/api/requests", s.handleRequests)
	mux.HandleFunc("/api/cache", s.handleCache)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", s.methods(promhttp.HandlerFor(s.opts.gatherer, promhttp.HandlerOpts{}), http.MethodGet))

	return gzhttp.GzipHandler(s.recoverer(mux))
}

// ListenAndServe listens on the configured address and serves until ctx is
// done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", s.opts.addr)
	if err != nil {
		return err
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.opts.logger.InfoContext(ctx, "http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.shutdownTimeout)
		defer cancel()

		s.opts.logger.InfoContext(shutdownCtx, "http server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
