// Package server synchronizes a chart.Chart with its browser widget over HTTP.
//
// Routes:
//
//	GET  /         widget page
//	GET  /model    chart model as JSON
//	GET  /events   server-sent events: "model" on connect, then "patch" per update
//	POST /events   widget event like {"type":"click","data":{...}}
//	POST /animate  {"anim":{...},"duration":1000,"options":{...}}
//	GET  /metrics  Prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/domonda/go-chartable/chart"
	"github.com/domonda/go-chartable/htmlchart"
)

const (
	DefaultStreamBuffer    = 16
	DefaultKeepAlive       = 30 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

// Server is the HTTP synchronization channel of a chart.
type Server struct {
	chart           *chart.Chart
	logger          *zap.Logger
	page            htmlchart.PageOptions
	registry        *prometheus.Registry
	metrics         *metrics
	streamBuffer    int
	keepAlive       time.Duration
	shutdownTimeout time.Duration
	router          chi.Router
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPage sets the options of the widget page.
func WithPage(page htmlchart.PageOptions) Option {
	return func(s *Server) { s.page = page }
}

// WithStreamBuffer sets the number of patches buffered per event stream.
// Streams with a full buffer are closed and the widget reconnects.
func WithStreamBuffer(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.streamBuffer = n
		}
	}
}

// WithKeepAlive sets the interval of keep-alive comments on event streams.
func WithKeepAlive(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.keepAlive = d
		}
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// New returns a Server for c.
func New(c *chart.Chart, options ...Option) *Server {
	s := &Server{
		chart:           c,
		logger:          zap.NewNop(),
		registry:        prometheus.NewRegistry(),
		streamBuffer:    DefaultStreamBuffer,
		keepAlive:       DefaultKeepAlive,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, option := range options {
		option(s)
	}
	s.metrics = newMetrics(s.registry)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)
	r.Get("/", s.handlePage)
	r.Get("/model", s.handleModel)
	r.Get("/events", s.handleEventStream)
	r.Post("/events", s.handleEvent)
	r.Post("/animate", s.handleAnimate)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled,
// then shuts down gracefully and closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		// Canceled request contexts end event streams on shutdown
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		s.logger.Info("Serving chart", zap.String("addr", ln.Addr().String()), zap.String("chart", s.chart.ID()))
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down", zap.Error(context.Cause(gctx)))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := htmlchart.Render(w, s.page); err != nil {
		s.logger.Error("Can't render page", zap.Error(err))
	}
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.chart.Model())
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var event chart.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid event: %w", err))
		return
	}
	if err := s.chart.HandleEvent(event); err != nil {
		s.metrics.events.WithLabelValues("unknown").Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.metrics.events.WithLabelValues(event.Type).Inc()
	w.WriteHeader(http.StatusNoContent)
}

// AnimateRequest is the body of POST /animate.
type AnimateRequest struct {
	Anim map[string]any `json:"anim"`
	// Duration in milliseconds
	Duration *int64         `json:"duration,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

func (s *Server) handleAnimate(w http.ResponseWriter, r *http.Request) {
	var req AnimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.animations.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid animate request: %w", err))
		return
	}
	var options []chart.AnimateOption
	if req.Duration != nil {
		options = append(options, chart.WithAnimDuration(time.Duration(*req.Duration)*time.Millisecond))
	}
	if req.Options != nil {
		options = append(options, chart.WithAnimOptions(req.Options))
	}
	if err := s.chart.Animate(req.Anim, options...); err != nil {
		s.metrics.animations.WithLabelValues("error").Inc()
		s.logger.Info("Animate rejected", zap.Error(err))
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.metrics.animations.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, s.chart.Model())
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
