// Package web serves the rendered cluster page over HTTP. It is a thin
// read-only surface: the poll loop renders into memory, this server hands
// the latest bytes out.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fleetstat/fleetstat/internal/errors"
	"github.com/fleetstat/fleetstat/internal/logger"
	"github.com/fleetstat/fleetstat/internal/metrics"
	"github.com/fleetstat/fleetstat/internal/render"
)

// Server exposes the latest rendered page, a health endpoint, and
// Prometheus metrics.
type Server struct {
	addr     string
	renderer *render.Renderer
	met      *metrics.Metrics
	log      logger.Logger
	srv      *http.Server
}

// New creates a Server listening on addr. The renderer is the page source;
// metrics may be nil, in which case /metrics is not registered.
func New(addr string, renderer *render.Renderer, met *metrics.Metrics, log logger.Logger) *Server {
	if log == nil {
		log = logger.Noop()
	}
	s := &Server{
		addr:     addr,
		renderer: renderer,
		met:      met,
		log:      log,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", s.handleIndex)
	router.GET("/healthz", s.handleHealthz)
	if met != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(met.Registry, promhttp.HandlerOpts{})))
	}

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) handleIndex(c *gin.Context) {
	page := s.renderer.Latest()
	if len(page) == 0 {
		c.String(http.StatusServiceUnavailable, "no status rendered yet\n")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"renders": s.renderer.Count(),
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully. A listen
// failure is returned immediately.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving cluster status on http://%s/", s.addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.WrapWithCode(err, errors.ErrConfig, "HTTP server failed",
			"Check that the listen address is free and valid")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("HTTP shutdown: %s", err)
	}
	return nil
}

// Handler returns the router for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
