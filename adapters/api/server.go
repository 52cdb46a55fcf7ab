package api

import (
	"context"
	"net/http"
	"time"

	"gointegral/app"
	"gointegral/domain/catalog"
	"gointegral/internal"
	"gointegral/internal/config"
	"gointegral/ports"

	"github.com/gin-gonic/gin"
)

// Server exposes comparisons as JSON over HTTP
type Server struct {
	router   *gin.Engine
	service  *app.ComparisonService
	scenario catalog.Scenario
	metrics  http.Handler
	runs     ports.RunRepository
	logger   *internal.Logger
	maxN     int
}

// Options holds the optional collaborators of a Server
type Options struct {
	Metrics http.Handler        // served at /metrics when set
	Runs    ports.RunRepository // stores every run and enables /api/runs when set
	Logger  *internal.Logger

	// MaxPartitions caps n per request; 0 means config.DefaultMaxPartitions
	MaxPartitions int
}

// NewServer creates a new API server. scenario supplies defaults for
// parameters a request leaves out.
func NewServer(service *app.ComparisonService, scenario catalog.Scenario, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = internal.NewNopLogger()
	}

	maxN := opts.MaxPartitions
	if maxN <= 0 {
		maxN = config.DefaultMaxPartitions
	}

	s := &Server{
		router:   gin.New(),
		service:  service,
		scenario: scenario,
		metrics:  opts.Metrics,
		runs:     opts.Runs,
		logger:   logger,
		maxN:     maxN,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("%s %s -> %d in %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	})
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/functions", s.handleFunctions)
	api.GET("/compare/:function", s.handleCompareQuery)
	api.POST("/compare", s.handleCompareBody)
	if s.runs != nil {
		api.GET("/runs", s.handleListRuns)
		api.GET("/runs/:id", s.handleGetRun)
	}

	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics))
	}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
