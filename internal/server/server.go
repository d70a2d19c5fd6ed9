package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ridwanfathin/invoice-dashboard/docs"
	"github.com/ridwanfathin/invoice-dashboard/internal/config"
	"github.com/ridwanfathin/invoice-dashboard/internal/handler"
	"github.com/ridwanfathin/invoice-dashboard/internal/metrics"
	"github.com/ridwanfathin/invoice-dashboard/internal/middleware"
	"github.com/ridwanfathin/invoice-dashboard/internal/service"
)

const (
	shutdownTimeout     = 10 * time.Second
	healthCheckTimeout  = 2 * time.Second
	rateLimiterSweepGap = 10 * time.Minute
)

// Dependencies are the services the HTTP layer is built on
type Dependencies struct {
	AuthService    service.AuthService
	InvoiceService service.InvoiceService
	PageService    service.PageService

	// HealthCheck reports whether the backing stores are reachable. Optional.
	HealthCheck func(ctx context.Context) error
}

// Server represents the HTTP server for the invoice dashboard
type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	config      *config.Config
	logger      *logrus.Logger
	healthCheck func(ctx context.Context) error
	loginLimit  *middleware.RateLimiter
	done        chan struct{}
}

// NewServer creates and configures a new server instance
func NewServer(cfg *config.Config, logger *logrus.Logger, deps Dependencies) (*Server, error) {
	tmpl, err := handler.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestResponseLogger(logger))
	router.Use(metrics.Middleware())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	server := &Server{
		router:      router,
		config:      cfg,
		logger:      logger,
		healthCheck: deps.HealthCheck,
		loginLimit:  middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst, logger),
		done:        make(chan struct{}),
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}

	server.setupRoutes(deps)

	return server, nil
}

// GetRouter returns the gin router instance
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// setupRoutes configures all application routes
func (s *Server) setupRoutes(deps Dependencies) {
	s.router.GET("/health", s.health)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Swagger UI at /api-docs/index.html
	s.router.GET("/api-docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.router.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api-docs/index.html")
	})

	requireSession := middleware.RequireSession(deps.AuthService)
	optionalSession := middleware.OptionalSession(deps.AuthService)
	apiAuth := middleware.AuthMiddleware(deps.AuthService)

	pageHandler := handler.NewPageHandler(deps.PageService, deps.InvoiceService)
	pageHandler.RegisterRoutes(s.router, requireSession)

	handler.NewAuthHandler(deps.AuthService, s.config.SecureCookies).
		RegisterRoutes(s.router, optionalSession, s.loginLimit.Handler())
	handler.NewInvoiceHandler(deps.InvoiceService).RegisterRoutes(s.router, apiAuth)
	handler.NewAnalyticsHandler(deps.PageService, deps.InvoiceService).RegisterRoutes(s.router, apiAuth)

	s.router.NoRoute(pageHandler.NotFound)
}

// health reports liveness and, when configured, database reachability
func (s *Server) health(c *gin.Context) {
	if s.healthCheck != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		if err := s.healthCheck(ctx); err != nil {
			s.logger.WithError(err).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Start begins listening for requests and handles graceful shutdown
func (s *Server) Start() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	s.loginLimit.StartCleanup(rateLimiterSweepGap, s.done)

	serveErr := make(chan error, 1)
	go func() {
		s.logger.WithField("port", s.config.Port).Info("server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			close(s.done)
			return fmt.Errorf("failed to start server: %w", err)
		}
	case sig := <-quit:
		s.logger.WithField("signal", sig.String()).Info("shutting down server")
	}

	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("server exited gracefully")
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	select {
	case <-s.done:
	default:
		close(s.done)
	}

	return s.httpServer.Shutdown(ctx)
}
