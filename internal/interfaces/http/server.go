// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/notification"
	"github.com/your-org/storefront-backend/internal/domain/payment"
	"github.com/your-org/storefront-backend/internal/domain/preferences"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/interfaces/http/routes"
	"github.com/your-org/storefront-backend/internal/pkg/keyvalue"
	"github.com/your-org/storefront-backend/internal/pkg/session"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	gin         *gin.Engine
	httpServer  *http.Server
	redisClient *redis.Client
	logger      *logrus.Logger

	checkoutService *checkout.Service
	catalogService  *catalog.Service
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, redisClient *redis.Client, logger *logrus.Logger) *Server {
	return &Server{
		config:      cfg,
		redisClient: redisClient,
		logger:      logger,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on environment
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Create Gin engine
	s.gin = gin.New()

	deps := s.buildServices()

	s.setupMiddleware(deps.sessionManager)
	s.setupRoutes(deps)

	// Warm the catalog cache so the first shopper does not pay for the
	// upstream fetch
	go s.catalogService.Warm(context.Background())

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.WithFields(logrus.Fields{
		"port":        s.config.Server.Port,
		"environment": s.config.App.Environment,
	}).Info("🚀 HTTP server starting")

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server and drains background work
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("🛑 Shutting down HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	// Let in-flight order notifications finish before the process exits
	if s.checkoutService != nil {
		s.checkoutService.Wait()
	}

	s.logger.Info("✅ HTTP server stopped gracefully")
	return nil
}

type serverDeps struct {
	sessionManager *session.Manager
	handlers       routes.Handlers
}

func (s *Server) buildServices() serverDeps {
	kv := keyvalue.NewRedisStore(s.redisClient)

	s.catalogService = catalog.NewService(s.config, kv, s.logger)
	cartService := cart.NewService(kv, s.logger)
	preferencesService := preferences.NewService(kv, s.logger)

	paymentService := payment.NewStripeService(s.config, s.logger)
	notificationService := notification.NewService(s.config, s.logger)
	s.checkoutService = checkout.NewService(s.config, paymentService, notificationService, s.logger)
	orchestrator := checkout.NewOrchestrator(s.checkoutService, cartService, s.logger)

	return serverDeps{
		sessionManager: session.NewManager(s.config),
		handlers:       routes.NewHandlers(s.catalogService, cartService, s.checkoutService, orchestrator, preferencesService),
	}
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware(sessionManager *session.Manager) {
	// Recovery middleware - recover from panics
	s.gin.Use(gin.Recovery())

	// Custom logger middleware
	s.gin.Use(middleware.Logger(s.logger))

	// Request ID middleware
	s.gin.Use(middleware.RequestID())

	// CORS middleware
	s.gin.Use(middleware.CORS(s.config))

	// Security headers middleware
	s.gin.Use(middleware.SecurityHeaders())

	// Rate limiting middleware
	s.gin.Use(middleware.RateLimit(s.config, s.redisClient))

	// Request size limit middleware
	s.gin.Use(middleware.RequestSizeLimit(s.config.Security.MaxRequestBody))

	// Timeout middleware
	s.gin.Use(middleware.Timeout(30 * time.Second))

	// Shopper session middleware
	s.gin.Use(middleware.Session(s.config, sessionManager))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes(deps serverDeps) {
	// Health check endpoints
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	// API routes
	api := s.gin.Group("/api")
	routes.SetupRoutes(api, deps.handlers)

	// The payment processor redirects shoppers here after payment
	s.gin.GET("/checkout/success", deps.handlers.Checkout.Success)
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	// Check Redis health
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "redis ping failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	})
}
