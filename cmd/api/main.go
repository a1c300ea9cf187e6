package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agro-group/contact-api/config"
	"github.com/agro-group/contact-api/internal/handlers"
	"github.com/agro-group/contact-api/internal/middleware"
	"github.com/agro-group/contact-api/internal/ratelimit"
	"github.com/agro-group/contact-api/internal/services"
	"github.com/agro-group/contact-api/pkg/httpclient"
	"github.com/agro-group/contact-api/pkg/logger"
	"github.com/agro-group/contact-api/pkg/mailer"
	"github.com/agro-group/contact-api/pkg/metrics"
	"github.com/agro-group/contact-api/pkg/profiling"
	"github.com/agro-group/contact-api/pkg/tracing"
	"github.com/agro-group/contact-api/pkg/turnstile"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// newCounterStore builds the rate-limit counter store selected by
// configuration. Returns a nil store (and nil ping) when no store is
// configured: the submission limiter then allows everything, which an
// operator opts into knowingly.
func newCounterStore(cfg *config.Config) (ratelimit.CounterStore, func(context.Context) error, error) {
	switch cfg.RateLimit.Store {
	case "redis":
		client, err := ratelimit.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		store := ratelimit.NewRedisStore(client)
		return store, store.Ping, nil
	case "memory":
		return ratelimit.NewMemoryStore(), nil, nil
	default:
		logger.Warn("No rate-limit counter store configured: submissions are not rate limited")
		return nil, nil, nil
	}
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting contact API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Continuous profiling (disabled unless configured)
	profilerStop, err := profiling.InitProfiler(
		cfg.Profiling,
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Rate-limit counter store (redis, in-memory, or none)
	store, storePing, err := newCounterStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize counter store", zap.Error(err))
	}
	submissionLimiter := ratelimit.New(store, cfg.RateLimit.Max, cfg.RateLimit.Window())

	// HTTP client shared by all external API calls
	httpClient := httpclient.NewStandardClient()

	// External service clients
	verifier := turnstile.NewVerifier(cfg.Turnstile.SecretKey, httpClient)
	if cfg.Turnstile.SecretKey == "" {
		logger.Warn("TURNSTILE_SECRET_KEY not set: abuse verification will be bypassed")
	}
	primary := mailer.NewResendSender(cfg.Mail.ResendAPIKey, cfg.Mail.Sender, cfg.Mail.Recipient, httpClient)
	secondary := mailer.NewMailChannelsSender(cfg.Mail.Sender, cfg.Mail.Recipient, httpClient)

	// Services and handlers
	contactService := services.NewContactService(cfg, submissionLimiter, verifier, primary, secondary)
	contactHandler := handlers.NewContactHandler(contactService)
	healthHandler := handlers.NewHealthHandler(storePing)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS: only the site's own origins may call the API
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:4321", "http://127.0.0.1:4321")
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// Non-POST on the contact route is a fixed plain-text 405, before
	// any pipeline stage runs
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	// Transport-level burst limiters (distinct from the submission window)
	generalRateLimiter := middleware.NewRateLimiter(20, 40) // 20 req/sec, burst of 40
	contactRateLimiter := middleware.NewRateLimiter(2, 5)   // 2 req/sec, burst of 5 (form traffic only)

	// API routes
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	api.POST("/contact", contactRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), contactHandler.Submit)

	// Create HTTP server
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
