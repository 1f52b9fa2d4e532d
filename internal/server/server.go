// Package server contains HTTP handlers and the composition root for the
// application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/funkydonkey/fatherhood-is/internal/cache"
	"github.com/funkydonkey/fatherhood-is/internal/config"
	"github.com/funkydonkey/fatherhood-is/internal/database"
	"github.com/funkydonkey/fatherhood-is/internal/imagegen"
	"github.com/funkydonkey/fatherhood-is/internal/middleware"
	"github.com/funkydonkey/fatherhood-is/internal/models"
	"github.com/funkydonkey/fatherhood-is/internal/ratelimit"
	"github.com/funkydonkey/fatherhood-is/internal/repository"
	"github.com/funkydonkey/fatherhood-is/internal/service"
	"github.com/funkydonkey/fatherhood-is/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	store          storage.Storage
	postLimiter    *ratelimit.Limiter
	apiLimiter     *ratelimit.Limiter
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	postService    *service.PostService
	commentService *service.CommentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	store, err := storage.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage initialization failed: %w", err)
	}

	generator, err := imagegen.NewGeminiGenerator(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("image generator initialization failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, cache.GetClient(), store, generator), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with a sqlite database and stubbed collaborators.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store storage.Storage, generator imagegen.Generator) *Server {
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("fatherhood-api"),
		store:          store,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		postLimiter: ratelimit.NewLimiter(
			cfg.PostRateLimit, time.Duration(cfg.PostRateWindowMinutes)*time.Minute),
		apiLimiter: ratelimit.NewLimiter(
			cfg.APIRateLimit, time.Duration(cfg.APIRateWindowMinutes)*time.Minute),
	}
	server.postService = service.NewPostService(postRepo, generator, store)
	server.commentService = service.NewCommentService(commentRepo, postRepo)

	return server
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Context middleware to propagate request ID and trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (rate limiting) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Static serving for the local storage backend
	if local, ok := s.store.(*storage.LocalStorage); ok {
		app.Static("/uploads", local.Dir())
	}

	api := app.Group("/api", middleware.RateLimit(
		s.apiLimiter, "api", "Too many requests. Please slow down."))
	api.Get("/", s.StatusBanner)
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Fatherhood Is Backend Metrics",
	}))

	posts := api.Group("/posts")
	posts.Post("/generate", middleware.RateLimit(
		s.postLimiter, "post_create",
		"You've created too many posts. Please try again later."), s.GeneratePostImage)
	posts.Post("/", s.CreatePost)
	posts.Get("/", s.GetPosts)
	posts.Get("/:id", s.GetPost)

	comments := api.Group("/comments")
	comments.Get("/post/:postId", s.GetComments)
	comments.Post("/", s.CreateComment)
	comments.Delete("/:id", s.DeleteComment)
}

// StatusBanner reports the API name and version.
func (s *Server) StatusBanner(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Fatherhood Is API",
		"version": "1.0.0",
		"status":  "running",
	})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// HealthCheck reports the health of the service and its dependencies. Redis
// is an optional cache, so an unavailable Redis degrades but does not fail
// the check.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Fatherhood Is API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewUpstreamError("process request", err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	s.postLimiter.Close()
	s.apiLimiter.Close()

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
