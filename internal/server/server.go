// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"murmur/internal/archive"
	"murmur/internal/cache"
	"murmur/internal/config"
	"murmur/internal/database"
	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/repository"
	"murmur/internal/service"
	"murmur/internal/session"

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

	entryRepo   repository.EntryRepository
	commentRepo repository.CommentRepository
	voteRepo    repository.VoteRepository
	reportRepo  repository.ReportRepository

	entryService   *service.EntryService
	commentService *service.CommentService
	voteService    *service.VoteService
	reportService  *service.ReportService
	adminService   *service.AdminService
	mediaService   *service.MediaService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	entryRepo := repository.NewEntryRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	reportRepo := repository.NewReportRepository(db)

	prom := middleware.InitMetrics("murmur-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		entryRepo:      entryRepo,
		commentRepo:    commentRepo,
		voteRepo:       voteRepo,
		reportRepo:     reportRepo,
	}

	archiver := archive.New(cfg.ArchiveDir, cfg.ArchiveLogDir)
	moderation := service.NewModerationService(entryRepo, commentRepo, voteRepo, reportRepo, archiver)
	retention := time.Duration(cfg.RecycleRetentionDays) * 24 * time.Hour

	server.entryService = service.NewEntryService(entryRepo, reportRepo, retention, cfg.ListDefaultLimit, cfg.ListMaxLimit)
	server.commentService = service.NewCommentService(commentRepo, entryRepo)
	server.voteService = service.NewVoteService(voteRepo, entryRepo, commentRepo, moderation)
	server.reportService = service.NewReportService(reportRepo, entryRepo, commentRepo, moderation)
	server.adminService = service.NewAdminService(
		entryRepo, reportRepo, session.NewStore(redisClient),
		cfg.AdminPasskey, cfg.AdminPasskeyHash, cfg.AdminSessionSecret,
		time.Duration(cfg.SessionTTLHours())*time.Hour,
	)
	server.mediaService = service.NewMediaService(cfg.UploadsDir)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and identifier
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Murmur Metrics Dashboard",
	}))

	// Uploaded media
	app.Get("/uploads/:filename", s.ServeUpload)

	// Public board routes
	entries := api.Group("/entries")
	entries.Post("/", s.SubmitEntry)
	entries.Get("/", s.GetEntries)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	entries.Post("/:id/view", s.RecordView)
	entries.Get("/:id/comments", s.GetComments)

	api.Post("/comments", s.CreateComment)
	api.Post("/votes", s.CastEntryVote)
	api.Post("/comment-votes", s.CastCommentVote)
	api.Post("/reports", s.ReportEntry)
	api.Post("/comment-reports", s.ReportComment)
	api.Post("/media", s.UploadMedia)

	// Admin routes
	admin := api.Group("/admin")
	admin.Post("/sessions", s.AdminLogin)

	protected := admin.Group("", s.AdminRequired())
	protected.Delete("/sessions", s.AdminLogout)
	protected.Get("/dashboard", s.AdminDashboard)
	// Specific /:id/:resource routes before the generic delete
	protected.Post("/entries/:id/restore", s.RestoreEntry)
	protected.Delete("/entries/:id/permanent", s.PurgeEntry)
	protected.Post("/entries/:id/pin", s.TogglePin)
	protected.Post("/entries/:id/adjust-votes", s.AdjustVotes)
	protected.Get("/entries/:id/browser-info", s.BrowserInfo)
	protected.Delete("/entries/:id", s.SoftDeleteEntry)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
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
		// The board degrades gracefully without Redis, so readiness only
		// reports it.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Murmur",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects requests without a valid,
// unrevoked admin session token.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		jti, err := s.adminService.Authorize(c.Context(), token)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusForbidden, err)
		}

		c.Locals("sessionID", jti)
		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Murmur API",
		BodyLimit: 110 << 20, // headroom for the video upload cap
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
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
