// Package server contains the HTTP handlers for the site's public and admin API.
package server

import (
	"context"
	"fmt"
	"time"

	_ "streamsite/docs" // swagger docs
	"streamsite/internal/cache"
	"streamsite/internal/config"
	"streamsite/internal/middleware"
	"streamsite/internal/models"
	"streamsite/internal/repository"
	"streamsite/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the already-initialized dependencies of a Server.
type Deps struct {
	// DB backs the readiness check. It is nil with the in-memory store.
	DB    *gorm.DB
	Redis *redis.Client
	Repos *repository.Repositories
	// Stats is nil when Twitch credentials are not configured.
	Stats service.StatsProvider
	// DisableMetrics skips the Prometheus middleware and scrape endpoint.
	DisableMetrics bool
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       *session.Store

	authService         *service.AuthService
	streamService       *service.StreamService
	announcementService *service.AnnouncementService
	galleryService      *service.GalleryService
	settingsService     *service.SiteSettingsService
	statsService        *service.ChannelStatsService
}

// NewServer creates a server from already-initialized dependencies.
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Repos == nil {
		return nil, fmt.Errorf("server: repositories are required")
	}

	s := &Server{
		config:              cfg,
		db:                  deps.DB,
		redis:               deps.Redis,
		authService:         service.NewAuthService(deps.Repos.Users, cfg.AdminUsername),
		streamService:       service.NewStreamService(deps.Repos.Streams, deps.Redis),
		announcementService: service.NewAnnouncementService(deps.Repos.Announcements),
		galleryService:      service.NewGalleryService(deps.Repos.Gallery),
		settingsService:     service.NewSiteSettingsService(deps.Repos.SiteSettings, deps.Redis),
		statsService:        service.NewChannelStatsService(deps.Stats, deps.Redis),
	}
	if !deps.DisableMetrics {
		s.promMiddleware = middleware.InitMetrics("streamsite-api")
	}
	s.sessions = newSessionStore(cfg, deps.Redis)

	return s, nil
}

func newSessionStore(cfg *config.Config, rdb *redis.Client) *session.Store {
	sc := session.Config{
		Expiration:     cfg.SessionTTL(),
		KeyLookup:      "cookie:sid",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.IsProduction(),
		CookieSameSite: "Lax",
		KeyGenerator:   uuid.NewString,
	}
	// Without Redis sessions live in process memory.
	if rdb != nil {
		sc.Storage = cache.NewSessionStorage(rdb, cache.SessionKeyPrefix)
	}
	return session.New(sc)
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Streamsite API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
			"path", c.Path(), "error", err)
	}
	return models.RespondWithError(c, status, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Context Middleware to propagate Request ID and trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, fiber.StatusTooManyRequests, &models.AppError{
				Code:    models.CodeRateLimited,
				Message: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Streamsite Metrics Dashboard",
	}))

	api.Get("/swagger/*", swagger.HandlerDefault)

	requireAdmin := middleware.RequireAdmin(s.sessions, s.authService.LookupAdmin)

	// Auth
	api.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	api.Post("/logout", s.Logout)
	api.Get("/user", requireAdmin, s.CurrentUser)
	api.Post("/update-password", requireAdmin, s.UpdatePassword)

	// Public content
	api.Get("/streams", s.GetStreams)
	api.Get("/streams/featured", s.GetFeaturedStream)
	api.Get("/announcements", s.GetAnnouncements)
	api.Get("/gallery", s.GetGallery)
	api.Get("/site-settings", s.GetSiteSettings)
	api.Get("/twitch/:channel", middleware.RateLimit(s.redis, 30, time.Minute, "twitch_stats"), s.GetChannelStats)

	// Admin
	admin := api.Group("/admin", requireAdmin)

	streams := admin.Group("/streams")
	streams.Post("/", s.CreateStream)
	streams.Put("/:id/featured", s.SetFeaturedStream)
	streams.Put("/:id", s.UpdateStream)
	streams.Delete("/:id", s.DeleteStream)

	announcements := admin.Group("/announcements")
	announcements.Post("/", s.CreateAnnouncement)
	announcements.Put("/:id", s.UpdateAnnouncement)
	announcements.Delete("/:id", s.DeleteAnnouncement)

	gallery := admin.Group("/gallery")
	gallery.Post("/", s.CreateGalleryImage)
	gallery.Put("/:id", s.UpdateGalleryImage)
	gallery.Delete("/:id", s.DeleteGalleryImage)

	admin.Put("/site-settings", s.UpdateSiteSettings)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so
// only the database decides the status code.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "memory"
	if s.db != nil {
		dbStatus = "healthy"
		sqlDB, err := s.db.DB()
		if err != nil {
			dbStatus = "unhealthy"
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbStatus = "unhealthy"
		}
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	switch {
	case dbStatus == "unhealthy":
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	case redisStatus == "unhealthy":
		overallStatus = "degraded"
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

// Start listens on the configured port until Shutdown.
func (s *Server) Start() error {
	app := s.app
	if app == nil {
		app = s.NewApp()
	}
	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app == nil {
		return nil
	}
	return s.app.ShutdownWithContext(ctx)
}
