package server

import (
	"backend-sgmrt/internal/auth"
	"backend-sgmrt/internal/config"
	"backend-sgmrt/internal/course"
	"backend-sgmrt/internal/db"
	"backend-sgmrt/internal/run"
	"backend-sgmrt/internal/storage"
	"backend-sgmrt/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     db.Pool
	Redis  *redis.Client
	Stream *stream.Hub
	Course *course.Cache
}

func NewServer(cfg config.Config, pg *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.MaxUploadBytes,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	// keep a nil pool as a nil interface so services fail on use, not on wiring
	var pool db.Pool
	if pg != nil {
		pool = pg
	}

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     pool,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
		Course: course.NewCache(redisClient, cfg.CourseCacheTTL),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	run.RegisterRoutes(s.App.Group("/runs"), run.NewService(s.DB, s.Course, s.Stream, s.Cfg.MaxTelemetrySamples), jwtMiddleware)
	storage.RegisterRoutes(s.App.Group("/storage"), storage.NewService(s.DB), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}

// Close releases the event hub's Redis subscription.
func (s *Server) Close() error {
	return s.Stream.Close()
}
