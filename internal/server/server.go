package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/leanderkyvelos-create/MoodCam/internal/auth"
	"github.com/leanderkyvelos-create/MoodCam/internal/chat"
	"github.com/leanderkyvelos-create/MoodCam/internal/config"
	"github.com/leanderkyvelos-create/MoodCam/internal/db"
	"github.com/leanderkyvelos-create/MoodCam/internal/feed"
	"github.com/leanderkyvelos-create/MoodCam/internal/graph"
	"github.com/leanderkyvelos-create/MoodCam/internal/mood"
	"github.com/leanderkyvelos-create/MoodCam/internal/profile"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    db.Querier
	Redis *redis.Client
	Mood  *mood.Client
}

func NewServer(cfg config.Config, database db.Querier, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    database,
		Redis: redisClient,
		Mood:  mood.NewClient(cfg.MoodAPIURL, cfg.MoodAPIKey, redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		if s.DB == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		err := db.CheckSchema(c.Context(), s.DB)
		switch {
		case err == nil:
			return c.JSON(fiber.Map{"status": "ok"})
		case errors.Is(err, db.ErrMissingSchema):
			// The operator has to run migrations; restarting won't fix it.
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "setup_required"})
		default:
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	profiles := profile.NewService(s.DB, s.Redis)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB, profiles))
	profile.RegisterRoutes(s.App.Group("/profiles"), profiles, jwtMiddleware)
	graph.RegisterRoutes(s.App.Group("/graph"), graph.NewService(s.DB, profiles), profiles, jwtMiddleware)
	feed.RegisterRoutes(s.App.Group("/feed"), feed.NewService(s.DB), profiles, s.Mood, jwtMiddleware)
	chat.RegisterRoutes(s.App.Group("/chat"), chat.NewService(s.DB, profiles), profiles, jwtMiddleware)
	mood.RegisterRoutes(s.App.Group("/mood"), s.Mood, jwtMiddleware)
}
