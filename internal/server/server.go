package server

import (
	"errors"

	"github.com/zzenku/project-run/internal/analytics"
	"github.com/zzenku/project-run/internal/auth"
	"github.com/zzenku/project-run/internal/challenge"
	"github.com/zzenku/project-run/internal/collectible"
	"github.com/zzenku/project-run/internal/config"
	"github.com/zzenku/project-run/internal/db"
	"github.com/zzenku/project-run/internal/metrics"
	"github.com/zzenku/project-run/internal/position"
	"github.com/zzenku/project-run/internal/run"
	"github.com/zzenku/project-run/internal/stream"
	"github.com/zzenku/project-run/internal/subscription"
	"github.com/zzenku/project-run/internal/users"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     db.Pool
	Redis  *redis.Client
	Stream *stream.Hub
	Logger *zap.Logger
}

func NewServer(cfg config.Config, pool db.Pool, redisClient *redis.Client, log *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler(log),
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     pool,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient, log),
		Logger: log,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", metrics.Handler())

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	challenges := challenge.NewService(s.DB, s.Logger)
	items := collectible.NewService(s.DB, s.Logger)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)

	api := s.App.Group("/api")
	api.Get("/company_details", companyDetails(s.Cfg))
	run.RegisterRoutes(api.Group("/runs"), run.NewService(s.DB, challenges, s.Logger), jwtMiddleware)
	position.RegisterRoutes(api.Group("/positions"), position.NewService(s.DB, items, s.Stream, s.Logger), jwtMiddleware)
	users.RegisterRoutes(api, users.NewService(s.DB, items), jwtMiddleware)
	challenge.RegisterRoutes(api, challenges)
	collectible.RegisterRoutes(api, items, jwtMiddleware)
	subscription.RegisterRoutes(api, subscription.NewService(s.DB, s.Logger), jwtMiddleware)
	analytics.RegisterRoutes(api, analytics.NewService(s.DB))
}

func companyDetails(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"company_name": cfg.CompanyName,
			"slogan":       cfg.Slogan,
			"contacts":     cfg.Contacts,
		})
	}
}

// errorHandler renders errors as {"error": message} and logs server-side failures.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
