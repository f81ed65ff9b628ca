// Package server contains the HTTP transport for the moderation engine.
package server

import (
	"time"

	"murmur/internal/cache"
	"murmur/internal/config"
	"murmur/internal/database"
	"murmur/internal/engine"
	"murmur/internal/middleware"
	"murmur/internal/repository"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client
	engine *engine.Engine
}

// New creates a server, connecting to Postgres and Redis per config.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	rdb := cache.Connect(cfg.RedisURL)
	return NewWithDeps(cfg, db, rdb)
}

// NewWithDeps creates a server over already-established connections. rdb may
// be nil, in which case vote counting falls back to the in-memory store.
func NewWithDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*Server, error) {
	codec, err := engine.NewTokenCodec(cfg.TokenSecret)
	if err != nil {
		return nil, err
	}

	var votes repository.VoteStore
	if rdb != nil {
		votes = repository.NewRedisVoteStore(rdb)
	} else {
		votes = repository.NewMemoryVoteStore()
	}

	eng := engine.New(
		repository.NewSubmissionRepository(db),
		repository.NewViolationRepository(db),
		repository.NewRestrictionRepository(db),
		repository.NewCommunityRepository(db, cfg.DefaultQuorum, cfg.DefaultCooldown),
		votes,
		codec,
		middleware.Logger,
	)

	middleware.InitMiddleware(cfg)

	return &Server{
		config: cfg,
		db:     db,
		redis:  rdb,
		engine: eng,
	}, nil
}

// App builds the Fiber application with middleware and routes.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Murmur API",
	})

	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())
	app.Use(middleware.Tracing())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	prometheus := fiberprometheus.New("murmur")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	s.setupRoutes(app)
	return app
}

func (s *Server) setupRoutes(app *fiber.App) {
	app.Get("/healthz", s.HealthCheck)

	api := app.Group("/api")

	communities := api.Group("/communities/:cid", middleware.AuthRequired)

	// transport-level abuse protection; per-community cooldowns are enforced
	// by the engine
	communities.Post("/submissions", middleware.RateLimit(s.redis, 30, time.Minute, "submit"), s.Submit)
	communities.Delete("/submissions/retract", s.RetractOwn)
	communities.Delete("/submissions/:sid", s.RetractOwn)
	communities.Post("/submissions/:sid/votes", middleware.RateLimit(s.redis, 60, time.Minute, "vote"), s.Vote)

	mod := communities.Group("/moderation")
	mod.Post("/mute", s.Mute)
	mod.Post("/mute-token", s.MuteByToken)
	mod.Post("/unmute", s.Unmute)
	mod.Delete("/submissions/:sid", s.RemoveSubmission)

	communities.Get("/config", s.GetConfig)
	communities.Put("/config", s.UpdateConfig)
}

// HealthCheck reports liveness.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
