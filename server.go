// Package sorter wires the Signal Sorter HTTP service: the triage chat
// endpoint, item and profile CRUD, and health reporting.
package sorter

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pb2jamz/Signal-Sorter/common/dto"
	"github.com/pb2jamz/Signal-Sorter/pkg/config"
	"github.com/pb2jamz/Signal-Sorter/pkg/llm"
	"github.com/pb2jamz/Signal-Sorter/pkg/middleware"
	"github.com/pb2jamz/Signal-Sorter/repository"
	"github.com/pb2jamz/Signal-Sorter/triage"
)

// Server is the Signal Sorter HTTP service.
type Server struct {
	app    *fiber.App
	config *config.Config
	db     *pgxpool.Pool
	redis  *redis.Client
	llm    *llm.MultiClient
	log    zerolog.Logger
}

// NewServer connects the service's dependencies and builds the fiber app.
func NewServer(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	db, err := repository.Connect(context.Background(), cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		// Redis only carries change notifications; run without it.
		logger.Warn().Err(err).Msg("redis unavailable, change notifications disabled")
		redisClient = nil
	}

	llmClient, err := llm.NewMultiClient(llm.Config{
		DefaultProvider: llm.Provider(cfg.LLM.DefaultProvider),
		AnthropicAPIKey: cfg.LLM.AnthropicAPIKey,
		OpenAIAPIKey:    cfg.LLM.OpenAIAPIKey,
		OllamaHost:      cfg.LLM.OllamaHost,
		OllamaModel:     cfg.LLM.OllamaModel,
	}, logger)
	if err != nil {
		// The chat endpoint degrades to 503; everything else still works.
		logger.Warn().Err(err).Msg("completion client initialization failed")
		llmClient = nil
	}

	server := &Server{
		config: cfg,
		db:     db,
		redis:  redisClient,
		llm:    llmClient,
		log:    logger,
	}

	server.app = server.createApp()
	server.registerRoutes()

	return server, nil
}

func (s *Server) createApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "signal-sorter",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.Recovery())
	app.Use(middleware.RequestLogger())
	app.Use(compress.New())
	app.Use(helmet.New())

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.Error(
				"RATE_LIMIT_EXCEEDED", "too many requests, please try again later",
			))
		},
	}))

	if s.config.IsDevelopment() {
		app.Use(middleware.DevelopmentCORS())
	} else {
		app.Use(middleware.ProductionCORS(s.config.Server.AllowedOrigins))
	}

	return app
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.healthCheck)

	itemStore := repository.NewItemStore(s.db)
	messageStore := repository.NewMessageStore(s.db)
	profileStore := repository.NewProfileStore(s.db)
	notifier := repository.NewNotifier(s.redis, s.log)

	var engine *triage.Engine
	if s.llm != nil {
		engine = triage.NewEngine(s.llm, triage.Config{
			MatchThreshold: s.config.Triage.MatchThreshold,
			MinNameLength:  s.config.Triage.MinNameLength,
			GuardPhrases:   s.config.Triage.GuardPhrases,
			MaxRetries:     s.config.Triage.MaxRetries,
			RetryBaseDelay: s.config.Triage.RetryBaseDelay,
		}, s.log)
	}

	v1 := s.app.Group("/api/v1")
	v1.Use(middleware.Auth(middleware.AuthConfig{
		JWTSecret: s.config.Auth.JWTSecret,
	}))

	chatHandler := NewChatHandler(engine, itemStore, messageStore, profileStore, notifier, s.log)
	v1.Post("/chat", chatHandler.Send)
	v1.Get("/chat/messages", chatHandler.ListMessages)

	itemHandler := NewItemHandler(itemStore, notifier, s.log)
	v1.Get("/items", itemHandler.List)
	v1.Post("/items", itemHandler.Create)
	v1.Get("/items/:id", itemHandler.Get)
	v1.Patch("/items/:id", itemHandler.Update)
	v1.Delete("/items/:id", itemHandler.Delete)
	v1.Post("/items/:id/complete", itemHandler.Complete)
	v1.Post("/items/:id/uncomplete", itemHandler.Uncomplete)

	profileHandler := NewProfileHandler(profileStore)
	v1.Get("/profile", profileHandler.Get)
	v1.Put("/profile", profileHandler.Update)
}

func (s *Server) healthCheck(c *fiber.Ctx) error {
	services := make(map[string]string)

	if err := s.db.Ping(c.Context()); err != nil {
		services["database"] = "error"
	} else {
		services["database"] = "ok"
	}

	if s.redis == nil {
		services["redis"] = "not_configured"
	} else if err := s.redis.Ping(c.Context()).Err(); err != nil {
		services["redis"] = "error"
	} else {
		services["redis"] = "ok"
	}

	if s.llm != nil {
		services["llm"] = "ok"
	} else {
		services["llm"] = "not_configured"
	}

	status := "healthy"
	if services["database"] == "error" {
		status = "unhealthy"
	}

	return c.JSON(dto.HealthResponse{
		Status:   status,
		Version:  "1.0.0",
		Services: services,
	})
}

// Listen starts the HTTP server.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// ShutdownWithContext gracefully shuts down the server and closes its
// connections.
func (s *Server) ShutdownWithContext(ctx context.Context) error {
	if s.db != nil {
		s.db.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	return s.app.ShutdownWithContext(ctx)
}

func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.Address())
	if err != nil {
		opt = &redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(dto.Error("INTERNAL_ERROR", err.Error()))
}
