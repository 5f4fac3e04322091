package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mansoorceksport/gymgraph/internal/config"
	"github.com/mansoorceksport/gymgraph/internal/domain"
	"github.com/mansoorceksport/gymgraph/internal/graph"
	"github.com/mansoorceksport/gymgraph/internal/handler"
	"github.com/mansoorceksport/gymgraph/internal/middleware"
	"github.com/mansoorceksport/gymgraph/internal/repository"
	"github.com/mansoorceksport/gymgraph/internal/service"
	"github.com/mansoorceksport/gymgraph/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client // optional; nil disables persisted queries
	Logger      *zap.Logger

	// ExerciseReaders overrides the per-request reader construction.
	// Defaults to a Mongo-backed ExerciseFetcher per request.
	ExerciseReaders middleware.ExerciseReaderFactory
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) (*fiber.App, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	readers := deps.ExerciseReaders
	if readers == nil {
		db, timeout := deps.MongoDB, deps.Config.MongoDB.QueryTimeout
		readers = func(reqLogger *zap.Logger) domain.ExerciseReader {
			return service.NewExerciseFetcher(repository.NewMongoStore(db, timeout), reqLogger)
		}
	}

	schema, err := graph.NewSchema(graph.NewResolver(deps.Config.Server.DefaultExerciseID, log))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	var queries handler.PersistedQueryStore
	if deps.RedisClient != nil {
		queries = repository.NewRedisPersistedQueryStore(deps.RedisClient, deps.Config.Redis.APQTTL)
	}
	graphqlHandler := handler.NewGraphQLHandler(schema, queries, log)

	app := fiber.New(fiber.Config{
		AppName:               "gymgraph",
		DisableStartupMessage: true,
		ErrorHandler:          newErrorHandler(log),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestID} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Token, X-Request-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(telemetry.FiberMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "gymgraph",
		})
	})

	gql := []fiber.Handler{
		middleware.TokenAuth(deps.Config.Auth.JWTSecret, deps.Config.Auth.Required),
		middleware.RequestContext(readers, log),
		graphqlHandler.Serve,
	}
	for _, path := range []string{"/graphql", "/"} {
		app.Get(path, gql...)
		app.Post(path, gql...)
	}

	return app, nil
}

func newErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}
		log.Error("request failed",
			zap.String("request_id", middleware.RequestIDFrom(c)),
			zap.Int("status", code),
			zap.Error(err),
		)
		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
