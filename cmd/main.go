package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/gymgraph/internal/config"
	"github.com/mansoorceksport/gymgraph/internal/logger"
	"github.com/mansoorceksport/gymgraph/internal/repository"
	"github.com/mansoorceksport/gymgraph/internal/server"
	"github.com/mansoorceksport/gymgraph/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/event"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelProvider, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.OTEL.ServiceName,
		ServiceVersion: cfg.OTEL.ServiceVersion,
		Environment:    cfg.OTEL.Environment,
		Endpoint:       cfg.OTEL.Endpoint,
		URLPrefix:      cfg.OTEL.URLPrefix,
		Headers:        otlpHeaders(cfg.OTEL),
		Insecure:       cfg.OTEL.Insecure,
		Enabled:        cfg.OTEL.Enabled,
	}, zl)
	if err != nil {
		zl.Warn("Failed to initialize OpenTelemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			zl.Warn("OpenTelemetry shutdown", zap.Error(err))
		}
	}()

	var monitor *event.CommandMonitor
	if cfg.OTEL.Enabled {
		monitor = otelmongo.NewMonitor()
	}

	// The store credential is bound here once; the driver connects lazily so
	// a bad DATABASE_SERVER_KEY shows up on the first query, not at startup.
	mongoClient, err := repository.Connect(ctx, cfg.MongoDB, monitor)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			zl.Warn("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	if cfg.MongoDB.ServerKey == "" {
		zl.Warn("DATABASE_SERVER_KEY is empty; store queries will fail if the server requires auth")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			zl.Warn("Redis unreachable; persisted queries will miss", zap.Error(err))
		} else {
			zl.Info("✓ Redis connected")
		}
	}

	if cfg.Auth.JWTSecret == "" {
		zl.Info("AUTH_JWT_SECRET is empty; the token header is ignored")
	}

	app, err := server.NewApp(server.AppDependencies{
		Config:      cfg,
		MongoDB:     mongoClient.Database(cfg.MongoDB.Database),
		RedisClient: redisClient,
		Logger:      zl,
	})
	if err != nil {
		return err
	}

	app.Hooks().OnListen(func(ld fiber.ListenData) error {
		host := ld.Host
		if host == "" || host == "0.0.0.0" || host == "::" {
			host = "localhost"
		}
		zl.Info(fmt.Sprintf("🚀 Server ready at: http://%s:%s/", host, ld.Port))
		return nil
	})

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		zl.Info("Shutting down gracefully...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// otlpHeaders builds Grafana Cloud basic auth from instanceId:apiToken
func otlpHeaders(cfg config.OTELConfig) map[string]string {
	if cfg.InstanceID == "" && cfg.Token == "" {
		return nil
	}
	authString := cfg.InstanceID + ":" + cfg.Token
	return map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(authString)),
	}
}
