package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Adapters
	redisCache "github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/cache/redis"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/email"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/http/handler"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/http/router"
	mongoRepo "github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/mongo"
	natsAdapter "github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/nats"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/token"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/config"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/platform/logger"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/platform/metrics"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/platform/tracer"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/port/cache"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/usecase"

	"go.uber.org/zap"
)

const serviceName = "blog-service"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Application starting...",
		zap.String("service_name", serviceName),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("redis_enabled", cfg.Redis.Address != ""),
		zap.Bool("nats_enabled", cfg.NATS.URL != ""),
	)

	shutdownTracer, err := tracer.InitTracer(context.Background(), cfg.Tracing, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	mongoClient, err := mongoRepo.NewMongoDBConnection(&cfg.Mongo)
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		appLogger.Info("Disconnecting from MongoDB...")
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.Mongo.Database)

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongoRepo.EnsureIndexes(idxCtx, db); err != nil {
		idxCancel()
		appLogger.Fatal("Failed to ensure MongoDB indexes", zap.Error(err))
	}
	idxCancel()
	appLogger.Info("Connected to MongoDB", zap.String("database", cfg.Mongo.Database))

	userRepo := mongoRepo.NewUserMongoRepository(db, appLogger)
	postRepo := mongoRepo.NewPostMongoRepository(db)

	var postCache cache.PostCache
	if cfg.Redis.Address != "" {
		redisClient, err := redisCache.NewRedisClient(&cfg.Redis, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		postCache = redisCache.NewPostCache(redisClient, cfg.Redis.PostTTL, appLogger)
	} else {
		appLogger.Info("Redis cache disabled (redis.address not set)")
	}

	var (
		userEvents usecase.UserEventPublisher
		postEvents usecase.PostEventPublisher
	)
	if cfg.NATS.URL != "" {
		publisher, err := natsAdapter.NewNATSPublisher(&cfg.NATS, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer publisher.Close()
		userEvents, postEvents = publisher, publisher
	} else {
		appLogger.Info("Event publishing disabled (nats.url not set)")
	}

	otpSender, err := email.NewSMTPSender(cfg.SMTP, cfg.Auth.OTPTTL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to configure SMTP sender", zap.Error(err))
	}

	tokens, err := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		appLogger.Fatal("Failed to configure token manager", zap.Error(err))
	}

	var mm *metrics.MetricsManager
	if cfg.Metrics.Enabled {
		mm = metrics.NewMetricsManager("blog")
	}

	authUseCase := usecase.NewAuthUseCase(userRepo, tokens, otpSender, userEvents, mm, usecase.AuthConfig{
		OTPTTL:     cfg.Auth.OTPTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}, appLogger)
	postUseCase := usecase.NewPostUseCase(postRepo, userRepo, postCache, postEvents, mm, appLogger)

	r := router.New(router.Deps{
		UserHandler:    handler.NewUserHandler(authUseCase, appLogger),
		PostHandler:    handler.NewPostHandler(postUseCase, appLogger),
		Authenticator:  authUseCase,
		Metrics:        mm,
		MetricsPath:    cfg.Metrics.Path,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Logger:         appLogger,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Application shutting down...")
}
