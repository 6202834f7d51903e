package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/api"
	"github.com/qalamart/storeapi/internal/config"
	"github.com/qalamart/storeapi/internal/gateway"
	"github.com/qalamart/storeapi/internal/repository/postgres"
	"github.com/qalamart/storeapi/internal/repository/redisstore"
	"github.com/qalamart/storeapi/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Wire repositories and collaborators
	repos := postgres.NewRepositories(db, logger)
	carts := redisstore.NewCartStore(redisClient, cfg.Redis.CartTTL, logger)
	sessions := redisstore.NewSessionStore(redisClient, cfg.Redis.SessionTTL)
	gw := gateway.NewClient(cfg.Gateway, logger)
	notifier := service.NewLogNotifier(logger)
	auth := service.NewAuthService(repos, sessions, logger)

	if !gw.Configured() {
		logger.Warn("Payment gateway credentials missing, checkout will be unavailable")
	}

	router := api.NewRouter(cfg, api.Deps{
		Repos:    repos,
		Carts:    carts,
		Sessions: sessions,
		Gateway:  gw,
		Auth:     auth,
		Notifier: notifier,
	}, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}
