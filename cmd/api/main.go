package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/joshua-takyi/rendez/internal/config"
	"github.com/joshua-takyi/rendez/internal/connect"
	"github.com/joshua-takyi/rendez/internal/container"
	"github.com/joshua-takyi/rendez/internal/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("Starting rendez API server", "environment", cfg.Environment)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	driver, err := connect.Neo4jConnect(cfg)
	if err != nil {
		logger.Error("Failed to connect to Neo4j", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to Neo4j successfully")

	mongoClient, err := connect.MongoDBConnect(cfg)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to MongoDB successfully")

	// rate limiting is skipped while redis is unreachable
	redisClient, err := connect.RedisConnect(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, rate limiting disabled", "error", err)
		redisClient = nil
	}

	cld, err := connect.CloudinaryCredentials(cfg)
	if err != nil {
		logger.Error("Failed to configure Cloudinary", "error", err)
		os.Exit(1)
	}

	appContainer := container.NewContainer(logger, cfg, driver, mongoClient, redisClient, cld)

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := appContainer.Graph.EnsureConstraints(setupCtx); err != nil {
		logger.Error("Failed to create Neo4j constraints", "error", err)
		cancelSetup()
		os.Exit(1)
	}
	if err := appContainer.Documents.EnsureIndexes(setupCtx); err != nil {
		logger.Warn("Failed to create MongoDB indexes", "error", err)
	}
	cancelSetup()

	router := routes.SetupRoutes(appContainer)

	// no WriteTimeout: websocket connections are long lived
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := connect.Neo4jDisconnect(driver); err != nil {
		logger.Error("Error disconnecting from Neo4j", "error", err)
	}
	if err := connect.MongoDBDisconnect(mongoClient); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis client", "error", err)
		}
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
