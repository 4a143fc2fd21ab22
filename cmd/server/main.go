package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bastiongames/bastion/internal/api"
	"github.com/bastiongames/bastion/internal/factory"
	"github.com/bastiongames/bastion/internal/services/access"
	"github.com/bastiongames/bastion/internal/services/session"
	"github.com/bastiongames/bastion/internal/services/token"
	redisstorage "github.com/bastiongames/bastion/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	tokenCfg := token.DefaultConfig()
	tokenCfg.Secret = secret
	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		tokenCfg.Issuer = issuer
	}
	if audience := os.Getenv("JWT_AUDIENCE"); audience != "" {
		tokenCfg.Audience = audience
	}
	if hours := envInt("JWT_EXPIRATION_HOURS", 0); hours > 0 {
		tokenCfg.AccessTokenTTL = time.Duration(hours) * time.Hour
	}

	sessionCfg := session.DefaultConfig()
	if role := os.Getenv("DEFAULT_ROLE"); role != "" {
		sessionCfg.DefaultRoleName = role
	}

	// Build factory config from environment
	cfg := factory.Config{
		TokenConfig:   tokenCfg,
		SessionConfig: sessionCfg,
		Admin: access.AdminConfig{
			Username: os.Getenv("ADMIN_USERNAME"),
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Seed roles, permissions, and the bootstrap admin
	if err := app.Seed(context.Background()); err != nil {
		logger.Error("failed to seed access control data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		TokenService:       app.TokenService,
		SessionService:     app.SessionService,
		RatingService:      app.RatingService,
		LeaderboardService: app.LeaderboardService,
		ProfileService:     app.ProfileService,
		ArmoryService:      app.ArmoryService,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = envInt("PORT", serverConfig.Port)
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid integer environment variable",
			slog.String("name", name),
			slog.String("value", raw))
		return fallback
	}
	return v
}
