package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/bastiongames/bastion/internal/dependencies/clock"
	"github.com/bastiongames/bastion/internal/dependencies/random"
	"github.com/bastiongames/bastion/internal/services/access"
	"github.com/bastiongames/bastion/internal/services/armory"
	"github.com/bastiongames/bastion/internal/services/leaderboard"
	"github.com/bastiongames/bastion/internal/services/profile"
	"github.com/bastiongames/bastion/internal/services/rating"
	"github.com/bastiongames/bastion/internal/services/session"
	"github.com/bastiongames/bastion/internal/services/token"
	"github.com/bastiongames/bastion/internal/storage"
	"github.com/bastiongames/bastion/internal/storage/memory"
	redisstorage "github.com/bastiongames/bastion/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	TokenService       *token.Service
	Resolver           *access.Resolver
	Seeder             *access.Seeder
	SessionService     *session.Service
	RatingService      *rating.Service
	LeaderboardService *leaderboard.Service
	ProfileService     *profile.Service
	ArmoryService      *armory.Service

	admin access.AdminConfig
}

// Config holds configuration for the application factory
type Config struct {
	// TokenConfig holds token signing settings; Secret is required
	TokenConfig token.Config
	// SessionConfig holds session lifecycle settings (optional)
	// Zero-valued fields fall back to session.DefaultConfig()
	SessionConfig session.Config
	// Admin is the bootstrap administrator (optional)
	// An empty username disables admin seeding
	Admin access.AdminConfig
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	if cfg.TokenConfig.Secret == "" {
		return nil, errors.New("TokenConfig.Secret is required")
	}

	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	tokenService := token.New(cfg.TokenConfig, clk, rnd)
	resolver := access.NewResolver(store)
	seeder := access.NewSeeder(store, logger)
	sessionService := session.New(cfg.SessionConfig, store, tokenService, resolver, clk)
	ratingService := rating.New(store)
	leaderboardService := leaderboard.New(store)
	profileService := profile.New(store, resolver)
	armoryService := armory.New(store)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		TokenService:       tokenService,
		Resolver:           resolver,
		Seeder:             seeder,
		SessionService:     sessionService,
		RatingService:      ratingService,
		LeaderboardService: leaderboardService,
		ProfileService:     profileService,
		ArmoryService:      armoryService,
		admin:              cfg.Admin,
	}
}

// Seed populates roles, permissions and the bootstrap administrator.
// Called once at startup after storage is reachable; every step is
// idempotent.
func (a *App) Seed(ctx context.Context) error {
	if err := a.Seeder.Seed(ctx, access.DefaultRoleGrants()); err != nil {
		return err
	}
	return a.Seeder.SeedAdmin(ctx, a.admin)
}
