package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bastiongames/bastion/internal/api/handler"
	"github.com/bastiongames/bastion/internal/api/middleware"
	"github.com/bastiongames/bastion/internal/services/armory"
	"github.com/bastiongames/bastion/internal/services/leaderboard"
	"github.com/bastiongames/bastion/internal/services/profile"
	"github.com/bastiongames/bastion/internal/services/rating"
	"github.com/bastiongames/bastion/internal/services/session"
	"github.com/bastiongames/bastion/internal/services/token"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	TokenService       *token.Service
	SessionService     *session.Service
	RatingService      *rating.Service
	LeaderboardService *leaderboard.Service
	ProfileService     *profile.Service
	ArmoryService      *armory.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.SessionService)
	matchHandler := handler.NewMatchHandler(cfg.RatingService)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService)
	profileHandler := handler.NewProfileHandler(cfg.ProfileService)
	armoryHandler := handler.NewArmoryHandler(cfg.ArmoryService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.TokenService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (register/login/refresh are unauthenticated by nature)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)

	authOnly := api.NewRoute().Subrouter()
	authOnly.Use(authMiddleware)
	authOnly.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)

	// Profile routes
	authOnly.HandleFunc("/profile", profileHandler.Get).Methods(http.MethodGet)
	authOnly.HandleFunc("/profile", profileHandler.Update).Methods(http.MethodPatch)

	// Leaderboard and match routes
	authOnly.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet)

	match := authOnly.NewRoute().Subrouter()
	match.Use(middleware.RequirePermission("match.report"))
	match.HandleFunc("/match/result", matchHandler.ReportResult).Methods(http.MethodPatch)

	// Tower catalog; creation needs the manage permission
	authOnly.HandleFunc("/towers", armoryHandler.ListTowers).Methods(http.MethodGet)
	authOnly.HandleFunc("/towers/{id}", armoryHandler.GetTower).Methods(http.MethodGet)

	manageTowers := authOnly.NewRoute().Subrouter()
	manageTowers.Use(middleware.RequirePermission("towers.manage"))
	manageTowers.HandleFunc("/towers", armoryHandler.CreateTower).Methods(http.MethodPost)

	// Inventory routes
	authOnly.HandleFunc("/inventory", armoryHandler.GetInventory).Methods(http.MethodGet)
	authOnly.HandleFunc("/inventory/add", armoryHandler.AddToInventory).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
