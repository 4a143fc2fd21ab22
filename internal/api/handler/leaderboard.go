package handler

import (
	"net/http"
	"strconv"

	"github.com/bastiongames/bastion/internal/api/response"
	"github.com/bastiongames/bastion/internal/services/leaderboard"
)

// defaultLeaderboardLimit bounds unqualified leaderboard requests
const defaultLeaderboardLimit = 100

// LeaderboardHandler handles leaderboard endpoints
type LeaderboardHandler struct {
	leaderboards *leaderboard.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboards *leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboards: leaderboards}
}

// Get handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.leaderboards.Top(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, entries)
}
