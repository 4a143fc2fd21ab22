package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bastiongames/bastion/internal/api/middleware"
	"github.com/bastiongames/bastion/internal/api/request"
	"github.com/bastiongames/bastion/internal/api/response"
	"github.com/bastiongames/bastion/internal/services/profile"
)

// ProfileHandler handles the authenticated player's profile endpoints
type ProfileHandler struct {
	profiles *profile.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	view, err := h.profiles.Get(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, view)
}

// Update handles PATCH /api/v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	var req request.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.profiles.SetAvatar(r.Context(), playerID, req.AvatarURL); err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.profiles.Get(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, view)
}
