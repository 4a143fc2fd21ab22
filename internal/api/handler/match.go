package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bastiongames/bastion/internal/api/request"
	"github.com/bastiongames/bastion/internal/api/response"
	"github.com/bastiongames/bastion/internal/services/rating"
)

// MatchHandler handles match result reporting
type MatchHandler struct {
	ratings *rating.Service
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(ratings *rating.Service) *MatchHandler {
	return &MatchHandler{ratings: ratings}
}

// ReportResult handles PATCH /api/v1/match/result
func (h *MatchHandler) ReportResult(w http.ResponseWriter, r *http.Request) {
	var req request.MatchResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	outcome, err := h.ratings.ReportMatch(r.Context(), rating.MatchResult{
		Player1ID: req.Player1ID,
		Player2ID: req.Player2ID,
		WinnerID:  req.WinnerID,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchResultFromOutcome(outcome))
}
