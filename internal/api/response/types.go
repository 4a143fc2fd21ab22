package response

import (
	"time"

	"github.com/bastiongames/bastion/internal/model"
	"github.com/bastiongames/bastion/internal/services/rating"
	"github.com/bastiongames/bastion/internal/services/session"
)

// Player represents a player in API responses
type Player struct {
	ID       model.PlayerID `json:"id"`
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Rating   int            `json:"rating"`
	Level    int            `json:"level"`
	Roles    []string       `json:"roles"`
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromResult creates an AuthResponse from a session result
func AuthResponseFromResult(result *session.AuthResult) AuthResponse {
	return AuthResponse{
		Player: Player{
			ID:       result.PlayerID,
			Username: result.Username,
			Email:    result.Email,
			Rating:   result.Rating,
			Level:    result.Level,
			Roles:    result.Roles,
		},
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    result.TokenExpiry,
	}
}

// MatchResultResponse is the response for a reported match
type MatchResultResponse struct {
	WinnerID     model.PlayerID `json:"winner_id"`
	LoserID      model.PlayerID `json:"loser_id"`
	WinnerRating int            `json:"winner_rating"`
	LoserRating  int            `json:"loser_rating"`
}

// MatchResultFromOutcome converts a rating outcome
func MatchResultFromOutcome(outcome *rating.Outcome) MatchResultResponse {
	return MatchResultResponse{
		WinnerID:     outcome.WinnerID,
		LoserID:      outcome.LoserID,
		WinnerRating: outcome.WinnerRating,
		LoserRating:  outcome.LoserRating,
	}
}

// Tower represents a catalog tower in API responses
type Tower struct {
	ID          model.TowerID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
}

// TowerFromModel converts a model.Tower
func TowerFromModel(t *model.Tower) Tower {
	return Tower{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
	}
}

// TowersFromModel converts a tower list
func TowersFromModel(towers []*model.Tower) []Tower {
	result := make([]Tower, 0, len(towers))
	for _, t := range towers {
		result = append(result, TowerFromModel(t))
	}
	return result
}
