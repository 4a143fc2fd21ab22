package request

import "github.com/bastiongames/bastion/internal/model"

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest is the request body for logging in. Identifier may be a
// username or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me,omitempty"`
}

// RefreshRequest is the request body for refreshing credentials
type RefreshRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// MatchResultRequest is the request body for reporting a match outcome
type MatchResultRequest struct {
	Player1ID model.PlayerID `json:"player1_id"`
	Player2ID model.PlayerID `json:"player2_id"`
	WinnerID  model.PlayerID `json:"winner_id"`
}

// UpdateProfileRequest is the request body for updating the caller's profile
type UpdateProfileRequest struct {
	AvatarURL string `json:"avatar_url"`
}

// CreateTowerRequest is the request body for adding a catalog tower
type CreateTowerRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AddInventoryRequest is the request body for granting towers to the caller
type AddInventoryRequest struct {
	TowerID  model.TowerID `json:"tower_id"`
	Quantity int           `json:"quantity"`
}
