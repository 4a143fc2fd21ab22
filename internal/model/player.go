package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID int64

// Player holds a player's identity and credentials
type Player struct {
	ID           PlayerID
	Username     string // unique, 3-50 chars
	Email        string // unique
	PasswordHash string // bcrypt hash

	// Session state: exactly one live refresh token per player.
	// Rotating it invalidates the previous one by overwrite.
	RefreshToken       string
	RefreshTokenExpiry time.Time

	LastLogin  time.Time
	LoginCount int

	Banned    bool
	BanReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlayerProfile holds a player's progression data, one per player
type PlayerProfile struct {
	PlayerID   PlayerID
	AvatarURL  string
	Level      int
	Experience int
}

// NewPlayerProfile returns a zero-state profile for a new player. The
// player id is assigned by storage on creation.
func NewPlayerProfile() *PlayerProfile {
	return &PlayerProfile{
		Level: 1,
	}
}

// InitialRating is the rating assigned to every new player
const InitialRating = 1000

// PlayerStatistic holds a player's competitive record, one per player
type PlayerStatistic struct {
	PlayerID     PlayerID
	TotalMatches int
	Wins         int
	Losses       int
	Rating       int
}

// NewPlayerStatistic returns a zero-state statistic for a new player. The
// player id is assigned by storage on creation.
func NewPlayerStatistic() *PlayerStatistic {
	return &PlayerStatistic{
		Rating: InitialRating,
	}
}
