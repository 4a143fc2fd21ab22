package profile

import (
	"context"
	"time"

	"github.com/bastiongames/bastion/internal/model"
	"github.com/bastiongames/bastion/internal/services/access"
	"github.com/bastiongames/bastion/internal/storage"
)

// View aggregates a player's account, progression and competitive record
type View struct {
	PlayerID     model.PlayerID `json:"player_id"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	AvatarURL    string         `json:"avatar_url,omitempty"`
	Level        int            `json:"level"`
	Experience   int            `json:"experience"`
	Rating       int            `json:"rating"`
	TotalMatches int            `json:"total_matches"`
	Wins         int            `json:"wins"`
	Losses       int            `json:"losses"`
	Roles        []string       `json:"roles"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Service assembles player profile views
type Service struct {
	store    storage.Storage
	resolver *access.Resolver
}

// New creates a new profile service
func New(store storage.Storage, resolver *access.Resolver) *Service {
	return &Service{store: store, resolver: resolver}
}

// Get returns the full profile view for a player
func (s *Service) Get(ctx context.Context, playerID model.PlayerID) (*View, error) {
	player, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	prof, err := s.store.GetProfile(ctx, playerID)
	if err != nil {
		return nil, err
	}
	stat, err := s.store.GetStatistic(ctx, playerID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.resolver.ResolvePermissions(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return &View{
		PlayerID:     player.ID,
		Username:     player.Username,
		Email:        player.Email,
		AvatarURL:    prof.AvatarURL,
		Level:        prof.Level,
		Experience:   prof.Experience,
		Rating:       stat.Rating,
		TotalMatches: stat.TotalMatches,
		Wins:         stat.Wins,
		Losses:       stat.Losses,
		Roles:        snapshot.Roles,
		CreatedAt:    player.CreatedAt,
	}, nil
}

// SetAvatar updates the player's avatar URL
func (s *Service) SetAvatar(ctx context.Context, playerID model.PlayerID, avatarURL string) error {
	prof, err := s.store.GetProfile(ctx, playerID)
	if err != nil {
		return err
	}
	prof.AvatarURL = avatarURL
	return s.store.UpdateProfile(ctx, prof)
}
