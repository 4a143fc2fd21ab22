package leaderboard

import (
	"context"
	"sort"

	"github.com/bastiongames/bastion/internal/model"
	"github.com/bastiongames/bastion/internal/storage"
)

// Entry is one leaderboard row
type Entry struct {
	Rank         int            `json:"rank"`
	PlayerID     model.PlayerID `json:"player_id"`
	Username     string         `json:"username"`
	Rating       int            `json:"rating"`
	TotalMatches int            `json:"total_matches"`
	Wins         int            `json:"wins"`
	Losses       int            `json:"losses"`
}

// Service builds rating leaderboards from player statistics
type Service struct {
	store storage.Storage
}

// New creates a new leaderboard service
func New(store storage.Storage) *Service {
	return &Service{store: store}
}

// Top returns up to limit leaderboard entries ordered by rating descending,
// ties broken by username. limit <= 0 returns every player.
func (s *Service) Top(ctx context.Context, limit int) ([]*Entry, error) {
	stats, err := s.store.ListStatistics(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(stats))
	for _, stat := range stats {
		player, err := s.store.GetPlayer(ctx, stat.PlayerID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &Entry{
			PlayerID:     stat.PlayerID,
			Username:     player.Username,
			Rating:       stat.Rating,
			TotalMatches: stat.TotalMatches,
			Wins:         stat.Wins,
			Losses:       stat.Losses,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		return entries[i].Username < entries[j].Username
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i, entry := range entries {
		entry.Rank = i + 1
	}
	return entries, nil
}
