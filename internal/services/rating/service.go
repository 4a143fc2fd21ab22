package rating

import (
	"context"
	"math"

	"github.com/bastiongames/bastion/internal/model"
	"github.com/bastiongames/bastion/internal/storage"
)

// KFactor controls how much a single match moves a rating. It is fixed,
// not configuration.
const KFactor = 32

// UpdateRatings computes both players' new ratings from a match outcome
// using a logistic expected-score model. Each side's delta is truncated
// toward zero independently, so the two deltas may differ by one. There is
// no rating floor.
func UpdateRatings(winnerRating, loserRating int) (int, int) {
	expectedWinner := 1 / (1 + math.Pow(10, float64(loserRating-winnerRating)/400.0))
	expectedLoser := 1 - expectedWinner

	winnerDelta := int(KFactor * (1 - expectedWinner))
	loserDelta := int(KFactor * (0 - expectedLoser))

	return winnerRating + winnerDelta, loserRating + loserDelta
}

// MatchResult reports the outcome of one match between two players
type MatchResult struct {
	Player1ID model.PlayerID
	Player2ID model.PlayerID
	WinnerID  model.PlayerID
}

// Outcome holds both participants' post-match state
type Outcome struct {
	WinnerID     model.PlayerID
	LoserID      model.PlayerID
	WinnerRating int
	LoserRating  int
}

// Service applies reported match results to player statistics
type Service struct {
	store storage.Storage
}

// New creates a new rating service
func New(store storage.Storage) *Service {
	return &Service{store: store}
}

// ReportMatch validates the reported result, recomputes both ratings and
// writes both statistic records in one atomic storage call. Validation
// failures happen before any storage access, so nothing is mutated.
func (s *Service) ReportMatch(ctx context.Context, result MatchResult) (*Outcome, error) {
	if result.Player1ID == result.Player2ID {
		return nil, model.ErrSameParticipant
	}
	if result.WinnerID != result.Player1ID && result.WinnerID != result.Player2ID {
		return nil, model.ErrWinnerNotInMatch
	}

	loserID := result.Player1ID
	if result.WinnerID == result.Player1ID {
		loserID = result.Player2ID
	}

	winner, err := s.store.GetStatistic(ctx, result.WinnerID)
	if err != nil {
		return nil, err
	}
	loser, err := s.store.GetStatistic(ctx, loserID)
	if err != nil {
		return nil, err
	}

	winner.Rating, loser.Rating = UpdateRatings(winner.Rating, loser.Rating)
	winner.TotalMatches++
	winner.Wins++
	loser.TotalMatches++
	loser.Losses++

	if err := s.store.UpdateMatchStatistics(ctx, winner, loser); err != nil {
		return nil, err
	}

	return &Outcome{
		WinnerID:     result.WinnerID,
		LoserID:      loserID,
		WinnerRating: winner.Rating,
		LoserRating:  loser.Rating,
	}, nil
}
