package rating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/bastiongames/bastion/internal/model"
	"github.com/bastiongames/bastion/internal/storage/memory"
)

func TestUpdateRatings(t *testing.T) {
	tests := []struct {
		name         string
		winnerRating int
		loserRating  int
		wantWinner   int
		wantLoser    int
	}{
		{
			name:         "evenly matched",
			winnerRating: 1000,
			loserRating:  1000,
			wantWinner:   1016,
			wantLoser:    984,
		},
		{
			name:         "favorite wins",
			winnerRating: 1200,
			loserRating:  1000,
			wantWinner:   1207,
			wantLoser:    993,
		},
		{
			name:         "underdog wins",
			winnerRating: 1000,
			loserRating:  1200,
			wantWinner:   1024,
			wantLoser:    1176,
		},
		{
			name:         "overwhelming favorite gains nothing after truncation",
			winnerRating: 1000,
			loserRating:  10,
			wantWinner:   1000,
			wantLoser:    10,
		},
		{
			name:         "no floor, rating can go negative",
			winnerRating: 10,
			loserRating:  5,
			wantWinner:   25,
			wantLoser:    -10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotWinner, gotLoser := UpdateRatings(tt.winnerRating, tt.loserRating)
			assert.Equal(t, tt.wantWinner, gotWinner)
			assert.Equal(t, tt.wantLoser, gotLoser)
		})
	}
}

func TestUpdateRatingsFavoriteGainsLessThanEvenMatch(t *testing.T) {
	evenWinner, _ := UpdateRatings(1000, 1000)
	favoriteWinner, _ := UpdateRatings(1200, 1000)
	assert.Less(t, favoriteWinner-1200, evenWinner-1000)
}

type RatingServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Storage
	service *Service
	alice   model.PlayerID
	bob     model.PlayerID
}

func TestRatingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RatingServiceTestSuite))
}

func (s *RatingServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.service = New(s.store)
	s.alice = s.createPlayer("alice")
	s.bob = s.createPlayer("bob")
}

func (s *RatingServiceTestSuite) createPlayer(username string) model.PlayerID {
	player := &model.Player{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "irrelevant",
	}
	err := s.store.CreatePlayer(s.ctx, player, model.NewPlayerProfile(), model.NewPlayerStatistic(), nil)
	s.Require().NoError(err)
	return player.ID
}

func (s *RatingServiceTestSuite) TestReportMatch() {
	outcome, err := s.service.ReportMatch(s.ctx, MatchResult{
		Player1ID: s.alice,
		Player2ID: s.bob,
		WinnerID:  s.alice,
	})
	s.Require().NoError(err)
	s.Equal(s.alice, outcome.WinnerID)
	s.Equal(s.bob, outcome.LoserID)
	s.Equal(1016, outcome.WinnerRating)
	s.Equal(984, outcome.LoserRating)

	winner, err := s.store.GetStatistic(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(1016, winner.Rating)
	s.Equal(1, winner.TotalMatches)
	s.Equal(1, winner.Wins)
	s.Equal(0, winner.Losses)

	loser, err := s.store.GetStatistic(s.ctx, s.bob)
	s.Require().NoError(err)
	s.Equal(984, loser.Rating)
	s.Equal(1, loser.TotalMatches)
	s.Equal(0, loser.Wins)
	s.Equal(1, loser.Losses)
}

func (s *RatingServiceTestSuite) TestReportMatchWinnerIsSecondParticipant() {
	outcome, err := s.service.ReportMatch(s.ctx, MatchResult{
		Player1ID: s.alice,
		Player2ID: s.bob,
		WinnerID:  s.bob,
	})
	s.Require().NoError(err)
	s.Equal(s.bob, outcome.WinnerID)
	s.Equal(s.alice, outcome.LoserID)
}

func (s *RatingServiceTestSuite) TestReportMatchSameParticipant() {
	_, err := s.service.ReportMatch(s.ctx, MatchResult{
		Player1ID: s.alice,
		Player2ID: s.alice,
		WinnerID:  s.alice,
	})
	s.ErrorIs(err, model.ErrSameParticipant)

	stat, err := s.store.GetStatistic(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(model.InitialRating, stat.Rating)
	s.Zero(stat.TotalMatches)
}

func (s *RatingServiceTestSuite) TestReportMatchWinnerNotAParticipant() {
	carol := s.createPlayer("carol")

	_, err := s.service.ReportMatch(s.ctx, MatchResult{
		Player1ID: s.alice,
		Player2ID: s.bob,
		WinnerID:  carol,
	})
	s.ErrorIs(err, model.ErrWinnerNotInMatch)

	stat, err := s.store.GetStatistic(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Zero(stat.TotalMatches)
}

func (s *RatingServiceTestSuite) TestReportMatchUnknownParticipant() {
	_, err := s.service.ReportMatch(s.ctx, MatchResult{
		Player1ID: s.alice,
		Player2ID: model.PlayerID(9999),
		WinnerID:  s.alice,
	})
	s.ErrorIs(err, model.ErrStatisticNotFound)
}
