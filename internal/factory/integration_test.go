package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/bastiongames/bastion/internal/model"
	"github.com/bastiongames/bastion/internal/services/rating"
	"github.com/bastiongames/bastion/internal/services/session"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.Require().NoError(s.app.Seed(s.ctx))
}

func (s *IntegrationSuite) register(username string) *session.AuthResult {
	result, err := s.app.SessionService.Register(s.ctx, session.RegisterParams{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	s.Require().NoError(err)
	return result
}

// Test: two players register, play a match, and the outcome is visible on
// the leaderboard and in refreshed token claims
func (s *IntegrationSuite) TestCompleteMatchFlow() {
	alice := s.register("alice")
	bob := s.register("bob")

	outcome, err := s.app.RatingService.ReportMatch(s.ctx, rating.MatchResult{
		Player1ID: alice.PlayerID,
		Player2ID: bob.PlayerID,
		WinnerID:  alice.PlayerID,
	})
	s.Require().NoError(err)
	s.Equal(1016, outcome.WinnerRating)
	s.Equal(984, outcome.LoserRating)

	entries, err := s.app.LeaderboardService.Top(s.ctx, 10)
	s.Require().NoError(err)
	// admin, alice and bob
	s.Require().Len(entries, 3)
	s.Equal("alice", entries[0].Username)
	s.Equal(1, entries[0].Rank)
	s.Equal("bob", entries[2].Username)

	// A refreshed access token carries the new rating
	refreshed, err := s.app.SessionService.Refresh(s.ctx, alice.AccessToken, alice.RefreshToken)
	s.Require().NoError(err)
	claims, err := s.app.TokenService.ValidateToken(refreshed.AccessToken, true)
	s.Require().NoError(err)
	s.Equal(1016, claims.Rating)

	view, err := s.app.ProfileService.Get(s.ctx, bob.PlayerID)
	s.Require().NoError(err)
	s.Equal(984, view.Rating)
	s.Equal(1, view.TotalMatches)
	s.Equal(1, view.Losses)
}

// Test: the seeded administrator can manage the tower catalog and grant
// inventory that regular players can read back
func (s *IntegrationSuite) TestAdminArmoryFlow() {
	admin, err := s.app.SessionService.Login(s.ctx, session.LoginParams{
		Identifier: "admin",
		Password:   "admin-password",
	})
	s.Require().NoError(err)

	claims, err := s.app.TokenService.ValidateToken(admin.AccessToken, true)
	s.Require().NoError(err)
	s.True(claims.HasPermission("towers.manage"))

	tower, err := s.app.ArmoryService.CreateTower(s.ctx, "Cannon", "Single-target damage")
	s.Require().NoError(err)

	alice := s.register("alice")
	s.Require().NoError(s.app.ArmoryService.AddToInventory(s.ctx, alice.PlayerID, tower.ID, 3))

	entries, err := s.app.ArmoryService.Inventory(s.ctx, alice.PlayerID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("Cannon", entries[0].Name)
	s.Equal(3, entries[0].Quantity)

	// A regular player's token does not carry the manage permission
	aliceClaims, err := s.app.TokenService.ValidateToken(alice.AccessToken, true)
	s.Require().NoError(err)
	s.False(aliceClaims.HasPermission("towers.manage"))
}

// Test: logout revokes the refresh token but the player can log back in
func (s *IntegrationSuite) TestSessionLifecycle() {
	alice := s.register("alice")

	s.Require().NoError(s.app.SessionService.Logout(s.ctx, alice.PlayerID))

	_, err := s.app.SessionService.Refresh(s.ctx, alice.AccessToken, alice.RefreshToken)
	s.ErrorIs(err, model.ErrInvalidRefreshToken)

	s.app.MockClock.Advance(time.Minute)
	again, err := s.app.SessionService.Login(s.ctx, session.LoginParams{
		Identifier: "alice",
		Password:   "password123",
	})
	s.Require().NoError(err)
	s.NotEqual(alice.RefreshToken, again.RefreshToken)

	player, err := s.app.Storage.GetPlayer(s.ctx, alice.PlayerID)
	s.Require().NoError(err)
	s.Equal(2, player.LoginCount)
}
