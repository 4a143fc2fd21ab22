package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/bastiongames/bastion/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) createPlayer(username string, roleIDs ...model.RoleID) *model.Player {
	player := &model.Player{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		RefreshToken: "initial-token",
	}
	err := s.storage.CreatePlayer(s.ctx, player, model.NewPlayerProfile(), model.NewPlayerStatistic(), roleIDs)
	s.Require().NoError(err)
	return player
}

func (s *StorageSuite) createRole(name string) *model.Role {
	role := &model.Role{Name: name}
	s.Require().NoError(s.storage.CreateRole(s.ctx, role))
	return role
}

func (s *StorageSuite) createPermission(name string) *model.Permission {
	perm := &model.Permission{Name: name}
	s.Require().NoError(s.storage.CreatePermission(s.ctx, perm))
	return perm
}

// Player tests

func (s *StorageSuite) TestCreatePlayerWritesAllRecords() {
	role := s.createRole("Player")
	player := s.createPlayer("alice", role.ID)
	s.NotZero(player.ID)

	got, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal("alice", got.Username)
	s.Equal("initial-token", got.RefreshToken)

	profile, err := s.storage.GetProfile(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(1, profile.Level)

	stat, err := s.storage.GetStatistic(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(model.InitialRating, stat.Rating)

	roleIDs, err := s.storage.GetRoleIDsForPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal([]model.RoleID{role.ID}, roleIDs)
}

func (s *StorageSuite) TestCreatePlayerDuplicateUsername() {
	s.createPlayer("alice")

	dup := &model.Player{Username: "alice", Email: "other@example.com"}
	err := s.storage.CreatePlayer(s.ctx, dup, model.NewPlayerProfile(), model.NewPlayerStatistic(), nil)
	s.ErrorIs(err, model.ErrUsernameTaken)

	// The losing create must not leave a dangling email index
	_, err = s.storage.GetPlayerByEmail(s.ctx, "other@example.com")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestCreatePlayerDuplicateEmail() {
	s.createPlayer("alice")

	dup := &model.Player{Username: "bob", Email: "alice@example.com"}
	err := s.storage.CreatePlayer(s.ctx, dup, model.NewPlayerProfile(), model.NewPlayerStatistic(), nil)
	s.ErrorIs(err, model.ErrEmailTaken)

	// The username index claimed before the conflict must be released
	_, err = s.storage.GetPlayerByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestCreatePlayerUnknownRole() {
	player := &model.Player{Username: "alice", Email: "alice@example.com"}
	err := s.storage.CreatePlayer(s.ctx, player, model.NewPlayerProfile(), model.NewPlayerStatistic(), []model.RoleID{42})
	s.ErrorIs(err, model.ErrRoleNotFound)
}

func (s *StorageSuite) TestGetPlayerByUsernameAndEmail() {
	player := s.createPlayer("alice")

	byName, err := s.storage.GetPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(player.ID, byName.ID)

	byEmail, err := s.storage.GetPlayerByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(player.ID, byEmail.ID)

	_, err = s.storage.GetPlayer(s.ctx, model.PlayerID(9999))
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestUpdatePlayer() {
	player := s.createPlayer("alice")

	player.Banned = true
	player.BanReason = "griefing"
	s.Require().NoError(s.storage.UpdatePlayer(s.ctx, player))

	got, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.True(got.Banned)
	s.Equal("griefing", got.BanReason)
}

// Refresh token rotation

func (s *StorageSuite) TestRotateRefreshToken() {
	player := s.createPlayer("alice")
	expiry := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)

	err := s.storage.RotateRefreshToken(s.ctx, player.ID, "initial-token", "next-token", expiry)
	s.Require().NoError(err)

	got, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal("next-token", got.RefreshToken)
	s.True(got.RefreshTokenExpiry.Equal(expiry))
}

func (s *StorageSuite) TestRotateRefreshTokenStaleCompare() {
	player := s.createPlayer("alice")

	err := s.storage.RotateRefreshToken(s.ctx, player.ID, "wrong-token", "next-token", time.Now())
	s.ErrorIs(err, model.ErrRefreshTokenMismatch)

	got, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal("initial-token", got.RefreshToken)
}

func (s *StorageSuite) TestRotateRefreshTokenSucceedsAtMostOncePerValue() {
	player := s.createPlayer("alice")

	err := s.storage.RotateRefreshToken(s.ctx, player.ID, "initial-token", "first", time.Now())
	s.Require().NoError(err)

	err = s.storage.RotateRefreshToken(s.ctx, player.ID, "initial-token", "second", time.Now())
	s.ErrorIs(err, model.ErrRefreshTokenMismatch)

	got, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal("first", got.RefreshToken)
}

func (s *StorageSuite) TestRotateRefreshTokenUnknownPlayer() {
	err := s.storage.RotateRefreshToken(s.ctx, model.PlayerID(9999), "a", "b", time.Now())
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Role and permission tests

func (s *StorageSuite) TestRolesAndPermissions() {
	role := s.createRole("Admin")
	s.NotZero(role.ID)

	byName, err := s.storage.GetRoleByName(s.ctx, "Admin")
	s.Require().NoError(err)
	s.Equal(role.ID, byName.ID)

	perm := s.createPermission("towers.manage")
	s.Require().NoError(s.storage.GrantPermission(s.ctx, role.ID, perm.ID))

	permIDs, err := s.storage.GetPermissionIDsForRole(s.ctx, role.ID)
	s.Require().NoError(err)
	s.Equal([]model.PermissionID{perm.ID}, permIDs)
}

func (s *StorageSuite) TestCreateRoleDuplicateName() {
	s.createRole("Admin")
	err := s.storage.CreateRole(s.ctx, &model.Role{Name: "Admin"})
	s.ErrorIs(err, model.ErrRoleExists)
}

func (s *StorageSuite) TestAssignRoleIsIdempotent() {
	role := s.createRole("Admin")
	player := s.createPlayer("alice")

	s.Require().NoError(s.storage.AssignRole(s.ctx, player.ID, role.ID))
	s.Require().NoError(s.storage.AssignRole(s.ctx, player.ID, role.ID))

	roleIDs, err := s.storage.GetRoleIDsForPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Len(roleIDs, 1)
}

// Statistic tests

func (s *StorageSuite) TestUpdateMatchStatisticsAndList() {
	alice := s.createPlayer("alice")
	bob := s.createPlayer("bob")

	winner, err := s.storage.GetStatistic(s.ctx, alice.ID)
	s.Require().NoError(err)
	loser, err := s.storage.GetStatistic(s.ctx, bob.ID)
	s.Require().NoError(err)

	winner.Rating = 1016
	winner.TotalMatches = 1
	winner.Wins = 1
	loser.Rating = 984
	loser.TotalMatches = 1
	loser.Losses = 1

	s.Require().NoError(s.storage.UpdateMatchStatistics(s.ctx, winner, loser))

	gotWinner, err := s.storage.GetStatistic(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(1016, gotWinner.Rating)

	stats, err := s.storage.ListStatistics(s.ctx)
	s.Require().NoError(err)
	s.Len(stats, 2)
}

// Profile tests

func (s *StorageSuite) TestUpdateProfile() {
	player := s.createPlayer("alice")

	profile, err := s.storage.GetProfile(s.ctx, player.ID)
	s.Require().NoError(err)
	profile.AvatarURL = "https://cdn.example.com/alice.png"
	s.Require().NoError(s.storage.UpdateProfile(s.ctx, profile))

	got, err := s.storage.GetProfile(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal("https://cdn.example.com/alice.png", got.AvatarURL)
}

// Armory tests

func (s *StorageSuite) TestTowerCatalog() {
	tower := &model.Tower{Name: "Cannon", Description: "Single-target damage"}
	s.Require().NoError(s.storage.CreateTower(s.ctx, tower))
	s.NotZero(tower.ID)

	got, err := s.storage.GetTower(s.ctx, tower.ID)
	s.Require().NoError(err)
	s.Equal("Cannon", got.Name)

	err = s.storage.CreateTower(s.ctx, &model.Tower{Name: "Cannon"})
	s.ErrorIs(err, model.ErrTowerNameTaken)

	towers, err := s.storage.ListTowers(s.ctx)
	s.Require().NoError(err)
	s.Len(towers, 1)
}

func (s *StorageSuite) TestInventoryAccumulates() {
	player := s.createPlayer("alice")
	tower := &model.Tower{Name: "Cannon"}
	s.Require().NoError(s.storage.CreateTower(s.ctx, tower))

	item := &model.InventoryItem{PlayerID: player.ID, TowerID: tower.ID, Quantity: 2}
	s.Require().NoError(s.storage.AddInventoryItem(s.ctx, item))
	item = &model.InventoryItem{PlayerID: player.ID, TowerID: tower.ID, Quantity: 3}
	s.Require().NoError(s.storage.AddInventoryItem(s.ctx, item))

	items, err := s.storage.GetInventory(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal(5, items[0].Quantity)
}

func (s *StorageSuite) TestGetInventoryEmpty() {
	player := s.createPlayer("alice")

	items, err := s.storage.GetInventory(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Empty(items)
}
