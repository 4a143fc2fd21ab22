package storage

import (
	"context"
	"time"

	"github.com/bastiongames/bastion/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations.
	// CreatePlayer assigns the player's id and persists the player together
	// with its profile, statistic and role assignments as one atomic unit;
	// username/email uniqueness violations fail the whole unit.
	CreatePlayer(ctx context.Context, player *model.Player, profile *model.PlayerProfile, stat *model.PlayerStatistic, roleIDs []model.RoleID) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error)
	GetPlayerByEmail(ctx context.Context, email string) (*model.Player, error)
	UpdatePlayer(ctx context.Context, player *model.Player) error

	// RotateRefreshToken replaces the player's stored refresh token with next,
	// but only if the stored value still equals previous. A stale compare
	// returns model.ErrRefreshTokenMismatch and leaves the stored token
	// untouched; concurrent rotations for the same player serialize so at
	// most one succeeds per stored value.
	RotateRefreshToken(ctx context.Context, id model.PlayerID, previous, next string, expiry time.Time) error

	// Role and permission operations
	CreateRole(ctx context.Context, role *model.Role) error
	GetRole(ctx context.Context, id model.RoleID) (*model.Role, error)
	GetRoleByName(ctx context.Context, name string) (*model.Role, error)
	CreatePermission(ctx context.Context, permission *model.Permission) error
	GetPermission(ctx context.Context, id model.PermissionID) (*model.Permission, error)
	GetPermissionByName(ctx context.Context, name string) (*model.Permission, error)
	AssignRole(ctx context.Context, playerID model.PlayerID, roleID model.RoleID) error
	GrantPermission(ctx context.Context, roleID model.RoleID, permissionID model.PermissionID) error
	GetRoleIDsForPlayer(ctx context.Context, playerID model.PlayerID) ([]model.RoleID, error)
	GetPermissionIDsForRole(ctx context.Context, roleID model.RoleID) ([]model.PermissionID, error)

	// Statistic operations
	GetStatistic(ctx context.Context, playerID model.PlayerID) (*model.PlayerStatistic, error)
	// UpdateMatchStatistics writes both participants' records atomically;
	// partial application is a correctness violation.
	UpdateMatchStatistics(ctx context.Context, winner, loser *model.PlayerStatistic) error
	ListStatistics(ctx context.Context) ([]*model.PlayerStatistic, error)

	// Profile operations
	GetProfile(ctx context.Context, playerID model.PlayerID) (*model.PlayerProfile, error)
	UpdateProfile(ctx context.Context, profile *model.PlayerProfile) error

	// Armory operations
	CreateTower(ctx context.Context, tower *model.Tower) error
	GetTower(ctx context.Context, id model.TowerID) (*model.Tower, error)
	ListTowers(ctx context.Context) ([]*model.Tower, error)
	GetInventory(ctx context.Context, playerID model.PlayerID) ([]*model.InventoryItem, error)
	// AddInventoryItem accumulates quantity when the player already owns the tower
	AddInventoryItem(ctx context.Context, item *model.InventoryItem) error
}
