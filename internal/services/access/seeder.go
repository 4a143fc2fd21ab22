package access

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/bastiongames/bastion/internal/model"
	"github.com/bastiongames/bastion/internal/storage"
)

// AdminRoleName is the role granted to the bootstrap administrator
const AdminRoleName = "Admin"

// DefaultRoleName is the role assigned to every new player
const DefaultRoleName = "Player"

// RoleGrant describes one role and the permissions it carries
type RoleGrant struct {
	Role        string
	Permissions []string
}

// DefaultRoleGrants returns the built-in role to permission mapping
func DefaultRoleGrants() []RoleGrant {
	return []RoleGrant{
		{
			Role:        DefaultRoleName,
			Permissions: []string{"match.report"},
		},
		{
			Role:        AdminRoleName,
			Permissions: []string{"match.report", "towers.manage", "players.ban"},
		},
	}
}

// AdminConfig describes the bootstrap administrator account. An empty
// username disables admin seeding.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// Seeder populates storage with roles, permissions and the bootstrap
// administrator at startup. All operations are idempotent so the server
// can seed on every boot.
type Seeder struct {
	store  storage.Storage
	logger *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(store storage.Storage, logger *slog.Logger) *Seeder {
	return &Seeder{store: store, logger: logger}
}

// Seed ensures every role and permission in grants exists and that each
// role carries its listed permissions
func (s *Seeder) Seed(ctx context.Context, grants []RoleGrant) error {
	for _, grant := range grants {
		roleID, err := s.ensureRole(ctx, grant.Role)
		if err != nil {
			return err
		}
		for _, permName := range grant.Permissions {
			permID, err := s.ensurePermission(ctx, permName)
			if err != nil {
				return err
			}
			if err := s.store.GrantPermission(ctx, roleID, permID); err != nil {
				return err
			}
		}
	}
	return nil
}

// SeedAdmin creates the bootstrap administrator if no player with the
// configured username exists yet. The administrator gets both the admin
// role and the default player role.
func (s *Seeder) SeedAdmin(ctx context.Context, admin AdminConfig) error {
	if admin.Username == "" {
		return nil
	}

	_, err := s.store.GetPlayerByUsername(ctx, admin.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return err
	}

	adminRole, err := s.store.GetRoleByName(ctx, AdminRoleName)
	if err != nil {
		return err
	}
	playerRole, err := s.store.GetRoleByName(ctx, DefaultRoleName)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	player := &model.Player{
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: string(hash),
	}
	err = s.store.CreatePlayer(ctx, player,
		model.NewPlayerProfile(),
		model.NewPlayerStatistic(),
		[]model.RoleID{adminRole.ID, playerRole.ID})
	if err != nil {
		return err
	}

	s.logger.Info("seeded bootstrap administrator",
		slog.Int64("player_id", int64(player.ID)),
		slog.String("username", player.Username))
	return nil
}

func (s *Seeder) ensureRole(ctx context.Context, name string) (model.RoleID, error) {
	role, err := s.store.GetRoleByName(ctx, name)
	if err == nil {
		return role.ID, nil
	}
	if !errors.Is(err, model.ErrRoleNotFound) {
		return 0, err
	}
	created := &model.Role{Name: name}
	if err := s.store.CreateRole(ctx, created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (s *Seeder) ensurePermission(ctx context.Context, name string) (model.PermissionID, error) {
	perm, err := s.store.GetPermissionByName(ctx, name)
	if err == nil {
		return perm.ID, nil
	}
	if !errors.Is(err, model.ErrPermissionNotFound) {
		return 0, err
	}
	created := &model.Permission{Name: name}
	if err := s.store.CreatePermission(ctx, created); err != nil {
		return 0, err
	}
	return created.ID, nil
}
