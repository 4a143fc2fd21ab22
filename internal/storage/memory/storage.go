package memory

import (
	"context"
	"sync"
	"time"

	"github.com/bastiongames/bastion/internal/model"
	"github.com/bastiongames/bastion/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players       map[model.PlayerID]*model.Player
	usernameIndex map[string]model.PlayerID
	emailIndex    map[string]model.PlayerID

	roles           map[model.RoleID]*model.Role
	roleNameIndex   map[string]model.RoleID
	permissions     map[model.PermissionID]*model.Permission
	permNameIndex   map[string]model.PermissionID
	playerRoles     map[model.PlayerID][]model.RoleID
	rolePermissions map[model.RoleID][]model.PermissionID

	statistics map[model.PlayerID]*model.PlayerStatistic
	profiles   map[model.PlayerID]*model.PlayerProfile

	towers         map[model.TowerID]*model.Tower
	towerNameIndex map[string]model.TowerID
	inventories    map[inventoryKey]*model.InventoryItem

	nextPlayerID     int64
	nextRoleID       int64
	nextPermissionID int64
	nextTowerID      int64
}

type inventoryKey struct {
	playerID model.PlayerID
	towerID  model.TowerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:         make(map[model.PlayerID]*model.Player),
		usernameIndex:   make(map[string]model.PlayerID),
		emailIndex:      make(map[string]model.PlayerID),
		roles:           make(map[model.RoleID]*model.Role),
		roleNameIndex:   make(map[string]model.RoleID),
		permissions:     make(map[model.PermissionID]*model.Permission),
		permNameIndex:   make(map[string]model.PermissionID),
		playerRoles:     make(map[model.PlayerID][]model.RoleID),
		rolePermissions: make(map[model.RoleID][]model.PermissionID),
		statistics:      make(map[model.PlayerID]*model.PlayerStatistic),
		profiles:        make(map[model.PlayerID]*model.PlayerProfile),
		towers:          make(map[model.TowerID]*model.Tower),
		towerNameIndex:  make(map[string]model.TowerID),
		inventories:     make(map[inventoryKey]*model.InventoryItem),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player, profile *model.PlayerProfile, stat *model.PlayerStatistic, roleIDs []model.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usernameIndex[player.Username]; ok {
		return model.ErrUsernameTaken
	}
	if _, ok := s.emailIndex[player.Email]; ok {
		return model.ErrEmailTaken
	}
	for _, roleID := range roleIDs {
		if _, ok := s.roles[roleID]; !ok {
			return model.ErrRoleNotFound
		}
	}

	s.nextPlayerID++
	player.ID = model.PlayerID(s.nextPlayerID)
	profile.PlayerID = player.ID
	stat.PlayerID = player.ID

	p := *player
	s.players[player.ID] = &p
	s.usernameIndex[player.Username] = player.ID
	s.emailIndex[player.Email] = player.ID

	pr := *profile
	s.profiles[player.ID] = &pr
	st := *stat
	s.statistics[player.ID] = &st
	s.playerRoles[player.ID] = append([]model.RoleID(nil), roleIDs...)

	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *s.players[id]
	return &p, nil
}

func (s *Storage) GetPlayerByEmail(ctx context.Context, email string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *s.players[id]
	return &p, nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[player.ID]; !ok {
		return model.ErrPlayerNotFound
	}
	p := *player
	s.players[player.ID] = &p
	return nil
}

func (s *Storage) RotateRefreshToken(ctx context.Context, id model.PlayerID, previous, next string, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return model.ErrPlayerNotFound
	}
	if player.RefreshToken != previous {
		return model.ErrRefreshTokenMismatch
	}
	player.RefreshToken = next
	player.RefreshTokenExpiry = expiry
	return nil
}

// Role and permission operations

func (s *Storage) CreateRole(ctx context.Context, role *model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roleNameIndex[role.Name]; ok {
		return model.ErrRoleExists
	}
	s.nextRoleID++
	role.ID = model.RoleID(s.nextRoleID)
	r := *role
	s.roles[role.ID] = &r
	s.roleNameIndex[role.Name] = role.ID
	return nil
}

func (s *Storage) GetRole(ctx context.Context, id model.RoleID) (*model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.roles[id]
	if !ok {
		return nil, model.ErrRoleNotFound
	}
	r := *role
	return &r, nil
}

func (s *Storage) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.roleNameIndex[name]
	if !ok {
		return nil, model.ErrRoleNotFound
	}
	r := *s.roles[id]
	return &r, nil
}

func (s *Storage) CreatePermission(ctx context.Context, permission *model.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.permNameIndex[permission.Name]; ok {
		return model.ErrPermissionExists
	}
	s.nextPermissionID++
	permission.ID = model.PermissionID(s.nextPermissionID)
	p := *permission
	s.permissions[permission.ID] = &p
	s.permNameIndex[permission.Name] = permission.ID
	return nil
}

func (s *Storage) GetPermission(ctx context.Context, id model.PermissionID) (*model.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	permission, ok := s.permissions[id]
	if !ok {
		return nil, model.ErrPermissionNotFound
	}
	p := *permission
	return &p, nil
}

func (s *Storage) GetPermissionByName(ctx context.Context, name string) (*model.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.permNameIndex[name]
	if !ok {
		return nil, model.ErrPermissionNotFound
	}
	p := *s.permissions[id]
	return &p, nil
}

func (s *Storage) AssignRole(ctx context.Context, playerID model.PlayerID, roleID model.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[playerID]; !ok {
		return model.ErrPlayerNotFound
	}
	if _, ok := s.roles[roleID]; !ok {
		return model.ErrRoleNotFound
	}
	for _, existing := range s.playerRoles[playerID] {
		if existing == roleID {
			return nil
		}
	}
	s.playerRoles[playerID] = append(s.playerRoles[playerID], roleID)
	return nil
}

func (s *Storage) GrantPermission(ctx context.Context, roleID model.RoleID, permissionID model.PermissionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[roleID]; !ok {
		return model.ErrRoleNotFound
	}
	if _, ok := s.permissions[permissionID]; !ok {
		return model.ErrPermissionNotFound
	}
	for _, existing := range s.rolePermissions[roleID] {
		if existing == permissionID {
			return nil
		}
	}
	s.rolePermissions[roleID] = append(s.rolePermissions[roleID], permissionID)
	return nil
}

func (s *Storage) GetRoleIDsForPlayer(ctx context.Context, playerID model.PlayerID) ([]model.RoleID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.RoleID(nil), s.playerRoles[playerID]...), nil
}

func (s *Storage) GetPermissionIDsForRole(ctx context.Context, roleID model.RoleID) ([]model.PermissionID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.PermissionID(nil), s.rolePermissions[roleID]...), nil
}

// Statistic operations

func (s *Storage) GetStatistic(ctx context.Context, playerID model.PlayerID) (*model.PlayerStatistic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stat, ok := s.statistics[playerID]
	if !ok {
		return nil, model.ErrStatisticNotFound
	}
	st := *stat
	return &st, nil
}

func (s *Storage) UpdateMatchStatistics(ctx context.Context, winner, loser *model.PlayerStatistic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.statistics[winner.PlayerID]; !ok {
		return model.ErrStatisticNotFound
	}
	if _, ok := s.statistics[loser.PlayerID]; !ok {
		return model.ErrStatisticNotFound
	}
	w := *winner
	l := *loser
	s.statistics[winner.PlayerID] = &w
	s.statistics[loser.PlayerID] = &l
	return nil
}

func (s *Storage) ListStatistics(ctx context.Context) ([]*model.PlayerStatistic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.PlayerStatistic, 0, len(s.statistics))
	for _, stat := range s.statistics {
		st := *stat
		result = append(result, &st)
	}
	return result, nil
}

// Profile operations

func (s *Storage) GetProfile(ctx context.Context, playerID model.PlayerID) (*model.PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[playerID]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	p := *profile
	return &p, nil
}

func (s *Storage) UpdateProfile(ctx context.Context, profile *model.PlayerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.PlayerID]; !ok {
		return model.ErrProfileNotFound
	}
	p := *profile
	s.profiles[profile.PlayerID] = &p
	return nil
}

// Armory operations

func (s *Storage) CreateTower(ctx context.Context, tower *model.Tower) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.towerNameIndex[tower.Name]; ok {
		return model.ErrTowerNameTaken
	}
	s.nextTowerID++
	tower.ID = model.TowerID(s.nextTowerID)
	t := *tower
	s.towers[tower.ID] = &t
	s.towerNameIndex[tower.Name] = tower.ID
	return nil
}

func (s *Storage) GetTower(ctx context.Context, id model.TowerID) (*model.Tower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tower, ok := s.towers[id]
	if !ok {
		return nil, model.ErrTowerNotFound
	}
	t := *tower
	return &t, nil
}

func (s *Storage) ListTowers(ctx context.Context) ([]*model.Tower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Tower, 0, len(s.towers))
	for _, tower := range s.towers {
		t := *tower
		result = append(result, &t)
	}
	return result, nil
}

func (s *Storage) GetInventory(ctx context.Context, playerID model.PlayerID) ([]*model.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.InventoryItem
	for key, item := range s.inventories {
		if key.playerID == playerID {
			it := *item
			result = append(result, &it)
		}
	}
	return result, nil
}

func (s *Storage) AddInventoryItem(ctx context.Context, item *model.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[item.PlayerID]; !ok {
		return model.ErrPlayerNotFound
	}
	if _, ok := s.towers[item.TowerID]; !ok {
		return model.ErrTowerNotFound
	}
	key := inventoryKey{playerID: item.PlayerID, towerID: item.TowerID}
	if existing, ok := s.inventories[key]; ok {
		existing.Quantity += item.Quantity
		return nil
	}
	it := *item
	s.inventories[key] = &it
	return nil
}
