package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bastiongames/bastion/internal/model"
	"github.com/bastiongames/bastion/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// nextID allocates a new id from the named sequence
func (s *Storage) nextID(ctx context.Context, sequence string) (int64, error) {
	return s.client.Incr(ctx, sequenceKey(sequence)).Result()
}

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player, profile *model.PlayerProfile, stat *model.PlayerStatistic, roleIDs []model.RoleID) error {
	for _, roleID := range roleIDs {
		if err := s.client.Get(ctx, roleKey(roleID)).Err(); err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrRoleNotFound
			}
			return err
		}
	}

	id, err := s.nextID(ctx, "player")
	if err != nil {
		return err
	}

	// Claim the uniqueness indexes first; exactly one concurrent caller wins
	// each SETNX, so a registration race surfaces as a conflict to the loser.
	ok, err := s.client.SetNX(ctx, usernameIndexKey(player.Username), id, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrUsernameTaken
	}

	ok, err = s.client.SetNX(ctx, emailIndexKey(player.Email), id, 0).Result()
	if err != nil {
		s.client.Del(ctx, usernameIndexKey(player.Username))
		return err
	}
	if !ok {
		s.client.Del(ctx, usernameIndexKey(player.Username))
		return model.ErrEmailTaken
	}

	player.ID = model.PlayerID(id)
	profile.PlayerID = player.ID
	stat.PlayerID = player.ID

	playerData, err := json.Marshal(player)
	if err != nil {
		return err
	}
	profileData, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	statData, err := json.Marshal(stat)
	if err != nil {
		return err
	}

	// Write the whole unit in one pipeline
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, playerKey(player.ID), playerData, 0)
	pipe.Set(ctx, profileKey(player.ID), profileData, 0)
	pipe.Set(ctx, statisticKey(player.ID), statData, 0)
	pipe.SAdd(ctx, statisticsIndexKey(), id)
	for _, roleID := range roleIDs {
		pipe.SAdd(ctx, playerRolesKey(player.ID), int64(roleID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.client.Del(ctx, usernameIndexKey(player.Username), emailIndexKey(player.Email))
		return err
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.getPlayerByKey(ctx, playerKey(id))
}

func (s *Storage) getPlayerByKey(ctx context.Context, key string) (*model.Player, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	return s.getPlayerByIndex(ctx, usernameIndexKey(username))
}

func (s *Storage) GetPlayerByEmail(ctx context.Context, email string) (*model.Player, error) {
	return s.getPlayerByIndex(ctx, emailIndexKey(email))
}

func (s *Storage) getPlayerByIndex(ctx context.Context, indexKey string) (*model.Player, error) {
	idStr, err := s.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, err
	}
	return s.GetPlayer(ctx, model.PlayerID(id))
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player) error {
	if err := s.client.Get(ctx, playerKey(player.ID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ErrPlayerNotFound
		}
		return err
	}
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, playerKey(player.ID), data, 0).Err()
}

func (s *Storage) RotateRefreshToken(ctx context.Context, id model.PlayerID, previous, next string, expiry time.Time) error {
	key := playerKey(id)

	// Optimistic check-then-set: WATCH aborts the transaction if the player
	// record changes between the compare and the write, so two concurrent
	// rotations cannot both succeed against the same stored token.
	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPlayerNotFound
			}
			return err
		}

		var player model.Player
		if err := json.Unmarshal(data, &player); err != nil {
			return err
		}
		if player.RefreshToken != previous {
			return model.ErrRefreshTokenMismatch
		}

		player.RefreshToken = next
		player.RefreshTokenExpiry = expiry

		updated, err := json.Marshal(&player)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txn, key)
	if errors.Is(err, redis.TxFailedErr) {
		// Lost the race; the stored token is no longer the one we compared
		return model.ErrRefreshTokenMismatch
	}
	return err
}

// Role and permission operations

func (s *Storage) CreateRole(ctx context.Context, role *model.Role) error {
	id, err := s.nextID(ctx, "role")
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, roleNameIndexKey(role.Name), id, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrRoleExists
	}

	role.ID = model.RoleID(id)
	data, err := json.Marshal(role)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, roleKey(role.ID), data, 0).Err()
}

func (s *Storage) GetRole(ctx context.Context, id model.RoleID) (*model.Role, error) {
	data, err := s.client.Get(ctx, roleKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoleNotFound
		}
		return nil, err
	}
	var role model.Role
	if err := json.Unmarshal(data, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *Storage) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	idStr, err := s.client.Get(ctx, roleNameIndexKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoleNotFound
		}
		return nil, err
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, err
	}
	return s.GetRole(ctx, model.RoleID(id))
}

func (s *Storage) CreatePermission(ctx context.Context, permission *model.Permission) error {
	id, err := s.nextID(ctx, "permission")
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, permissionNameIndexKey(permission.Name), id, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrPermissionExists
	}

	permission.ID = model.PermissionID(id)
	data, err := json.Marshal(permission)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, permissionKey(permission.ID), data, 0).Err()
}

func (s *Storage) GetPermission(ctx context.Context, id model.PermissionID) (*model.Permission, error) {
	data, err := s.client.Get(ctx, permissionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPermissionNotFound
		}
		return nil, err
	}
	var permission model.Permission
	if err := json.Unmarshal(data, &permission); err != nil {
		return nil, err
	}
	return &permission, nil
}

func (s *Storage) GetPermissionByName(ctx context.Context, name string) (*model.Permission, error) {
	idStr, err := s.client.Get(ctx, permissionNameIndexKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPermissionNotFound
		}
		return nil, err
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, err
	}
	return s.GetPermission(ctx, model.PermissionID(id))
}

func (s *Storage) AssignRole(ctx context.Context, playerID model.PlayerID, roleID model.RoleID) error {
	if err := s.client.Get(ctx, playerKey(playerID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ErrPlayerNotFound
		}
		return err
	}
	if err := s.client.Get(ctx, roleKey(roleID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ErrRoleNotFound
		}
		return err
	}
	return s.client.SAdd(ctx, playerRolesKey(playerID), int64(roleID)).Err()
}

func (s *Storage) GrantPermission(ctx context.Context, roleID model.RoleID, permissionID model.PermissionID) error {
	if err := s.client.Get(ctx, roleKey(roleID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ErrRoleNotFound
		}
		return err
	}
	if err := s.client.Get(ctx, permissionKey(permissionID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ErrPermissionNotFound
		}
		return err
	}
	return s.client.SAdd(ctx, rolePermissionsKey(roleID), int64(permissionID)).Err()
}

func (s *Storage) GetRoleIDsForPlayer(ctx context.Context, playerID model.PlayerID) ([]model.RoleID, error) {
	members, err := s.client.SMembers(ctx, playerRolesKey(playerID)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]model.RoleID, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, model.RoleID(id))
	}
	return ids, nil
}

func (s *Storage) GetPermissionIDsForRole(ctx context.Context, roleID model.RoleID) ([]model.PermissionID, error) {
	members, err := s.client.SMembers(ctx, rolePermissionsKey(roleID)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]model.PermissionID, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, model.PermissionID(id))
	}
	return ids, nil
}

// Statistic operations

func (s *Storage) GetStatistic(ctx context.Context, playerID model.PlayerID) (*model.PlayerStatistic, error) {
	data, err := s.client.Get(ctx, statisticKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrStatisticNotFound
		}
		return nil, err
	}
	var stat model.PlayerStatistic
	if err := json.Unmarshal(data, &stat); err != nil {
		return nil, err
	}
	return &stat, nil
}

func (s *Storage) UpdateMatchStatistics(ctx context.Context, winner, loser *model.PlayerStatistic) error {
	winnerData, err := json.Marshal(winner)
	if err != nil {
		return err
	}
	loserData, err := json.Marshal(loser)
	if err != nil {
		return err
	}

	// Both records land in one MULTI/EXEC so a reader never observes only
	// half of a match result.
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, statisticKey(winner.PlayerID), winnerData, 0)
	pipe.Set(ctx, statisticKey(loser.PlayerID), loserData, 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListStatistics(ctx context.Context) ([]*model.PlayerStatistic, error) {
	members, err := s.client.SMembers(ctx, statisticsIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	result := make([]*model.PlayerStatistic, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, err
		}
		stat, err := s.GetStatistic(ctx, model.PlayerID(id))
		if err != nil {
			return nil, err
		}
		result = append(result, stat)
	}
	return result, nil
}

// Profile operations

func (s *Storage) GetProfile(ctx context.Context, playerID model.PlayerID) (*model.PlayerProfile, error) {
	data, err := s.client.Get(ctx, profileKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}
	var profile model.PlayerProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Storage) UpdateProfile(ctx context.Context, profile *model.PlayerProfile) error {
	if err := s.client.Get(ctx, profileKey(profile.PlayerID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ErrProfileNotFound
		}
		return err
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, profileKey(profile.PlayerID), data, 0).Err()
}

// Armory operations

func (s *Storage) CreateTower(ctx context.Context, tower *model.Tower) error {
	id, err := s.nextID(ctx, "tower")
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, towerNameIndexKey(tower.Name), id, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrTowerNameTaken
	}

	tower.ID = model.TowerID(id)
	data, err := json.Marshal(tower)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, towerKey(tower.ID), data, 0)
	pipe.SAdd(ctx, towersIndexKey(), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetTower(ctx context.Context, id model.TowerID) (*model.Tower, error) {
	data, err := s.client.Get(ctx, towerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTowerNotFound
		}
		return nil, err
	}
	var tower model.Tower
	if err := json.Unmarshal(data, &tower); err != nil {
		return nil, err
	}
	return &tower, nil
}

func (s *Storage) ListTowers(ctx context.Context) ([]*model.Tower, error) {
	members, err := s.client.SMembers(ctx, towersIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	result := make([]*model.Tower, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, err
		}
		tower, err := s.GetTower(ctx, model.TowerID(id))
		if err != nil {
			return nil, err
		}
		result = append(result, tower)
	}
	return result, nil
}

func (s *Storage) GetInventory(ctx context.Context, playerID model.PlayerID) ([]*model.InventoryItem, error) {
	fields, err := s.client.HGetAll(ctx, inventoryKey(playerID)).Result()
	if err != nil {
		return nil, err
	}
	var result []*model.InventoryItem
	for towerIDStr, quantityStr := range fields {
		towerID, err := strconv.ParseInt(towerIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		quantity, err := strconv.Atoi(quantityStr)
		if err != nil {
			return nil, err
		}
		result = append(result, &model.InventoryItem{
			PlayerID: playerID,
			TowerID:  model.TowerID(towerID),
			Quantity: quantity,
		})
	}
	return result, nil
}

func (s *Storage) AddInventoryItem(ctx context.Context, item *model.InventoryItem) error {
	if err := s.client.Get(ctx, playerKey(item.PlayerID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ErrPlayerNotFound
		}
		return err
	}
	if err := s.client.Get(ctx, towerKey(item.TowerID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ErrTowerNotFound
		}
		return err
	}
	// HINCRBY both creates and accumulates the stack
	return s.client.HIncrBy(ctx, inventoryKey(item.PlayerID), strconv.FormatInt(int64(item.TowerID), 10), int64(item.Quantity)).Err()
}
