package redis

import (
	"fmt"

	"github.com/bastiongames/bastion/internal/model"
)

// Key prefix for all backend data
const keyPrefix = "bastion"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%d", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// emailIndexKey returns the Redis key for the email -> player_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// roleKey returns the Redis key for a Role
func roleKey(id model.RoleID) string {
	return fmt.Sprintf("%s:role:%d", keyPrefix, id)
}

// roleNameIndexKey returns the Redis key for the role name -> role_id index
func roleNameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:role_name:%s", keyPrefix, name)
}

// permissionKey returns the Redis key for a Permission
func permissionKey(id model.PermissionID) string {
	return fmt.Sprintf("%s:permission:%d", keyPrefix, id)
}

// permissionNameIndexKey returns the Redis key for the permission name index
func permissionNameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:permission_name:%s", keyPrefix, name)
}

// playerRolesKey returns the Redis key for the SET of a player's role ids
func playerRolesKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:player_roles:%d", keyPrefix, playerID)
}

// rolePermissionsKey returns the Redis key for the SET of a role's permission ids
func rolePermissionsKey(roleID model.RoleID) string {
	return fmt.Sprintf("%s:role_permissions:%d", keyPrefix, roleID)
}

// statisticKey returns the Redis key for a PlayerStatistic
func statisticKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:statistic:%d", keyPrefix, playerID)
}

// statisticsIndexKey returns the Redis key for the SET of player ids with statistics
func statisticsIndexKey() string {
	return fmt.Sprintf("%s:idx:statistics", keyPrefix)
}

// profileKey returns the Redis key for a PlayerProfile
func profileKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:profile:%d", keyPrefix, playerID)
}

// towerKey returns the Redis key for a Tower
func towerKey(id model.TowerID) string {
	return fmt.Sprintf("%s:tower:%d", keyPrefix, id)
}

// towerNameIndexKey returns the Redis key for the tower name index
func towerNameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:tower_name:%s", keyPrefix, name)
}

// towersIndexKey returns the Redis key for the SET of tower ids
func towersIndexKey() string {
	return fmt.Sprintf("%s:idx:towers", keyPrefix)
}

// inventoryKey returns the Redis key for a player's inventory HASH
// (field = tower id, value = quantity)
func inventoryKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:inventory:%d", keyPrefix, playerID)
}

// sequenceKey returns the Redis key for an id sequence counter
func sequenceKey(name string) string {
	return fmt.Sprintf("%s:seq:%s", keyPrefix, name)
}
