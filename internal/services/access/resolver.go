package access

import (
	"context"
	"sort"

	"github.com/bastiongames/bastion/internal/model"
	"github.com/bastiongames/bastion/internal/storage"
)

// Resolver computes the effective roles and permissions of a player from
// the role assignments and grants in storage
type Resolver struct {
	store storage.Storage
}

// NewResolver creates a new permission resolver
func NewResolver(store storage.Storage) *Resolver {
	return &Resolver{store: store}
}

// ResolvePermissions returns the player's role names and the deduplicated
// union of the permissions granted to those roles. Both lists are sorted.
func (r *Resolver) ResolvePermissions(ctx context.Context, playerID model.PlayerID) (*model.PermissionSnapshot, error) {
	roleIDs, err := r.store.GetRoleIDsForPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	roleNames := make([]string, 0, len(roleIDs))
	permSet := make(map[string]struct{})
	for _, roleID := range roleIDs {
		role, err := r.store.GetRole(ctx, roleID)
		if err != nil {
			return nil, err
		}
		roleNames = append(roleNames, role.Name)

		permIDs, err := r.store.GetPermissionIDsForRole(ctx, roleID)
		if err != nil {
			return nil, err
		}
		for _, permID := range permIDs {
			perm, err := r.store.GetPermission(ctx, permID)
			if err != nil {
				return nil, err
			}
			permSet[perm.Name] = struct{}{}
		}
	}

	permNames := make([]string, 0, len(permSet))
	for name := range permSet {
		permNames = append(permNames, name)
	}
	sort.Strings(roleNames)
	sort.Strings(permNames)

	return &model.PermissionSnapshot{
		Roles:       roleNames,
		Permissions: permNames,
	}, nil
}
