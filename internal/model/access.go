package model

// RoleID uniquely identifies a role
type RoleID int64

// PermissionID uniquely identifies a permission
type PermissionID int64

// Role is a named group of permissions that can be assigned to players
type Role struct {
	ID   RoleID
	Name string // unique
}

// Permission is a named capability granted through roles
type Permission struct {
	ID   PermissionID
	Name string // unique
}

// PermissionSnapshot is the resolved role/permission state of a player at a
// point in time. Tokens embed a snapshot; later assignment changes do not
// take effect until the next login or refresh.
type PermissionSnapshot struct {
	Roles       []string
	Permissions []string
}

// HasPermission reports whether the snapshot grants the named permission
func (s *PermissionSnapshot) HasPermission(name string) bool {
	for _, p := range s.Permissions {
		if p == name {
			return true
		}
	}
	return false
}
