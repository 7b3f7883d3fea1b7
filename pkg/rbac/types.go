package rbac

import (
	"time"

	"github.com/google/uuid"
)

// MaxRoleNameLength caps role names for storage and display.
const MaxRoleNameLength = 100

// Permission is immutable reference data: a named grant scoped by resource
// and action. An empty Resource or Action acts as a wildcard for that
// dimension.
type Permission struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Resource string    `json:"resource,omitempty"`
	Action   string    `json:"action,omitempty"`
}

// Matches reports whether this permission grants the given resource/action
// pair. Comparison is exact and case-sensitive; an unset dimension matches
// anything.
func (p Permission) Matches(resource, action string) bool {
	if p.Resource != "" && p.Resource != resource {
		return false
	}
	if p.Action != "" && p.Action != action {
		return false
	}
	return true
}

// Role groups permissions under a unique name. Permissions are referenced by
// id, never embedded: their lifetime is governed by the registry, not by the
// roles or users pointing at them.
type Role struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// RoleUpdate describes a partial role update. Nil fields are left untouched.
// A non-nil PermissionIDs fully replaces the role's permission list; an
// empty slice clears it.
type RoleUpdate struct {
	Description   *string
	PermissionIDs []uuid.UUID
}
