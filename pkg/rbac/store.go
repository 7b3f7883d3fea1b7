package rbac

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence contract for roles, permissions, and user-role
// assignments. Implementations must be safe under concurrent access and keep
// reads consistent within a single call.
//
// Referential integrity is part of the contract: DeletePermission removes the
// permission id from every role holding it, and DeleteRole removes the role
// from every user's assignments. Unique role names are enforced with
// ErrRoleNameTaken.
type Store interface {
	CreateRole(ctx context.Context, role Role) error
	UpdateRole(ctx context.Context, role Role) error
	DeleteRole(ctx context.Context, id uuid.UUID) error
	Role(ctx context.Context, id uuid.UUID) (Role, error)
	Roles(ctx context.Context) ([]Role, error)

	CreatePermission(ctx context.Context, permission Permission) error
	DeletePermission(ctx context.Context, id uuid.UUID) error
	Permission(ctx context.Context, id uuid.UUID) (Permission, error)
	Permissions(ctx context.Context) ([]Permission, error)

	// ReplaceUserRoles overwrites the user's role set; an empty set removes
	// all assignments.
	ReplaceUserRoles(ctx context.Context, userID string, roleIDs []uuid.UUID) error
	UserRoles(ctx context.Context, userID string) ([]uuid.UUID, error)
}
