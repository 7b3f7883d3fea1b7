package rbac

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Resolver computes effective permissions by unioning grants across roles.
// It reads straight from the Store on every call, so it always observes the
// latest role and assignment state.
type Resolver struct {
	store Store
}

// NewResolver creates a Resolver over the given store.
// Panics if store is nil.
func NewResolver(store Store) *Resolver {
	if store == nil {
		panic("rbac: store is required")
	}
	return &Resolver{store: store}
}

// EffectivePermissions returns the deduplicated union of permissions granted
// by the given roles. Unknown role ids are skipped; permission ids that no
// longer resolve are skipped as well.
func (r *Resolver) EffectivePermissions(ctx context.Context, roleIDs []uuid.UUID) ([]Permission, error) {
	seen := make(map[uuid.UUID]struct{})
	var permissions []Permission

	for _, roleID := range roleIDs {
		role, err := r.store.Role(ctx, roleID)
		if err != nil {
			if errors.Is(err, ErrRoleNotFound) {
				continue
			}
			return nil, err
		}
		for _, permID := range role.PermissionIDs {
			if _, ok := seen[permID]; ok {
				continue
			}
			perm, err := r.store.Permission(ctx, permID)
			if err != nil {
				if errors.Is(err, ErrPermissionNotFound) {
					continue
				}
				return nil, err
			}
			seen[permID] = struct{}{}
			permissions = append(permissions, perm)
		}
	}
	return permissions, nil
}

// HasPermission reports whether any of the given roles grants the
// resource/action pair. Matching is exact and case-sensitive; wildcard
// permissions match per Permission.Matches.
func (r *Resolver) HasPermission(ctx context.Context, roleIDs []uuid.UUID, resource, action string) (bool, error) {
	permissions, err := r.EffectivePermissions(ctx, roleIDs)
	if err != nil {
		return false, err
	}
	for _, perm := range permissions {
		if perm.Matches(resource, action) {
			return true, nil
		}
	}
	return false, nil
}

// UserPermissions returns the effective permissions for a user's assigned
// roles.
func (r *Resolver) UserPermissions(ctx context.Context, userID string) ([]Permission, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidUserID
	}
	roleIDs, err := r.store.UserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.EffectivePermissions(ctx, roleIDs)
}

// UserHasPermission reports whether the user's assigned roles grant the
// resource/action pair. A user with no assignments has no permissions.
func (r *Resolver) UserHasPermission(ctx context.Context, userID string, resource, action string) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, ErrInvalidUserID
	}
	roleIDs, err := r.store.UserRoles(ctx, userID)
	if err != nil {
		return false, err
	}
	return r.HasPermission(ctx, roleIDs, resource, action)
}
