package rbac

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Registry manages role and permission records and user-role assignments.
// It validates input and enforces referential rules before delegating to the
// underlying Store.
type Registry struct {
	store Store
	now   func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryClock overrides the registry's time source for timestamps.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates a Registry backed by the given store.
// Panics if store is nil.
func NewRegistry(store Store, opts ...RegistryOption) *Registry {
	if store == nil {
		panic("rbac: store is required")
	}
	r := &Registry{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the underlying store, e.g. for constructing a Resolver over
// the same data.
func (r *Registry) Store() Store {
	return r.store
}

func validateRoleName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidRoleName
	}
	if len(name) > MaxRoleNameLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidRoleName, MaxRoleNameLength)
	}
	return nil
}

// verifyPermissionsExist rejects references to unknown permission ids so a
// role can never be created or updated with dangling grants.
func (r *Registry) verifyPermissionsExist(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if _, err := r.store.Permission(ctx, id); err != nil {
			if errors.Is(err, ErrPermissionNotFound) {
				return fmt.Errorf("%w: %s", ErrPermissionNotFound, id)
			}
			return err
		}
	}
	return nil
}

// CreateRole creates a role with the given name, description, and permission
// set. Returns ErrRoleNameTaken if the name is already in use and
// ErrPermissionNotFound if any referenced permission does not exist.
func (r *Registry) CreateRole(ctx context.Context, name, description string, permissionIDs []uuid.UUID) (Role, error) {
	if err := validateRoleName(name); err != nil {
		return Role{}, err
	}
	if err := r.verifyPermissionsExist(ctx, permissionIDs); err != nil {
		return Role{}, err
	}

	now := r.now()
	role := Role{
		ID:            uuid.New(),
		Name:          name,
		Description:   description,
		PermissionIDs: slices.Clone(permissionIDs),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.store.CreateRole(ctx, role); err != nil {
		return Role{}, err
	}
	return role, nil
}

// UpdateRole applies a partial update to an existing role. A non-nil
// PermissionIDs in the update replaces the role's permission list entirely;
// nil leaves it untouched.
func (r *Registry) UpdateRole(ctx context.Context, id uuid.UUID, update RoleUpdate) (Role, error) {
	role, err := r.store.Role(ctx, id)
	if err != nil {
		return Role{}, err
	}

	if update.Description != nil {
		role.Description = *update.Description
	}
	if update.PermissionIDs != nil {
		if err := r.verifyPermissionsExist(ctx, update.PermissionIDs); err != nil {
			return Role{}, err
		}
		role.PermissionIDs = slices.Clone(update.PermissionIDs)
	}
	role.UpdatedAt = r.now()

	if err := r.store.UpdateRole(ctx, role); err != nil {
		return Role{}, err
	}
	return role, nil
}

// DeleteRole removes a role and all user assignments referencing it.
func (r *Registry) DeleteRole(ctx context.Context, id uuid.UUID) error {
	return r.store.DeleteRole(ctx, id)
}

// Role fetches a single role by id.
func (r *Registry) Role(ctx context.Context, id uuid.UUID) (Role, error) {
	return r.store.Role(ctx, id)
}

// Roles lists all roles sorted by name.
func (r *Registry) Roles(ctx context.Context) ([]Role, error) {
	return r.store.Roles(ctx)
}

// CreatePermission creates a permission. Empty resource or action makes the
// permission a wildcard on that dimension.
func (r *Registry) CreatePermission(ctx context.Context, name, resource, action string) (Permission, error) {
	if strings.TrimSpace(name) == "" {
		return Permission{}, ErrInvalidPermissionName
	}

	permission := Permission{
		ID:       uuid.New(),
		Name:     name,
		Resource: resource,
		Action:   action,
	}
	if err := r.store.CreatePermission(ctx, permission); err != nil {
		return Permission{}, err
	}
	return permission, nil
}

// DeletePermission removes a permission and strips its id from every role
// that holds it.
func (r *Registry) DeletePermission(ctx context.Context, id uuid.UUID) error {
	return r.store.DeletePermission(ctx, id)
}

// Permission fetches a single permission by id.
func (r *Registry) Permission(ctx context.Context, id uuid.UUID) (Permission, error) {
	return r.store.Permission(ctx, id)
}

// Permissions lists all permissions sorted by name.
func (r *Registry) Permissions(ctx context.Context) ([]Permission, error) {
	return r.store.Permissions(ctx)
}

// AssignRoles replaces the user's role assignments with the given set. An
// empty set removes all assignments. Every role id must exist.
func (r *Registry) AssignRoles(ctx context.Context, userID string, roleIDs []uuid.UUID) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidUserID
	}
	for _, id := range roleIDs {
		if _, err := r.store.Role(ctx, id); err != nil {
			if errors.Is(err, ErrRoleNotFound) {
				return fmt.Errorf("%w: %s", ErrRoleNotFound, id)
			}
			return err
		}
	}
	return r.store.ReplaceUserRoles(ctx, userID, roleIDs)
}

// UserRoles returns the roles currently assigned to the user. Role ids that
// no longer resolve are skipped.
func (r *Registry) UserRoles(ctx context.Context, userID string) ([]Role, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidUserID
	}

	ids, err := r.store.UserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	roles := make([]Role, 0, len(ids))
	for _, id := range ids {
		role, err := r.store.Role(ctx, id)
		if err != nil {
			if errors.Is(err, ErrRoleNotFound) {
				continue
			}
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}
