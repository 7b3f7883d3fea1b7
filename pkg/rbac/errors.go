package rbac

import "errors"

// Domain errors for RBAC operations.
var (
	// ErrRoleNotFound is returned when a role id does not exist.
	ErrRoleNotFound = errors.New("rbac.role_not_found")

	// ErrPermissionNotFound is returned when a permission id does not exist.
	ErrPermissionNotFound = errors.New("rbac.permission_not_found")

	// ErrRoleNameTaken is returned when creating a role with a name that already exists.
	ErrRoleNameTaken = errors.New("rbac.role_name_taken")

	// ErrInvalidRoleName is returned for empty or over-long role names.
	ErrInvalidRoleName = errors.New("rbac.invalid_role_name")

	// ErrInvalidPermissionName is returned for empty permission names.
	ErrInvalidPermissionName = errors.New("rbac.invalid_permission_name")

	// ErrInvalidUserID is returned for empty user identifiers.
	ErrInvalidUserID = errors.New("rbac.invalid_user_id")
)
