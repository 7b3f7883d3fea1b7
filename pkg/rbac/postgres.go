package rbac

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/gatekit/pkg/pg"
)

// PostgresStore persists roles, permissions, and user-role assignments in
// postgres. It expects the rbac tables from the migrations directory:
// rbac_roles, rbac_permissions, rbac_role_permissions, rbac_user_roles.
// Foreign keys with ON DELETE CASCADE carry the referential cleanup the
// Store contract requires.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a postgres-backed store.
// Panics if pool is nil.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("rbac: pgx pool is required")
	}
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) CreateRole(ctx context.Context, role Role) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create role: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`insert into rbac_roles (id, name, description, created_at, updated_at)
		 values ($1, $2, $3, $4, $5)`,
		role.ID, role.Name, role.Description, role.CreatedAt, role.UpdatedAt)
	if err != nil {
		if pg.IsDuplicateKey(err) {
			return ErrRoleNameTaken
		}
		return fmt.Errorf("insert role: %w", err)
	}

	if err := insertRolePermissions(ctx, tx, role.ID, role.PermissionIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) UpdateRole(ctx context.Context, role Role) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update role: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx,
		`update rbac_roles set name = $2, description = $3, updated_at = $4 where id = $1`,
		role.ID, role.Name, role.Description, role.UpdatedAt)
	if err != nil {
		if pg.IsDuplicateKey(err) {
			return ErrRoleNameTaken
		}
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoleNotFound
	}

	if _, err := tx.Exec(ctx, `delete from rbac_role_permissions where role_id = $1`, role.ID); err != nil {
		return fmt.Errorf("clear role permissions: %w", err)
	}
	if err := insertRolePermissions(ctx, tx, role.ID, role.PermissionIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertRolePermissions(ctx context.Context, tx pgx.Tx, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	for _, permID := range permissionIDs {
		_, err := tx.Exec(ctx,
			`insert into rbac_role_permissions (role_id, permission_id) values ($1, $2)`,
			roleID, permID)
		if err != nil {
			if pg.IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: %s", ErrPermissionNotFound, permID)
			}
			return fmt.Errorf("insert role permission: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) DeleteRole(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `delete from rbac_roles where id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}

func (s *PostgresStore) Role(ctx context.Context, id uuid.UUID) (Role, error) {
	var role Role
	err := s.pool.QueryRow(ctx,
		`select id, name, description, created_at, updated_at from rbac_roles where id = $1`,
		id).Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if pg.IsNotFound(err) {
			return Role{}, ErrRoleNotFound
		}
		return Role{}, fmt.Errorf("select role: %w", err)
	}

	role.PermissionIDs, err = s.rolePermissionIDs(ctx, id)
	if err != nil {
		return Role{}, err
	}
	return role, nil
}

func (s *PostgresStore) rolePermissionIDs(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx,
		`select permission_id from rbac_role_permissions where role_id = $1`, roleID)
	if err != nil {
		return nil, fmt.Errorf("select role permissions: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("collect role permissions: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) Roles(ctx context.Context) ([]Role, error) {
	rows, err := s.pool.Query(ctx,
		`select id, name, description, created_at, updated_at from rbac_roles order by name`)
	if err != nil {
		return nil, fmt.Errorf("select roles: %w", err)
	}
	roles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Role, error) {
		var role Role
		err := row.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
		return role, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect roles: %w", err)
	}

	for i := range roles {
		roles[i].PermissionIDs, err = s.rolePermissionIDs(ctx, roles[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return roles, nil
}

func (s *PostgresStore) CreatePermission(ctx context.Context, permission Permission) error {
	_, err := s.pool.Exec(ctx,
		`insert into rbac_permissions (id, name, resource, action) values ($1, $2, $3, $4)`,
		permission.ID, permission.Name, permission.Resource, permission.Action)
	if err != nil {
		return fmt.Errorf("insert permission: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeletePermission(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `delete from rbac_permissions where id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPermissionNotFound
	}
	return nil
}

func (s *PostgresStore) Permission(ctx context.Context, id uuid.UUID) (Permission, error) {
	var permission Permission
	err := s.pool.QueryRow(ctx,
		`select id, name, resource, action from rbac_permissions where id = $1`,
		id).Scan(&permission.ID, &permission.Name, &permission.Resource, &permission.Action)
	if err != nil {
		if pg.IsNotFound(err) {
			return Permission{}, ErrPermissionNotFound
		}
		return Permission{}, fmt.Errorf("select permission: %w", err)
	}
	return permission, nil
}

func (s *PostgresStore) Permissions(ctx context.Context) ([]Permission, error) {
	rows, err := s.pool.Query(ctx,
		`select id, name, resource, action from rbac_permissions order by name`)
	if err != nil {
		return nil, fmt.Errorf("select permissions: %w", err)
	}
	permissions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Permission, error) {
		var permission Permission
		err := row.Scan(&permission.ID, &permission.Name, &permission.Resource, &permission.Action)
		return permission, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect permissions: %w", err)
	}
	return permissions, nil
}

func (s *PostgresStore) ReplaceUserRoles(ctx context.Context, userID string, roleIDs []uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace user roles: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `delete from rbac_user_roles where user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear user roles: %w", err)
	}
	for _, roleID := range roleIDs {
		_, err := tx.Exec(ctx,
			`insert into rbac_user_roles (user_id, role_id) values ($1, $2)`,
			userID, roleID)
		if err != nil {
			if pg.IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: %s", ErrRoleNotFound, roleID)
			}
			return fmt.Errorf("insert user role: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) UserRoles(ctx context.Context, userID string) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx,
		`select role_id from rbac_user_roles where user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("select user roles: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("collect user roles: %w", err)
	}
	return ids, nil
}
