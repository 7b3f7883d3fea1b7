package rbac_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekit/pkg/rbac"
)

func TestResolver_EffectivePermissions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := newRegistry(t)
	resolver := rbac.NewResolver(registry.Store())

	read, err := registry.CreatePermission(ctx, "read listings", "listings", "read")
	require.NoError(t, err)
	write, err := registry.CreatePermission(ctx, "write listings", "listings", "write")
	require.NoError(t, err)

	viewer, err := registry.CreateRole(ctx, "viewer", "", []uuid.UUID{read.ID})
	require.NoError(t, err)
	editor, err := registry.CreateRole(ctx, "editor", "", []uuid.UUID{read.ID, write.ID})
	require.NoError(t, err)

	t.Run("unions and deduplicates across roles", func(t *testing.T) {
		t.Parallel()

		perms, err := resolver.EffectivePermissions(ctx, []uuid.UUID{viewer.ID, editor.ID})
		require.NoError(t, err)
		assert.Len(t, perms, 2)
	})

	t.Run("skips unknown role ids", func(t *testing.T) {
		t.Parallel()

		perms, err := resolver.EffectivePermissions(ctx, []uuid.UUID{viewer.ID, uuid.New()})
		require.NoError(t, err)
		assert.Len(t, perms, 1)
		assert.Equal(t, read.ID, perms[0].ID)
	})

	t.Run("empty role list yields no permissions", func(t *testing.T) {
		t.Parallel()

		perms, err := resolver.EffectivePermissions(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, perms)
	})
}

func TestResolver_HasPermission(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := newRegistry(t)
	resolver := rbac.NewResolver(registry.Store())

	read, err := registry.CreatePermission(ctx, "read reports", "reports", "read")
	require.NoError(t, err)
	anyReports, err := registry.CreatePermission(ctx, "all of reports", "reports", "")
	require.NoError(t, err)
	superuser, err := registry.CreatePermission(ctx, "everything", "", "")
	require.NoError(t, err)

	analyst, err := registry.CreateRole(ctx, "analyst", "", []uuid.UUID{read.ID})
	require.NoError(t, err)
	reporter, err := registry.CreateRole(ctx, "reporter", "", []uuid.UUID{anyReports.ID})
	require.NoError(t, err)
	admin, err := registry.CreateRole(ctx, "admin", "", []uuid.UUID{superuser.ID})
	require.NoError(t, err)

	tests := []struct {
		name     string
		roles    []uuid.UUID
		resource string
		action   string
		want     bool
	}{
		{"exact match", []uuid.UUID{analyst.ID}, "reports", "read", true},
		{"no grant for other action", []uuid.UUID{analyst.ID}, "reports", "write", false},
		{"no grant for other resource", []uuid.UUID{analyst.ID}, "billing", "read", false},
		{"case sensitive", []uuid.UUID{analyst.ID}, "Reports", "read", false},
		{"action wildcard", []uuid.UUID{reporter.ID}, "reports", "delete", true},
		{"action wildcard wrong resource", []uuid.UUID{reporter.ID}, "billing", "read", false},
		{"full wildcard", []uuid.UUID{admin.ID}, "anything", "at-all", true},
		{"no roles", nil, "reports", "read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolver.HasPermission(ctx, tt.roles, tt.resource, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_UserHasPermission(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := newRegistry(t)
	resolver := rbac.NewResolver(registry.Store())

	perm, err := registry.CreatePermission(ctx, "export data", "exports", "create")
	require.NoError(t, err)
	role, err := registry.CreateRole(ctx, "exporter", "", []uuid.UUID{perm.ID})
	require.NoError(t, err)
	require.NoError(t, registry.AssignRoles(ctx, "user-42", []uuid.UUID{role.ID}))

	ok, err := resolver.UserHasPermission(ctx, "user-42", "exports", "create")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = resolver.UserHasPermission(ctx, "user-42", "exports", "delete")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = resolver.UserHasPermission(ctx, "nobody", "exports", "create")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = resolver.UserHasPermission(ctx, "", "exports", "create")
	assert.ErrorIs(t, err, rbac.ErrInvalidUserID)
}

func TestResolver_ReflectsStoreChanges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := newRegistry(t)
	resolver := rbac.NewResolver(registry.Store())

	perm, err := registry.CreatePermission(ctx, "manage campaigns", "campaigns", "write")
	require.NoError(t, err)
	role, err := registry.CreateRole(ctx, "manager", "", []uuid.UUID{perm.ID})
	require.NoError(t, err)
	require.NoError(t, registry.AssignRoles(ctx, "user-1", []uuid.UUID{role.ID}))

	ok, err := resolver.UserHasPermission(ctx, "user-1", "campaigns", "write")
	require.NoError(t, err)
	require.True(t, ok)

	// Revoking the permission from the role is visible on the next check.
	_, err = registry.UpdateRole(ctx, role.ID, rbac.RoleUpdate{PermissionIDs: []uuid.UUID{}})
	require.NoError(t, err)

	ok, err = resolver.UserHasPermission(ctx, "user-1", "campaigns", "write")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRBAC_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := newRegistry(t)
	resolver := rbac.NewResolver(registry.Store())

	perm, err := registry.CreatePermission(ctx, "read", "items", "read")
	require.NoError(t, err)
	role, err := registry.CreateRole(ctx, "reader", "", []uuid.UUID{perm.ID})
	require.NoError(t, err)
	require.NoError(t, registry.AssignRoles(ctx, "user-1", []uuid.UUID{role.ID}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ok, err := resolver.UserHasPermission(ctx, "user-1", "items", "read")
				assert.NoError(t, err)
				assert.True(t, ok)
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				desc := "updated"
				_, err := registry.UpdateRole(ctx, role.ID, rbac.RoleUpdate{Description: &desc})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}
