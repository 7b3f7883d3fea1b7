package rbac

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// InMemStore is an in-memory Store for tests and single-process setups.
// Records are replaced wholesale under the lock, never mutated in place, so
// values handed out to readers stay stable.
type InMemStore struct {
	mu          sync.RWMutex
	roles       map[uuid.UUID]Role
	permissions map[uuid.UUID]Permission
	userRoles   map[string][]uuid.UUID
}

var _ Store = (*InMemStore)(nil)

// NewInMemStore returns an empty in-memory store.
func NewInMemStore() *InMemStore {
	return &InMemStore{
		roles:       make(map[uuid.UUID]Role),
		permissions: make(map[uuid.UUID]Permission),
		userRoles:   make(map[string][]uuid.UUID),
	}
}

func cloneRole(r Role) Role {
	r.PermissionIDs = slices.Clone(r.PermissionIDs)
	return r
}

func (s *InMemStore) CreateRole(_ context.Context, role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.roles {
		if existing.Name == role.Name {
			return ErrRoleNameTaken
		}
	}
	s.roles[role.ID] = cloneRole(role)
	return nil
}

func (s *InMemStore) UpdateRole(_ context.Context, role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[role.ID]; !ok {
		return ErrRoleNotFound
	}
	s.roles[role.ID] = cloneRole(role)
	return nil
}

func (s *InMemStore) DeleteRole(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[id]; !ok {
		return ErrRoleNotFound
	}
	delete(s.roles, id)

	// Drop the role from every user's assignments.
	for userID, roleIDs := range s.userRoles {
		filtered := slices.DeleteFunc(slices.Clone(roleIDs), func(rid uuid.UUID) bool {
			return rid == id
		})
		if len(filtered) == 0 {
			delete(s.userRoles, userID)
		} else {
			s.userRoles[userID] = filtered
		}
	}
	return nil
}

func (s *InMemStore) Role(_ context.Context, id uuid.UUID) (Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := s.roles[id]
	if !ok {
		return Role{}, ErrRoleNotFound
	}
	return cloneRole(role), nil
}

func (s *InMemStore) Roles(_ context.Context) ([]Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roles := make([]Role, 0, len(s.roles))
	for _, role := range s.roles {
		roles = append(roles, cloneRole(role))
	}
	slices.SortFunc(roles, func(a, b Role) int {
		return strings.Compare(a.Name, b.Name)
	})
	return roles, nil
}

func (s *InMemStore) CreatePermission(_ context.Context, permission Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permissions[permission.ID] = permission
	return nil
}

func (s *InMemStore) DeletePermission(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.permissions[id]; !ok {
		return ErrPermissionNotFound
	}
	delete(s.permissions, id)

	// Cascade-clean: no role may keep a dangling permission reference.
	for roleID, role := range s.roles {
		filtered := slices.DeleteFunc(slices.Clone(role.PermissionIDs), func(pid uuid.UUID) bool {
			return pid == id
		})
		if len(filtered) != len(role.PermissionIDs) {
			role.PermissionIDs = filtered
			s.roles[roleID] = role
		}
	}
	return nil
}

func (s *InMemStore) Permission(_ context.Context, id uuid.UUID) (Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	permission, ok := s.permissions[id]
	if !ok {
		return Permission{}, ErrPermissionNotFound
	}
	return permission, nil
}

func (s *InMemStore) Permissions(_ context.Context) ([]Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	permissions := make([]Permission, 0, len(s.permissions))
	for _, permission := range s.permissions {
		permissions = append(permissions, permission)
	}
	slices.SortFunc(permissions, func(a, b Permission) int {
		return strings.Compare(a.Name, b.Name)
	})
	return permissions, nil
}

func (s *InMemStore) ReplaceUserRoles(_ context.Context, userID string, roleIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(roleIDs) == 0 {
		delete(s.userRoles, userID)
		return nil
	}
	s.userRoles[userID] = slices.Clone(roleIDs)
	return nil
}

func (s *InMemStore) UserRoles(_ context.Context, userID string) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.userRoles[userID]), nil
}
