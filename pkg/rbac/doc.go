// Package rbac provides role-based access control with durable role and
// permission records. A Registry manages the records and user-role
// assignments; a Resolver computes a user's effective permissions (the union
// across assigned roles) and answers permission checks.
//
// Permissions match on resource and action, case-sensitively. A permission
// with an empty Resource or Action acts as a wildcard for that dimension:
//
//	registry := rbac.NewRegistry(rbac.NewInMemStore())
//
//	viewReports, _ := registry.CreatePermission(ctx, "view reports", "reports", "read")
//	manageAll, _ := registry.CreatePermission(ctx, "manage everything", "", "")
//
//	analyst, _ := registry.CreateRole(ctx, "analyst", "read-only reporting",
//	    []uuid.UUID{viewReports.ID})
//
//	_ = registry.AssignRoles(ctx, "user-42", []uuid.UUID{analyst.ID})
//
//	resolver := rbac.NewResolver(registry.Store())
//	ok, _ := resolver.UserHasPermission(ctx, "user-42", "reports", "read") // true
//
// Role updates use full-replacement semantics: when UpdateRole receives a
// permission id list, it replaces the role's previous list entirely; an
// empty list clears all permissions. Assigning an empty role set to a user
// removes all of their assignments.
//
// Denied access is the boolean false, not an error. Errors are reserved for
// invalid input, duplicate role names, and missing records.
package rbac
