// Package ports declares the interfaces the application services depend on.
// Implementations live under infrastructure/ and are injected through
// constructors; there is no ambient registry.
package ports

import (
	"context"

	"github.com/hakrNJN/user-management-service-sub001/domain"
)

// AssignmentRepository exposes the authorization relationship graph: the
// concrete many-to-many pairs plus the cascade cleanups used when an endpoint
// entity is deleted.
//
// Find* methods return empty slices for unknown entities, never an error.
// RemoveAll* methods return the number of edges removed; an error means the
// cleanup is incomplete and some edges may remain.
type AssignmentRepository interface {
	FindRolesByGroupName(ctx context.Context, tenantID, groupName string) ([]string, error)
	AssignRoleToGroup(ctx context.Context, tenantID, groupName, roleName string) error
	RemoveRoleFromGroup(ctx context.Context, tenantID, groupName, roleName string) error
	FindGroupsByRoleName(ctx context.Context, tenantID, roleName string) ([]string, error)

	FindPermissionsByRoleName(ctx context.Context, tenantID, roleName string) ([]string, error)
	AssignPermissionToRole(ctx context.Context, tenantID, roleName, permissionName string) error
	RemovePermissionFromRole(ctx context.Context, tenantID, roleName, permissionName string) error
	FindRolesByPermissionName(ctx context.Context, tenantID, permissionName string) ([]string, error)

	FindCustomRolesByUserID(ctx context.Context, tenantID, userID string) ([]string, error)
	AssignCustomRoleToUser(ctx context.Context, tenantID, userID, roleName string) error
	RemoveCustomRoleFromUser(ctx context.Context, tenantID, userID, roleName string) error
	FindUsersByRoleName(ctx context.Context, tenantID, roleName string) ([]string, error)

	FindCustomPermissionsByUserID(ctx context.Context, tenantID, userID string) ([]string, error)
	AssignCustomPermissionToUser(ctx context.Context, tenantID, userID, permissionName string) error
	RemoveCustomPermissionFromUser(ctx context.Context, tenantID, userID, permissionName string) error
	FindUsersByPermissionName(ctx context.Context, tenantID, permissionName string) ([]string, error)

	RemoveAllAssignmentsForUser(ctx context.Context, tenantID, userID string) (int, error)
	RemoveAllAssignmentsForGroup(ctx context.Context, tenantID, groupName string) (int, error)
	RemoveAllAssignmentsForRole(ctx context.Context, tenantID, roleName string) (int, error)
	RemoveAllAssignmentsForPermission(ctx context.Context, tenantID, permissionName string) (int, error)
}

// ListPolicyOptions controls policy listing. StartKey is the opaque
// continuation token returned by a previous page.
type ListPolicyOptions struct {
	Limit    int32
	StartKey string
	Language string
}

// PolicyPage is one page of policies plus the continuation token for the
// next page (empty when exhausted).
type PolicyPage struct {
	Items   []domain.Policy
	NextKey string
}

// PolicyRepository stores versioned policy documents per tenant. Lookups
// return nil for absent policies; Delete returns false when nothing existed.
type PolicyRepository interface {
	Save(ctx context.Context, policy *domain.Policy) error
	FindByID(ctx context.Context, tenantID, id string) (*domain.Policy, error)
	FindByName(ctx context.Context, tenantID, name string) (*domain.Policy, error)
	List(ctx context.Context, tenantID string, opts ListPolicyOptions) (*PolicyPage, error)
	GetPolicyVersion(ctx context.Context, tenantID, id string, version int) (*domain.Policy, error)
	ListPolicyVersions(ctx context.Context, tenantID, id string) ([]domain.Policy, error)
	Delete(ctx context.Context, tenantID, id string) (bool, error)
}

// RoleRepository stores role metadata (name, description). The assignment
// graph is separate; deleting a role here does not touch its edges.
type RoleRepository interface {
	Save(ctx context.Context, role *domain.Role) error
	FindByName(ctx context.Context, tenantID, name string) (*domain.Role, error)
	List(ctx context.Context, tenantID string) ([]domain.Role, error)
	Delete(ctx context.Context, tenantID, name string) (bool, error)
}

// PermissionRepository stores permission metadata.
type PermissionRepository interface {
	Save(ctx context.Context, permission *domain.Permission) error
	FindByName(ctx context.Context, tenantID, name string) (*domain.Permission, error)
	List(ctx context.Context, tenantID string) ([]domain.Permission, error)
	Delete(ctx context.Context, tenantID, name string) (bool, error)
}
