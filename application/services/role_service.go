package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hakrNJN/user-management-service-sub001/application/ports"
	"github.com/hakrNJN/user-management-service-sub001/domain"
	"github.com/hakrNJN/user-management-service-sub001/domain/events"
	apperrors "github.com/hakrNJN/user-management-service-sub001/pkg/errors"
)

// RoleService manages role metadata and the role side of the assignment
// graph.
type RoleService struct {
	roles       ports.RoleRepository
	permissions ports.PermissionRepository
	assignments ports.AssignmentRepository
	publisher   ports.EventPublisher
	limits      ports.LimitsProvider
	logger      *zap.Logger
	now         func() time.Time
}

// NewRoleService creates the service.
func NewRoleService(
	roles ports.RoleRepository,
	permissions ports.PermissionRepository,
	assignments ports.AssignmentRepository,
	publisher ports.EventPublisher,
	limits ports.LimitsProvider,
	logger *zap.Logger,
) *RoleService {
	return &RoleService{
		roles:       roles,
		permissions: permissions,
		assignments: assignments,
		publisher:   publisher,
		limits:      limits,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateRole creates a role. Creating a role that already exists is a
// conflict.
func (s *RoleService) CreateRole(ctx context.Context, tenantID, name, description string) (*domain.Role, error) {
	existing, err := s.roles.FindByName(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewExistsError("role", name)
	}

	now := s.now().UTC()
	role := &domain.Role{
		TenantID:    tenantID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.roles.Save(ctx, role); err != nil {
		return nil, err
	}
	s.logger.Info("role created", zap.String("tenant_id", tenantID), zap.String("role", name))
	return role, nil
}

// GetRole fetches one role.
func (s *RoleService) GetRole(ctx context.Context, tenantID, name string) (*domain.Role, error) {
	role, err := s.roles.FindByName(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperrors.NewNotFoundError("role", name)
	}
	return role, nil
}

// UpdateRole changes the role's description.
func (s *RoleService) UpdateRole(ctx context.Context, tenantID, name, description string) (*domain.Role, error) {
	role, err := s.GetRole(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	role.Description = description
	role.UpdatedAt = s.now().UTC()
	if err := s.roles.Save(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// ListRoles returns the tenant's roles.
func (s *RoleService) ListRoles(ctx context.Context, tenantID string) ([]domain.Role, error) {
	return s.roles.List(ctx, tenantID)
}

// DeleteRole removes the role and every assignment edge referencing it. The
// cascade runs first: if it fails the role record stays so the delete can be
// retried without leaving dangling edges behind a missing role.
func (s *RoleService) DeleteRole(ctx context.Context, tenantID, name string) error {
	if _, err := s.GetRole(ctx, tenantID, name); err != nil {
		return err
	}

	removed, err := s.assignments.RemoveAllAssignmentsForRole(ctx, tenantID, name)
	if err != nil {
		return apperrors.Wrap(err, "removing role assignments")
	}
	warnLargeCascade(s.logger, s.limits, "role", name, removed)

	if _, err := s.roles.Delete(ctx, tenantID, name); err != nil {
		return err
	}

	s.logger.Info("role deleted",
		zap.String("tenant_id", tenantID),
		zap.String("role", name),
		zap.Int("edges_removed", removed),
	)
	publishEvent(ctx, s.publisher, s.logger,
		events.NewEntityDeleted(events.TypeRoleDeleted, tenantID, "role", name, removed))
	return nil
}

// AssignPermissionToRole links an existing permission to an existing role.
func (s *RoleService) AssignPermissionToRole(ctx context.Context, tenantID, roleName, permissionName string) error {
	if _, err := s.GetRole(ctx, tenantID, roleName); err != nil {
		return err
	}
	permission, err := s.permissions.FindByName(ctx, tenantID, permissionName)
	if err != nil {
		return err
	}
	if permission == nil {
		return apperrors.NewNotFoundError("permission", permissionName)
	}

	if err := s.assignments.AssignPermissionToRole(ctx, tenantID, roleName, permissionName); err != nil {
		return err
	}
	publishEvent(ctx, s.publisher, s.logger,
		events.NewAssignmentChanged(tenantID, "RolePermission", roleName, permissionName, true))
	return nil
}

// RemovePermissionFromRole unlinks a permission. Removing an absent link
// succeeds.
func (s *RoleService) RemovePermissionFromRole(ctx context.Context, tenantID, roleName, permissionName string) error {
	if _, err := s.GetRole(ctx, tenantID, roleName); err != nil {
		return err
	}
	if err := s.assignments.RemovePermissionFromRole(ctx, tenantID, roleName, permissionName); err != nil {
		return err
	}
	publishEvent(ctx, s.publisher, s.logger,
		events.NewAssignmentChanged(tenantID, "RolePermission", roleName, permissionName, false))
	return nil
}

// ListPermissionsForRole returns the permission names assigned to the role.
func (s *RoleService) ListPermissionsForRole(ctx context.Context, tenantID, roleName string) ([]string, error) {
	if _, err := s.GetRole(ctx, tenantID, roleName); err != nil {
		return nil, err
	}
	return s.assignments.FindPermissionsByRoleName(ctx, tenantID, roleName)
}

// ListGroupsForRole returns the groups the role is assigned to.
func (s *RoleService) ListGroupsForRole(ctx context.Context, tenantID, roleName string) ([]string, error) {
	if _, err := s.GetRole(ctx, tenantID, roleName); err != nil {
		return nil, err
	}
	return s.assignments.FindGroupsByRoleName(ctx, tenantID, roleName)
}

// ListUsersForRole returns the users holding the role as a custom assignment.
func (s *RoleService) ListUsersForRole(ctx context.Context, tenantID, roleName string) ([]string, error) {
	if _, err := s.GetRole(ctx, tenantID, roleName); err != nil {
		return nil, err
	}
	return s.assignments.FindUsersByRoleName(ctx, tenantID, roleName)
}
