package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/hakrNJN/user-management-service-sub001/application/ports"
	"github.com/hakrNJN/user-management-service-sub001/domain"
	"github.com/hakrNJN/user-management-service-sub001/domain/events"
	apperrors "github.com/hakrNJN/user-management-service-sub001/pkg/errors"
)

// GroupService manages identity-provider groups and their role assignments.
// Group lifecycle lives in the provider; the assignment graph lives locally.
type GroupService struct {
	idp         ports.IdentityProvider
	roles       ports.RoleRepository
	assignments ports.AssignmentRepository
	publisher   ports.EventPublisher
	limits      ports.LimitsProvider
	logger      *zap.Logger
}

// NewGroupService creates the service.
func NewGroupService(
	idp ports.IdentityProvider,
	roles ports.RoleRepository,
	assignments ports.AssignmentRepository,
	publisher ports.EventPublisher,
	limits ports.LimitsProvider,
	logger *zap.Logger,
) *GroupService {
	return &GroupService{
		idp:         idp,
		roles:       roles,
		assignments: assignments,
		publisher:   publisher,
		limits:      limits,
		logger:      logger,
	}
}

// CreateGroup creates a group in the identity provider.
func (s *GroupService) CreateGroup(ctx context.Context, tenantID, name, description string) (*domain.Group, error) {
	return s.idp.CreateGroup(ctx, tenantID, name, description)
}

// GetGroup fetches one group.
func (s *GroupService) GetGroup(ctx context.Context, tenantID, name string) (*domain.Group, error) {
	return s.idp.GetGroup(ctx, tenantID, name)
}

// ListGroups returns the tenant's groups.
func (s *GroupService) ListGroups(ctx context.Context, tenantID string) ([]domain.Group, error) {
	return s.idp.ListGroups(ctx, tenantID)
}

// DeleteGroup removes the group's role edges, then the provider group. The
// cascade runs first so a provider failure can be retried without orphaned
// edges.
func (s *GroupService) DeleteGroup(ctx context.Context, tenantID, name string) error {
	if _, err := s.idp.GetGroup(ctx, tenantID, name); err != nil {
		return err
	}

	removed, err := s.assignments.RemoveAllAssignmentsForGroup(ctx, tenantID, name)
	if err != nil {
		return apperrors.Wrap(err, "removing group assignments")
	}
	warnLargeCascade(s.logger, s.limits, "group", name, removed)

	if err := s.idp.DeleteGroup(ctx, tenantID, name); err != nil {
		return err
	}

	s.logger.Info("group deleted",
		zap.String("tenant_id", tenantID),
		zap.String("group", name),
		zap.Int("edges_removed", removed),
	)
	publishEvent(ctx, s.publisher, s.logger,
		events.NewEntityDeleted(events.TypeGroupDeleted, tenantID, "group", name, removed))
	return nil
}

// AssignRoleToGroup links an existing role to an existing group.
func (s *GroupService) AssignRoleToGroup(ctx context.Context, tenantID, groupName, roleName string) error {
	if _, err := s.idp.GetGroup(ctx, tenantID, groupName); err != nil {
		return err
	}
	role, err := s.roles.FindByName(ctx, tenantID, roleName)
	if err != nil {
		return err
	}
	if role == nil {
		return apperrors.NewNotFoundError("role", roleName)
	}

	if err := s.assignments.AssignRoleToGroup(ctx, tenantID, groupName, roleName); err != nil {
		return err
	}
	publishEvent(ctx, s.publisher, s.logger,
		events.NewAssignmentChanged(tenantID, "GroupRole", groupName, roleName, true))
	return nil
}

// RemoveRoleFromGroup unlinks a role. Removing an absent link succeeds.
func (s *GroupService) RemoveRoleFromGroup(ctx context.Context, tenantID, groupName, roleName string) error {
	if _, err := s.idp.GetGroup(ctx, tenantID, groupName); err != nil {
		return err
	}
	if err := s.assignments.RemoveRoleFromGroup(ctx, tenantID, groupName, roleName); err != nil {
		return err
	}
	publishEvent(ctx, s.publisher, s.logger,
		events.NewAssignmentChanged(tenantID, "GroupRole", groupName, roleName, false))
	return nil
}

// ListRolesForGroup returns the role names assigned to the group.
func (s *GroupService) ListRolesForGroup(ctx context.Context, tenantID, groupName string) ([]string, error) {
	if _, err := s.idp.GetGroup(ctx, tenantID, groupName); err != nil {
		return nil, err
	}
	return s.assignments.FindRolesByGroupName(ctx, tenantID, groupName)
}

// ListUsersInGroup returns the group's members from the identity provider.
func (s *GroupService) ListUsersInGroup(ctx context.Context, tenantID, groupName string) ([]domain.User, error) {
	return s.idp.ListUsersInGroup(ctx, tenantID, groupName)
}
