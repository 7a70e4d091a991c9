package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/hakrNJN/user-management-service-sub001/application/ports"
	"github.com/hakrNJN/user-management-service-sub001/domain"
	"github.com/hakrNJN/user-management-service-sub001/domain/events"
	apperrors "github.com/hakrNJN/user-management-service-sub001/pkg/errors"
)

// UserAdminService manages identity-provider users, their group memberships
// and their direct (custom) role and permission assignments.
type UserAdminService struct {
	idp         ports.IdentityProvider
	roles       ports.RoleRepository
	permissions ports.PermissionRepository
	assignments ports.AssignmentRepository
	publisher   ports.EventPublisher
	limits      ports.LimitsProvider
	logger      *zap.Logger
}

// NewUserAdminService creates the service.
func NewUserAdminService(
	idp ports.IdentityProvider,
	roles ports.RoleRepository,
	permissions ports.PermissionRepository,
	assignments ports.AssignmentRepository,
	publisher ports.EventPublisher,
	limits ports.LimitsProvider,
	logger *zap.Logger,
) *UserAdminService {
	return &UserAdminService{
		idp:         idp,
		roles:       roles,
		permissions: permissions,
		assignments: assignments,
		publisher:   publisher,
		limits:      limits,
		logger:      logger,
	}
}

// EffectiveAccess is the flattened view of everything a user can do: roles
// from group membership plus direct assignments, and the permissions those
// roles carry plus direct permission grants.
type EffectiveAccess struct {
	Groups      []string `json:"groups"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// CreateUser provisions a user in the identity provider.
func (s *UserAdminService) CreateUser(ctx context.Context, tenantID string, input ports.CreateUserInput) (*domain.User, error) {
	return s.idp.CreateUser(ctx, tenantID, input)
}

// GetUser fetches one user.
func (s *UserAdminService) GetUser(ctx context.Context, tenantID, username string) (*domain.User, error) {
	return s.idp.GetUser(ctx, tenantID, username)
}

// UpdateUserAttributes updates provider-side attributes.
func (s *UserAdminService) UpdateUserAttributes(ctx context.Context, tenantID, username string, attributes map[string]string) error {
	return s.idp.UpdateUserAttributes(ctx, tenantID, username, attributes)
}

// ListUsers returns one provider page of the tenant's users.
func (s *UserAdminService) ListUsers(ctx context.Context, tenantID string, limit int32, nextToken string) (*ports.UserPage, error) {
	return s.idp.ListUsers(ctx, tenantID, limit, nextToken)
}

// SetUserPassword sets or resets the user's password.
func (s *UserAdminService) SetUserPassword(ctx context.Context, tenantID, username, password string, permanent bool) error {
	return s.idp.SetUserPassword(ctx, tenantID, username, password, permanent)
}

// EnableUser re-enables sign-in.
func (s *UserAdminService) EnableUser(ctx context.Context, tenantID, username string) error {
	return s.idp.EnableUser(ctx, tenantID, username)
}

// DisableUser blocks sign-in without deleting the account.
func (s *UserAdminService) DisableUser(ctx context.Context, tenantID, username string) error {
	return s.idp.DisableUser(ctx, tenantID, username)
}

// DeleteUser removes the user's custom assignment edges, then the provider
// account. The cascade runs first so a provider failure can be retried
// without orphaned edges.
func (s *UserAdminService) DeleteUser(ctx context.Context, tenantID, username string) error {
	if _, err := s.idp.GetUser(ctx, tenantID, username); err != nil {
		return err
	}

	removed, err := s.assignments.RemoveAllAssignmentsForUser(ctx, tenantID, username)
	if err != nil {
		return apperrors.Wrap(err, "removing user assignments")
	}
	warnLargeCascade(s.logger, s.limits, "user", username, removed)

	if err := s.idp.DeleteUser(ctx, tenantID, username); err != nil {
		return err
	}

	s.logger.Info("user deleted",
		zap.String("tenant_id", tenantID),
		zap.String("username", username),
		zap.Int("edges_removed", removed),
	)
	publishEvent(ctx, s.publisher, s.logger,
		events.NewEntityDeleted(events.TypeUserDeleted, tenantID, "user", username, removed))
	return nil
}

// AddUserToGroup adds a provider group membership.
func (s *UserAdminService) AddUserToGroup(ctx context.Context, tenantID, username, groupName string) error {
	return s.idp.AddUserToGroup(ctx, tenantID, username, groupName)
}

// RemoveUserFromGroup removes a provider group membership.
func (s *UserAdminService) RemoveUserFromGroup(ctx context.Context, tenantID, username, groupName string) error {
	return s.idp.RemoveUserFromGroup(ctx, tenantID, username, groupName)
}

// ListGroupsForUser returns the user's provider groups.
func (s *UserAdminService) ListGroupsForUser(ctx context.Context, tenantID, username string) ([]domain.Group, error) {
	return s.idp.ListGroupsForUser(ctx, tenantID, username)
}

// AssignCustomRoleToUser grants a role directly, bypassing groups.
func (s *UserAdminService) AssignCustomRoleToUser(ctx context.Context, tenantID, username, roleName string) error {
	if _, err := s.idp.GetUser(ctx, tenantID, username); err != nil {
		return err
	}
	role, err := s.roles.FindByName(ctx, tenantID, roleName)
	if err != nil {
		return err
	}
	if role == nil {
		return apperrors.NewNotFoundError("role", roleName)
	}

	if err := s.assignments.AssignCustomRoleToUser(ctx, tenantID, username, roleName); err != nil {
		return err
	}
	publishEvent(ctx, s.publisher, s.logger,
		events.NewAssignmentChanged(tenantID, "UserCustomRole", username, roleName, true))
	return nil
}

// RemoveCustomRoleFromUser revokes a direct role grant.
func (s *UserAdminService) RemoveCustomRoleFromUser(ctx context.Context, tenantID, username, roleName string) error {
	if _, err := s.idp.GetUser(ctx, tenantID, username); err != nil {
		return err
	}
	if err := s.assignments.RemoveCustomRoleFromUser(ctx, tenantID, username, roleName); err != nil {
		return err
	}
	publishEvent(ctx, s.publisher, s.logger,
		events.NewAssignmentChanged(tenantID, "UserCustomRole", username, roleName, false))
	return nil
}

// AssignCustomPermissionToUser grants a permission directly, bypassing roles.
func (s *UserAdminService) AssignCustomPermissionToUser(ctx context.Context, tenantID, username, permissionName string) error {
	if _, err := s.idp.GetUser(ctx, tenantID, username); err != nil {
		return err
	}
	permission, err := s.permissions.FindByName(ctx, tenantID, permissionName)
	if err != nil {
		return err
	}
	if permission == nil {
		return apperrors.NewNotFoundError("permission", permissionName)
	}

	if err := s.assignments.AssignCustomPermissionToUser(ctx, tenantID, username, permissionName); err != nil {
		return err
	}
	publishEvent(ctx, s.publisher, s.logger,
		events.NewAssignmentChanged(tenantID, "UserCustomPermission", username, permissionName, true))
	return nil
}

// RemoveCustomPermissionFromUser revokes a direct permission grant.
func (s *UserAdminService) RemoveCustomPermissionFromUser(ctx context.Context, tenantID, username, permissionName string) error {
	if _, err := s.idp.GetUser(ctx, tenantID, username); err != nil {
		return err
	}
	if err := s.assignments.RemoveCustomPermissionFromUser(ctx, tenantID, username, permissionName); err != nil {
		return err
	}
	publishEvent(ctx, s.publisher, s.logger,
		events.NewAssignmentChanged(tenantID, "UserCustomPermission", username, permissionName, false))
	return nil
}

// ListCustomRolesForUser returns the user's direct role grants.
func (s *UserAdminService) ListCustomRolesForUser(ctx context.Context, tenantID, username string) ([]string, error) {
	if _, err := s.idp.GetUser(ctx, tenantID, username); err != nil {
		return nil, err
	}
	return s.assignments.FindCustomRolesByUserID(ctx, tenantID, username)
}

// ListCustomPermissionsForUser returns the user's direct permission grants.
func (s *UserAdminService) ListCustomPermissionsForUser(ctx context.Context, tenantID, username string) ([]string, error) {
	if _, err := s.idp.GetUser(ctx, tenantID, username); err != nil {
		return nil, err
	}
	return s.assignments.FindCustomPermissionsByUserID(ctx, tenantID, username)
}

// GetEffectiveAccess flattens the user's full access: group roles plus custom
// roles, expanded to permissions, plus custom permission grants. Results are
// deduplicated and sorted.
func (s *UserAdminService) GetEffectiveAccess(ctx context.Context, tenantID, username string) (*EffectiveAccess, error) {
	groups, err := s.idp.ListGroupsForUser(ctx, tenantID, username)
	if err != nil {
		return nil, err
	}

	roleSet := make(map[string]bool)
	groupNames := make([]string, 0, len(groups))
	for _, group := range groups {
		groupNames = append(groupNames, group.Name)
		groupRoles, err := s.assignments.FindRolesByGroupName(ctx, tenantID, group.Name)
		if err != nil {
			return nil, err
		}
		for _, role := range groupRoles {
			roleSet[role] = true
		}
	}

	customRoles, err := s.assignments.FindCustomRolesByUserID(ctx, tenantID, username)
	if err != nil {
		return nil, err
	}
	for _, role := range customRoles {
		roleSet[role] = true
	}

	permSet := make(map[string]bool)
	for role := range roleSet {
		rolePerms, err := s.assignments.FindPermissionsByRoleName(ctx, tenantID, role)
		if err != nil {
			return nil, err
		}
		for _, perm := range rolePerms {
			permSet[perm] = true
		}
	}

	customPerms, err := s.assignments.FindCustomPermissionsByUserID(ctx, tenantID, username)
	if err != nil {
		return nil, err
	}
	for _, perm := range customPerms {
		permSet[perm] = true
	}

	access := &EffectiveAccess{
		Groups:      groupNames,
		Roles:       setToSorted(roleSet),
		Permissions: setToSorted(permSet),
	}
	sort.Strings(access.Groups)
	return access, nil
}

func setToSorted(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for item := range set {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
