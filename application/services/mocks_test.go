package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hakrNJN/user-management-service-sub001/application/ports"
	"github.com/hakrNJN/user-management-service-sub001/domain"
	"github.com/hakrNJN/user-management-service-sub001/domain/events"
)

type mockRoleRepo struct{ mock.Mock }

func (m *mockRoleRepo) Save(ctx context.Context, role *domain.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *mockRoleRepo) FindByName(ctx context.Context, tenantID, name string) (*domain.Role, error) {
	args := m.Called(ctx, tenantID, name)
	role, _ := args.Get(0).(*domain.Role)
	return role, args.Error(1)
}

func (m *mockRoleRepo) List(ctx context.Context, tenantID string) ([]domain.Role, error) {
	args := m.Called(ctx, tenantID)
	roles, _ := args.Get(0).([]domain.Role)
	return roles, args.Error(1)
}

func (m *mockRoleRepo) Delete(ctx context.Context, tenantID, name string) (bool, error) {
	args := m.Called(ctx, tenantID, name)
	return args.Bool(0), args.Error(1)
}

type mockPermissionRepo struct{ mock.Mock }

func (m *mockPermissionRepo) Save(ctx context.Context, permission *domain.Permission) error {
	return m.Called(ctx, permission).Error(0)
}

func (m *mockPermissionRepo) FindByName(ctx context.Context, tenantID, name string) (*domain.Permission, error) {
	args := m.Called(ctx, tenantID, name)
	permission, _ := args.Get(0).(*domain.Permission)
	return permission, args.Error(1)
}

func (m *mockPermissionRepo) List(ctx context.Context, tenantID string) ([]domain.Permission, error) {
	args := m.Called(ctx, tenantID)
	permissions, _ := args.Get(0).([]domain.Permission)
	return permissions, args.Error(1)
}

func (m *mockPermissionRepo) Delete(ctx context.Context, tenantID, name string) (bool, error) {
	args := m.Called(ctx, tenantID, name)
	return args.Bool(0), args.Error(1)
}

type mockAssignmentRepo struct{ mock.Mock }

func (m *mockAssignmentRepo) FindRolesByGroupName(ctx context.Context, tenantID, groupName string) ([]string, error) {
	args := m.Called(ctx, tenantID, groupName)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *mockAssignmentRepo) AssignRoleToGroup(ctx context.Context, tenantID, groupName, roleName string) error {
	return m.Called(ctx, tenantID, groupName, roleName).Error(0)
}

func (m *mockAssignmentRepo) RemoveRoleFromGroup(ctx context.Context, tenantID, groupName, roleName string) error {
	return m.Called(ctx, tenantID, groupName, roleName).Error(0)
}

func (m *mockAssignmentRepo) FindGroupsByRoleName(ctx context.Context, tenantID, roleName string) ([]string, error) {
	args := m.Called(ctx, tenantID, roleName)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *mockAssignmentRepo) FindPermissionsByRoleName(ctx context.Context, tenantID, roleName string) ([]string, error) {
	args := m.Called(ctx, tenantID, roleName)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *mockAssignmentRepo) AssignPermissionToRole(ctx context.Context, tenantID, roleName, permissionName string) error {
	return m.Called(ctx, tenantID, roleName, permissionName).Error(0)
}

func (m *mockAssignmentRepo) RemovePermissionFromRole(ctx context.Context, tenantID, roleName, permissionName string) error {
	return m.Called(ctx, tenantID, roleName, permissionName).Error(0)
}

func (m *mockAssignmentRepo) FindRolesByPermissionName(ctx context.Context, tenantID, permissionName string) ([]string, error) {
	args := m.Called(ctx, tenantID, permissionName)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *mockAssignmentRepo) FindCustomRolesByUserID(ctx context.Context, tenantID, userID string) ([]string, error) {
	args := m.Called(ctx, tenantID, userID)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *mockAssignmentRepo) AssignCustomRoleToUser(ctx context.Context, tenantID, userID, roleName string) error {
	return m.Called(ctx, tenantID, userID, roleName).Error(0)
}

func (m *mockAssignmentRepo) RemoveCustomRoleFromUser(ctx context.Context, tenantID, userID, roleName string) error {
	return m.Called(ctx, tenantID, userID, roleName).Error(0)
}

func (m *mockAssignmentRepo) FindUsersByRoleName(ctx context.Context, tenantID, roleName string) ([]string, error) {
	args := m.Called(ctx, tenantID, roleName)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *mockAssignmentRepo) FindCustomPermissionsByUserID(ctx context.Context, tenantID, userID string) ([]string, error) {
	args := m.Called(ctx, tenantID, userID)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *mockAssignmentRepo) AssignCustomPermissionToUser(ctx context.Context, tenantID, userID, permissionName string) error {
	return m.Called(ctx, tenantID, userID, permissionName).Error(0)
}

func (m *mockAssignmentRepo) RemoveCustomPermissionFromUser(ctx context.Context, tenantID, userID, permissionName string) error {
	return m.Called(ctx, tenantID, userID, permissionName).Error(0)
}

func (m *mockAssignmentRepo) FindUsersByPermissionName(ctx context.Context, tenantID, permissionName string) ([]string, error) {
	args := m.Called(ctx, tenantID, permissionName)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *mockAssignmentRepo) RemoveAllAssignmentsForUser(ctx context.Context, tenantID, userID string) (int, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockAssignmentRepo) RemoveAllAssignmentsForGroup(ctx context.Context, tenantID, groupName string) (int, error) {
	args := m.Called(ctx, tenantID, groupName)
	return args.Int(0), args.Error(1)
}

func (m *mockAssignmentRepo) RemoveAllAssignmentsForRole(ctx context.Context, tenantID, roleName string) (int, error) {
	args := m.Called(ctx, tenantID, roleName)
	return args.Int(0), args.Error(1)
}

func (m *mockAssignmentRepo) RemoveAllAssignmentsForPermission(ctx context.Context, tenantID, permissionName string) (int, error) {
	args := m.Called(ctx, tenantID, permissionName)
	return args.Int(0), args.Error(1)
}

type mockPolicyRepo struct{ mock.Mock }

func (m *mockPolicyRepo) Save(ctx context.Context, policy *domain.Policy) error {
	return m.Called(ctx, policy).Error(0)
}

func (m *mockPolicyRepo) FindByID(ctx context.Context, tenantID, id string) (*domain.Policy, error) {
	args := m.Called(ctx, tenantID, id)
	policy, _ := args.Get(0).(*domain.Policy)
	return policy, args.Error(1)
}

func (m *mockPolicyRepo) FindByName(ctx context.Context, tenantID, name string) (*domain.Policy, error) {
	args := m.Called(ctx, tenantID, name)
	policy, _ := args.Get(0).(*domain.Policy)
	return policy, args.Error(1)
}

func (m *mockPolicyRepo) List(ctx context.Context, tenantID string, opts ports.ListPolicyOptions) (*ports.PolicyPage, error) {
	args := m.Called(ctx, tenantID, opts)
	page, _ := args.Get(0).(*ports.PolicyPage)
	return page, args.Error(1)
}

func (m *mockPolicyRepo) GetPolicyVersion(ctx context.Context, tenantID, id string, version int) (*domain.Policy, error) {
	args := m.Called(ctx, tenantID, id, version)
	policy, _ := args.Get(0).(*domain.Policy)
	return policy, args.Error(1)
}

func (m *mockPolicyRepo) ListPolicyVersions(ctx context.Context, tenantID, id string) ([]domain.Policy, error) {
	args := m.Called(ctx, tenantID, id)
	versions, _ := args.Get(0).([]domain.Policy)
	return versions, args.Error(1)
}

func (m *mockPolicyRepo) Delete(ctx context.Context, tenantID, id string) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

type mockIdentityProvider struct{ mock.Mock }

func (m *mockIdentityProvider) CreateUser(ctx context.Context, tenantID string, input ports.CreateUserInput) (*domain.User, error) {
	args := m.Called(ctx, tenantID, input)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockIdentityProvider) GetUser(ctx context.Context, tenantID, username string) (*domain.User, error) {
	args := m.Called(ctx, tenantID, username)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockIdentityProvider) UpdateUserAttributes(ctx context.Context, tenantID, username string, attributes map[string]string) error {
	return m.Called(ctx, tenantID, username, attributes).Error(0)
}

func (m *mockIdentityProvider) DeleteUser(ctx context.Context, tenantID, username string) error {
	return m.Called(ctx, tenantID, username).Error(0)
}

func (m *mockIdentityProvider) ListUsers(ctx context.Context, tenantID string, limit int32, nextToken string) (*ports.UserPage, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	page, _ := args.Get(0).(*ports.UserPage)
	return page, args.Error(1)
}

func (m *mockIdentityProvider) SetUserPassword(ctx context.Context, tenantID, username, password string, permanent bool) error {
	return m.Called(ctx, tenantID, username, password, permanent).Error(0)
}

func (m *mockIdentityProvider) EnableUser(ctx context.Context, tenantID, username string) error {
	return m.Called(ctx, tenantID, username).Error(0)
}

func (m *mockIdentityProvider) DisableUser(ctx context.Context, tenantID, username string) error {
	return m.Called(ctx, tenantID, username).Error(0)
}

func (m *mockIdentityProvider) CreateGroup(ctx context.Context, tenantID, name, description string) (*domain.Group, error) {
	args := m.Called(ctx, tenantID, name, description)
	group, _ := args.Get(0).(*domain.Group)
	return group, args.Error(1)
}

func (m *mockIdentityProvider) GetGroup(ctx context.Context, tenantID, name string) (*domain.Group, error) {
	args := m.Called(ctx, tenantID, name)
	group, _ := args.Get(0).(*domain.Group)
	return group, args.Error(1)
}

func (m *mockIdentityProvider) DeleteGroup(ctx context.Context, tenantID, name string) error {
	return m.Called(ctx, tenantID, name).Error(0)
}

func (m *mockIdentityProvider) ListGroups(ctx context.Context, tenantID string) ([]domain.Group, error) {
	args := m.Called(ctx, tenantID)
	groups, _ := args.Get(0).([]domain.Group)
	return groups, args.Error(1)
}

func (m *mockIdentityProvider) AddUserToGroup(ctx context.Context, tenantID, username, groupName string) error {
	return m.Called(ctx, tenantID, username, groupName).Error(0)
}

func (m *mockIdentityProvider) RemoveUserFromGroup(ctx context.Context, tenantID, username, groupName string) error {
	return m.Called(ctx, tenantID, username, groupName).Error(0)
}

func (m *mockIdentityProvider) ListGroupsForUser(ctx context.Context, tenantID, username string) ([]domain.Group, error) {
	args := m.Called(ctx, tenantID, username)
	groups, _ := args.Get(0).([]domain.Group)
	return groups, args.Error(1)
}

func (m *mockIdentityProvider) ListUsersInGroup(ctx context.Context, tenantID, groupName string) ([]domain.User, error) {
	args := m.Called(ctx, tenantID, groupName)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	return m.Called(ctx, batch).Error(0)
}
