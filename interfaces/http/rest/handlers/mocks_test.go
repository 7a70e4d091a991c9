package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hakrNJN/user-management-service-sub001/application/ports"
	"github.com/hakrNJN/user-management-service-sub001/application/services"
	"github.com/hakrNJN/user-management-service-sub001/domain"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) CreateUser(ctx context.Context, tenantID string, input ports.CreateUserInput) (*domain.User, error) {
	args := m.Called(ctx, tenantID, input)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserService) GetUser(ctx context.Context, tenantID, username string) (*domain.User, error) {
	args := m.Called(ctx, tenantID, username)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserService) UpdateUserAttributes(ctx context.Context, tenantID, username string, attributes map[string]string) error {
	args := m.Called(ctx, tenantID, username, attributes)
	return args.Error(0)
}

func (m *mockUserService) DeleteUser(ctx context.Context, tenantID, username string) error {
	args := m.Called(ctx, tenantID, username)
	return args.Error(0)
}

func (m *mockUserService) ListUsers(ctx context.Context, tenantID string, limit int32, nextToken string) (*ports.UserPage, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	page, _ := args.Get(0).(*ports.UserPage)
	return page, args.Error(1)
}

func (m *mockUserService) SetUserPassword(ctx context.Context, tenantID, username, password string, permanent bool) error {
	args := m.Called(ctx, tenantID, username, password, permanent)
	return args.Error(0)
}

func (m *mockUserService) EnableUser(ctx context.Context, tenantID, username string) error {
	args := m.Called(ctx, tenantID, username)
	return args.Error(0)
}

func (m *mockUserService) DisableUser(ctx context.Context, tenantID, username string) error {
	args := m.Called(ctx, tenantID, username)
	return args.Error(0)
}

func (m *mockUserService) AddUserToGroup(ctx context.Context, tenantID, username, groupName string) error {
	args := m.Called(ctx, tenantID, username, groupName)
	return args.Error(0)
}

func (m *mockUserService) RemoveUserFromGroup(ctx context.Context, tenantID, username, groupName string) error {
	args := m.Called(ctx, tenantID, username, groupName)
	return args.Error(0)
}

func (m *mockUserService) ListGroupsForUser(ctx context.Context, tenantID, username string) ([]domain.Group, error) {
	args := m.Called(ctx, tenantID, username)
	groups, _ := args.Get(0).([]domain.Group)
	return groups, args.Error(1)
}

func (m *mockUserService) AssignCustomRoleToUser(ctx context.Context, tenantID, username, roleName string) error {
	args := m.Called(ctx, tenantID, username, roleName)
	return args.Error(0)
}

func (m *mockUserService) RemoveCustomRoleFromUser(ctx context.Context, tenantID, username, roleName string) error {
	args := m.Called(ctx, tenantID, username, roleName)
	return args.Error(0)
}

func (m *mockUserService) ListCustomRolesForUser(ctx context.Context, tenantID, username string) ([]string, error) {
	args := m.Called(ctx, tenantID, username)
	roles, _ := args.Get(0).([]string)
	return roles, args.Error(1)
}

func (m *mockUserService) AssignCustomPermissionToUser(ctx context.Context, tenantID, username, permissionName string) error {
	args := m.Called(ctx, tenantID, username, permissionName)
	return args.Error(0)
}

func (m *mockUserService) RemoveCustomPermissionFromUser(ctx context.Context, tenantID, username, permissionName string) error {
	args := m.Called(ctx, tenantID, username, permissionName)
	return args.Error(0)
}

func (m *mockUserService) ListCustomPermissionsForUser(ctx context.Context, tenantID, username string) ([]string, error) {
	args := m.Called(ctx, tenantID, username)
	permissions, _ := args.Get(0).([]string)
	return permissions, args.Error(1)
}

func (m *mockUserService) GetEffectiveAccess(ctx context.Context, tenantID, username string) (*services.EffectiveAccess, error) {
	args := m.Called(ctx, tenantID, username)
	access, _ := args.Get(0).(*services.EffectiveAccess)
	return access, args.Error(1)
}

type mockRoleService struct {
	mock.Mock
}

func (m *mockRoleService) CreateRole(ctx context.Context, tenantID, name, description string) (*domain.Role, error) {
	args := m.Called(ctx, tenantID, name, description)
	role, _ := args.Get(0).(*domain.Role)
	return role, args.Error(1)
}

func (m *mockRoleService) GetRole(ctx context.Context, tenantID, name string) (*domain.Role, error) {
	args := m.Called(ctx, tenantID, name)
	role, _ := args.Get(0).(*domain.Role)
	return role, args.Error(1)
}

func (m *mockRoleService) UpdateRole(ctx context.Context, tenantID, name, description string) (*domain.Role, error) {
	args := m.Called(ctx, tenantID, name, description)
	role, _ := args.Get(0).(*domain.Role)
	return role, args.Error(1)
}

func (m *mockRoleService) ListRoles(ctx context.Context, tenantID string) ([]domain.Role, error) {
	args := m.Called(ctx, tenantID)
	roles, _ := args.Get(0).([]domain.Role)
	return roles, args.Error(1)
}

func (m *mockRoleService) DeleteRole(ctx context.Context, tenantID, name string) error {
	args := m.Called(ctx, tenantID, name)
	return args.Error(0)
}

func (m *mockRoleService) AssignPermissionToRole(ctx context.Context, tenantID, roleName, permissionName string) error {
	args := m.Called(ctx, tenantID, roleName, permissionName)
	return args.Error(0)
}

func (m *mockRoleService) RemovePermissionFromRole(ctx context.Context, tenantID, roleName, permissionName string) error {
	args := m.Called(ctx, tenantID, roleName, permissionName)
	return args.Error(0)
}

func (m *mockRoleService) ListPermissionsForRole(ctx context.Context, tenantID, roleName string) ([]string, error) {
	args := m.Called(ctx, tenantID, roleName)
	permissions, _ := args.Get(0).([]string)
	return permissions, args.Error(1)
}

func (m *mockRoleService) ListGroupsForRole(ctx context.Context, tenantID, roleName string) ([]string, error) {
	args := m.Called(ctx, tenantID, roleName)
	groups, _ := args.Get(0).([]string)
	return groups, args.Error(1)
}

func (m *mockRoleService) ListUsersForRole(ctx context.Context, tenantID, roleName string) ([]string, error) {
	args := m.Called(ctx, tenantID, roleName)
	users, _ := args.Get(0).([]string)
	return users, args.Error(1)
}

type mockPolicyStore struct {
	mock.Mock
}

func (m *mockPolicyStore) CreatePolicy(ctx context.Context, tenantID string, input services.CreatePolicyInput) (*domain.Policy, error) {
	args := m.Called(ctx, tenantID, input)
	policy, _ := args.Get(0).(*domain.Policy)
	return policy, args.Error(1)
}

func (m *mockPolicyStore) GetPolicy(ctx context.Context, tenantID, id string) (*domain.Policy, error) {
	args := m.Called(ctx, tenantID, id)
	policy, _ := args.Get(0).(*domain.Policy)
	return policy, args.Error(1)
}

func (m *mockPolicyStore) UpdatePolicy(ctx context.Context, tenantID, id string, input services.UpdatePolicyInput) (*domain.Policy, error) {
	args := m.Called(ctx, tenantID, id, input)
	policy, _ := args.Get(0).(*domain.Policy)
	return policy, args.Error(1)
}

func (m *mockPolicyStore) ListPolicies(ctx context.Context, tenantID string, opts ports.ListPolicyOptions) (*ports.PolicyPage, error) {
	args := m.Called(ctx, tenantID, opts)
	page, _ := args.Get(0).(*ports.PolicyPage)
	return page, args.Error(1)
}

func (m *mockPolicyStore) DeletePolicy(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *mockPolicyStore) GetPolicyVersion(ctx context.Context, tenantID, id string, version int) (*domain.Policy, error) {
	args := m.Called(ctx, tenantID, id, version)
	policy, _ := args.Get(0).(*domain.Policy)
	return policy, args.Error(1)
}

func (m *mockPolicyStore) ListPolicyVersions(ctx context.Context, tenantID, id string) ([]domain.Policy, error) {
	args := m.Called(ctx, tenantID, id)
	versions, _ := args.Get(0).([]domain.Policy)
	return versions, args.Error(1)
}

func (m *mockPolicyStore) RollbackPolicy(ctx context.Context, tenantID, id string, toVersion int) (*domain.Policy, error) {
	args := m.Called(ctx, tenantID, id, toVersion)
	policy, _ := args.Get(0).(*domain.Policy)
	return policy, args.Error(1)
}
