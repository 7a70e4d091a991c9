package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hakrNJN/user-management-service-sub001/application/ports"
	"github.com/hakrNJN/user-management-service-sub001/domain"
	apperrors "github.com/hakrNJN/user-management-service-sub001/pkg/errors"
)

type roleServiceFixture struct {
	roles       *mockRoleRepo
	permissions *mockPermissionRepo
	assignments *mockAssignmentRepo
	publisher   *mockPublisher
	service     *RoleService
}

func newRoleFixture() *roleServiceFixture {
	f := &roleServiceFixture{
		roles:       &mockRoleRepo{},
		permissions: &mockPermissionRepo{},
		assignments: &mockAssignmentRepo{},
		publisher:   &mockPublisher{},
	}
	f.service = NewRoleService(f.roles, f.permissions, f.assignments, f.publisher,
		ports.DefaultLimits(), zap.NewNop())
	return f
}

func TestCreateRole(t *testing.T) {
	f := newRoleFixture()
	f.roles.On("FindByName", mock.Anything, "acme", "editor").Return(nil, nil)
	f.roles.On("Save", mock.Anything, mock.MatchedBy(func(r *domain.Role) bool {
		return r.TenantID == "acme" && r.Name == "editor" && r.Description == "edits things"
	})).Return(nil)

	role, err := f.service.CreateRole(context.Background(), "acme", "editor", "edits things")
	require.NoError(t, err)
	assert.Equal(t, "editor", role.Name)
	assert.False(t, role.CreatedAt.IsZero())
	f.roles.AssertExpectations(t)
}

func TestCreateRoleDuplicate(t *testing.T) {
	f := newRoleFixture()
	f.roles.On("FindByName", mock.Anything, "acme", "editor").
		Return(&domain.Role{TenantID: "acme", Name: "editor"}, nil)

	_, err := f.service.CreateRole(context.Background(), "acme", "editor", "")
	assert.True(t, apperrors.IsExists(err))
	f.roles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGetRoleNotFound(t *testing.T) {
	f := newRoleFixture()
	f.roles.On("FindByName", mock.Anything, "acme", "ghost").Return(nil, nil)

	_, err := f.service.GetRole(context.Background(), "acme", "ghost")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteRoleCascades(t *testing.T) {
	f := newRoleFixture()
	f.roles.On("FindByName", mock.Anything, "acme", "editor").
		Return(&domain.Role{TenantID: "acme", Name: "editor"}, nil)
	f.assignments.On("RemoveAllAssignmentsForRole", mock.Anything, "acme", "editor").Return(5, nil)
	f.roles.On("Delete", mock.Anything, "acme", "editor").Return(true, nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.service.DeleteRole(context.Background(), "acme", "editor"))
	f.assignments.AssertExpectations(t)
	f.roles.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestDeleteRoleAbortsWhenCascadeFails(t *testing.T) {
	f := newRoleFixture()
	f.roles.On("FindByName", mock.Anything, "acme", "editor").
		Return(&domain.Role{TenantID: "acme", Name: "editor"}, nil)
	f.assignments.On("RemoveAllAssignmentsForRole", mock.Anything, "acme", "editor").
		Return(0, apperrors.NewDatabaseError("BatchWriteItem", assert.AnError))

	err := f.service.DeleteRole(context.Background(), "acme", "editor")
	require.Error(t, err)
	assert.True(t, apperrors.IsDatabase(err))
	// The role record must survive a failed cascade so the delete is retryable.
	f.roles.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteRoleSucceedsWhenPublishFails(t *testing.T) {
	f := newRoleFixture()
	f.roles.On("FindByName", mock.Anything, "acme", "editor").
		Return(&domain.Role{TenantID: "acme", Name: "editor"}, nil)
	f.assignments.On("RemoveAllAssignmentsForRole", mock.Anything, "acme", "editor").Return(0, nil)
	f.roles.On("Delete", mock.Anything, "acme", "editor").Return(true, nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(assert.AnError)

	assert.NoError(t, f.service.DeleteRole(context.Background(), "acme", "editor"))
}

func TestAssignPermissionToRole(t *testing.T) {
	f := newRoleFixture()
	f.roles.On("FindByName", mock.Anything, "acme", "editor").
		Return(&domain.Role{TenantID: "acme", Name: "editor"}, nil)
	f.permissions.On("FindByName", mock.Anything, "acme", "doc:read").
		Return(&domain.Permission{TenantID: "acme", Name: "doc:read"}, nil)
	f.assignments.On("AssignPermissionToRole", mock.Anything, "acme", "editor", "doc:read").Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.service.AssignPermissionToRole(context.Background(), "acme", "editor", "doc:read"))
	f.assignments.AssertExpectations(t)
}

func TestAssignPermissionToRoleUnknownPermission(t *testing.T) {
	f := newRoleFixture()
	f.roles.On("FindByName", mock.Anything, "acme", "editor").
		Return(&domain.Role{TenantID: "acme", Name: "editor"}, nil)
	f.permissions.On("FindByName", mock.Anything, "acme", "ghost").Return(nil, nil)

	err := f.service.AssignPermissionToRole(context.Background(), "acme", "editor", "ghost")
	assert.True(t, apperrors.IsNotFound(err))
	f.assignments.AssertNotCalled(t, "AssignPermissionToRole",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignPermissionToUnknownRole(t *testing.T) {
	f := newRoleFixture()
	f.roles.On("FindByName", mock.Anything, "acme", "ghost").Return(nil, nil)

	err := f.service.AssignPermissionToRole(context.Background(), "acme", "ghost", "doc:read")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListPermissionsForRole(t *testing.T) {
	f := newRoleFixture()
	f.roles.On("FindByName", mock.Anything, "acme", "editor").
		Return(&domain.Role{TenantID: "acme", Name: "editor"}, nil)
	f.assignments.On("FindPermissionsByRoleName", mock.Anything, "acme", "editor").
		Return([]string{"doc:read", "doc:write"}, nil)

	perms, err := f.service.ListPermissionsForRole(context.Background(), "acme", "editor")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc:read", "doc:write"}, perms)
}
