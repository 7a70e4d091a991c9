package dynamodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAssignments(client *fakeDynamoClient) *AssignmentRepository {
	return NewAssignmentRepository(newTestStore(client), zap.NewNop())
}

// seedGraph builds a small tenant graph:
//
//	group writers  -> role editor
//	group editors  -> role editor
//	role editor    -> perm doc:read, doc:write
//	user u-1       -> role editor (custom)
//	user u-1       -> perm doc:admin (custom)
func seedGraph(t *testing.T, repo *AssignmentRepository) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.AssignRoleToGroup(ctx, "acme", "writers", "editor"))
	require.NoError(t, repo.AssignRoleToGroup(ctx, "acme", "editors", "editor"))
	require.NoError(t, repo.AssignPermissionToRole(ctx, "acme", "editor", "doc:read"))
	require.NoError(t, repo.AssignPermissionToRole(ctx, "acme", "editor", "doc:write"))
	require.NoError(t, repo.AssignCustomRoleToUser(ctx, "acme", "u-1", "editor"))
	require.NoError(t, repo.AssignCustomPermissionToUser(ctx, "acme", "u-1", "doc:admin"))
}

func TestAssignmentPairs(t *testing.T) {
	client := newFakeClient()
	repo := newTestAssignments(client)
	seedGraph(t, repo)
	ctx := context.Background()

	roles, err := repo.FindRolesByGroupName(ctx, "acme", "writers")
	require.NoError(t, err)
	assert.Equal(t, []string{"editor"}, roles)

	groups, err := repo.FindGroupsByRoleName(ctx, "acme", "editor")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"writers", "editors"}, groups)

	perms, err := repo.FindPermissionsByRoleName(ctx, "acme", "editor")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc:read", "doc:write"}, perms)

	rolesByPerm, err := repo.FindRolesByPermissionName(ctx, "acme", "doc:read")
	require.NoError(t, err)
	assert.Equal(t, []string{"editor"}, rolesByPerm)

	userRoles, err := repo.FindCustomRolesByUserID(ctx, "acme", "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"editor"}, userRoles)

	usersByRole, err := repo.FindUsersByRoleName(ctx, "acme", "editor")
	require.NoError(t, err)
	assert.Equal(t, []string{"u-1"}, usersByRole)

	userPerms, err := repo.FindCustomPermissionsByUserID(ctx, "acme", "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc:admin"}, userPerms)

	usersByPerm, err := repo.FindUsersByPermissionName(ctx, "acme", "doc:admin")
	require.NoError(t, err)
	assert.Equal(t, []string{"u-1"}, usersByPerm)
}

func TestRemoveAssignment(t *testing.T) {
	client := newFakeClient()
	repo := newTestAssignments(client)
	seedGraph(t, repo)
	ctx := context.Background()

	require.NoError(t, repo.RemoveRoleFromGroup(ctx, "acme", "writers", "editor"))

	roles, err := repo.FindRolesByGroupName(ctx, "acme", "writers")
	require.NoError(t, err)
	assert.Empty(t, roles)

	// The other group's edge is untouched.
	groups, err := repo.FindGroupsByRoleName(ctx, "acme", "editor")
	require.NoError(t, err)
	assert.Equal(t, []string{"editors"}, groups)
}

func TestRemoveAllAssignmentsForRole(t *testing.T) {
	client := newFakeClient()
	repo := newTestAssignments(client)
	seedGraph(t, repo)
	ctx := context.Background()

	// editor has 2 perm edges, 2 group edges pointing at it, 1 user edge.
	removed, err := repo.RemoveAllAssignmentsForRole(ctx, "acme", "editor")
	require.NoError(t, err)
	assert.Equal(t, 5, removed)

	perms, err := repo.FindPermissionsByRoleName(ctx, "acme", "editor")
	require.NoError(t, err)
	assert.Empty(t, perms)

	groups, err := repo.FindGroupsByRoleName(ctx, "acme", "editor")
	require.NoError(t, err)
	assert.Empty(t, groups)

	users, err := repo.FindUsersByRoleName(ctx, "acme", "editor")
	require.NoError(t, err)
	assert.Empty(t, users)

	// Unrelated edges survive.
	userPerms, err := repo.FindCustomPermissionsByUserID(ctx, "acme", "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc:admin"}, userPerms)
}

func TestRemoveAllAssignmentsForUser(t *testing.T) {
	client := newFakeClient()
	repo := newTestAssignments(client)
	seedGraph(t, repo)
	ctx := context.Background()

	removed, err := repo.RemoveAllAssignmentsForUser(ctx, "acme", "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	roles, err := repo.FindCustomRolesByUserID(ctx, "acme", "u-1")
	require.NoError(t, err)
	assert.Empty(t, roles)

	perms, err := repo.FindCustomPermissionsByUserID(ctx, "acme", "u-1")
	require.NoError(t, err)
	assert.Empty(t, perms)

	// Group and role edges are not the user's.
	groupRoles, err := repo.FindRolesByGroupName(ctx, "acme", "writers")
	require.NoError(t, err)
	assert.Equal(t, []string{"editor"}, groupRoles)
}

func TestRemoveAllAssignmentsForGroup(t *testing.T) {
	client := newFakeClient()
	repo := newTestAssignments(client)
	seedGraph(t, repo)
	ctx := context.Background()

	removed, err := repo.RemoveAllAssignmentsForGroup(ctx, "acme", "writers")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	groups, err := repo.FindGroupsByRoleName(ctx, "acme", "editor")
	require.NoError(t, err)
	assert.Equal(t, []string{"editors"}, groups)
}

func TestRemoveAllAssignmentsForPermission(t *testing.T) {
	client := newFakeClient()
	repo := newTestAssignments(client)
	seedGraph(t, repo)
	ctx := context.Background()

	removed, err := repo.RemoveAllAssignmentsForPermission(ctx, "acme", "doc:read")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	perms, err := repo.FindPermissionsByRoleName(ctx, "acme", "editor")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc:write"}, perms)
}

func TestRemoveAllForUnknownEntityIsZero(t *testing.T) {
	repo := newTestAssignments(newFakeClient())

	removed, err := repo.RemoveAllAssignmentsForRole(context.Background(), "acme", "ghost")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCascadeSurfacesBatchFailure(t *testing.T) {
	client := newFakeClient()
	repo := newTestAssignments(client)
	seedGraph(t, repo)

	client.batchUnprocessedRounds = defaultBatchMaxAttempts
	_, err := repo.RemoveAllAssignmentsForRole(context.Background(), "acme", "editor")
	assert.Error(t, err)
}

func TestCascadeIsTenantScoped(t *testing.T) {
	client := newFakeClient()
	repo := newTestAssignments(client)
	ctx := context.Background()

	require.NoError(t, repo.AssignPermissionToRole(ctx, "acme", "editor", "doc:read"))
	require.NoError(t, repo.AssignPermissionToRole(ctx, "globex", "editor", "doc:read"))

	removed, err := repo.RemoveAllAssignmentsForRole(ctx, "acme", "editor")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	perms, err := repo.FindPermissionsByRoleName(ctx, "globex", "editor")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc:read"}, perms)
}
