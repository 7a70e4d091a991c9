package dynamodb

import (
	"context"

	"go.uber.org/zap"

	"github.com/hakrNJN/user-management-service-sub001/application/ports"
	apperrors "github.com/hakrNJN/user-management-service-sub001/pkg/errors"
)

// Relationship labels stored in each edge's EntityType attribute.
const (
	labelGroupRole            = "GroupRole"
	labelRolePermission       = "RolePermission"
	labelUserCustomRole       = "UserCustomRole"
	labelUserCustomPermission = "UserCustomPermission"
)

// AssignmentRepository is the typed façade over the relationship store. Each
// method binds one relationship pair to the store's generic primitives.
type AssignmentRepository struct {
	store  *RelationshipStore
	logger *zap.Logger
}

var _ ports.AssignmentRepository = (*AssignmentRepository)(nil)

// NewAssignmentRepository creates the façade.
func NewAssignmentRepository(store *RelationshipStore, logger *zap.Logger) *AssignmentRepository {
	return &AssignmentRepository{store: store, logger: logger}
}

// Group <-> Role

func (r *AssignmentRepository) FindRolesByGroupName(ctx context.Context, tenantID, groupName string) ([]string, error) {
	return r.store.QueryForward(ctx, tenantID, KindGroup, groupName, KindRole)
}

func (r *AssignmentRepository) AssignRoleToGroup(ctx context.Context, tenantID, groupName, roleName string) error {
	return r.store.Assign(ctx, tenantID, KindGroup, groupName, KindRole, roleName, labelGroupRole)
}

func (r *AssignmentRepository) RemoveRoleFromGroup(ctx context.Context, tenantID, groupName, roleName string) error {
	return r.store.Remove(ctx, tenantID, KindGroup, groupName, KindRole, roleName, labelGroupRole)
}

func (r *AssignmentRepository) FindGroupsByRoleName(ctx context.Context, tenantID, roleName string) ([]string, error) {
	return r.store.QueryReverse(ctx, tenantID, KindRole, roleName, KindGroup)
}

// Role <-> Permission

func (r *AssignmentRepository) FindPermissionsByRoleName(ctx context.Context, tenantID, roleName string) ([]string, error) {
	return r.store.QueryForward(ctx, tenantID, KindRole, roleName, KindPermission)
}

func (r *AssignmentRepository) AssignPermissionToRole(ctx context.Context, tenantID, roleName, permissionName string) error {
	return r.store.Assign(ctx, tenantID, KindRole, roleName, KindPermission, permissionName, labelRolePermission)
}

func (r *AssignmentRepository) RemovePermissionFromRole(ctx context.Context, tenantID, roleName, permissionName string) error {
	return r.store.Remove(ctx, tenantID, KindRole, roleName, KindPermission, permissionName, labelRolePermission)
}

func (r *AssignmentRepository) FindRolesByPermissionName(ctx context.Context, tenantID, permissionName string) ([]string, error) {
	return r.store.QueryReverse(ctx, tenantID, KindPermission, permissionName, KindRole)
}

// User <-> custom Role

func (r *AssignmentRepository) FindCustomRolesByUserID(ctx context.Context, tenantID, userID string) ([]string, error) {
	return r.store.QueryForward(ctx, tenantID, KindUser, userID, KindRole)
}

func (r *AssignmentRepository) AssignCustomRoleToUser(ctx context.Context, tenantID, userID, roleName string) error {
	return r.store.Assign(ctx, tenantID, KindUser, userID, KindRole, roleName, labelUserCustomRole)
}

func (r *AssignmentRepository) RemoveCustomRoleFromUser(ctx context.Context, tenantID, userID, roleName string) error {
	return r.store.Remove(ctx, tenantID, KindUser, userID, KindRole, roleName, labelUserCustomRole)
}

func (r *AssignmentRepository) FindUsersByRoleName(ctx context.Context, tenantID, roleName string) ([]string, error) {
	return r.store.QueryReverse(ctx, tenantID, KindRole, roleName, KindUser)
}

// User <-> custom Permission

func (r *AssignmentRepository) FindCustomPermissionsByUserID(ctx context.Context, tenantID, userID string) ([]string, error) {
	return r.store.QueryForward(ctx, tenantID, KindUser, userID, KindPermission)
}

func (r *AssignmentRepository) AssignCustomPermissionToUser(ctx context.Context, tenantID, userID, permissionName string) error {
	return r.store.Assign(ctx, tenantID, KindUser, userID, KindPermission, permissionName, labelUserCustomPermission)
}

func (r *AssignmentRepository) RemoveCustomPermissionFromUser(ctx context.Context, tenantID, userID, permissionName string) error {
	return r.store.Remove(ctx, tenantID, KindUser, userID, KindPermission, permissionName, labelUserCustomPermission)
}

func (r *AssignmentRepository) FindUsersByPermissionName(ctx context.Context, tenantID, permissionName string) ([]string, error) {
	return r.store.QueryReverse(ctx, tenantID, KindPermission, permissionName, KindUser)
}

// Cascade cleanup. Each cleanup gathers every edge referencing the deleted
// entity in both directions, then deletes them in one combined batch run.
// Batches are retried to exhaustion but the cleanup as a whole is not
// transactional: an error means some edges may remain, and the caller decides
// whether to abort the parent delete.

// RemoveAllAssignmentsForUser deletes the user's custom role and custom
// permission edges. Users are never edge targets, so only forward edges exist.
func (r *AssignmentRepository) RemoveAllAssignmentsForUser(ctx context.Context, tenantID, userID string) (int, error) {
	roleKeys, err := r.store.ForwardKeys(ctx, tenantID, KindUser, userID, KindRole)
	if err != nil {
		return 0, apperrors.Wrap(err, "collecting user role edges")
	}
	permKeys, err := r.store.ForwardKeys(ctx, tenantID, KindUser, userID, KindPermission)
	if err != nil {
		return 0, apperrors.Wrap(err, "collecting user permission edges")
	}
	return r.deleteAll(ctx, tenantID, "user", userID, append(roleKeys, permKeys...))
}

// RemoveAllAssignmentsForGroup deletes the group's role edges.
func (r *AssignmentRepository) RemoveAllAssignmentsForGroup(ctx context.Context, tenantID, groupName string) (int, error) {
	keys, err := r.store.ForwardKeys(ctx, tenantID, KindGroup, groupName, KindRole)
	if err != nil {
		return 0, apperrors.Wrap(err, "collecting group role edges")
	}
	return r.deleteAll(ctx, tenantID, "group", groupName, keys)
}

// RemoveAllAssignmentsForRole deletes the role's permission edges plus every
// edge pointing at the role from groups and from users: a three-way fan-in
// followed by one combined batch delete.
func (r *AssignmentRepository) RemoveAllAssignmentsForRole(ctx context.Context, tenantID, roleName string) (int, error) {
	permKeys, err := r.store.ForwardKeys(ctx, tenantID, KindRole, roleName, KindPermission)
	if err != nil {
		return 0, apperrors.Wrap(err, "collecting role permission edges")
	}
	groupKeys, err := r.store.ReverseKeys(ctx, tenantID, KindRole, roleName, KindGroup)
	if err != nil {
		return 0, apperrors.Wrap(err, "collecting group edges to role")
	}
	userKeys, err := r.store.ReverseKeys(ctx, tenantID, KindRole, roleName, KindUser)
	if err != nil {
		return 0, apperrors.Wrap(err, "collecting user edges to role")
	}

	keys := make([]ItemKey, 0, len(permKeys)+len(groupKeys)+len(userKeys))
	keys = append(keys, permKeys...)
	keys = append(keys, groupKeys...)
	keys = append(keys, userKeys...)
	return r.deleteAll(ctx, tenantID, "role", roleName, keys)
}

// RemoveAllAssignmentsForPermission deletes every edge pointing at the
// permission from roles and from users. Permissions are never edge sources.
func (r *AssignmentRepository) RemoveAllAssignmentsForPermission(ctx context.Context, tenantID, permissionName string) (int, error) {
	roleKeys, err := r.store.ReverseKeys(ctx, tenantID, KindPermission, permissionName, KindRole)
	if err != nil {
		return 0, apperrors.Wrap(err, "collecting role edges to permission")
	}
	userKeys, err := r.store.ReverseKeys(ctx, tenantID, KindPermission, permissionName, KindUser)
	if err != nil {
		return 0, apperrors.Wrap(err, "collecting user edges to permission")
	}
	return r.deleteAll(ctx, tenantID, "permission", permissionName, append(roleKeys, userKeys...))
}

func (r *AssignmentRepository) deleteAll(ctx context.Context, tenantID, entity, id string, keys []ItemKey) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	if err := r.store.BatchDeleteItems(ctx, keys); err != nil {
		r.logger.Error("cascade cleanup incomplete, entity may have dangling edges",
			zap.String("tenant_id", tenantID),
			zap.String("entity", entity),
			zap.String("id", id),
			zap.Int("edge_count", len(keys)),
			zap.Error(err),
		)
		return 0, err
	}
	r.logger.Info("cascade cleanup completed",
		zap.String("tenant_id", tenantID),
		zap.String("entity", entity),
		zap.String("id", id),
		zap.Int("edges_removed", len(keys)),
	)
	return len(keys), nil
}
