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

// PermissionService manages permission metadata and exposes the permission
// side of the assignment graph.
type PermissionService struct {
	permissions ports.PermissionRepository
	assignments ports.AssignmentRepository
	publisher   ports.EventPublisher
	limits      ports.LimitsProvider
	logger      *zap.Logger
	now         func() time.Time
}

// NewPermissionService creates the service.
func NewPermissionService(
	permissions ports.PermissionRepository,
	assignments ports.AssignmentRepository,
	publisher ports.EventPublisher,
	limits ports.LimitsProvider,
	logger *zap.Logger,
) *PermissionService {
	return &PermissionService{
		permissions: permissions,
		assignments: assignments,
		publisher:   publisher,
		limits:      limits,
		logger:      logger,
		now:         time.Now,
	}
}

// CreatePermission creates a permission. Duplicates are a conflict.
func (s *PermissionService) CreatePermission(ctx context.Context, tenantID, name, description string) (*domain.Permission, error) {
	existing, err := s.permissions.FindByName(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewExistsError("permission", name)
	}

	now := s.now().UTC()
	permission := &domain.Permission{
		TenantID:    tenantID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.permissions.Save(ctx, permission); err != nil {
		return nil, err
	}
	s.logger.Info("permission created", zap.String("tenant_id", tenantID), zap.String("permission", name))
	return permission, nil
}

// GetPermission fetches one permission.
func (s *PermissionService) GetPermission(ctx context.Context, tenantID, name string) (*domain.Permission, error) {
	permission, err := s.permissions.FindByName(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	if permission == nil {
		return nil, apperrors.NewNotFoundError("permission", name)
	}
	return permission, nil
}

// UpdatePermission changes the permission's description.
func (s *PermissionService) UpdatePermission(ctx context.Context, tenantID, name, description string) (*domain.Permission, error) {
	permission, err := s.GetPermission(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	permission.Description = description
	permission.UpdatedAt = s.now().UTC()
	if err := s.permissions.Save(ctx, permission); err != nil {
		return nil, err
	}
	return permission, nil
}

// ListPermissions returns the tenant's permissions.
func (s *PermissionService) ListPermissions(ctx context.Context, tenantID string) ([]domain.Permission, error) {
	return s.permissions.List(ctx, tenantID)
}

// DeletePermission removes the permission and every edge pointing at it.
func (s *PermissionService) DeletePermission(ctx context.Context, tenantID, name string) error {
	if _, err := s.GetPermission(ctx, tenantID, name); err != nil {
		return err
	}

	removed, err := s.assignments.RemoveAllAssignmentsForPermission(ctx, tenantID, name)
	if err != nil {
		return apperrors.Wrap(err, "removing permission assignments")
	}
	warnLargeCascade(s.logger, s.limits, "permission", name, removed)

	if _, err := s.permissions.Delete(ctx, tenantID, name); err != nil {
		return err
	}

	s.logger.Info("permission deleted",
		zap.String("tenant_id", tenantID),
		zap.String("permission", name),
		zap.Int("edges_removed", removed),
	)
	publishEvent(ctx, s.publisher, s.logger,
		events.NewEntityDeleted(events.TypePermissionDeleted, tenantID, "permission", name, removed))
	return nil
}

// ListRolesForPermission returns the roles carrying the permission.
func (s *PermissionService) ListRolesForPermission(ctx context.Context, tenantID, name string) ([]string, error) {
	if _, err := s.GetPermission(ctx, tenantID, name); err != nil {
		return nil, err
	}
	return s.assignments.FindRolesByPermissionName(ctx, tenantID, name)
}

// ListUsersForPermission returns the users holding the permission as a custom
// assignment.
func (s *PermissionService) ListUsersForPermission(ctx context.Context, tenantID, name string) ([]string, error) {
	if _, err := s.GetPermission(ctx, tenantID, name); err != nil {
		return nil, err
	}
	return s.assignments.FindUsersByPermissionName(ctx, tenantID, name)
}
