package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hakrNJN/user-management-service-sub001/domain"
	"github.com/hakrNJN/user-management-service-sub001/pkg/common"
)

// RoleService is the slice of the role service the handler uses.
type RoleService interface {
	CreateRole(ctx context.Context, tenantID, name, description string) (*domain.Role, error)
	GetRole(ctx context.Context, tenantID, name string) (*domain.Role, error)
	UpdateRole(ctx context.Context, tenantID, name, description string) (*domain.Role, error)
	ListRoles(ctx context.Context, tenantID string) ([]domain.Role, error)
	DeleteRole(ctx context.Context, tenantID, name string) error

	AssignPermissionToRole(ctx context.Context, tenantID, roleName, permissionName string) error
	RemovePermissionFromRole(ctx context.Context, tenantID, roleName, permissionName string) error
	ListPermissionsForRole(ctx context.Context, tenantID, roleName string) ([]string, error)
	ListGroupsForRole(ctx context.Context, tenantID, roleName string) ([]string, error)
	ListUsersForRole(ctx context.Context, tenantID, roleName string) ([]string, error)
}

// RoleHandler handles role administration requests.
type RoleHandler struct {
	roles  RoleService
	logger *zap.Logger
}

// NewRoleHandler creates a role handler.
func NewRoleHandler(roles RoleService, logger *zap.Logger) *RoleHandler {
	return &RoleHandler{roles: roles, logger: logger}
}

// CreateRoleRequest is the body for POST /roles.
type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=128,excludes=#"`
	Description string `json:"description,omitempty" validate:"omitempty,max=512"`
}

// UpdateRoleRequest is the body for PUT /roles/{roleName}.
type UpdateRoleRequest struct {
	Description string `json:"description" validate:"max=512"`
}

// CreateRole handles POST /roles.
func (h *RoleHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req CreateRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	role, err := h.roles.CreateRole(r.Context(), tenantID, req.Name, req.Description)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, role)
}

// GetRole handles GET /roles/{roleName}.
func (h *RoleHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	role, err := h.roles.GetRole(r.Context(), tenantID, chi.URLParam(r, "roleName"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, role)
}

// UpdateRole handles PUT /roles/{roleName}.
func (h *RoleHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req UpdateRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	role, err := h.roles.UpdateRole(r.Context(), tenantID, chi.URLParam(r, "roleName"), req.Description)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, role)
}

// ListRoles handles GET /roles.
func (h *RoleHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	roles, err := h.roles.ListRoles(r.Context(), tenantID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, roles)
}

// DeleteRole handles DELETE /roles/{roleName}.
func (h *RoleHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	if err := h.roles.DeleteRole(r.Context(), tenantID, chi.URLParam(r, "roleName")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "role deleted"})
}

// ListPermissions handles GET /roles/{roleName}/permissions.
func (h *RoleHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	permissions, err := h.roles.ListPermissionsForRole(r.Context(), tenantID, chi.URLParam(r, "roleName"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, permissions)
}

// AssignPermission handles POST /roles/{roleName}/permissions.
func (h *RoleHandler) AssignPermission(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req PermissionGrantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.roles.AssignPermissionToRole(r.Context(), tenantID,
		chi.URLParam(r, "roleName"), req.PermissionName); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "permission assigned"})
}

// RemovePermission handles DELETE /roles/{roleName}/permissions/{permissionName}.
func (h *RoleHandler) RemovePermission(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	if err := h.roles.RemovePermissionFromRole(r.Context(), tenantID,
		chi.URLParam(r, "roleName"), chi.URLParam(r, "permissionName")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "permission removed"})
}

// ListGroups handles GET /roles/{roleName}/groups.
func (h *RoleHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	groups, err := h.roles.ListGroupsForRole(r.Context(), tenantID, chi.URLParam(r, "roleName"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, groups)
}

// ListUsers handles GET /roles/{roleName}/users.
func (h *RoleHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	users, err := h.roles.ListUsersForRole(r.Context(), tenantID, chi.URLParam(r, "roleName"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, users)
}
