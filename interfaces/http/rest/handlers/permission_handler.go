package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hakrNJN/user-management-service-sub001/domain"
	"github.com/hakrNJN/user-management-service-sub001/pkg/common"
)

// PermissionService is the slice of the permission service the handler uses.
type PermissionService interface {
	CreatePermission(ctx context.Context, tenantID, name, description string) (*domain.Permission, error)
	GetPermission(ctx context.Context, tenantID, name string) (*domain.Permission, error)
	UpdatePermission(ctx context.Context, tenantID, name, description string) (*domain.Permission, error)
	ListPermissions(ctx context.Context, tenantID string) ([]domain.Permission, error)
	DeletePermission(ctx context.Context, tenantID, name string) error

	ListRolesForPermission(ctx context.Context, tenantID, name string) ([]string, error)
	ListUsersForPermission(ctx context.Context, tenantID, name string) ([]string, error)
}

// PermissionHandler handles permission administration requests.
type PermissionHandler struct {
	permissions PermissionService
	logger      *zap.Logger
}

// NewPermissionHandler creates a permission handler.
func NewPermissionHandler(permissions PermissionService, logger *zap.Logger) *PermissionHandler {
	return &PermissionHandler{permissions: permissions, logger: logger}
}

// CreatePermissionRequest is the body for POST /permissions.
type CreatePermissionRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=128,excludes=#"`
	Description string `json:"description,omitempty" validate:"omitempty,max=512"`
}

// UpdatePermissionRequest is the body for PUT /permissions/{permissionName}.
type UpdatePermissionRequest struct {
	Description string `json:"description" validate:"max=512"`
}

// CreatePermission handles POST /permissions.
func (h *PermissionHandler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req CreatePermissionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	permission, err := h.permissions.CreatePermission(r.Context(), tenantID, req.Name, req.Description)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, permission)
}

// GetPermission handles GET /permissions/{permissionName}.
func (h *PermissionHandler) GetPermission(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	permission, err := h.permissions.GetPermission(r.Context(), tenantID, chi.URLParam(r, "permissionName"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, permission)
}

// UpdatePermission handles PUT /permissions/{permissionName}.
func (h *PermissionHandler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req UpdatePermissionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	permission, err := h.permissions.UpdatePermission(r.Context(), tenantID,
		chi.URLParam(r, "permissionName"), req.Description)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, permission)
}

// ListPermissions handles GET /permissions.
func (h *PermissionHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	permissions, err := h.permissions.ListPermissions(r.Context(), tenantID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, permissions)
}

// DeletePermission handles DELETE /permissions/{permissionName}.
func (h *PermissionHandler) DeletePermission(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	if err := h.permissions.DeletePermission(r.Context(), tenantID, chi.URLParam(r, "permissionName")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "permission deleted"})
}

// ListRoles handles GET /permissions/{permissionName}/roles.
func (h *PermissionHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	roles, err := h.permissions.ListRolesForPermission(r.Context(), tenantID, chi.URLParam(r, "permissionName"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, roles)
}

// ListUsers handles GET /permissions/{permissionName}/users.
func (h *PermissionHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	users, err := h.permissions.ListUsersForPermission(r.Context(), tenantID, chi.URLParam(r, "permissionName"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, users)
}
