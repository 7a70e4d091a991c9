package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hakrNJN/user-management-service-sub001/domain"
	"github.com/hakrNJN/user-management-service-sub001/pkg/common"
)

// GroupService is the slice of the group service the handler uses.
type GroupService interface {
	CreateGroup(ctx context.Context, tenantID, name, description string) (*domain.Group, error)
	GetGroup(ctx context.Context, tenantID, name string) (*domain.Group, error)
	ListGroups(ctx context.Context, tenantID string) ([]domain.Group, error)
	DeleteGroup(ctx context.Context, tenantID, name string) error

	AssignRoleToGroup(ctx context.Context, tenantID, groupName, roleName string) error
	RemoveRoleFromGroup(ctx context.Context, tenantID, groupName, roleName string) error
	ListRolesForGroup(ctx context.Context, tenantID, groupName string) ([]string, error)
	ListUsersInGroup(ctx context.Context, tenantID, groupName string) ([]domain.User, error)
}

// GroupHandler handles group administration requests.
type GroupHandler struct {
	groups GroupService
	logger *zap.Logger
}

// NewGroupHandler creates a group handler.
func NewGroupHandler(groups GroupService, logger *zap.Logger) *GroupHandler {
	return &GroupHandler{groups: groups, logger: logger}
}

// CreateGroupRequest is the body for POST /groups.
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=128"`
	Description string `json:"description,omitempty" validate:"omitempty,max=512"`
}

// CreateGroup handles POST /groups.
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req CreateGroupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	group, err := h.groups.CreateGroup(r.Context(), tenantID, req.Name, req.Description)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, group)
}

// GetGroup handles GET /groups/{groupName}.
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	group, err := h.groups.GetGroup(r.Context(), tenantID, chi.URLParam(r, "groupName"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, group)
}

// ListGroups handles GET /groups.
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	groups, err := h.groups.ListGroups(r.Context(), tenantID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, groups)
}

// DeleteGroup handles DELETE /groups/{groupName}.
func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	if err := h.groups.DeleteGroup(r.Context(), tenantID, chi.URLParam(r, "groupName")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "group deleted"})
}

// ListRoles handles GET /groups/{groupName}/roles.
func (h *GroupHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	roles, err := h.groups.ListRolesForGroup(r.Context(), tenantID, chi.URLParam(r, "groupName"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, roles)
}

// AssignRole handles POST /groups/{groupName}/roles.
func (h *GroupHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req RoleGrantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.groups.AssignRoleToGroup(r.Context(), tenantID, chi.URLParam(r, "groupName"), req.RoleName); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "role assigned"})
}

// RemoveRole handles DELETE /groups/{groupName}/roles/{roleName}.
func (h *GroupHandler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	if err := h.groups.RemoveRoleFromGroup(r.Context(), tenantID,
		chi.URLParam(r, "groupName"), chi.URLParam(r, "roleName")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "role removed"})
}

// ListUsers handles GET /groups/{groupName}/users.
func (h *GroupHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	users, err := h.groups.ListUsersInGroup(r.Context(), tenantID, chi.URLParam(r, "groupName"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, users)
}
