package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hakrNJN/user-management-service-sub001/application/ports"
	"github.com/hakrNJN/user-management-service-sub001/application/services"
	"github.com/hakrNJN/user-management-service-sub001/domain"
	"github.com/hakrNJN/user-management-service-sub001/pkg/common"
)

// UserService is the slice of the user admin service the handler uses.
type UserService interface {
	CreateUser(ctx context.Context, tenantID string, input ports.CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, tenantID, username string) (*domain.User, error)
	UpdateUserAttributes(ctx context.Context, tenantID, username string, attributes map[string]string) error
	DeleteUser(ctx context.Context, tenantID, username string) error
	ListUsers(ctx context.Context, tenantID string, limit int32, nextToken string) (*ports.UserPage, error)
	SetUserPassword(ctx context.Context, tenantID, username, password string, permanent bool) error
	EnableUser(ctx context.Context, tenantID, username string) error
	DisableUser(ctx context.Context, tenantID, username string) error

	AddUserToGroup(ctx context.Context, tenantID, username, groupName string) error
	RemoveUserFromGroup(ctx context.Context, tenantID, username, groupName string) error
	ListGroupsForUser(ctx context.Context, tenantID, username string) ([]domain.Group, error)

	AssignCustomRoleToUser(ctx context.Context, tenantID, username, roleName string) error
	RemoveCustomRoleFromUser(ctx context.Context, tenantID, username, roleName string) error
	ListCustomRolesForUser(ctx context.Context, tenantID, username string) ([]string, error)
	AssignCustomPermissionToUser(ctx context.Context, tenantID, username, permissionName string) error
	RemoveCustomPermissionFromUser(ctx context.Context, tenantID, username, permissionName string) error
	ListCustomPermissionsForUser(ctx context.Context, tenantID, username string) ([]string, error)

	GetEffectiveAccess(ctx context.Context, tenantID, username string) (*services.EffectiveAccess, error)
}

// UserHandler handles user administration requests.
type UserHandler struct {
	users   UserService
	logger  *zap.Logger
	maxPage int32
}

// NewUserHandler creates a user handler. maxPage caps the list page size.
func NewUserHandler(users UserService, maxPage int32, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger, maxPage: maxPage}
}

// CreateUserRequest is the body for POST /users.
type CreateUserRequest struct {
	Username          string            `json:"username" validate:"required,min=1,max=128"`
	Email             string            `json:"email" validate:"required,email"`
	TemporaryPassword string            `json:"temporaryPassword,omitempty" validate:"omitempty,min=8"`
	Attributes        map[string]string `json:"attributes,omitempty"`
	SuppressInvite    bool              `json:"suppressInvite,omitempty"`
}

// UpdateAttributesRequest is the body for PUT /users/{username}/attributes.
type UpdateAttributesRequest struct {
	Attributes map[string]string `json:"attributes" validate:"required,min=1"`
}

// SetPasswordRequest is the body for POST /users/{username}/password.
type SetPasswordRequest struct {
	Password  string `json:"password" validate:"required,min=8"`
	Permanent bool   `json:"permanent,omitempty"`
}

// GroupMembershipRequest is the body for POST /users/{username}/groups.
type GroupMembershipRequest struct {
	GroupName string `json:"groupName" validate:"required,min=1,max=128"`
}

// RoleGrantRequest is the body for POST /users/{username}/roles.
type RoleGrantRequest struct {
	RoleName string `json:"roleName" validate:"required,min=1,max=128"`
}

// PermissionGrantRequest is the body for POST /users/{username}/permissions.
type PermissionGrantRequest struct {
	PermissionName string `json:"permissionName" validate:"required,min=1,max=128"`
}

// ListUsersResponse is one page of users.
type ListUsersResponse struct {
	Users     []domain.User `json:"users"`
	NextToken string        `json:"nextToken,omitempty"`
}

// CreateUser handles POST /users.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.CreateUser(r.Context(), tenantID, ports.CreateUserInput{
		Username:          req.Username,
		Email:             req.Email,
		TemporaryPassword: req.TemporaryPassword,
		Attributes:        req.Attributes,
		SuppressInvite:    req.SuppressInvite,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, user)
}

// GetUser handles GET /users/{username}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	user, err := h.users.GetUser(r.Context(), tenantID, chi.URLParam(r, "username"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, user)
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	limit, ok := h.pageLimit(w, r)
	if !ok {
		return
	}

	page, err := h.users.ListUsers(r.Context(), tenantID, limit, r.URL.Query().Get("nextToken"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, ListUsersResponse{
		Users:     page.Users,
		NextToken: page.NextToken,
	})
}

// UpdateAttributes handles PUT /users/{username}/attributes.
func (h *UserHandler) UpdateAttributes(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req UpdateAttributesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.users.UpdateUserAttributes(r.Context(), tenantID, chi.URLParam(r, "username"), req.Attributes); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "attributes updated"})
}

// DeleteUser handles DELETE /users/{username}.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	if err := h.users.DeleteUser(r.Context(), tenantID, chi.URLParam(r, "username")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// SetPassword handles POST /users/{username}/password.
func (h *UserHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req SetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.users.SetUserPassword(r.Context(), tenantID, chi.URLParam(r, "username"), req.Password, req.Permanent); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "password set"})
}

// EnableUser handles POST /users/{username}/enable.
func (h *UserHandler) EnableUser(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	if err := h.users.EnableUser(r.Context(), tenantID, chi.URLParam(r, "username")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "user enabled"})
}

// DisableUser handles POST /users/{username}/disable.
func (h *UserHandler) DisableUser(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	if err := h.users.DisableUser(r.Context(), tenantID, chi.URLParam(r, "username")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "user disabled"})
}

// ListGroups handles GET /users/{username}/groups.
func (h *UserHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	groups, err := h.users.ListGroupsForUser(r.Context(), tenantID, chi.URLParam(r, "username"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, groups)
}

// AddToGroup handles POST /users/{username}/groups.
func (h *UserHandler) AddToGroup(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req GroupMembershipRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.users.AddUserToGroup(r.Context(), tenantID, chi.URLParam(r, "username"), req.GroupName); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "user added to group"})
}

// RemoveFromGroup handles DELETE /users/{username}/groups/{groupName}.
func (h *UserHandler) RemoveFromGroup(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	if err := h.users.RemoveUserFromGroup(r.Context(), tenantID,
		chi.URLParam(r, "username"), chi.URLParam(r, "groupName")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "user removed from group"})
}

// ListCustomRoles handles GET /users/{username}/roles.
func (h *UserHandler) ListCustomRoles(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	roles, err := h.users.ListCustomRolesForUser(r.Context(), tenantID, chi.URLParam(r, "username"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, roles)
}

// AssignCustomRole handles POST /users/{username}/roles.
func (h *UserHandler) AssignCustomRole(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req RoleGrantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.users.AssignCustomRoleToUser(r.Context(), tenantID, chi.URLParam(r, "username"), req.RoleName); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "role assigned"})
}

// RemoveCustomRole handles DELETE /users/{username}/roles/{roleName}.
func (h *UserHandler) RemoveCustomRole(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	if err := h.users.RemoveCustomRoleFromUser(r.Context(), tenantID,
		chi.URLParam(r, "username"), chi.URLParam(r, "roleName")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "role removed"})
}

// ListCustomPermissions handles GET /users/{username}/permissions.
func (h *UserHandler) ListCustomPermissions(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	permissions, err := h.users.ListCustomPermissionsForUser(r.Context(), tenantID, chi.URLParam(r, "username"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, permissions)
}

// AssignCustomPermission handles POST /users/{username}/permissions.
func (h *UserHandler) AssignCustomPermission(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req PermissionGrantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.users.AssignCustomPermissionToUser(r.Context(), tenantID,
		chi.URLParam(r, "username"), req.PermissionName); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "permission assigned"})
}

// RemoveCustomPermission handles DELETE /users/{username}/permissions/{permissionName}.
func (h *UserHandler) RemoveCustomPermission(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	if err := h.users.RemoveCustomPermissionFromUser(r.Context(), tenantID,
		chi.URLParam(r, "username"), chi.URLParam(r, "permissionName")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "permission removed"})
}

// GetEffectiveAccess handles GET /users/{username}/access.
func (h *UserHandler) GetEffectiveAccess(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	access, err := h.users.GetEffectiveAccess(r.Context(), tenantID, chi.URLParam(r, "username"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, access)
}

func (h *UserHandler) pageLimit(w http.ResponseWriter, r *http.Request) (int32, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || limit < 1 {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "limit must be a positive integer")
		return 0, false
	}
	if h.maxPage > 0 && int32(limit) > h.maxPage {
		limit = int64(h.maxPage)
	}
	return int32(limit), true
}
