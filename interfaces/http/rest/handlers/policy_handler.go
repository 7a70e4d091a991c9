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

// PolicyStore is the slice of the policy service the handler uses.
type PolicyStore interface {
	CreatePolicy(ctx context.Context, tenantID string, input services.CreatePolicyInput) (*domain.Policy, error)
	GetPolicy(ctx context.Context, tenantID, id string) (*domain.Policy, error)
	UpdatePolicy(ctx context.Context, tenantID, id string, input services.UpdatePolicyInput) (*domain.Policy, error)
	ListPolicies(ctx context.Context, tenantID string, opts ports.ListPolicyOptions) (*ports.PolicyPage, error)
	DeletePolicy(ctx context.Context, tenantID, id string) error

	GetPolicyVersion(ctx context.Context, tenantID, id string, version int) (*domain.Policy, error)
	ListPolicyVersions(ctx context.Context, tenantID, id string) ([]domain.Policy, error)
	RollbackPolicy(ctx context.Context, tenantID, id string, toVersion int) (*domain.Policy, error)
}

// PolicyHandler handles policy administration requests.
type PolicyHandler struct {
	policies PolicyStore
	logger   *zap.Logger
	maxPage  int32
}

// NewPolicyHandler creates a policy handler. maxPage caps the list page size.
func NewPolicyHandler(policies PolicyStore, maxPage int32, logger *zap.Logger) *PolicyHandler {
	return &PolicyHandler{policies: policies, logger: logger, maxPage: maxPage}
}

// CreatePolicyRequest is the body for POST /policies.
type CreatePolicyRequest struct {
	Name        string            `json:"name" validate:"required,min=1,max=128,excludes=#"`
	Definition  string            `json:"definition" validate:"required"`
	Language    string            `json:"language" validate:"required,oneof=cedar rego"`
	Description string            `json:"description,omitempty" validate:"omitempty,max=512"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// UpdatePolicyRequest is the body for PUT /policies/{policyID}. Language is
// immutable after creation and therefore absent here.
type UpdatePolicyRequest struct {
	Definition  string            `json:"definition" validate:"required"`
	Description string            `json:"description,omitempty" validate:"omitempty,max=512"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// RollbackPolicyRequest is the body for POST /policies/{policyID}/rollback.
type RollbackPolicyRequest struct {
	Version int `json:"version" validate:"required,min=1"`
}

// ListPoliciesResponse is one page of policies.
type ListPoliciesResponse struct {
	Policies []domain.Policy `json:"policies"`
	NextKey  string          `json:"nextKey,omitempty"`
}

// CreatePolicy handles POST /policies.
func (h *PolicyHandler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req CreatePolicyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	policy, err := h.policies.CreatePolicy(r.Context(), tenantID, services.CreatePolicyInput{
		Name:        req.Name,
		Definition:  req.Definition,
		Language:    req.Language,
		Description: req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, policy)
}

// GetPolicy handles GET /policies/{policyID}.
func (h *PolicyHandler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	policy, err := h.policies.GetPolicy(r.Context(), tenantID, chi.URLParam(r, "policyID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, policy)
}

// UpdatePolicy handles PUT /policies/{policyID}.
func (h *PolicyHandler) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req UpdatePolicyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	policy, err := h.policies.UpdatePolicy(r.Context(), tenantID, chi.URLParam(r, "policyID"),
		services.UpdatePolicyInput{
			Definition:  req.Definition,
			Description: req.Description,
			Metadata:    req.Metadata,
		})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, policy)
}

// ListPolicies handles GET /policies.
func (h *PolicyHandler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	opts := ports.ListPolicyOptions{
		StartKey: r.URL.Query().Get("startKey"),
		Language: r.URL.Query().Get("language"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || limit < 1 {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION", "limit must be a positive integer")
			return
		}
		if h.maxPage > 0 && int32(limit) > h.maxPage {
			limit = int64(h.maxPage)
		}
		opts.Limit = int32(limit)
	}

	page, err := h.policies.ListPolicies(r.Context(), tenantID, opts)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, ListPoliciesResponse{
		Policies: page.Items,
		NextKey:  page.NextKey,
	})
}

// DeletePolicy handles DELETE /policies/{policyID}.
func (h *PolicyHandler) DeletePolicy(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	if err := h.policies.DeletePolicy(r.Context(), tenantID, chi.URLParam(r, "policyID")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "policy deleted"})
}

// ListVersions handles GET /policies/{policyID}/versions.
func (h *PolicyHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	versions, err := h.policies.ListPolicyVersions(r.Context(), tenantID, chi.URLParam(r, "policyID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, versions)
}

// GetVersion handles GET /policies/{policyID}/versions/{version}.
func (h *PolicyHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil || version < 1 {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "version must be a positive integer")
		return
	}

	policy, err := h.policies.GetPolicyVersion(r.Context(), tenantID, chi.URLParam(r, "policyID"), version)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, policy)
}

// Rollback handles POST /policies/{policyID}/rollback.
func (h *PolicyHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	var req RollbackPolicyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	policy, err := h.policies.RollbackPolicy(r.Context(), tenantID, chi.URLParam(r, "policyID"), req.Version)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, policy)
}
