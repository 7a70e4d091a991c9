package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hakrNJN/user-management-service-sub001/application/ports"
	"github.com/hakrNJN/user-management-service-sub001/domain"
	"github.com/hakrNJN/user-management-service-sub001/domain/events"
	apperrors "github.com/hakrNJN/user-management-service-sub001/pkg/errors"
)

// PolicyService manages versioned authorization policy documents.
type PolicyService struct {
	policies  ports.PolicyRepository
	publisher ports.EventPublisher
	limits    ports.LimitsProvider
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewPolicyService creates the service.
func NewPolicyService(
	policies ports.PolicyRepository,
	publisher ports.EventPublisher,
	limits ports.LimitsProvider,
	logger *zap.Logger,
) *PolicyService {
	return &PolicyService{
		policies:  policies,
		publisher: publisher,
		limits:    limits,
		logger:    logger,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// CreatePolicyInput carries the fields for a new policy.
type CreatePolicyInput struct {
	Name        string
	Definition  string
	Language    string
	Description string
	Metadata    map[string]string
}

// UpdatePolicyInput carries the fields for a new version of an existing
// policy. Language is immutable after creation.
type UpdatePolicyInput struct {
	Definition  string
	Description string
	Metadata    map[string]string
}

func (s *PolicyService) validateDefinition(definition string) error {
	if definition == "" {
		return apperrors.NewValidationError("policy definition must not be empty")
	}
	if s.limits != nil {
		if max := s.limits.CurrentLimits().MaxPolicySizeBytes; len(definition) > max {
			return apperrors.NewValidationError(
				fmt.Sprintf("policy definition exceeds %d bytes", max))
		}
	}
	return nil
}

// CreatePolicy stores version 1 of a new policy. Names are checked for
// duplicates as a courtesy; see the repository for the uniqueness caveat.
func (s *PolicyService) CreatePolicy(ctx context.Context, tenantID string, input CreatePolicyInput) (*domain.Policy, error) {
	if input.Name == "" {
		return nil, apperrors.NewValidationError("policy name must not be empty")
	}
	if !domain.IsValidPolicyLanguage(input.Language) {
		return nil, apperrors.NewValidationError("unsupported policy language: " + input.Language)
	}
	if err := s.validateDefinition(input.Definition); err != nil {
		return nil, err
	}

	existing, err := s.policies.FindByName(ctx, tenantID, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewExistsError("policy", input.Name)
	}

	now := s.now().UTC()
	policy := &domain.Policy{
		ID:          s.newID(),
		TenantID:    tenantID,
		Name:        input.Name,
		Definition:  input.Definition,
		Language:    input.Language,
		Version:     1,
		Description: input.Description,
		Metadata:    input.Metadata,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.policies.Save(ctx, policy); err != nil {
		return nil, err
	}

	s.logger.Info("policy created",
		zap.String("tenant_id", tenantID),
		zap.String("policy_id", policy.ID),
		zap.String("name", policy.Name),
	)
	publishEvent(ctx, s.publisher, s.logger,
		events.NewPolicyChanged(tenantID, policy.ID, policy.Name, policy.Version, false))
	return policy, nil
}

// GetPolicy returns the current version.
func (s *PolicyService) GetPolicy(ctx context.Context, tenantID, id string) (*domain.Policy, error) {
	policy, err := s.policies.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, apperrors.NewNotFoundError("policy", id)
	}
	return policy, nil
}

// UpdatePolicy writes the next version of an existing policy.
func (s *PolicyService) UpdatePolicy(ctx context.Context, tenantID, id string, input UpdatePolicyInput) (*domain.Policy, error) {
	if err := s.validateDefinition(input.Definition); err != nil {
		return nil, err
	}
	current, err := s.GetPolicy(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	next := current.NextVersion(input.Definition, input.Description, input.Metadata, s.now().UTC())
	if err := s.policies.Save(ctx, &next); err != nil {
		return nil, err
	}

	s.logger.Info("policy updated",
		zap.String("tenant_id", tenantID),
		zap.String("policy_id", id),
		zap.Int("version", next.Version),
	)
	publishEvent(ctx, s.publisher, s.logger,
		events.NewPolicyChanged(tenantID, id, next.Name, next.Version, false))
	return &next, nil
}

// ListPolicies returns one page of current policy versions.
func (s *PolicyService) ListPolicies(ctx context.Context, tenantID string, opts ports.ListPolicyOptions) (*ports.PolicyPage, error) {
	if opts.Language != "" && !domain.IsValidPolicyLanguage(opts.Language) {
		return nil, apperrors.NewValidationError("unsupported policy language: " + opts.Language)
	}
	return s.policies.List(ctx, tenantID, opts)
}

// GetPolicyVersion returns one historical version.
func (s *PolicyService) GetPolicyVersion(ctx context.Context, tenantID, id string, version int) (*domain.Policy, error) {
	policy, err := s.policies.GetPolicyVersion(ctx, tenantID, id, version)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, apperrors.NewNotFoundError("policy version", fmt.Sprintf("%s@v%d", id, version))
	}
	return policy, nil
}

// ListPolicyVersions returns the full history, oldest first.
func (s *PolicyService) ListPolicyVersions(ctx context.Context, tenantID, id string) ([]domain.Policy, error) {
	versions, err := s.policies.ListPolicyVersions(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, apperrors.NewNotFoundError("policy", id)
	}
	return versions, nil
}

// RollbackPolicy makes an older version's content the new head. History is
// append-only: the rollback is written as version head+1, never by rewinding
// the pointer.
func (s *PolicyService) RollbackPolicy(ctx context.Context, tenantID, id string, toVersion int) (*domain.Policy, error) {
	current, err := s.GetPolicy(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if toVersion == current.Version {
		return nil, apperrors.NewValidationError("cannot roll back to the current version")
	}
	target, err := s.GetPolicyVersion(ctx, tenantID, id, toVersion)
	if err != nil {
		return nil, err
	}

	next := current.NextVersion(target.Definition, target.Description, target.Metadata, s.now().UTC())
	if err := s.policies.Save(ctx, &next); err != nil {
		return nil, err
	}

	s.logger.Info("policy rolled back",
		zap.String("tenant_id", tenantID),
		zap.String("policy_id", id),
		zap.Int("from_version", current.Version),
		zap.Int("to_version", toVersion),
		zap.Int("new_version", next.Version),
	)
	publishEvent(ctx, s.publisher, s.logger,
		events.NewPolicyChanged(tenantID, id, next.Name, next.Version, false))
	return &next, nil
}

// DeletePolicy retires the policy. Version history is retained.
func (s *PolicyService) DeletePolicy(ctx context.Context, tenantID, id string) error {
	policy, err := s.GetPolicy(ctx, tenantID, id)
	if err != nil {
		return err
	}

	deleted, err := s.policies.Delete(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewNotFoundError("policy", id)
	}

	s.logger.Info("policy deleted",
		zap.String("tenant_id", tenantID),
		zap.String("policy_id", id),
	)
	publishEvent(ctx, s.publisher, s.logger,
		events.NewPolicyChanged(tenantID, id, policy.Name, policy.Version, true))
	return nil
}
