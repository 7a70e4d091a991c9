package ports

import (
	"context"

	"github.com/hakrNJN/user-management-service-sub001/domain"
	"github.com/hakrNJN/user-management-service-sub001/domain/events"
)

// CreateUserInput is the adapter-facing shape for provisioning a user.
type CreateUserInput struct {
	Username          string
	Email             string
	TemporaryPassword string
	Attributes        map[string]string
	SuppressInvite    bool
}

// UserPage is one page of users plus the provider continuation token.
type UserPage struct {
	Users     []domain.User
	NextToken string
}

// IdentityProvider is the narrow wrapper over the external identity service
// (Amazon Cognito in production). User and group lifecycle lives there; this
// service only orchestrates it. Absent entities surface as NotFound errors
// from the adapter's error mapping.
type IdentityProvider interface {
	CreateUser(ctx context.Context, tenantID string, input CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, tenantID, username string) (*domain.User, error)
	UpdateUserAttributes(ctx context.Context, tenantID, username string, attributes map[string]string) error
	DeleteUser(ctx context.Context, tenantID, username string) error
	ListUsers(ctx context.Context, tenantID string, limit int32, nextToken string) (*UserPage, error)
	SetUserPassword(ctx context.Context, tenantID, username, password string, permanent bool) error
	EnableUser(ctx context.Context, tenantID, username string) error
	DisableUser(ctx context.Context, tenantID, username string) error

	CreateGroup(ctx context.Context, tenantID, name, description string) (*domain.Group, error)
	GetGroup(ctx context.Context, tenantID, name string) (*domain.Group, error)
	DeleteGroup(ctx context.Context, tenantID, name string) error
	ListGroups(ctx context.Context, tenantID string) ([]domain.Group, error)

	AddUserToGroup(ctx context.Context, tenantID, username, groupName string) error
	RemoveUserFromGroup(ctx context.Context, tenantID, username, groupName string) error
	ListGroupsForUser(ctx context.Context, tenantID, username string) ([]domain.Group, error)
	ListUsersInGroup(ctx context.Context, tenantID, groupName string) ([]domain.User, error)
}

// EventPublisher emits administrative domain events. Implementations must be
// safe to call fire-and-forget; failures are logged, not propagated.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, batch []events.DomainEvent) error
}
