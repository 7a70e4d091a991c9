package domain

import "time"

// Role is a named bundle of permissions scoped to a tenant. Roles are attached
// to groups or directly to users; the assignment graph lives in DynamoDB.
type Role struct {
	TenantID    string    `json:"tenantId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Permission is a named capability scoped to a tenant.
type Permission struct {
	TenantID    string    `json:"tenantId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Group mirrors an identity-provider group. The provider owns its lifecycle;
// this type is the in-process projection.
type Group struct {
	TenantID    string    `json:"tenantId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserStatus is the provider-reported account state.
type UserStatus string

const (
	UserStatusConfirmed     UserStatus = "CONFIRMED"
	UserStatusUnconfirmed   UserStatus = "UNCONFIRMED"
	UserStatusForceChange   UserStatus = "FORCE_CHANGE_PASSWORD"
	UserStatusResetRequired UserStatus = "RESET_REQUIRED"
)

// User mirrors an identity-provider user record.
type User struct {
	TenantID   string            `json:"tenantId"`
	Username   string            `json:"username"`
	Email      string            `json:"email,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Status     UserStatus        `json:"status"`
	Enabled    bool              `json:"enabled"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}
