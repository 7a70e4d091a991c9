// Package events defines the administrative domain events published after
// state changes. Publishing is best effort and never blocks the admin result.
package events

import "time"

// SourceAdminAPI is the EventBridge source tag for events from this service.
const SourceAdminAPI = "user-management.admin-api"

// Event types.
const (
	TypeUserDeleted       = "user.deleted"
	TypeGroupDeleted      = "group.deleted"
	TypeRoleDeleted       = "role.deleted"
	TypePermissionDeleted = "permission.deleted"
	TypeAssignmentChanged = "assignment.changed"
	TypePolicyChanged     = "policy.changed"
)

// DomainEvent is the contract the publisher consumes.
type DomainEvent interface {
	GetEventType() string
	GetAggregateID() string
	GetTenantID() string
	GetTimestamp() time.Time
}

// BaseEvent carries the fields shared by all admin events.
type BaseEvent struct {
	EventType   string    `json:"eventType"`
	AggregateID string    `json:"aggregateId"`
	TenantID    string    `json:"tenantId"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetTenantID() string     { return e.TenantID }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// EntityDeleted is published after a user, group, role or permission is
// removed together with its assignment edges.
type EntityDeleted struct {
	BaseEvent
	EntityKind   string `json:"entityKind"`
	EdgesRemoved int    `json:"edgesRemoved"`
}

// AssignmentChanged is published after an edge is created or removed.
type AssignmentChanged struct {
	BaseEvent
	Relationship string `json:"relationship"`
	SourceID     string `json:"sourceId"`
	TargetID     string `json:"targetId"`
	Assigned     bool   `json:"assigned"`
}

// PolicyChanged is published after a policy version is written or the policy
// is deleted.
type PolicyChanged struct {
	BaseEvent
	PolicyName string `json:"policyName"`
	Version    int    `json:"version"`
	Deleted    bool   `json:"deleted"`
}

// NewEntityDeleted builds an EntityDeleted event with the matching type tag.
func NewEntityDeleted(eventType, tenantID, entityKind, id string, edgesRemoved int) EntityDeleted {
	return EntityDeleted{
		BaseEvent: BaseEvent{
			EventType:   eventType,
			AggregateID: id,
			TenantID:    tenantID,
			Timestamp:   time.Now().UTC(),
		},
		EntityKind:   entityKind,
		EdgesRemoved: edgesRemoved,
	}
}

// NewAssignmentChanged builds an AssignmentChanged event.
func NewAssignmentChanged(tenantID, relationship, sourceID, targetID string, assigned bool) AssignmentChanged {
	return AssignmentChanged{
		BaseEvent: BaseEvent{
			EventType:   TypeAssignmentChanged,
			AggregateID: sourceID,
			TenantID:    tenantID,
			Timestamp:   time.Now().UTC(),
		},
		Relationship: relationship,
		SourceID:     sourceID,
		TargetID:     targetID,
		Assigned:     assigned,
	}
}

// NewPolicyChanged builds a PolicyChanged event.
func NewPolicyChanged(tenantID, policyID, policyName string, version int, deleted bool) PolicyChanged {
	return PolicyChanged{
		BaseEvent: BaseEvent{
			EventType:   TypePolicyChanged,
			AggregateID: policyID,
			TenantID:    tenantID,
			Timestamp:   time.Now().UTC(),
		},
		PolicyName: policyName,
		Version:    version,
		Deleted:    deleted,
	}
}
