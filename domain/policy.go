// Package domain holds the entities managed by the admin API.
package domain

import "time"

// Policy languages accepted by the policy store.
const (
	PolicyLanguageCedar = "cedar"
	PolicyLanguageRego  = "rego"
)

// Policy is one version of an authorization policy document. The ID is stable
// across versions; Version increases by one on every successful update.
type Policy struct {
	ID          string            `json:"id"`
	TenantID    string            `json:"tenantId"`
	Name        string            `json:"name"`
	Definition  string            `json:"definition"`
	Language    string            `json:"language"`
	Version     int               `json:"version"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	IsActive    bool              `json:"isActive"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// IsValidPolicyLanguage reports whether the language tag is supported.
func IsValidPolicyLanguage(language string) bool {
	switch language {
	case PolicyLanguageCedar, PolicyLanguageRego:
		return true
	}
	return false
}

// NextVersion returns a copy of the policy carrying new content as the
// following version. Used for both updates and rollbacks.
func (p Policy) NextVersion(definition, description string, metadata map[string]string, now time.Time) Policy {
	next := p
	next.Version = p.Version + 1
	next.Definition = definition
	if description != "" {
		next.Description = description
	}
	if metadata != nil {
		next.Metadata = metadata
	}
	next.UpdatedAt = now
	return next
}
