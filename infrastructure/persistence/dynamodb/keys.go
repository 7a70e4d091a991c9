package dynamodb

import (
	"fmt"
	"strings"

	apperrors "github.com/hakrNJN/user-management-service-sub001/pkg/errors"
)

// EntityKind tags the entity classes that participate in the authorization
// graph. The tags are baked into storage keys and must never change.
type EntityKind string

const (
	KindUser       EntityKind = "USER"
	KindGroup      EntityKind = "GROUP"
	KindRole       EntityKind = "ROLE"
	KindPermission EntityKind = "PERM"
	KindPolicy     EntityKind = "POLICY"
)

// keySeparator joins key segments. Tenant and entity IDs must not contain it:
// an unescaped separator inside an ID would make two distinct entities encode
// to the same key, which is a tenant-isolation bug. Inputs are rejected at
// this boundary instead.
const keySeparator = "#"

const tenantTag = "TENANT"

// validateKeyPart rejects empty values and values containing the separator.
func validateKeyPart(field, value string) error {
	if value == "" {
		return apperrors.NewValidationError(fmt.Sprintf("%s must not be empty", field))
	}
	if strings.Contains(value, keySeparator) {
		return apperrors.NewValidationError(fmt.Sprintf("%s must not contain %q", field, keySeparator))
	}
	return nil
}

// tenantPrefix encodes (tenant, kind, id) as the composite partition key:
// "TENANT#{tenantId}#{kind}#{id}".
func tenantPrefix(tenantID string, kind EntityKind, id string) string {
	return strings.Join([]string{tenantTag, tenantID, string(kind), id}, keySeparator)
}

// targetKey encodes (kind, id) as the sort key: "{kind}#{id}".
func targetKey(kind EntityKind, id string) string {
	return string(kind) + keySeparator + id
}

// kindPrefix is the sort-key prefix that matches every target of a kind.
func kindPrefix(kind EntityKind) string {
	return string(kind) + keySeparator
}

// idFromTargetKey strips the kind tag from a sort key, returning the ID.
func idFromTargetKey(sk string, kind EntityKind) (string, bool) {
	return strings.CutPrefix(sk, kindPrefix(kind))
}

// idFromTenantPrefix extracts the entity ID from a partition key of the form
// "TENANT#{tenantId}#{kind}#{id}". Safe because IDs cannot contain the
// separator.
func idFromTenantPrefix(pk string) (string, bool) {
	parts := strings.Split(pk, keySeparator)
	if len(parts) != 4 || parts[0] != tenantTag {
		return "", false
	}
	return parts[3], true
}
