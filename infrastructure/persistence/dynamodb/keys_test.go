package dynamodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hakrNJN/user-management-service-sub001/pkg/errors"
)

func TestValidateKeyPart(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"plain id", "editor", false},
		{"uuid", "0b5c9c5e-8a20-4b1a-9f70-1f0c1c2d3e4f", false},
		{"colon separated", "doc:read", false},
		{"empty", "", true},
		{"contains separator", "acme#corp", true},
		{"separator only", "#", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateKeyPart("id", tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKeyEncoding(t *testing.T) {
	pk := tenantPrefix("acme", KindGroup, "writers")
	assert.Equal(t, "TENANT#acme#GROUP#writers", pk)

	sk := targetKey(KindRole, "editor")
	assert.Equal(t, "ROLE#editor", sk)

	id, ok := idFromTargetKey(sk, KindRole)
	require.True(t, ok)
	assert.Equal(t, "editor", id)

	_, ok = idFromTargetKey(sk, KindPermission)
	assert.False(t, ok)
}

func TestIDFromTenantPrefix(t *testing.T) {
	id, ok := idFromTenantPrefix("TENANT#acme#USER#u-123")
	require.True(t, ok)
	assert.Equal(t, "u-123", id)

	_, ok = idFromTenantPrefix("GROUP#writers")
	assert.False(t, ok)

	_, ok = idFromTenantPrefix("OTHER#acme#USER#u-123")
	assert.False(t, ok)
}
