package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "user-mgmt-authz", cfg.DynamoDBTable)
	assert.Equal(t, "ReverseIndex", cfg.ReverseIndexName)
	assert.Equal(t, "EntityTypeIndex", cfg.EntityIndexName)
	assert.Equal(t, 25, cfg.DefaultPageSize)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("TABLE_NAME", "authz-staging")
	t.Setenv("USER_POOL_ID", "us-east-1_abc123")
	t.Setenv("DEFAULT_PAGE_SIZE", "50")
	t.Setenv("ENABLE_EVENTS", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "authz-staging", cfg.DynamoDBTable)
	assert.Equal(t, "us-east-1_abc123", cfg.UserPoolID)
	assert.Equal(t, 50, cfg.DefaultPageSize)
	assert.False(t, cfg.EnableEvents)
}

func TestProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("USER_POOL_ID", "")

	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	_, err = LoadConfig()
	require.Error(t, err)

	t.Setenv("USER_POOL_ID", "us-east-1_abc123")
	_, err = LoadConfig()
	assert.NoError(t, err)
}

func writeDynamicFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestWatcherLoadsInitialConfig(t *testing.T) {
	path := writeDynamicFile(t, `
logLevel: debug
limits:
  maxCascadeEdges: 500
  maxPolicySizeBytes: 1024
features:
  publishEvents: false
`)

	w, err := NewWatcher(path, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	cfg := w.Current()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 500, cfg.Limits.MaxCascadeEdges)
	assert.Equal(t, 1024, cfg.Limits.MaxPolicySizeBytes)
	assert.False(t, cfg.Features.PublishEvents)
}

func TestWatcherAppliesDefaultsForOmittedFields(t *testing.T) {
	path := writeDynamicFile(t, "logLevel: warn\n")

	w, err := NewWatcher(path, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	cfg := w.Current()
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 10000, cfg.Limits.MaxCascadeEdges)
	assert.True(t, cfg.Features.PublishEvents)
}

func TestWatcherRejectsInvalidConfig(t *testing.T) {
	path := writeDynamicFile(t, "logLevel: loud\n")

	_, err := NewWatcher(path, zap.NewNop())
	assert.Error(t, err)
}

func TestWatcherRejectsMissingFile(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "absent.yaml"), zap.NewNop())
	assert.Error(t, err)
}
