package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 4002, cfg.Port)
	assert.Equal(t, ":4002", cfg.Addr())
	assert.Equal(t, "test", cfg.BridgeDatasetID)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 0, cfg.RetryMax)
	assert.Equal(t, 10, cfg.MediaConcurrency)
	assert.Equal(t, 100, cfg.RateLimitPerMin)
	assert.Equal(t, 256, cfg.AuditBuffer)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("RMLS_BEARER_TOKEN", "rmls-secret")
	t.Setenv("MLS_UPSTREAM_TIMEOUT", "3s")
	t.Setenv("MLS_UPSTREAM_RPS", "2.5")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "rmls-secret", cfg.RMLSToken)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 2.5, cfg.UpstreamRPS)
}

func TestLoadDotenvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("BRIDGE_DATASET_ID=nwmls\nREDIS_DB=3\n"), 0o600))
	t.Setenv("REDIS_DB", "5")
	// registered for cleanup; godotenv sets it directly
	t.Setenv("BRIDGE_DATASET_ID", "")
	require.NoError(t, os.Unsetenv("BRIDGE_DATASET_ID"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nwmls", cfg.BridgeDatasetID)
	assert.Equal(t, 5, cfg.RedisDB)
}

func TestLoadRejectsBadValues(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Setenv("PORT", "0")
	_, err := Load(missing)
	assert.Error(t, err)

	t.Setenv("PORT", "4002")
	t.Setenv("MLS_UPSTREAM_TIMEOUT", "soon")
	_, err = Load(missing)
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	t.Setenv("MLS_TEST_VALUE", "")
	assert.Equal(t, "fallback", Get("MLS_TEST_VALUE", "fallback"))
	t.Setenv("MLS_TEST_VALUE", "set")
	assert.Equal(t, "set", Get("MLS_TEST_VALUE", "fallback"))
}
