package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8010", cfg.App.Port)
	assert.Equal(t, "UTC", cfg.App.Timezone)
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, "./exports", cfg.Storage.Dir)
	assert.Equal(t, 20*time.Minute, cfg.Export.TTL)
	assert.False(t, cfg.S3.Enabled)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("APP_TIMEZONE", "Asia/Singapore")
	t.Setenv("APP_API_KEYS", "k1:alice,k2:bob")
	t.Setenv("BACKEND_URL", "postgres://ar@localhost/ar")
	t.Setenv("BACKEND_ACCESS_KEY", "secret")
	t.Setenv("BACKEND_AUTO_MIGRATE", "true")
	t.Setenv("REDIS_PREFIX", "test:")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, map[string]string{"k1": "alice", "k2": "bob"}, cfg.App.APIKeys)
	assert.Equal(t, "postgres://ar@localhost/ar", cfg.Backend.URL)
	assert.True(t, cfg.Backend.AutoMigrate)
	assert.True(t, cfg.Backend.Configured())
	assert.Equal(t, "test:", cfg.Redis.Prefix)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Singapore", loc.String())
}

func TestBackendMissing(t *testing.T) {
	assert.Equal(t, []string{"BACKEND_URL", "BACKEND_ACCESS_KEY"}, BackendConfig{}.Missing())
	assert.Equal(t, []string{"BACKEND_ACCESS_KEY"}, BackendConfig{URL: "postgres://x"}.Missing())
	assert.Empty(t, BackendConfig{URL: "postgres://x", AccessKey: "k"}.Missing())
	assert.False(t, BackendConfig{URL: "  "}.Configured())
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_S3RequiresCredentials(t *testing.T) {
	t.Setenv("S3_ENABLED", "true")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_IgnoresUnprefixedNames(t *testing.T) {
	t.Setenv("URL", "https://my-site.netlify.app")
	t.Setenv("ACCESS_KEY", "unrelated")
	t.Setenv("ENABLED", "false")
	t.Setenv("PREFIX", "other:")
	t.Setenv("DIR", "/tmp/elsewhere")
	t.Setenv("TTL", "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Backend.URL)
	assert.Empty(t, cfg.Backend.AccessKey)
	assert.Equal(t, []string{"BACKEND_URL", "BACKEND_ACCESS_KEY"}, cfg.Backend.Missing())
	assert.Empty(t, cfg.S3.AccessKey)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "ar_dashboard:", cfg.Redis.Prefix)
	assert.Equal(t, "./exports", cfg.Storage.Dir)
	assert.Equal(t, 20*time.Minute, cfg.Export.TTL)
}

func TestLoad_S3Credentials(t *testing.T) {
	t.Setenv("S3_ENABLED", "true")
	t.Setenv("S3_ACCESS_KEY", "minio")
	t.Setenv("S3_SECRET_KEY", "minio123")
	t.Setenv("S3_URL_EXPIRY", "1h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "minio", cfg.S3.AccessKey)
	assert.Equal(t, "minio123", cfg.S3.SecretKey)
	assert.Equal(t, time.Hour, cfg.S3.URLExpiry)
}

func TestLoad_Port(t *testing.T) {
	t.Run("bare PORT", func(t *testing.T) {
		t.Setenv("PORT", "5000")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "5000", cfg.App.Port)
	})

	t.Run("APP_PORT wins", func(t *testing.T) {
		t.Setenv("PORT", "5000")
		t.Setenv("APP_PORT", "9000")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9000", cfg.App.Port)
	})
}
