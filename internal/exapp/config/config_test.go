package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ID", "visionatrix")
	t.Setenv("APP_VERSION", "1.0.0")
	t.Setenv("APP_SECRET", "12345")
	t.Setenv("NEXTCLOUD_URL", "http://nextcloud.local/index.php/")
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), ".env")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "http://nextcloud.local", cfg.NextcloudURL)
	assert.Equal(t, "0.0.0.0:9100", cfg.Address())
	assert.Equal(t, "http://127.0.0.1:8288", cfg.BackendURL)
	assert.Equal(t, "Visionatrix", cfg.AppDisplayName)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadEnvFile(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT=23000\nAPP_SECRET=from-file\nBACKEND_URL=http://backend:8288\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("APP_PORT")
		os.Unsetenv("BACKEND_URL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 23000, cfg.AppPort)
	assert.Equal(t, "http://backend:8288", cfg.BackendURL)
	// the environment wins over the file
	assert.Equal(t, "12345", cfg.AppSecret)
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_SECRET", "")
	t.Setenv("NEXTCLOUD_URL", "")

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_SECRET is required")
	assert.Contains(t, err.Error(), "NEXTCLOUD_URL is required")
}

func TestLoadRejectsPort(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", "70000")

	_, err := Load(missingEnvFile(t))
	assert.ErrorContains(t, err, "APP_PORT")
}
