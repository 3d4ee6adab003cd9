package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// clearEnv blanks every variable Load reads; empty values are ignored.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "MONGODB_URI", "MONGODB_DB", "LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGINS",
		"REDIS_URL", "CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET", "CLOUDINARY_FOLDER",
		"ZEPTO_API_URL", "ZEPTO_API_KEY", "EMAIL_FROM", "WEEKLY_FEE_AMOUNT", "WEEKLY_FEE_SEED_DATE",
		"DASHBOARD_REFRESH_ON_WRITE", "DASHBOARD_SNAPSHOT_CRON", "STATIC_DIR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, ":5000", cfg.Address())
	assert.Equal(t, "ledo-sports-academy", cfg.Mongo.Database)
	assert.Equal(t, 5*time.Second, cfg.MongoTimeout())
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
	assert.Equal(t, int64(20), cfg.Fees.DefaultAmount)
	assert.False(t, cfg.Dashboard.RefreshOnWrite)
	assert.False(t, cfg.CloudinaryEnabled())
	assert.False(t, cfg.EmailEnabled())

	seed, err := cfg.SeedDate()
	require.NoError(t, err)
	assert.True(t, seed.Equal(time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC)))
}

func TestLoadYAMLAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
mongo:
  uri: mongodb://db:27017/academy
fees:
  default_amount: 25
dashboard:
  snapshot_cron: "0 * * * *"
cloudinary:
  cloud_name: demo
  api_key: key
  api_secret: secret
`)
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DASHBOARD_REFRESH_ON_WRITE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "academy", cfg.Mongo.Database)
	assert.Equal(t, int64(25), cfg.Fees.DefaultAmount)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
	assert.True(t, cfg.Dashboard.RefreshOnWrite)
	assert.True(t, cfg.CloudinaryEnabled())
	assert.Equal(t, "gallery", cfg.Cloudinary.Folder)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"port":      "server:\n  port: 70000\n",
		"amount":    "fees:\n  default_amount: 0\n",
		"seed date": "fees:\n  seed_date: 03/08/2025\n",
		"cron":      "dashboard:\n  snapshot_cron: every hour\n",
		"timeout":   "mongo:\n  timeout_seconds: -1\n",
	}
	clearEnv(t)
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadBadEnvNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "http")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDatabaseFromURI(t *testing.T) {
	assert.Equal(t, "club", databaseFromURI("mongodb+srv://user:pw@cluster.example.net/club?retryWrites=true"))
	assert.Equal(t, "ledo-sports-academy", databaseFromURI("mongodb://localhost:27017"))
}
