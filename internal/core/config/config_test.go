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
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	p := writeConfig(t, "jwt:\n  secret: s3cr3t\n")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", c.JWT.Secret)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, 1000, c.Moderation.AutoApproveMaxChars)
	assert.Equal(t, 20, c.Trending.DefaultLimit)
	assert.Equal(t, time.Minute, c.Trending.CacheTTL())
	assert.Equal(t, 12, c.Search.DefaultLimit)
	assert.Equal(t, 50, c.Search.TagSummaryLimit)
	assert.Equal(t, "@every 10m", c.Jobs.ReconcileSpec)
	assert.Equal(t, 7*24*time.Hour, c.JWT.TTL())
}

func TestLoad_FileValues(t *testing.T) {
	p := writeConfig(t, `
app:
  http:
    port: 9090
jwt:
  secret: abc
  issuer: devnovate
db:
  driver: postgres
  dsn: host=localhost user=blog dbname=blog
redis:
  addr: 127.0.0.1:6379
  db: 2
moderation:
  autoApproveMaxChars: 500
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, "devnovate", c.JWT.Issuer)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.Equal(t, "127.0.0.1:6379", c.Redis.Addr)
	assert.Equal(t, 2, c.Redis.DB)
	assert.Equal(t, 500, c.Moderation.AutoApproveMaxChars)
}

func TestLoad_EnvOverride(t *testing.T) {
	p := writeConfig(t, "jwt:\n  secret: file\n")
	t.Setenv("APP_JWT_SECRET", "from-env")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWT.Secret)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	p := writeConfig(t, "app:\n  name: x\n")
	_, err = Load(p)
	assert.ErrorContains(t, err, "jwt.secret")
}
