package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
debug: true
address: ":8080"
baseURL: "https://gym.example.com"
siteName: "Example Gym"
secretKey: "s3cret"
mysql:
  connStr: "root:pass@tcp(localhost:3306)/gymfit?parseTime=true"
  maxOpenConns: 10
smtp:
  host: "smtp.example.com"
  port: 587
  sender: "noreply@example.com"
admin:
  username: "admin"
  email: "admin@example.com"
  password: "changeme"
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, testConfigYAML))
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, ":8080", cfg.ListenAddr, "the address key must reach ListenAddr")
	assert.Equal(t, "https://gym.example.com", cfg.BaseURL)
	assert.Equal(t, "Example Gym", cfg.SiteName)
	assert.Equal(t, "root:pass@tcp(localhost:3306)/gymfit?parseTime=true", cfg.Mysql.ConnStr)
	assert.Equal(t, 10, cfg.Mysql.MaxOpenConns)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "admin", cfg.Admin.Username)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, `
secretKey: "s3cret"
mysql:
  connStr: "root@tcp(localhost:3306)/gymfit"
`))
	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultStaticDir, cfg.StaticDir)
	assert.Equal(t, "GymFit", cfg.SiteName)
}

func TestLoadConfigRequiredFields(t *testing.T) {
	_, err := LoadConfig(writeConfigFile(t, `secretKey: "s3cret"`))
	assert.Error(t, err, "missing mysql connStr must be rejected")

	_, err = LoadConfig(writeConfigFile(t, `
mysql:
  connStr: "root@tcp(localhost:3306)/gymfit"
`))
	assert.Error(t, err, "missing secret key must be rejected")
}
