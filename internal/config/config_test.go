package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
auth:
  jwt_secret: "test-secret"
ai:
  models:
    - id: "gpt"
      provider: "openai"
      enabled: true
      api_url: "https://api.openai.com/v1"
      api_key: "sk-test"
      model: "gpt-4o-mini"
      supports_vision: true
`

func TestLoadMinimalConfigAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, ":8090", cfg.App.HTTPAddr)
	assert.Equal(t, "data/dammed.db", cfg.Store.DBPath)
	assert.Equal(t, "data/traces.db", cfg.Store.TracePath)
	assert.Equal(t, 120, cfg.AI.TimeoutSeconds)
	assert.Equal(t, 168, cfg.Auth.TokenTTLHours)
	assert.Equal(t, 2, cfg.Analysis.MaxItems)
	assert.Equal(t, cfg.Analysis.MaxItems, cfg.Analysis.Workers)

	require.Len(t, cfg.AI.Models, 1)
	assert.True(t, cfg.AI.Models[0].SupportsVision)
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
app:
  env: "prod"
  log_level: "debug"
  http_addr: ":9000"
  upload_dir: "/tmp/uploads"
auth:
  jwt_secret: "s"
  token_ttl_hours: 24
store:
  db_path: "/tmp/dammed.db"
  trace_path: "/tmp/traces.db"
ai:
  timeout_seconds: 30
  prompt_profile: "configs/prompts.yaml"
  models:
    - id: "vision"
      provider: "openai"
      enabled: true
      model: "gpt-4o"
      supports_vision: true
    - id: "text"
      provider: "deepseek"
      enabled: false
      model: "deepseek-chat"
analysis:
  max_items: 3
  workers: 2
`))
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.App.Env)
	assert.Equal(t, ":9000", cfg.App.HTTPAddr)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)
	assert.Equal(t, 30, cfg.AI.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Analysis.MaxItems)
	assert.Equal(t, 2, cfg.Analysis.Workers)
	require.Len(t, cfg.AI.Models, 2)
	assert.False(t, cfg.AI.Models[1].Enabled)
}

func TestLoadWeaklyTypedValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
auth:
  jwt_secret: "s"
ai:
  timeout_seconds: "45"
  models:
    - id: "m"
      provider: "openai"
      enabled: "true"
      model: "gpt-4o-mini"
`))
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.AI.TimeoutSeconds)
	assert.True(t, cfg.AI.Models[0].Enabled)
}

func TestLoadRejectsMissingJWTSecret(t *testing.T) {
	_, err := Load(writeConfig(t, `
ai:
  models:
    - id: "m"
      provider: "openai"
      enabled: true
      model: "gpt-4o-mini"
`))
	assert.Error(t, err)
}

func TestLoadRejectsNoEnabledModel(t *testing.T) {
	_, err := Load(writeConfig(t, `
auth:
  jwt_secret: "s"
ai:
  models:
    - id: "m"
      provider: "openai"
      enabled: false
      model: "gpt-4o-mini"
`))
	assert.Error(t, err)
}

func TestLoadClampsWorkersToMaxItems(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
analysis:
  max_items: 2
  workers: 8
`))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Analysis.Workers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	_, err = Load("")
	assert.Error(t, err)
}
