package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryWithoutFileUsesDefaults(t *testing.T) {
	lib, err := NewLibrary("")
	require.NoError(t, err)

	snap := lib.Snapshot()
	assert.Equal(t, int64(1), snap.Version)
	assert.Equal(t, Defaults(), snap.Profile)
}

func TestLibraryFileOverridesPartially(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
prompts:
  detection: "custom detection prompt"
`), 0o644))

	lib, err := NewLibrary(path)
	require.NoError(t, err)

	profile := lib.Snapshot().Profile
	assert.Equal(t, "custom detection prompt", profile.Detection)
	// 未覆盖的阶段退回内置默认值
	assert.Equal(t, Defaults().Decision, profile.Decision)
	assert.Equal(t, Defaults().Recommendation, profile.Recommendation)
}

func TestLibraryRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
prompts:
  detection: "x"
  detecion_typo: "y"
`), 0o644))

	_, err := NewLibrary(path)
	assert.Error(t, err)
}

func TestLibraryMissingFile(t *testing.T) {
	_, err := NewLibrary(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDetectionUser(t *testing.T) {
	assert.Contains(t, DetectionUser(""), "photo")
	assert.Contains(t, DetectionUser("two bottles"), "two bottles")
}

func TestUserPromptsCarryPayloads(t *testing.T) {
	item := `{"item_name":"bottle"}`
	decision := `{"best_action":"recycle"}`
	assert.Contains(t, DecisionUser(item), item)

	rec := RecommendationUser(item, decision)
	assert.Contains(t, rec, item)
	assert.Contains(t, rec, decision)
}
