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
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
ai:
  provider: gemini
  model: gemini-2.0-flash
  api_key: yaml-key
memo:
  topic: new EHR rollout
  audience: Healthcare Professionals
  type: Technical
pipeline:
  turn_budget: 8
  review_threshold: 4
memory:
  enabled: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml-key", cfg.AI.APIKey)
	assert.Equal(t, "new EHR rollout", cfg.Memo.Topic)
	assert.Equal(t, 8, cfg.Pipeline.TurnBudget)
	assert.Equal(t, 4, cfg.Pipeline.ReviewThreshold)
	assert.True(t, cfg.Memory.Enabled)
}

func TestLoadConfig_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
ai:
  api_key: yaml-key
`)
	t.Setenv("MEMOGEN_API_KEY", "env-key")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.AI.APIKey)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
memo:
  topic: anything
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 6, cfg.Pipeline.TurnBudget)
	assert.Equal(t, 3, cfg.Pipeline.ReviewThreshold)
	assert.Equal(t, "results/sections", cfg.Output.SectionDir)
	assert.Equal(t, "results/memo.json", cfg.Output.ModelPath)
	assert.Equal(t, "results/memo.md", cfg.Output.Markdown)
	assert.False(t, cfg.Memory.Enabled)
}

func TestLoadConfig_MissingFileErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
