package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doxreduce/internal/adapter/reducer"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, []string{"*.html"}, cfg.Reduce.Includes)
	assert.Equal(t, DefaultPasses, cfg.Reduce.Passes)
	assert.Equal(t, "vcs_event_c", cfg.Reduce.EventMarker)
	assert.Equal(t, 1, cfg.Reduce.Jobs)
	assert.False(t, cfg.Reduce.ContinueOnError)
	assert.True(t, cfg.Manifest.Enabled)
	assert.Equal(t, "Main page", cfg.Scripts.Labels["VCS Developer Documentation"])
	require.NoError(t, cfg.Validate())
}

func TestDefaultConfig_PassesIsCopy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Reduce.Passes[0] = "changed"

	assert.Equal(t, "remove-non-breaking-spaces", DefaultPasses[0])
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/doxreduce.yaml")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "doxreduce.yaml")

	content := `
reduce:
  jobs: 4
  event_marker: my_event_t
  passes:
    - remove-non-breaking-spaces
    - singly-capitalize
scripts:
  labels:
    "Namespace List": "Namespace list"
logging:
  format: json
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Reduce.Jobs)
	assert.Equal(t, "my_event_t", cfg.Reduce.EventMarker)
	assert.Equal(t, []string{"remove-non-breaking-spaces", "singly-capitalize"}, cfg.Reduce.Passes)
	assert.Equal(t, "Namespace list", cfg.Scripts.Labels["Namespace List"])
	// Defaults survive alongside user labels.
	assert.Equal(t, "File list", cfg.Scripts.Labels["File List"])
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, []string{"*.html"}, cfg.Reduce.Includes)
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "doxreduce.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("reduce: [unterminated"), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "doxreduce.yaml"), []byte("reduce:\n  jobs: 3\n"), 0644))

	cfg, err := LoadFromDir(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Reduce.Jobs)
}

func TestLoadFromDir_StateDirConfig(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureStateDir(tmpDir))
	require.NoError(t, os.WriteFile(filepath.Join(StateDir(tmpDir), "config.yaml"), []byte("manifest:\n  enabled: false\n"), 0644))

	cfg, err := LoadFromDir(tmpDir)
	require.NoError(t, err)
	assert.False(t, cfg.Manifest.Enabled)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doxreduce.yaml")
	cfg := DefaultConfig()
	cfg.Reduce.Jobs = 8

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"unknown pass", func(c *Config) { c.Reduce.Passes = []string{"frobnicate"} }, ErrUnknownPass},
		{"empty marker", func(c *Config) { c.Reduce.EventMarker = "" }, ErrInvalid},
		{"zero jobs", func(c *Config) { c.Reduce.Jobs = 0 }, ErrInvalid},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestValidateMatchesPipeline(t *testing.T) {
	assert.Equal(t, reducer.PassNames(), DefaultPasses)

	cfg := DefaultConfig()
	cfg.Reduce.Passes = []string{reducer.PassSinglyCapitalize, "frobnicate"}
	err := cfg.Validate()
	assert.ErrorIs(t, err, reducer.ErrUnknownPass)
	assert.Contains(t, err.Error(), `"frobnicate"`)

	_, pipelineErr := reducer.NewPipeline(cfg.Reduce.Passes, reducer.DefaultOptions())
	assert.ErrorIs(t, pipelineErr, ErrUnknownPass)
}

func TestManifestDBPath(t *testing.T) {
	path := ManifestDBPath("/home/user/project")
	assert.Equal(t, filepath.Join("/home/user/project", ".doxreduce", "manifest.db"), path)
}
