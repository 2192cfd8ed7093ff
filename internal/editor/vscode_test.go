package editor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureWritesSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".vscode", "settings.json")
	c := NewConfigurator(path)

	wrote, err := c.Configure("/proj/.venv/bin/python")
	require.NoError(t, err)
	assert.True(t, wrote)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"python.defaultInterpreterPath\": \"/proj/.venv/bin/python\"\n}\n", string(data))

	var settings map[string]string
	require.NoError(t, json.Unmarshal(data, &settings))
	assert.Len(t, settings, 1)
}

func TestConfigureIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".vscode", "settings.json")
	c := NewConfigurator(path)

	wrote, err := c.Configure("/first/.venv/bin/python")
	require.NoError(t, err)
	require.True(t, wrote)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	// A different interpreter on the second call changes nothing.
	wrote, err = c.Configure("/second/.venv/bin/python")
	require.NoError(t, err)
	assert.False(t, wrote)

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConfigureLeavesExistingFileAlone(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".vscode")
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("not even json"), 0644))

	wrote, err := NewConfigurator(path).Configure("/proj/.venv/bin/python")
	require.NoError(t, err)
	assert.False(t, wrote)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not even json", string(data))
}

func TestConfigureDoesNotEscapePaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	_, err := NewConfigurator(path).Configure("/a&b/<env>/python")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "/a&b/<env>/python")
}

func TestConfigureWritesIntoExistingWorkspaceDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".vscode")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "launch.json"), []byte("{}"), 0644))
	c := NewConfigurator(filepath.Join(dir, "settings.json"))

	wrote, err := c.Configure("/proj/.venv/bin/python")

	require.NoError(t, err)
	assert.True(t, wrote)
	assert.FileExists(t, c.SettingsFile())
}
