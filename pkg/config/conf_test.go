package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOrCreate_CreatesDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "confdir")

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "standard", c.DefaultUrgency)
	assert.Equal(t, 3, c.DefaultDepth)
	assert.Empty(t, c.SnapshotURL)

	_, err = os.Stat(filepath.Join(dir, configFileName))
	assert.NoError(t, err)
}

func TestReadOrCreate_ReadsExisting(t *testing.T) {
	dir := t.TempDir()
	saved := &Config{
		SnapshotURL:    "https://snapshots.example.com",
		TrainingPath:   "/var/lib/deepcal/training.yaml",
		DefaultUrgency: "express",
		DefaultDepth:   5,
	}
	require.NoError(t, Save(dir, saved))

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, saved.SnapshotURL, c.SnapshotURL)
	assert.Equal(t, saved.TrainingPath, c.TrainingPath)
	assert.Equal(t, "express", c.DefaultUrgency)
	assert.Equal(t, 5, c.DefaultDepth)
}

func TestReadOrCreate_EmptyDir(t *testing.T) {
	_, err := ReadOrCreate("")
	assert.Error(t, err)
}

func TestReadOrCreate_BadContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileName)
	require.NoError(t, os.WriteFile(path, []byte(":\n  - bad"), fileMode))

	_, err := ReadOrCreate(dir)
	assert.Error(t, err)
}

func TestSave_Validation(t *testing.T) {
	assert.Error(t, Save("", &Config{}))
	assert.Error(t, Save(t.TempDir(), nil))
}

func TestGetOrCreateHomeDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir, created, err := GetOrCreateHomeDir("deepcal-test")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Contains(t, dir, ".deepcal-test")

	_, created, err = GetOrCreateHomeDir("deepcal-test")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestGetOrCreateHomeDir_EmptyName(t *testing.T) {
	_, _, err := GetOrCreateHomeDir("")
	assert.Error(t, err)
}
