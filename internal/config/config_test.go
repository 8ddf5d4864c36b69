package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_LayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracknerd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
user_stats:
  stats:
    - id: sanity
      name: Sanity
      max: 200
info_box:
  weather: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.UserStats.Stats, 1)
	assert.Equal(t, "sanity", cfg.UserStats.Stats[0].ID)
	assert.Equal(t, 200, cfg.UserStats.Stats[0].Max)
	assert.False(t, cfg.InfoBox.Weather)

	// Untouched sections keep their defaults.
	assert.True(t, cfg.InfoBox.Date)
	assert.Equal(t, 30, cfg.Defaults.TimeMinutes)
	assert.True(t, cfg.UserStats.MoodEnabled)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracknerd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_stats: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestRelationshipAllowed(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.RelationshipAllowed("friend"))
	assert.False(t, cfg.RelationshipAllowed("sworn nemesis"))
}
