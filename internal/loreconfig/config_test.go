package loreconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lore.toml")
	contents := `
default_project = "lore"

[embedding]
endpoint = "https://embed.example.com"
dimensions = 768

[dedup]
duplicate_threshold = 0.8
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "lore", cfg.Project)
	assert.Equal(t, "https://embed.example.com", cfg.Embedding.Endpoint)
	assert.Equal(t, 768, cfg.Embedding.Dimensions)
	assert.Equal(t, 0.8, cfg.Dedup.DuplicateThreshold)
	// Untouched fields keep the default.
	assert.Equal(t, 0.30, cfg.Dedup.ContradictionThreshold)
}
