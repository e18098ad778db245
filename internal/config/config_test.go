package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foliopress.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  base_url: /my-portfolio/\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/my-portfolio/", cfg.Site.BaseURL)
	assert.Equal(t, "public/content", cfg.Content.Dir)
	assert.Equal(t, "public/data", cfg.Content.OutputDir)
	assert.Equal(t, "default_cover.jpg", cfg.Content.Blogs.DefaultCover)
	assert.Equal(t, "background/default_proj.jpg", cfg.Content.Projects.DefaultHeaderBackground)
	assert.Equal(t, 1316, cfg.Preview.Port)
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foliopress.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  base_url: my-portfolio\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesBaseURL(t *testing.T) {
	t.Setenv("FOLIOPRESS_BASE_URL", "/other/")

	cfg := Default()
	assert.Equal(t, "/other/", cfg.Site.BaseURL)
}

func TestWriteStarter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foliopress.yaml")

	require.NoError(t, WriteStarter(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/my-portfolio/", cfg.Site.BaseURL)

	// Second write without force must refuse.
	assert.Error(t, WriteStarter(path, false))
	assert.NoError(t, WriteStarter(path, true))
}
