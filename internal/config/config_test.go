package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdlayout/internal/layout"
)

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	require.Equal(t, []string{"content"}, cfg.ContentRoots)
	require.Equal(t, 4, cfg.Workers)

	opts := cfg.LayoutOptions()
	require.Equal(t, layout.DefaultLayoutRef, opts.DefaultLayout)
	require.True(t, opts.SkipIfHasLayout)
}

func TestLoad_FullFile_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdlayout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
content_roots:
  - docs
  - articles
layout:
  default: src/layouts/article.astro
  skip_if_has_layout: false
workers: 8
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, []string{"docs", "articles"}, cfg.ContentRoots)
	require.Equal(t, 8, cfg.Workers)

	opts := cfg.LayoutOptions()
	require.Equal(t, "src/layouts/article.astro", opts.DefaultLayout)
	require.False(t, opts.SkipIfHasLayout)
}

func TestLoad_EnvExpansion_SubstitutesVariables(t *testing.T) {
	t.Setenv("MDLAYOUT_TEST_LAYOUT", "env.astro")

	path := filepath.Join(t.TempDir(), "mdlayout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layout:\n  default: ${MDLAYOUT_TEST_LAYOUT}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "env.astro", cfg.LayoutOptions().DefaultLayout)
}

func TestLoad_MalformedYAML_ReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdlayout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("content_roots: [\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_SkipIfHasLayoutAbsent_DefaultsTrue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdlayout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layout:\n  default: x.astro\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.LayoutOptions().SkipIfHasLayout)
}
