package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "easygen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettingsProfiles(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	path := writeConfig(t, `
base_dir: /srv/site
logging:
  level: debug
easygen:
  default:
    collections:
      - blog.posts
      - pages.static
    file_system: redis
    file_system_args:
      address: localhost:6379
      prefix: "site:"
    strip_leading_slash: false
  preview:
    auto_index_html: false
`)

	s, err := LoadSettings(path)
	require.NoError(t, err)
	require.True(t, s.HasExportConfig())
	assert.Equal(t, "/srv/site", s.BaseDir)
	assert.Equal(t, "debug", s.Logging.Level)

	p := s.Profile("default")
	assert.Equal(t, []string{"blog.posts", "pages.static"}, p.Collections)
	assert.Equal(t, "redis", p.FileSystem)
	assert.Equal(t, "site:", p.FileSystemArgs["prefix"])
	assert.False(t, p.StripLeadingSlashEnabled())
	assert.True(t, p.AutoIndexHTMLEnabled())

	preview := s.Profile("preview")
	assert.Empty(t, preview.Collections)
	assert.Equal(t, DefaultFileSystem, preview.FileSystem)
	assert.Equal(t, filepath.Join("/srv/site", "generated"), preview.FileSystemArgs["location"])
	assert.True(t, preview.StripLeadingSlashEnabled())
	assert.False(t, preview.AutoIndexHTMLEnabled())
}

func TestLoadSettingsMissingProfileUsesDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	path := writeConfig(t, "base_dir: /app\neasygen:\n  default: {}\n")

	s, err := LoadSettings(path)
	require.NoError(t, err)

	p := s.Profile("staging")
	assert.Empty(t, p.Collections)
	assert.Equal(t, "filesystem", p.FileSystem)
	assert.Equal(t, map[string]any{"location": "/app/generated"}, p.FileSystemArgs)
}

func TestLoadSettingsWithoutExportSection(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	path := writeConfig(t, "logging:\n  level: info\n")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.False(t, s.HasExportConfig())
}

func TestLoadSettingsMissingFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	s, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.False(t, s.HasExportConfig())
	assert.NotEmpty(t, s.BaseDir)
}

func TestLoadReportsNotFound(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load[Settings](filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoadSettingsInvalidYAML(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	path := writeConfig(t, "easygen: [unclosed")

	_, err := LoadSettings(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("EASYGEN_METRICS_TEXTFILE=/tmp/easygen.prom\n"), 0o644))
	t.Setenv("ENV_FILE", envFile)
	t.Setenv("EASYGEN_LOG_LEVEL", "error")
	t.Setenv("EASYGEN_BASE_DIR", "/override")
	t.Cleanup(func() { os.Unsetenv("EASYGEN_METRICS_TEXTFILE") })

	path := writeConfig(t, "base_dir: /from-file\nlogging:\n  level: debug\n")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "/override", s.BaseDir)
	assert.Equal(t, "error", s.Logging.Level)
	assert.Equal(t, "/tmp/easygen.prom", s.Metrics.Textfile)
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("EASYGEN_CONFIG", "")
	assert.Equal(t, DefaultConfigPath, GetConfigPath(DefaultConfigPath))

	t.Setenv("EASYGEN_CONFIG", "/etc/easygen.yaml")
	assert.Equal(t, "/etc/easygen.yaml", GetConfigPath(DefaultConfigPath))
}

func TestProfileValidate(t *testing.T) {
	valid := Profile{Collections: []string{"a", "b"}, FileSystem: "memory"}
	assert.NoError(t, valid.Validate("default"))

	invalid := Profile{Collections: []string{"a", " ", "a"}}
	err := invalid.Validate("default")
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Problems, 3)
}
