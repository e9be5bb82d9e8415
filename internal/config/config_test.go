package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "editor.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.Context(), filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
editor {
  log_level  = "debug"
  asset_dirs = ["meshes", "shared/meshes"]
}

export {
  default_format = "urdf"
}
`)
	cfg, err := Load(t.Context(), path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Editor.LogLevel)
	assert.Equal(t, "text", cfg.Editor.LogFormat, "unset values keep their defaults")
	assert.Equal(t, []string{"meshes", "shared/meshes"}, cfg.Editor.AssetDirs)
	assert.Equal(t, "urdf", cfg.Export.DefaultFormat)
	assert.Equal(t, ".", cfg.Export.OutputDir)
}

func TestLoadEnvInterpolation(t *testing.T) {
	t.Setenv("WORKCELL_MONITOR", "http://monitor.local:8080/socket.io")
	path := writeConfig(t, `
bridge {
  enabled = true
  url     = env.WORKCELL_MONITOR
}
`)
	cfg, err := Load(t.Context(), path)
	require.NoError(t, err)

	assert.True(t, cfg.Bridge.Enabled)
	assert.Equal(t, "http://monitor.local:8080/socket.io", cfg.Bridge.URL)
	assert.Equal(t, "/editor", cfg.Bridge.Namespace)
}

func TestLoadValidation(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "bad log level",
			body:    `editor { log_level = "verbose" }`,
			wantErr: "invalid log_level",
		},
		{
			name:    "bad format",
			body:    `export { default_format = "sdf" }`,
			wantErr: "invalid default_format",
		},
		{
			name:    "bridge without url",
			body:    `bridge { enabled = true }`,
			wantErr: "no url is set",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(t.Context(), writeConfig(t, tc.body))
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoadBadSyntax(t *testing.T) {
	_, err := Load(t.Context(), writeConfig(t, `editor {`))
	assert.ErrorContains(t, err, "failed to parse config file")
}
