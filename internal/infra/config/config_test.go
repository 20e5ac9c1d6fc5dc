package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "mpv", cfg.Player.Type)
	assert.Equal(t, 70, cfg.Player.Volume)
	assert.Equal(t, 3*time.Second, cfg.Player.SeekStep())
	assert.Equal(t, 5, cfg.Player.VolumeStep)
	assert.Equal(t, 3*time.Second, cfg.Highlight.Dwell())
	assert.True(t, cfg.Highlight.StartWithRow())
	// Releases are published from the original project's repository.
	assert.Equal(t, "pvbarredo/pobre-media-player", cfg.Update.Repo)
	assert.Equal(t, "https://api.github.com", cfg.Update.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.Update.Timeout())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mpv", cfg.Player.Type)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
player:
  type: mpv
  volume: 40
  settings:
    binary: /opt/mpv/bin/mpv
    extra_args: ["--no-border"]
highlight:
  dwell_ms: 1500
  export_dir: /tmp/highlights
  initial_row: false
update:
  repo: someone/fork
log:
  level: debug
  file: /tmp/pobre.log
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Player.Volume)
	assert.Equal(t, "/opt/mpv/bin/mpv", cfg.Player.Settings["binary"])
	assert.Equal(t, 1500*time.Millisecond, cfg.Highlight.Dwell())
	assert.Equal(t, "/tmp/highlights", cfg.Highlight.ExportDir)
	assert.False(t, cfg.Highlight.StartWithRow())
	assert.Equal(t, "someone/fork", cfg.Update.Repo)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/pobre.log", cfg.Log.File)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("POBRE_MPV_PATH", "/usr/local/bin/mpv")
	t.Setenv("POBRE_UPDATE_REPO", "env/repo")
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("POBRE_LOG_LEVEL", "warn")

	path := writeConfig(t, `
update:
  repo: file/repo
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/mpv", cfg.Player.Settings["binary"])
	assert.Equal(t, "env/repo", cfg.Update.Repo)
	assert.Equal(t, "env-token", cfg.Update.Token)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "player: [unclosed")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid",
			yaml:    "player:\n  volume: 100\n",
			wantErr: false,
		},
		{
			name:    "unsupported player type",
			yaml:    "player:\n  type: vlc\n",
			wantErr: true,
			errMsg:  "Type",
		},
		{
			name:    "volume out of range",
			yaml:    "player:\n  volume: 150\n",
			wantErr: true,
			errMsg:  "Volume",
		},
		{
			name:    "dwell too short",
			yaml:    "highlight:\n  dwell_ms: 10\n",
			wantErr: true,
			errMsg:  "DwellMs",
		},
		{
			name:    "repo without owner",
			yaml:    "update:\n  repo: pobre\n",
			wantErr: true,
			errMsg:  "Repo",
		},
		{
			name:    "invalid api url",
			yaml:    "update:\n  api_base_url: not-a-url\n",
			wantErr: true,
			errMsg:  "APIBaseURL",
		},
		{
			name:    "unknown log level",
			yaml:    "log:\n  level: trace\n",
			wantErr: true,
			errMsg:  "Level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
