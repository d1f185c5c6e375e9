package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"port": 9090,
		"store": "postgres",
		"database_url": "postgres://localhost/resume",
		"preview_delay": "150ms",
		"settings": {"fontFamily": "Times", "fontSize": 11},
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres", cfg.Store)
	assert.Equal(t, "postgres://localhost/resume", cfg.DatabaseURL)
	assert.Equal(t, 150*time.Millisecond, cfg.PreviewDelayDuration())
	assert.True(t, cfg.Verbose)

	s := cfg.RenderSettings()
	assert.Equal(t, types.FontTimes, s.FontFamily)
	assert.Equal(t, 11.0, s.FontSize)
	assert.Equal(t, types.SpacingNormal, s.Spacing)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	big := 40.0
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty config", cfg: Config{}},
		{name: "defaults", cfg: Defaults()},
		{name: "unknown store", cfg: Config{Store: "redis"}, wantErr: "Store"},
		{name: "postgres without url", cfg: Config{Store: "postgres"}, wantErr: "DatabaseURL"},
		{name: "postgres with url", cfg: Config{Store: "postgres", DatabaseURL: "postgres://x"}},
		{name: "port out of range", cfg: Config{Port: 70000}, wantErr: "Port"},
		{name: "bad delay", cfg: Config{PreviewDelay: "soon"}, wantErr: "preview_delay"},
		{name: "negative delay", cfg: Config{PreviewDelay: "-1s"}, wantErr: "non-negative"},
		{name: "bad settings", cfg: Config{Settings: &types.SettingsPatch{FontSize: &big}}, wantErr: "settings"},
		{name: "missing template", cfg: Config{Template: "/nonexistent/resume.tex"}, wantErr: "template file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Defaults()
	defaults.Template = "default.tex"

	partial := Config{
		Port:  9000,
		Store: "memory",
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "memory", merged.Store)

	// Default values should fill in empty fields
	assert.Equal(t, DefaultStatePath, merged.StatePath)
	assert.Equal(t, "default.tex", merged.Template)
	assert.Equal(t, "300ms", merged.PreviewDelay)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{StatePath: "state.json"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "state.json", merged.StatePath)
	assert.Zero(t, merged.Port)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":              "7000",
		"DATABASE_URL":      "postgres://env",
		"RESUME_STORE":      "postgres",
		"RESUME_STATE_PATH": "/tmp/state.json",
		"PREVIEW_DELAY":     "1s",
		"CHROME_PATH":       "/usr/bin/chromium",
	}
	cfg := Defaults()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, "postgres", cfg.Store)
	assert.Equal(t, "/tmp/state.json", cfg.StatePath)
	assert.Equal(t, time.Second, cfg.PreviewDelayDuration())
	assert.Equal(t, "/usr/bin/chromium", cfg.ChromePath)
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	cfg := Defaults()
	err := cfg.ApplyEnv(func(k string) string {
		if k == "PORT" {
			return "eighty"
		}
		return ""
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid PORT")
	assert.Equal(t, DefaultPort, cfg.Port)
}

func TestPreviewDelayDuration_Fallback(t *testing.T) {
	assert.Equal(t, DefaultPreviewDelay, (&Config{}).PreviewDelayDuration())
	assert.Equal(t, DefaultPreviewDelay, (&Config{PreviewDelay: "later"}).PreviewDelayDuration())
}
