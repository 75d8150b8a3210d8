// config_test.go
package main

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
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `tag: svg
renderer: screenshot
open_cmd: firefox
clipboard_cmd: wl-copy
screenshot_path: /tmp/out.png
screenshot_width: 640
screenshot_height: 480
browser_timeout: 5s
prompt_title: Pick one
prompt_message: Which one?
log_level: debug
log_format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "svg", cfg.Tag)
	assert.Equal(t, RendererScreenshot, cfg.Renderer)
	assert.Equal(t, "firefox", cfg.OpenCmd)
	assert.Equal(t, "wl-copy", cfg.ClipboardCmd)
	assert.Equal(t, "/tmp/out.png", cfg.ScreenshotPath)
	assert.Equal(t, 640, cfg.ScreenshotWidth)
	assert.Equal(t, 480, cfg.ScreenshotHeight)
	assert.Equal(t, 5*time.Second, cfg.BrowserTimeout)
	assert.Equal(t, "Pick one", cfg.PromptTitle)
	assert.Equal(t, "Which one?", cfg.PromptMessage)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "renderer: stdout\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "html", cfg.Tag)
	assert.Equal(t, RendererStdout, cfg.Renderer)
	assert.Equal(t, "fenceview.png", cfg.ScreenshotPath)
	assert.Equal(t, 1280, cfg.ScreenshotWidth)
	assert.Equal(t, 800, cfg.ScreenshotHeight)
	assert.Equal(t, 30*time.Second, cfg.BrowserTimeout)
	assert.Equal(t, "Select HTML Block", cfg.PromptTitle)
	assert.Equal(t, "Which HTML block would you like to preview?", cfg.PromptMessage)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "renderer: [stdout\n")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigOrDefault(t *testing.T) {
	cfg, err := loadConfigOrDefault("/nonexistent/config.yaml", false)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = loadConfigOrDefault("/nonexistent/config.yaml", true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_ApplyEnv(t *testing.T) {
	// ApplyEnv reads .env from the working directory
	chdir(t, t.TempDir())
	t.Setenv("FENCEVIEW_TAG", "svg")
	t.Setenv("FENCEVIEW_RENDERER", "stdout")
	t.Setenv("FENCEVIEW_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "svg", cfg.Tag)
	assert.Equal(t, RendererStdout, cfg.Renderer)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestConfig_ApplyEnv_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FENCEVIEW_RENDERER=clipboard\n"), 0644))
	// godotenv never overrides variables that are already set
	t.Setenv("FENCEVIEW_RENDERER", "")
	os.Unsetenv("FENCEVIEW_RENDERER")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, RendererClipboard, cfg.Renderer)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown renderer", func(c *Config) { c.Renderer = "webview" }, true},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"zero width", func(c *Config) { c.ScreenshotWidth = 0 }, true},
		{"negative height", func(c *Config) { c.ScreenshotHeight = -1 }, true},
		{"zero timeout", func(c *Config) { c.BrowserTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpandPath_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{"~/config.yaml", filepath.Join(home, "config.yaml")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandPath(tt.input), "ExpandPath(%q)", tt.input)
	}
}
