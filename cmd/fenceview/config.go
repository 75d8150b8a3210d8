// config.go
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mordant23/fenceview"
	"github.com/mordant23/fenceview/internal/logging"
)

const (
	RendererBrowser    = "browser"
	RendererScreenshot = "screenshot"
	RendererStdout     = "stdout"
	RendererClipboard  = "clipboard"
)

var renderers = []string{RendererBrowser, RendererScreenshot, RendererStdout, RendererClipboard}

type Config struct {
	Tag              string        `yaml:"tag"`
	Renderer         string        `yaml:"renderer"`
	OpenCmd          string        `yaml:"open_cmd"`
	ClipboardCmd     string        `yaml:"clipboard_cmd"`
	ScreenshotPath   string        `yaml:"screenshot_path"`
	ScreenshotWidth  int           `yaml:"screenshot_width"`
	ScreenshotHeight int           `yaml:"screenshot_height"`
	BrowserTimeout   time.Duration `yaml:"browser_timeout"`
	PromptTitle      string        `yaml:"prompt_title"`
	PromptMessage    string        `yaml:"prompt_message"`
	LogLevel         string        `yaml:"log_level"`
	LogFormat        string        `yaml:"log_format"`
}

func DefaultConfig() *Config {
	return &Config{
		Tag:              fenceview.DefaultTag,
		Renderer:         RendererBrowser,
		ScreenshotPath:   "fenceview.png",
		ScreenshotWidth:  1280,
		ScreenshotHeight: 800,
		BrowserTimeout:   30 * time.Second,
		PromptTitle:      "Select HTML Block",
		PromptMessage:    "Which HTML block would you like to preview?",
		LogLevel:         "warn",
		LogFormat:        "text",
	}
}

// LoadConfig reads the YAML file at path over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadConfigOrDefault is LoadConfig, except that a missing file yields the
// defaults unless the path was given explicitly.
func loadConfigOrDefault(path string, explicit bool) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return DefaultConfig(), nil
	}
	return nil, err
}

// ApplyEnv loads .env (when present) and applies FENCEVIEW_* overrides.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := strings.TrimSpace(os.Getenv("FENCEVIEW_TAG")); v != "" {
		c.Tag = v
	}
	if v := strings.TrimSpace(os.Getenv("FENCEVIEW_RENDERER")); v != "" {
		c.Renderer = v
	}
	if v := strings.TrimSpace(os.Getenv("FENCEVIEW_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) Validate() error {
	if !isRenderer(c.Renderer) {
		return fmt.Errorf("unknown renderer %q (want one of %s)", c.Renderer, strings.Join(renderers, ", "))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	if c.ScreenshotWidth <= 0 || c.ScreenshotHeight <= 0 {
		return fmt.Errorf("screenshot size must be positive, got %dx%d", c.ScreenshotWidth, c.ScreenshotHeight)
	}
	if c.BrowserTimeout <= 0 {
		return fmt.Errorf("browser_timeout must be positive, got %s", c.BrowserTimeout)
	}
	return nil
}

func isRenderer(name string) bool {
	for _, r := range renderers {
		if r == name {
			return true
		}
	}
	return false
}

func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fenceview", "config.yaml")
}
