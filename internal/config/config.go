// Package config loads harness settings.
// Precedence: defaults < .env file < environment < flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds ordinary element waits.
	DefaultTimeout = 10 * time.Second
	// ExtendedTimeout bounds waits on slow pages.
	ExtendedTimeout = 30 * time.Second
	// MaxRetries is reserved. No operation retries today.
	MaxRetries = 3
)

// Setup types.
const (
	SetupIsolated   = "isolated"
	SetupContinuous = "continuous"
)

// ErrInvalidConfig is returned for values that can never work, such as an
// unknown browser or setup type.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the effective harness configuration.
type Config struct {
	BaseURL       string `mapstructure:"base_url"`
	AppName       string `mapstructure:"app_name"`
	SuiteName     string `mapstructure:"suite_name"`
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`

	ChromeDriverPath  string `mapstructure:"chrome_driver_path"`
	EdgeDriverPath    string `mapstructure:"edge_driver_path"`
	FirefoxDriverPath string `mapstructure:"firefox_driver_path"`

	ScreenshotDir string `mapstructure:"screenshot_dir"`
	UploadDir     string `mapstructure:"upload_dir"`
	LogDir        string `mapstructure:"log_dir"`
	ReportDir     string `mapstructure:"report_dir"`

	Browser   string `mapstructure:"browser"`
	SetupType string `mapstructure:"setup_type"`
	Headless  bool   `mapstructure:"headless"`
	Private   bool   `mapstructure:"private"`
	Remote    bool   `mapstructure:"remote"`
	LogLevel  string `mapstructure:"log_level"`

	DefaultTimeout  time.Duration `mapstructure:"-"`
	ExtendedTimeout time.Duration `mapstructure:"-"`
	MaxRetries      int           `mapstructure:"-"`
}

// DefaultConfig returns built-in defaults rooted at baseDir.
func DefaultConfig(baseDir string) Config {
	return Config{
		BaseURL:         "http://localhost:8080/",
		AppName:         "Web Application",
		SuiteName:       "loginsuite",
		ScreenshotDir:   filepath.Join(baseDir, "screenshots"),
		UploadDir:       filepath.Join(baseDir, "uploads"),
		LogDir:          filepath.Join(baseDir, "logs"),
		ReportDir:       filepath.Join(baseDir, "reports"),
		Browser:         "chrome",
		SetupType:       SetupIsolated,
		LogLevel:        "info",
		DefaultTimeout:  DefaultTimeout,
		ExtendedTimeout: ExtendedTimeout,
		MaxRetries:      MaxRetries,
	}
}

// DriverPath returns the configured executable override for a browser kind,
// or "" to let the engine pick its own.
func (c Config) DriverPath(kind string) string {
	switch strings.ToLower(kind) {
	case "chrome":
		return c.ChromeDriverPath
	case "edge":
		return c.EdgeDriverPath
	case "firefox":
		return c.FirefoxDriverPath
	default:
		return ""
	}
}

// EnsureDirs creates the artifact directories.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.ScreenshotDir, c.LogDir, c.ReportDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return nil
}

// Validate rejects configurations that cannot run.
func Validate(c Config) error {
	switch strings.ToLower(c.Browser) {
	case "chrome", "firefox", "edge", "all":
	default:
		return fmt.Errorf("%w: unsupported browser %q", ErrInvalidConfig, c.Browser)
	}
	switch strings.ToLower(c.SetupType) {
	case SetupIsolated, SetupContinuous:
	default:
		return fmt.Errorf("%w: invalid setup type %q", ErrInvalidConfig, c.SetupType)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL is empty", ErrInvalidConfig)
	}
	return nil
}
