package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every bound variable so the host environment cannot leak
// into a test. Empty values are treated as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, b := range envBindings {
		t.Setenv(b.Env, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(LoadOptions{BaseDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/", cfg.BaseURL)
	assert.Equal(t, "chrome", cfg.Browser)
	assert.Equal(t, SetupIsolated, cfg.SetupType)
	assert.False(t, cfg.Headless)
	assert.False(t, cfg.Private)
	assert.Equal(t, filepath.Join(dir, "screenshots"), cfg.ScreenshotDir)
	assert.Equal(t, filepath.Join(dir, "uploads"), cfg.UploadDir)
	assert.Equal(t, filepath.Join(dir, "logs"), cfg.LogDir)
	assert.Equal(t, DefaultTimeout, cfg.DefaultTimeout)
	assert.Equal(t, ExtendedTimeout, cfg.ExtendedTimeout)
	assert.Equal(t, MaxRetries, cfg.MaxRetries)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	envFile := filepath.Join(dir, ".env")
	content := "QA_BASE_URL=https://from-file.example/\nADMIN_USERNAME=file-user\nUITEST_BROWSER=firefox\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	// file only
	cfg, err := Load(LoadOptions{BaseDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "https://from-file.example/", cfg.BaseURL)
	assert.Equal(t, "file-user", cfg.AdminUsername)
	assert.Equal(t, "firefox", cfg.Browser)

	// environment beats file
	t.Setenv("QA_BASE_URL", "https://from-env.example/")
	t.Setenv("UITEST_HEADLESS", "true")
	cfg, err = Load(LoadOptions{BaseDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "https://from-env.example/", cfg.BaseURL)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "file-user", cfg.AdminUsername)

	// changed flags beat environment, unchanged flags do not
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--browser", "EDGE", "--setup-type", "continuous", "--private"}))
	cfg, err = Load(LoadOptions{BaseDir: dir, Flags: fs})
	require.NoError(t, err)
	assert.Equal(t, "edge", cfg.Browser)
	assert.Equal(t, SetupContinuous, cfg.SetupType)
	assert.True(t, cfg.Private)
	assert.True(t, cfg.Headless)
}

func TestLoadExplicitEnvFileMissing(t *testing.T) {
	clearEnv(t)
	_, err := Load(LoadOptions{BaseDir: t.TempDir(), EnvFile: filepath.Join(t.TempDir(), "nope.env")})
	require.NoError(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown browser", env: map[string]string{"UITEST_BROWSER": "safari"}},
		{name: "unknown setup type", env: map[string]string{"UITEST_SETUP_TYPE": "shared"}},
		{name: "unknown log level", env: map[string]string{"UITEST_LOG_LEVEL": "verbose"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(LoadOptions{BaseDir: t.TempDir()})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestDriverPath(t *testing.T) {
	cfg := DefaultConfig("")
	cfg.ChromeDriverPath = "/opt/chrome"
	cfg.FirefoxDriverPath = "/opt/firefox"

	assert.Equal(t, "/opt/chrome", cfg.DriverPath("Chrome"))
	assert.Equal(t, "/opt/firefox", cfg.DriverPath("firefox"))
	assert.Equal(t, "", cfg.DriverPath("edge"))
	assert.Equal(t, "", cfg.DriverPath("opera"))
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)
	require.NoError(t, cfg.EnsureDirs())

	for _, d := range []string{cfg.ScreenshotDir, cfg.LogDir, cfg.ReportDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
