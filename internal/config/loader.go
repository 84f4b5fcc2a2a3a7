package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// LoadOptions controls configuration loading.
type LoadOptions struct {
	// BaseDir roots the default artifact directories. Defaults to CWD.
	BaseDir string
	// EnvFile is a dotenv file merged below the real environment. Defaults
	// to BaseDir/.env; a missing file is not an error.
	EnvFile string
	// Flags, when set, are bound as the highest-precedence source. Only
	// flags the user actually changed take effect.
	Flags *pflag.FlagSet
}

var envBindings = []struct {
	Key string
	Env string
}{
	{"base_url", "QA_BASE_URL"},
	{"app_name", "APP_NAME"},
	{"suite_name", "SUITE_NAME"},
	{"admin_username", "ADMIN_USERNAME"},
	{"admin_password", "ADMIN_PASSWORD"},
	{"chrome_driver_path", "CHROME_DRIVER_PATH"},
	{"edge_driver_path", "EDGE_DRIVER_PATH"},
	{"firefox_driver_path", "GECKO_DRIVER_PATH"},
	{"screenshot_dir", "SELENIUM_SCREENSHOT_DIR"},
	{"upload_dir", "FILE_UPLOAD_DIR"},
	{"log_dir", "LOG_DIR"},
	{"report_dir", "REPORT_DIR"},
	{"browser", "UITEST_BROWSER"},
	{"setup_type", "UITEST_SETUP_TYPE"},
	{"headless", "UITEST_HEADLESS"},
	{"private", "UITEST_PRIVATE"},
	{"remote", "UITEST_REMOTE"},
	{"log_level", "UITEST_LOG_LEVEL"},
}

var flagBindings = map[string]string{
	"browser":    "browser",
	"setup_type": "setup-type",
	"headless":   "headless",
	"private":    "private",
	"remote":     "remote",
	"log_level":  "log-level",
}

// BindFlags registers the harness flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	def := DefaultConfig("")
	fs.String("browser", def.Browser, "browser to run: chrome, firefox, edge or all")
	fs.String("setup-type", def.SetupType, "session lifetime: isolated or continuous")
	fs.Bool("headless", false, "run the browser without a visible window")
	fs.Bool("private", false, "run the browser in private/incognito mode")
	fs.Bool("remote", false, "run the browser inside a Docker browser server")
	fs.String("log-level", def.LogLevel, "minimum log level: debug, info, warn, error")
}

// Load returns the effective configuration.
func Load(opts LoadOptions) (Config, error) {
	baseDir := opts.BaseDir
	if baseDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			baseDir = cwd
		}
	}

	v := viper.New()
	setDefaults(v, DefaultConfig(baseDir))

	envFile := opts.EnvFile
	if envFile == "" && baseDir != "" {
		envFile = filepath.Join(baseDir, ".env")
	}
	if err := mergeEnvFile(v, envFile); err != nil {
		return Config{}, err
	}

	for _, b := range envBindings {
		if err := v.BindEnv(b.Key, b.Env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", b.Env, err)
		}
	}

	if opts.Flags != nil {
		for key, name := range flagBindings {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	cfg := DefaultConfig(baseDir)
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Browser = strings.ToLower(cfg.Browser)
	cfg.SetupType = strings.ToLower(cfg.SetupType)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("app_name", def.AppName)
	v.SetDefault("suite_name", def.SuiteName)
	v.SetDefault("admin_username", def.AdminUsername)
	v.SetDefault("admin_password", def.AdminPassword)
	v.SetDefault("chrome_driver_path", def.ChromeDriverPath)
	v.SetDefault("edge_driver_path", def.EdgeDriverPath)
	v.SetDefault("firefox_driver_path", def.FirefoxDriverPath)
	v.SetDefault("screenshot_dir", def.ScreenshotDir)
	v.SetDefault("upload_dir", def.UploadDir)
	v.SetDefault("log_dir", def.LogDir)
	v.SetDefault("report_dir", def.ReportDir)
	v.SetDefault("browser", def.Browser)
	v.SetDefault("setup_type", def.SetupType)
	v.SetDefault("headless", def.Headless)
	v.SetDefault("private", def.Private)
	v.SetDefault("remote", def.Remote)
	v.SetDefault("log_level", def.LogLevel)
}

// mergeEnvFile reads a dotenv file and lays its values over the defaults.
// Keys in the file are the environment variable names.
func mergeEnvFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("env file %s is a directory", path)
	}

	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType("env")
	if err := file.ReadInConfig(); err != nil {
		return fmt.Errorf("read env file %s: %w", path, err)
	}

	for _, b := range envBindings {
		// viper lowercases keys read from dotenv files
		envKey := strings.ToLower(b.Env)
		if file.IsSet(envKey) {
			v.SetDefault(b.Key, file.Get(envKey))
		}
	}
	return nil
}
