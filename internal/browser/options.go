package browser

import (
	"encoding/json"
	"time"

	"github.com/playwright-community/playwright-go"
)

// stabilityArgs keep Chromium-based browsers steady in containers and CI.
var stabilityArgs = []string{
	"--no-sandbox",
	"--disable-gpu",
	"--disable-extensions",
	"--disable-dev-shm-usage",
}

// headlessViewport replaces the maximized window when nothing is shown.
var headlessViewport = playwright.Size{Width: 1920, Height: 1080}

// Options describe one session.
type Options struct {
	Kind     Kind
	Headless bool
	Private  bool
	// ExecutablePath overrides the engine-managed browser binary.
	ExecutablePath string
	// BaseURL is opened once the page exists. Empty skips navigation.
	BaseURL string
	// RemoteEndpoint, when set, is a browser server websocket to connect
	// to instead of launching locally.
	RemoteEndpoint string
	// DefaultTimeout bounds every wait and action on the page.
	DefaultTimeout time.Duration
	// ScreenshotDir receives Session.Screenshot output.
	ScreenshotDir string
}

// launchOptions builds the engine launch options for opts.
func launchOptions(opts Options) playwright.BrowserTypeLaunchOptions {
	lo := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if opts.ExecutablePath != "" {
		lo.ExecutablePath = playwright.String(opts.ExecutablePath)
	}

	switch opts.Kind {
	case Firefox:
		if opts.Private {
			lo.FirefoxUserPrefs = map[string]interface{}{
				"browser.privatebrowsing.autostart": true,
			}
		}
	default:
		args := append([]string(nil), stabilityArgs...)
		if !opts.Headless {
			args = append(args, "--start-maximized")
		}
		if opts.Kind == Edge {
			if opts.ExecutablePath == "" {
				lo.Channel = playwright.String("msedge")
			}
			if opts.Private {
				args = append(args, "--inprivate")
			}
		} else if opts.Private {
			args = append(args, "--incognito")
		}
		lo.Args = args
	}
	return lo
}

// contextOptions sizes the page: the real window when one is shown, a fixed
// large viewport when headless.
func contextOptions(opts Options) playwright.BrowserNewContextOptions {
	if opts.Headless {
		vp := headlessViewport
		return playwright.BrowserNewContextOptions{Viewport: &vp}
	}
	return playwright.BrowserNewContextOptions{NoViewport: playwright.Bool(true)}
}

// remoteLaunchHeader carries launch options to a playwright run-server,
// which reads them from the x-playwright-launch-options header.
func remoteLaunchHeader(opts Options) (map[string]string, error) {
	lo := launchOptions(opts)
	payload := map[string]interface{}{
		"headless": opts.Headless,
	}
	if len(lo.Args) > 0 {
		payload["args"] = lo.Args
	}
	if lo.FirefoxUserPrefs != nil {
		payload["firefoxUserPrefs"] = lo.FirefoxUserPrefs
	}
	if lo.Channel != nil {
		payload["channel"] = *lo.Channel
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return map[string]string{"x-playwright-launch-options": string(b)}, nil
}
