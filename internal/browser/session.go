package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"loginsuite/internal/locator"
)

// Session is one live browser page plus the handles needed to tear it down.
// It belongs to the test or group that created it.
type Session struct {
	ID      string
	Kind    Kind
	Browser playwright.Browser
	Context playwright.BrowserContext
	Page    playwright.Page

	timeout       time.Duration
	screenshotDir string
	log           *zap.Logger

	closeOnce sync.Once
	closeErr  error
	// closers run in order on Close.
	closers []func() error
}

// NewSession wraps an open page. closers run in order on Close. page may be
// nil for sessions that never touch a browser.
func NewSession(kind Kind, page playwright.Page, opts Options, log *zap.Logger, closers ...func() error) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	return &Session{
		ID:            id,
		Kind:          kind,
		Page:          page,
		timeout:       opts.DefaultTimeout,
		screenshotDir: opts.ScreenshotDir,
		log:           log.With(zap.String("session", id)),
		closers:       closers,
	}
}

// Locator returns a locator bound to the session page.
func (s *Session) Locator() *locator.Locator {
	return locator.New(pageAdapter{page: s.Page}, s.log)
}

// Wait blocks until locator is visible, bounded by the session timeout.
func (s *Session) Wait(loc, strategy string) (locator.Element, error) {
	return s.Locator().WaitVisible(loc, strategy, s.timeout)
}

// Timeout is the default wait bound for this session.
func (s *Session) Timeout() time.Duration {
	return s.timeout
}

// Navigate opens url in the session page.
func (s *Session) Navigate(url string) error {
	if _, err := s.Page.Goto(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// Reset drops cookies and storage state and reopens url, so a shared
// session starts each test logged out.
func (s *Session) Reset(url string) error {
	if s.Context != nil {
		if err := s.Context.ClearCookies(); err != nil {
			return fmt.Errorf("clear cookies: %w", err)
		}
	}
	if url == "" || s.Page == nil {
		return nil
	}
	return s.Navigate(url)
}

// Screenshot writes the page to <ScreenshotDir>/<name>.png.
func (s *Session) Screenshot(name string) (string, error) {
	path, err := screenshotPath(s.screenshotDir, name)
	if err != nil {
		return "", err
	}
	if _, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return "", fmt.Errorf("screenshot %s: %w", name, err)
	}
	s.log.Info("screenshot captured", zap.String("path", path))
	return path, nil
}

// Close tears the session down. Only the first call does any work; later
// calls return the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		for _, c := range s.closers {
			if err := c(); err != nil {
				errs = append(errs, err)
			}
		}
		s.closeErr = errors.Join(errs...)
		if s.closeErr != nil {
			s.log.Warn("session closed with errors", zap.Error(s.closeErr))
		} else {
			s.log.Info("session closed")
		}
	})
	return s.closeErr
}

func screenshotPath(dir, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("screenshot name is empty")
	}
	if !strings.HasSuffix(strings.ToLower(name), ".png") {
		name += ".png"
	}
	if dir == "" {
		return name, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	return filepath.Join(dir, filepath.Base(name)), nil
}
