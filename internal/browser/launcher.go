// Package browser creates configured browser sessions on top of
// playwright.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"loginsuite/internal/config"
	"loginsuite/internal/ledger"
)

// Launcher owns the playwright driver process and creates sessions from it.
// It is safe for concurrent use.
type Launcher struct {
	mu     sync.Mutex
	pw     *playwright.Playwright
	log    *zap.Logger
	ledger *ledger.Ledger
}

// NewLauncher returns a Launcher. The driver starts on first use. l may be
// nil.
func NewLauncher(log *zap.Logger, l *ledger.Ledger) *Launcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Launcher{log: log.Named("browser"), ledger: l}
}

// Install downloads the driver and the engines needed for kinds. Edge is
// used from the system install and is never downloaded.
func Install(kinds []Kind) error {
	seen := map[string]bool{}
	var names []string
	for _, k := range kinds {
		name := engineName(k)
		if k == Edge || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return playwright.Install(&playwright.RunOptions{Browsers: names})
}

func engineName(k Kind) string {
	if k == Firefox {
		return "firefox"
	}
	return "chromium"
}

func (l *Launcher) driver() (*playwright.Playwright, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pw != nil {
		return l.pw, nil
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	l.pw = pw
	return pw, nil
}

func engine(pw *playwright.Playwright, k Kind) playwright.BrowserType {
	if k == Firefox {
		return pw.Firefox
	}
	return pw.Chromium
}

// Launch starts a browser for opts, opens a page and navigates it to
// opts.BaseURL. ctx is checked before the driver starts and its deadline
// bounds the browser start; once the browser is up the session is kept.
// Failures come back as *LaunchError and are not retried.
func (l *Launcher) Launch(ctx context.Context, opts Options) (*Session, error) {
	if _, err := ParseKind(string(opts.Kind)); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, &LaunchError{Kind: opts.Kind, Err: err}
	}
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = config.DefaultTimeout
	}
	pw, err := l.driver()
	if err != nil {
		return nil, &LaunchError{Kind: opts.Kind, Err: err}
	}

	start := time.Now()
	b, err := l.open(pw, opts, startTimeout(ctx))
	if err != nil {
		l.log.Error("browser launch failed", zap.String("browser", string(opts.Kind)), zap.Error(err))
		return nil, &LaunchError{Kind: opts.Kind, Err: err}
	}

	sess, err := l.newSession(b, opts)
	if err != nil {
		_ = b.Close()
		l.log.Error("session setup failed", zap.String("browser", string(opts.Kind)), zap.Error(err))
		return nil, &LaunchError{Kind: opts.Kind, Err: err}
	}

	if l.ledger != nil {
		l.ledger.RegisterSession(sess.ID)
	}
	l.log.Info("session started",
		zap.String("session", sess.ID),
		zap.String("browser", string(opts.Kind)),
		zap.Bool("headless", opts.Headless),
		zap.Bool("private", opts.Private),
		zap.Bool("remote", opts.RemoteEndpoint != ""),
		zap.Duration("elapsed", time.Since(start)))
	return sess, nil
}

func (l *Launcher) open(pw *playwright.Playwright, opts Options, timeout *float64) (playwright.Browser, error) {
	bt := engine(pw, opts.Kind)
	if opts.RemoteEndpoint == "" {
		lo := launchOptions(opts)
		lo.Timeout = timeout
		return bt.Launch(lo)
	}
	headers, err := remoteLaunchHeader(opts)
	if err != nil {
		return nil, err
	}
	return bt.Connect(opts.RemoteEndpoint, playwright.BrowserTypeConnectOptions{
		Headers: headers,
		Timeout: timeout,
	})
}

// startTimeout turns the ctx deadline into a playwright timeout in
// milliseconds. No deadline leaves playwright's own default.
func startTimeout(ctx context.Context) *float64 {
	deadline, ok := ctx.Deadline()
	if !ok {
		return nil
	}
	return playwright.Float(float64(max(time.Until(deadline), time.Millisecond).Milliseconds()))
}

func (l *Launcher) newSession(b playwright.Browser, opts Options) (*Session, error) {
	bctx, err := b.NewContext(contextOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("new context: %w", err)
	}
	bctx.SetDefaultTimeout(float64(opts.DefaultTimeout.Milliseconds()))
	page, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}

	sess := NewSession(opts.Kind, page, opts, l.log,
		func() error { return page.Close() },
		func() error { return bctx.Close() },
		func() error { return b.Close() },
	)
	sess.Browser = b
	sess.Context = bctx

	if opts.BaseURL != "" {
		if err := sess.Navigate(opts.BaseURL); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// Close stops the driver. Sessions must be closed first.
func (l *Launcher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pw == nil {
		return nil
	}
	err := l.pw.Stop()
	l.pw = nil
	return err
}
