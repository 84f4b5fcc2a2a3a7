// Package interactor performs user actions on located elements. Every
// failure is logged as a warning and returned as an *ActionError.
package interactor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"loginsuite/internal/locator"
)

// ActionError describes a failed action. errors.Is sees through it to the
// locator sentinels.
type ActionError struct {
	Action   string
	Locator  string
	Strategy string
	Err      error
}

func (e *ActionError) Error() string {
	if e.Locator == "" {
		return fmt.Sprintf("%s: %v", e.Action, e.Err)
	}
	strategy := e.Strategy
	if strategy == "" {
		strategy = string(locator.DefaultStrategy)
	}
	return fmt.Sprintf("%s %q (%s): %v", e.Action, e.Locator, strategy, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Interactor acts on elements found through a Locator.
type Interactor struct {
	loc       *locator.Locator
	log       *zap.Logger
	uploadDir string
	poll      time.Duration
}

// New returns an Interactor. uploadDir roots UploadFromDir.
func New(loc *locator.Locator, log *zap.Logger, uploadDir string) *Interactor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interactor{
		loc:       loc,
		log:       log.Named("interactor"),
		uploadDir: uploadDir,
		poll:      locator.PollInterval,
	}
}

// Locator returns the locator the interactor resolves through.
func (i *Interactor) Locator() *locator.Locator {
	return i.loc
}

func (i *Interactor) fail(action, loc, strategy string, err error) error {
	i.log.Warn("action failed",
		zap.String("action", action),
		zap.String("locator", loc),
		zap.String("strategy", strategy),
		zap.Error(err))
	return &ActionError{Action: action, Locator: loc, Strategy: strategy, Err: err}
}

// Click finds the element and clicks it.
func (i *Interactor) Click(loc, strategy string) error {
	el, err := i.loc.FindOne(loc, strategy)
	if err != nil {
		return i.fail("click", loc, strategy, err)
	}
	if err := el.Click(); err != nil {
		return i.fail("click", loc, strategy, err)
	}
	i.log.Info("clicked element", zap.String("locator", loc))
	return nil
}

// SendText finds the element and types text into it.
func (i *Interactor) SendText(text, loc, strategy string) error {
	el, err := i.loc.FindOne(loc, strategy)
	if err != nil {
		return i.fail("send text", loc, strategy, err)
	}
	if err := el.Fill(text); err != nil {
		return i.fail("send text", loc, strategy, err)
	}
	i.log.Info("sent text to element", zap.String("locator", loc))
	return nil
}

// ScrollIntoView moves to el and waits up to timeout for it to be visible.
func (i *Interactor) ScrollIntoView(el locator.Element, timeout time.Duration) (locator.Element, error) {
	if err := el.ScrollIntoView(); err != nil {
		return nil, i.fail("scroll", "", "", err)
	}
	deadline := time.Now().Add(timeout)
	for {
		if ok, err := el.IsVisible(); err == nil && ok {
			i.log.Info("element scrolled into view")
			return el, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		time.Sleep(min(i.poll, remaining))
	}
	i.log.Error("element not visible after scroll", zap.Duration("timeout", timeout))
	return nil, &ActionError{
		Action: "scroll",
		Err:    fmt.Errorf("%w after %s", locator.ErrTimedOut, timeout),
	}
}

// UploadFile hands the absolute form of path to a file input.
func (i *Interactor) UploadFile(el locator.Element, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return i.fail("upload", "", "", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return i.fail("upload", "", "", err)
	}
	if err := el.SetInputFiles(abs); err != nil {
		return i.fail("upload", "", "", err)
	}
	i.log.Info("file uploaded", zap.String("path", abs))
	return nil
}

// UploadFromDir uploads name from the configured upload directory.
func (i *Interactor) UploadFromDir(el locator.Element, name string) error {
	if i.uploadDir == "" {
		return i.fail("upload", "", "", fmt.Errorf("upload directory is not configured"))
	}
	return i.UploadFile(el, filepath.Join(i.uploadDir, name))
}
