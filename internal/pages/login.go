// Package pages holds page objects: one type per page, exposing the
// operations a test performs on it.
package pages

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"loginsuite/internal/config"
	"loginsuite/internal/interactor"
	"loginsuite/internal/locator"
)

// Screenshot names produced by the login checks.
const (
	ShotInvalidCreds    = "Invalid_Login_Creds"
	ShotUnexpectedError = "Login_unexpected_error"
)

// Screenshotter captures the current page under a name and returns the file
// written.
type Screenshotter interface {
	Screenshot(name string) (string, error)
}

// LoginLocators are the xpath expressions the login page relies on.
type LoginLocators struct {
	LoginLink     string
	Username      string
	Password      string
	LoginButton   string
	SuccessMarker string
	ErrorMarker   string
}

// DefaultLoginLocators matches the target application's markup.
func DefaultLoginLocators() LoginLocators {
	return LoginLocators{
		LoginLink:     "//div[contains(@class, 'navbar')]//a[@href='/login']",
		Username:      "//form[contains(@method, 'POST')]//input[@type='email']",
		Password:      "//form[contains(@method, 'POST')]//input[@type='password']",
		LoginButton:   "//form[contains(@method, 'POST')]//button[@id='login']",
		SuccessMarker: "//button[@id='dropdownMenu1']",
		ErrorMarker:   "//form[contains(@method, 'POST')]//*[contains(@class, 'error')]",
	}
}

// Outcome is the settled state of a login attempt.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// LoginPage drives the login flow.
type LoginPage struct {
	act      *interactor.Interactor
	loc      *locator.Locator
	shots    Screenshotter
	log      *zap.Logger
	locators LoginLocators
	timeout  time.Duration
	poll     time.Duration
}

// Option customizes a LoginPage.
type Option func(*LoginPage)

// WithLocators overrides the default locators.
func WithLocators(l LoginLocators) Option {
	return func(p *LoginPage) { p.locators = l }
}

// WithTimeout overrides the verification wait window.
func WithTimeout(d time.Duration) Option {
	return func(p *LoginPage) { p.timeout = d }
}

// WithPollInterval overrides how often outcome markers are checked.
func WithPollInterval(d time.Duration) Option {
	return func(p *LoginPage) { p.poll = d }
}

// NewLoginPage builds the page object. shots may be nil.
func NewLoginPage(act *interactor.Interactor, shots Screenshotter, log *zap.Logger, opts ...Option) *LoginPage {
	if log == nil {
		log = zap.NewNop()
	}
	p := &LoginPage{
		act:      act,
		loc:      act.Locator(),
		shots:    shots,
		log:      log.Named("login_page"),
		locators: DefaultLoginLocators(),
		timeout:  config.DefaultTimeout,
		poll:     locator.PollInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Locators returns the locators in use.
func (p *LoginPage) Locators() LoginLocators {
	return p.locators
}

// OpenForm clicks the navbar login link.
func (p *LoginPage) OpenForm() error {
	return p.act.Click(p.locators.LoginLink, string(locator.XPath))
}

// Login opens the form, fills the credentials and submits. It does not
// decide whether the login worked; see AwaitOutcome.
func (p *LoginPage) Login(username, password string) error {
	p.log.Info("logging in", zap.String("username", username))
	steps := []func() error{
		p.OpenForm,
		p.awaitForm,
		func() error { return p.act.SendText(username, p.locators.Username, string(locator.XPath)) },
		func() error { return p.act.SendText(password, p.locators.Password, string(locator.XPath)) },
		func() error { return p.act.Click(p.locators.LoginButton, string(locator.XPath)) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}
	return nil
}

// awaitForm gives the form time to render after the navbar click. A form
// that never shows up is reported by the step that needs it.
func (p *LoginPage) awaitForm() error {
	if _, err := p.loc.WaitVisible(p.locators.Username, string(locator.XPath), p.timeout); err != nil {
		p.log.Debug("login form not visible yet", zap.Error(err))
	}
	return nil
}

// AwaitOutcome waits up to timeout for either the success marker or the
// error marker. Neither appearing returns OutcomeUnknown and ErrTimedOut.
func (p *LoginPage) AwaitOutcome(timeout time.Duration) (Outcome, error) {
	deadline := time.Now().Add(timeout)
	for {
		if p.visible(p.locators.SuccessMarker) {
			p.log.Info("login outcome settled", zap.Stringer("outcome", OutcomeSuccess))
			return OutcomeSuccess, nil
		}
		if p.visible(p.locators.ErrorMarker) {
			p.log.Info("login outcome settled", zap.Stringer("outcome", OutcomeFailure))
			return OutcomeFailure, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		time.Sleep(min(p.poll, remaining))
	}
	p.log.Error("login outcome did not settle", zap.Duration("timeout", timeout))
	return OutcomeUnknown, fmt.Errorf("%w: no login outcome after %s", locator.ErrTimedOut, timeout)
}

// VerifyLoginSuccessful reports whether the success marker appeared. An
// inline error is false with a nil error; neither marker is ErrTimedOut.
func (p *LoginPage) VerifyLoginSuccessful() (bool, error) {
	outcome, err := p.AwaitOutcome(p.timeout)
	if err != nil {
		return false, err
	}
	if outcome != OutcomeSuccess {
		p.log.Warn("login was rejected")
		return false, nil
	}
	p.log.Info("login successful")
	return true, nil
}

// VerifyLoginFailed reports whether the inline error appeared, capturing
// Invalid_Login_Creds when it did. When neither marker appears it captures
// Login_unexpected_error and returns ErrTimedOut.
func (p *LoginPage) VerifyLoginFailed() (bool, error) {
	outcome, err := p.AwaitOutcome(p.timeout)
	switch {
	case err != nil:
		p.screenshot(ShotUnexpectedError)
		return false, err
	case outcome == OutcomeFailure:
		p.log.Info("login failed as expected")
		p.screenshot(ShotInvalidCreds)
		return true, nil
	default:
		p.log.Warn("login unexpectedly succeeded")
		return false, nil
	}
}

// VerifyAllElementsPresent opens the form and checks the login button and
// both credential fields become visible. It stops at the first one missing.
func (p *LoginPage) VerifyAllElementsPresent() bool {
	if err := p.OpenForm(); err != nil {
		return false
	}
	required := []struct {
		name string
		loc  string
	}{
		{"login button", p.locators.LoginButton},
		{"username field", p.locators.Username},
		{"password field", p.locators.Password},
	}
	for _, r := range required {
		if _, err := p.loc.WaitVisible(r.loc, string(locator.XPath), p.timeout); err != nil {
			p.log.Warn("required element missing", zap.String("element", r.name), zap.Error(err))
			return false
		}
	}
	p.log.Info("all login elements present")
	return true
}

func (p *LoginPage) visible(loc string) bool {
	elems, err := p.loc.Page().QueryAll(locator.XPath.Selector(loc))
	if err != nil {
		return false
	}
	for _, el := range elems {
		if ok, err := el.IsVisible(); err == nil && ok {
			return true
		}
	}
	return false
}

func (p *LoginPage) screenshot(name string) {
	if p.shots == nil {
		return
	}
	path, err := p.shots.Screenshot(name)
	if err != nil {
		p.log.Warn("screenshot failed", zap.String("name", name), zap.Error(err))
		return
	}
	p.log.Info("screenshot saved", zap.String("path", path))
}

// IsTimeout reports whether err came from an expired wait.
func IsTimeout(err error) bool {
	return errors.Is(err, locator.ErrTimedOut)
}
