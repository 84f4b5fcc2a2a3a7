// Package scenario holds the login checks as plain functions so they can be
// driven by go test and by the run command alike.
package scenario

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"loginsuite/internal/browser"
	"loginsuite/internal/interactor"
	"loginsuite/internal/pages"
)

// ErrMissingCredentials means a scenario needs credentials that were not
// configured. Runners report it as a skip.
var ErrMissingCredentials = errors.New("credentials not configured")

// Credentials for one login attempt.
type Credentials struct {
	Username string
	Password string
}

// RandomCredentials returns credentials no account can have.
func RandomCredentials() Credentials {
	return Credentials{
		Username: "nobody-" + uuid.NewString()[:8] + "@invalid.example",
		Password: uuid.NewString(),
	}
}

// NewLoginPage builds the login page object over a session. shots receives
// screenshots; pass sess itself unless they need to be intercepted.
func NewLoginPage(sess *browser.Session, shots pages.Screenshotter, log *zap.Logger, uploadDir string, opts ...pages.Option) *pages.LoginPage {
	act := interactor.New(sess.Locator(), log, uploadDir)
	opts = append([]pages.Option{pages.WithTimeout(sess.Timeout())}, opts...)
	return pages.NewLoginPage(act, shots, log, opts...)
}

// ValidLogin logs in with creds and expects the success marker.
func ValidLogin(p *pages.LoginPage, creds Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return ErrMissingCredentials
	}
	if err := p.Login(creds.Username, creds.Password); err != nil {
		return err
	}
	ok, err := p.VerifyLoginSuccessful()
	if err != nil {
		return fmt.Errorf("verify login: %w", err)
	}
	if !ok {
		return errors.New("login was rejected for valid credentials")
	}
	return nil
}

// InvalidLogin logs in with creds and expects the inline error. Empty creds
// are replaced with random ones.
func InvalidLogin(p *pages.LoginPage, creds Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		creds = RandomCredentials()
	}
	if err := p.Login(creds.Username, creds.Password); err != nil {
		return err
	}
	ok, err := p.VerifyLoginFailed()
	if err != nil {
		return fmt.Errorf("verify login failure: %w", err)
	}
	if !ok {
		return errors.New("login was accepted for invalid credentials")
	}
	return nil
}

// AllElementsPresent expects the login form to be complete.
func AllElementsPresent(p *pages.LoginPage) error {
	if !p.VerifyAllElementsPresent() {
		return errors.New("login form is missing required elements")
	}
	return nil
}

// Scenario is a named check.
type Scenario struct {
	Name string
	Run  func(p *pages.LoginPage) error
}

// Login returns the three login scenarios. admin is used for the valid
// login.
func Login(admin Credentials) []Scenario {
	return []Scenario{
		{Name: "ValidLogin", Run: func(p *pages.LoginPage) error { return ValidLogin(p, admin) }},
		{Name: "InvalidLogin", Run: func(p *pages.LoginPage) error { return InvalidLogin(p, Credentials{}) }},
		{Name: "AllElementsPresent", Run: AllElementsPresent},
	}
}
