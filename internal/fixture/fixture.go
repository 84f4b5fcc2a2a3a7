// Package fixture manages browser sessions and log capture around tests.
//
// Sessions are either isolated (one per test, closed when the test ends) or
// continuous (one per browser kind, shared by every test and closed once by
// Suite.Close).
package fixture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"loginsuite/internal/browser"
	"loginsuite/internal/config"
	"loginsuite/internal/ledger"
	"loginsuite/internal/report"
)

// Launcher creates browser sessions.
type Launcher interface {
	Launch(ctx context.Context, opts browser.Options) (*browser.Session, error)
}

// Suite carries everything a test needs to get a session.
type Suite struct {
	Config   config.Config
	Log      *zap.Logger
	Ledger   *ledger.Ledger
	Launcher Launcher
	Recorder *report.Recorder
	// RemoteEndpoint, when set, is passed to every launch.
	RemoteEndpoint string

	mu     sync.Mutex
	groups map[browser.Kind]*Group
	now    func() time.Time
}

func (s *Suite) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Suite) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Targets returns the browser kinds selected by the configuration.
func (s *Suite) Targets() ([]browser.Kind, error) {
	return browser.ParseTargets(s.Config.Browser)
}

// Continuous reports whether sessions are shared across tests.
func (s *Suite) Continuous() bool {
	return s.Config.SetupType == config.SetupContinuous
}

// Options builds the launch options for kind from the configuration.
func (s *Suite) Options(kind browser.Kind) browser.Options {
	return browser.Options{
		Kind:           kind,
		Headless:       s.Config.Headless,
		Private:        s.Config.Private,
		ExecutablePath: s.Config.DriverPath(string(kind)),
		BaseURL:        s.Config.BaseURL,
		RemoteEndpoint: s.RemoteEndpoint,
		DefaultTimeout: s.Config.DefaultTimeout,
		ScreenshotDir:  s.Config.ScreenshotDir,
	}
}

// Launch starts a fresh session for kind.
func (s *Suite) Launch(ctx context.Context, kind browser.Kind) (*browser.Session, error) {
	if s.Launcher == nil {
		return nil, errors.New("fixture: no launcher configured")
	}
	timeout := s.Config.ExtendedTimeout
	if timeout <= 0 {
		timeout = config.ExtendedTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Launcher.Launch(ctx, s.Options(kind))
}

// Acquire returns a session for kind according to the setup type. release
// closes an isolated session and is a no-op for a shared one.
func (s *Suite) Acquire(ctx context.Context, kind browser.Kind) (sess *browser.Session, release func() error, err error) {
	if s.Continuous() {
		sess, err := s.Group(kind).Get(ctx)
		return sess, func() error { return nil }, err
	}
	sess, err = s.Launch(ctx, kind)
	if err != nil {
		return nil, nil, err
	}
	return sess, sess.Close, nil
}

// Group returns the shared group for kind, creating it on first use.
func (s *Suite) Group(kind browser.Kind) *Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.groups == nil {
		s.groups = make(map[browser.Kind]*Group)
	}
	g, ok := s.groups[kind]
	if !ok {
		g = NewGroup(s, kind)
		s.groups[kind] = g
	}
	return g
}

// Close closes every shared session.
func (s *Suite) Close() error {
	s.mu.Lock()
	groups := s.groups
	s.groups = nil
	s.mu.Unlock()

	var errs []error
	for _, g := range groups {
		if err := g.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Group shares one session among the tests that use it. The session starts
// on first Get and is closed exactly once by Close.
type Group struct {
	suite *Suite
	kind  browser.Kind

	mu      sync.Mutex
	sess    *browser.Session
	err     error
	started bool
	closed  bool
}

// NewGroup returns a group that launches through s.
func NewGroup(s *Suite, kind browser.Kind) *Group {
	return &Group{suite: s, kind: kind}
}

// Get returns the shared session, launching it on first use. A failed
// launch is not retried; later calls get the same error.
func (g *Group) Get(ctx context.Context) (*browser.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil, fmt.Errorf("fixture: %s group already closed", g.kind)
	}
	if !g.started {
		g.started = true
		g.sess, g.err = g.suite.Launch(ctx, g.kind)
		if g.err == nil {
			g.suite.log().Info("shared session started",
				zap.String("browser", string(g.kind)),
				zap.String("session", g.sess.ID))
		}
	}
	return g.sess, g.err
}

// Close closes the shared session if one was started.
func (g *Group) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	if g.sess == nil {
		return nil
	}
	return g.sess.Close()
}

// Test tracks one running test: its log capture and its report row.
type Test struct {
	suite   *Suite
	capture *ledger.Capture
	result  report.Result
	note    string
	once    sync.Once
}

// StartTest begins capturing logs for name.
func (s *Suite) StartTest(name string, kind browser.Kind) *Test {
	tt := &Test{
		suite:  s,
		result: report.Result{Name: name, Browser: string(kind), Started: s.clock()},
	}
	if s.Ledger != nil {
		tt.capture = s.Ledger.StartCapture(name)
	}
	s.log().Info("test started", zap.String("test", name), zap.String("browser", string(kind)))
	return tt
}

// AddScreenshot attaches a screenshot path to the report row.
func (tt *Test) AddScreenshot(path string) {
	if path != "" {
		tt.result.Screenshots = append(tt.result.Screenshots, path)
	}
}

// Logs returns what has been captured so far.
func (tt *Test) Logs() string {
	if tt.capture == nil {
		return ""
	}
	return tt.capture.Logs()
}

// Finish ends the capture and records the result. Only the first call has
// any effect.
func (tt *Test) Finish(outcome report.Outcome, message string) report.Result {
	tt.once.Do(func() {
		s := tt.suite
		s.log().Info("test finished",
			zap.String("test", tt.result.Name),
			zap.String("outcome", string(outcome)))
		tt.result.Outcome = outcome
		tt.result.Message = message
		tt.result.Duration = s.clock().Sub(tt.result.Started)
		if tt.capture != nil {
			if !tt.capture.End() {
				s.log().Warn("log capture ended after another test took over",
					zap.String("test", tt.result.Name))
			}
			tt.result.Log = tt.capture.Logs()
		}
		if s.Recorder != nil {
			s.Recorder.Add(tt.result)
		}
	})
	return tt.result
}

// Result returns the report row as it stands.
func (tt *Test) Result() report.Result {
	return tt.result
}

// Screenshotter captures the current page under a name.
type Screenshotter interface {
	Screenshot(name string) (string, error)
}

type attachingShots struct {
	tt    *Test
	shots Screenshotter
}

func (a attachingShots) Screenshot(name string) (string, error) {
	path, err := a.shots.Screenshot(name)
	if err == nil {
		a.tt.AddScreenshot(path)
	}
	return path, err
}

// Screenshots wraps shots so every file captured is attached to the report
// row.
func (tt *Test) Screenshots(shots Screenshotter) Screenshotter {
	return attachingShots{tt: tt, shots: shots}
}
