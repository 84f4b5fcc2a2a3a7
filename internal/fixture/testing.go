package fixture

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"loginsuite/internal/browser"
	"loginsuite/internal/report"
)

// Begin starts log capture for t and records its report row when t ends.
// Cleanups registered after Begin, such as session teardown, run first and
// so land in the captured log.
func (s *Suite) Begin(t testing.TB, kind browser.Kind) *Test {
	t.Helper()
	tt := s.StartTest(t.Name(), kind)
	t.Cleanup(func() {
		switch {
		case t.Skipped():
			tt.Finish(report.Skipped, tt.note)
		case t.Failed():
			tt.Finish(report.Failed, tt.note)
		default:
			tt.Finish(report.Passed, tt.note)
		}
	})
	return tt
}

// Notef sets the message shown next to the test in the report.
func (tt *Test) Notef(format string, args ...any) {
	tt.note = fmt.Sprintf(format, args...)
}

// Session returns a session for t. Isolated sessions close when t ends;
// continuous ones are reset to the base URL and left for Suite.Close. A
// launch failure stops t.
func (s *Suite) Session(t testing.TB, kind browser.Kind) *browser.Session {
	t.Helper()
	return s.session(t, kind, t.Fatalf)
}

// SessionOrSkip is Session for machines that may lack some of the selected
// browsers: a launch failure skips t instead of failing it.
func (s *Suite) SessionOrSkip(t testing.TB, kind browser.Kind) *browser.Session {
	t.Helper()
	return s.session(t, kind, t.Skipf)
}

func (s *Suite) session(t testing.TB, kind browser.Kind, stop func(format string, args ...any)) *browser.Session {
	t.Helper()
	sess, release, err := s.Acquire(context.Background(), kind)
	if err != nil {
		stop("failed to start %s session: %v", kind, err)
		return nil
	}
	t.Cleanup(func() {
		if err := release(); err != nil {
			s.log().Warn("session release failed", zap.String("session", sess.ID), zap.Error(err))
		}
	})
	if s.Continuous() {
		if err := sess.Reset(s.Config.BaseURL); err != nil {
			t.Fatalf("failed to reset %s session: %v", kind, err)
		}
	}
	return sess
}

// ForEachBrowser runs fn as a subtest per configured browser kind.
func (s *Suite) ForEachBrowser(t *testing.T, fn func(t *testing.T, kind browser.Kind)) {
	t.Helper()
	kinds, err := s.Targets()
	if err != nil {
		t.Fatalf("invalid browser selection: %v", err)
	}
	for _, kind := range kinds {
		kind := kind
		t.Run(string(kind), func(t *testing.T) {
			fn(t, kind)
		})
	}
}
