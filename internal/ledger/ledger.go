// Package ledger correlates log lines with the test that produced them so a
// report can attach only the logs relevant to each test.
package ledger

import (
	"strings"
	"sync"
)

// Ledger buffers formatted log lines per test name. A single Ledger is shared
// by the whole process; construct it once and hand it to the logger, fixture
// and report writer.
//
// The active-test slot holds at most one name. Tests that run in parallel
// must write through their own Capture handle, otherwise their ambient log
// lines land in whichever test started last.
type Ledger struct {
	mu         sync.Mutex
	active     string
	hasActive  bool
	logs       map[string][]string
	sessions   []string
	mismatches int
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{
		logs: make(map[string][]string),
	}
}

// StartCapture makes name the active test and resets any lines previously
// recorded for it. Calling it twice for the same name clears the first run.
func (l *Ledger) StartCapture(name string) *Capture {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.active = name
	l.hasActive = true
	l.logs[name] = []string{}

	return &Capture{ledger: l, name: name}
}

// EndCapture clears the active test if it is name and reports whether it
// did. A late EndCapture for a test that is no longer active is ignored so
// it cannot clobber the capture of the test that replaced it. Recorded lines
// are kept either way.
func (l *Ledger) EndCapture(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.hasActive || l.active != name {
		l.mismatches++
		return false
	}
	l.active = ""
	l.hasActive = false
	return true
}

// Record appends "<LEVEL>: <message>" to the active test. With no active
// test the line is dropped.
func (l *Ledger) Record(level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.hasActive {
		return
	}
	l.logs[l.active] = append(l.logs[l.active], formatLine(level, message))
}

// Logs returns the lines recorded for name joined by newlines, or "" when
// nothing was ever captured under that name.
func (l *Ledger) Logs(name string) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return strings.Join(l.logs[name], "\n")
}

// Active reports the active test name, if any.
func (l *Ledger) Active() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.active, l.hasActive
}

// Mismatches counts EndCapture calls that named a test other than the
// active one.
func (l *Ledger) Mismatches() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.mismatches
}

// RegisterSession notes a browser session identifier. Bookkeeping only.
func (l *Ledger) RegisterSession(id string) {
	if id == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sessions = append(l.sessions, id)
}

// Sessions returns the registered browser session identifiers in order.
func (l *Ledger) Sessions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, len(l.sessions))
	copy(out, l.sessions)
	return out
}

func (l *Ledger) appendTo(name, level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.logs[name]; !ok {
		return
	}
	l.logs[name] = append(l.logs[name], formatLine(level, message))
}

func formatLine(level, message string) string {
	return strings.ToUpper(level) + ": " + message
}

// Capture is the handle returned by StartCapture. It writes to its own test
// regardless of which test currently holds the active slot.
type Capture struct {
	ledger *Ledger
	name   string
}

// Name is the test name this capture records for.
func (c *Capture) Name() string { return c.name }

// Record appends a line to this capture's test.
func (c *Capture) Record(level, message string) {
	c.ledger.appendTo(c.name, level, message)
}

// Logs returns the lines recorded for this capture's test.
func (c *Capture) Logs() string {
	return c.ledger.Logs(c.name)
}

// End is EndCapture for this capture's test.
func (c *Capture) End() bool {
	return c.ledger.EndCapture(c.name)
}
