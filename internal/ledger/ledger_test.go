package ledger

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogsForUnknownTestIsEmpty(t *testing.T) {
	l := New()
	if got := l.Logs("TestNeverStarted"); got != "" {
		t.Errorf("Expected empty logs, got %q", got)
	}

	l.StartCapture("TestOther")
	l.Record("info", "something")
	if got := l.Logs("TestNeverStarted"); got != "" {
		t.Errorf("Expected empty logs after unrelated capture, got %q", got)
	}
}

func TestRecordOrderIsPreserved(t *testing.T) {
	tests := []struct {
		name    string
		records [][2]string
		want    string
	}{
		{
			name: "single line",
			records: [][2]string{
				{"INFO", "one"},
			},
			want: "INFO: one",
		},
		{
			name: "mixed levels keep call order",
			records: [][2]string{
				{"info", "clicked login link"},
				{"warning", "could not click"},
				{"error", "element not found"},
			},
			want: "INFO: clicked login link\nWARNING: could not click\nERROR: element not found",
		},
		{
			name:    "no records",
			records: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			l.StartCapture("TestLogin")
			for _, r := range tt.records {
				l.Record(r[0], r[1])
			}
			l.EndCapture("TestLogin")

			if got := l.Logs("TestLogin"); got != tt.want {
				t.Errorf("Logs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStartCaptureTwiceResets(t *testing.T) {
	l := New()
	l.StartCapture("TestLogin")
	l.Record("INFO", "first run")
	l.EndCapture("TestLogin")

	l.StartCapture("TestLogin")
	l.Record("INFO", "second run")

	got := l.Logs("TestLogin")
	if strings.Contains(got, "first run") {
		t.Errorf("Expected first run to be cleared, got %q", got)
	}
	if got != "INFO: second run" {
		t.Errorf("Expected only second run, got %q", got)
	}
}

func TestRecordWithoutActiveCaptureIsDropped(t *testing.T) {
	l := New()
	l.Record("INFO", "before any test")

	l.StartCapture("TestA")
	l.Record("INFO", "inside A")
	l.EndCapture("TestA")
	l.Record("INFO", "between tests")

	l.StartCapture("TestB")
	l.EndCapture("TestB")

	for _, name := range []string{"TestA", "TestB"} {
		logs := l.Logs(name)
		if strings.Contains(logs, "before any test") || strings.Contains(logs, "between tests") {
			t.Errorf("%s: unexpected unattributed line in %q", name, logs)
		}
	}
	if got := l.Logs("TestA"); got != "INFO: inside A" {
		t.Errorf("TestA logs = %q", got)
	}
}

func TestLogsSurviveEndCapture(t *testing.T) {
	l := New()
	l.StartCapture("TestA")
	l.Record("INFO", "kept")
	l.EndCapture("TestA")

	if _, ok := l.Active(); ok {
		t.Error("Expected no active test after EndCapture")
	}
	if got := l.Logs("TestA"); got != "INFO: kept" {
		t.Errorf("Logs after EndCapture = %q", got)
	}
}

func TestEndCaptureForStaleTestIsIgnored(t *testing.T) {
	l := New()
	l.StartCapture("TestA")
	l.StartCapture("TestB")

	// TestA's teardown runs late and must not clear TestB.
	if l.EndCapture("TestA") {
		t.Error("Expected EndCapture for a stale test to report false")
	}

	active, ok := l.Active()
	if !ok || active != "TestB" {
		t.Fatalf("Expected TestB to stay active, got %q (%v)", active, ok)
	}
	if l.Mismatches() != 1 {
		t.Errorf("Expected 1 mismatch, got %d", l.Mismatches())
	}

	l.Record("INFO", "for B")
	if got := l.Logs("TestB"); got != "INFO: for B" {
		t.Errorf("TestB logs = %q", got)
	}
}

func TestCaptureHandleWritesToItsOwnTest(t *testing.T) {
	l := New()
	a := l.StartCapture("TestA")
	b := l.StartCapture("TestB")

	a.Record("info", "from A")
	b.Record("info", "from B")

	if got := a.Logs(); got != "INFO: from A" {
		t.Errorf("A logs = %q", got)
	}
	if got := b.Logs(); got != "INFO: from B" {
		t.Errorf("B logs = %q", got)
	}

	if a.End() {
		t.Error("Expected A's End to miss while B is active")
	}
	if !b.End() {
		t.Error("Expected B's End to clear the active test")
	}
	if _, ok := l.Active(); ok {
		t.Error("Expected no active test")
	}
}

func TestConcurrentRecord(t *testing.T) {
	l := New()
	c := l.StartCapture("TestConcurrent")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Record("INFO", "x")
			_ = l.Logs("TestConcurrent")
		}()
	}
	wg.Wait()

	if n := len(strings.Split(c.Logs(), "\n")); n != 50 {
		t.Errorf("Expected 50 lines, got %d", n)
	}
}

func TestRegisterSession(t *testing.T) {
	l := New()
	l.RegisterSession("")
	l.RegisterSession("s-1")
	l.RegisterSession("s-2")

	got := l.Sessions()
	if len(got) != 2 || got[0] != "s-1" || got[1] != "s-2" {
		t.Errorf("Sessions() = %v", got)
	}
}

func TestCoreRoutesZapEntries(t *testing.T) {
	l := New()
	logger := zap.New(Core(l, zapcore.InfoLevel))

	logger.Info("dropped, no active test")

	l.StartCapture("TestZap")
	logger.Debug("below level")
	logger.Info("element found", zap.String("locator", "//a"))
	logger.Warn("could not click", zap.Error(errors.New("detached")))
	logger.With(zap.String("browser", "chrome")).Error("timed out")
	l.EndCapture("TestZap")

	want := strings.Join([]string{
		"INFO: element found locator=//a",
		"WARNING: could not click error=detached",
		"ERROR: timed out browser=chrome",
	}, "\n")
	if got := l.Logs("TestZap"); got != want {
		t.Errorf("Logs() =\n%s\nwant\n%s", got, want)
	}
}
