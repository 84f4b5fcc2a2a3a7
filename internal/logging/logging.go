// Package logging builds the harness logger: one zap logger that writes to
// the console, to a timestamped file per run and into the ledger.
//
// Log calls follow a constant message plus key/value fields:
//
//	log.Info("element found", zap.String("locator", loc))
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"loginsuite/internal/ledger"
)

const fileTimeLayout = "2006-01-02_15-04-05"

// Options configures New.
type Options struct {
	// Level is the minimum level: debug, info, warn/warning or error.
	Level string
	// Dir receives log_<timestamp>.log. Empty disables the file.
	Dir string
	// Console defaults to os.Stderr. Use io.Discard to silence it.
	Console io.Writer
	// Ledger, when set, receives every enabled entry.
	Ledger *ledger.Ledger
	// Name is the root logger name.
	Name string
	// Now stamps the file name. Defaults to time.Now.
	Now func() time.Time
}

// Logger bundles the zap logger with the file it writes to.
type Logger struct {
	*zap.Logger
	Path  string
	close func() error
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.close != nil {
		return l.close()
	}
	return nil
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// FileName returns the log file name for a run started at t.
func FileName(t time.Time) string {
	return "log_" + t.Format(fileTimeLayout) + ".log"
}

// New builds the logger.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	enc := zapcore.NewConsoleEncoder(encoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.AddSync(console), level),
	}

	out := &Logger{}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		out.Path = filepath.Join(opts.Dir, FileName(now()))
		f, err := os.OpenFile(out.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out.close = f.Close
		cores = append(cores, zapcore.NewCore(enc.Clone(), zapcore.AddSync(f), level))
	}
	if opts.Ledger != nil {
		cores = append(cores, ledger.Core(opts.Ledger, level))
	}

	name := opts.Name
	if name == "" {
		name = "loginsuite"
	}
	out.Logger = zap.New(zapcore.NewTee(cores...)).Named(name)
	if out.Path != "" {
		out.Info("logging initialized", zap.String("file", out.Path))
	}
	return out, nil
}

// encoderConfig renders "<timestamp> - <LEVEL> - <logger> - <message> <fields>".
func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "timestamp",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "message",
		CallerKey:        zapcore.OmitKey,
		FunctionKey:      zapcore.OmitKey,
		StacktraceKey:    zapcore.OmitKey,
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      levelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000"),
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " - ",
	}
}

func levelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(ledger.LevelName(l))
}
