package ledger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Core returns a zapcore.Core that records every enabled entry into l. Tee it
// next to the console and file cores so that anything logged while a test is
// active shows up in that test's report attachment.
func Core(l *Ledger, enab zapcore.LevelEnabler) zapcore.Core {
	return &ledgerCore{LevelEnabler: enab, ledger: l}
}

type ledgerCore struct {
	zapcore.LevelEnabler
	ledger *Ledger
	fields []zapcore.Field
}

func (c *ledgerCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &ledgerCore{LevelEnabler: c.LevelEnabler, ledger: c.ledger}
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return clone
}

func (c *ledgerCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *ledgerCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)

	c.ledger.Record(LevelName(ent.Level), withFields(ent.Message, all))
	return nil
}

func (c *ledgerCore) Sync() error { return nil }

// LevelName is the level label used in ledger lines and the log file.
func LevelName(l zapcore.Level) string {
	if l == zapcore.WarnLevel {
		return "WARNING"
	}
	return l.CapitalString()
}

func withFields(msg string, fields []zapcore.Field) string {
	if len(fields) == 0 {
		return msg
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(msg)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, enc.Fields[k])
	}
	return b.String()
}
