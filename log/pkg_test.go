package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// swapDefault replaces the package-level logger for the duration of t.
func swapDefault(t *testing.T, l Logger) {
	t.Helper()

	prev := defaultLog.Load()
	defaultLog.Store(&l)

	t.Cleanup(func() { defaultLog.Store(prev) })
}

func TestPackageFunctions(t *testing.T) {
	var buf bytes.Buffer

	swapDefault(t, plain(&buf))

	Config(WithLevel(LevelTrace), WithFormat(FormatText))

	if Default().Level() != LevelTrace || Default().Format() != FormatText {
		t.Fatalf("Config did not apply: %v %v", Default().Level(), Default().Format())
	}

	Trace("t")
	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	TraceContext(t.Context(), "tc")
	DebugContext(t.Context(), "dc")
	InfoContext(t.Context(), "ic")
	WarnContext(t.Context(), "wc")
	ErrorContext(t.Context(), "ec")
	With(slog.String("k", "v")).Info("with")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 11 {
		t.Fatalf("wrote %d records, want 11:\n%s", len(lines), buf.String())
	}

	if !strings.Contains(lines[10], "k=v") {
		t.Errorf("With record = %q", lines[10])
	}
}

func TestPackageFunctions_Caller(t *testing.T) {
	var buf bytes.Buffer

	swapDefault(t, plain(&buf, WithCaller(true), WithFormat(FormatText)))

	Info("where")

	if !strings.Contains(buf.String(), "pkg_test.go") {
		t.Errorf("source is not the caller: %q", buf.String())
	}
}
