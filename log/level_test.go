package log

import (
	"slices"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelInfo + 2, "info+2"},
		{LevelTrace - 1, "trace-1"},
		{LevelError + 8, "error+8"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"DEBUG", LevelDebug},
		{" warn ", LevelWarn},
		{"info+2", LevelInfo + 2},
		{"error-1", LevelError - 1},
		{"verbose", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevel_UnmarshalText(t *testing.T) {
	var l Level

	if err := l.UnmarshalText([]byte("Trace")); err != nil || l != LevelTrace {
		t.Errorf("UnmarshalText(Trace) = %v, %v", l, err)
	}

	for _, bad := range []string{"verbose", "info+x", ""} {
		if err := l.UnmarshalText([]byte(bad)); err == nil {
			t.Errorf("UnmarshalText(%q) succeeded", bad)
		}
	}

	text, _ := (LevelWarn + 1).MarshalText()
	if err := l.UnmarshalText(text); err != nil || l != LevelWarn+1 {
		t.Errorf("round trip of %q = %v, %v", text, l, err)
	}
}

func TestFormat(t *testing.T) {
	if got := ParseFormat("TEXT"); got != FormatText {
		t.Errorf("ParseFormat(TEXT) = %v", got)
	}

	if got := ParseFormat("xml"); got != DefaultFormat {
		t.Errorf("ParseFormat(xml) = %v", got)
	}

	var f Format

	if err := f.UnmarshalText([]byte("json")); err != nil || f != FormatJSON {
		t.Errorf("UnmarshalText(json) = %v, %v", f, err)
	}

	if err := f.UnmarshalText([]byte("xml")); err == nil {
		t.Error("UnmarshalText(xml) succeeded")
	}

	if got := Format(9).String(); got != "Format(9)" {
		t.Errorf("Format(9).String() = %q", got)
	}
}

func TestNames(t *testing.T) {
	if got := slices.Collect(Levels()); !slices.Equal(got, []string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("Levels() = %v", got)
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"json", "text"}) {
		t.Errorf("Formats() = %v", got)
	}
}
