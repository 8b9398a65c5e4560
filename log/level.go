package log

import (
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

// Level is the severity of a log message. It extends [slog.Level] with
// [LevelTrace].
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the level of a logger created without [WithLevel].
const DefaultLevel = LevelInfo

var levelNames = []struct {
	level Level
	name  string
}{
	{LevelTrace, "trace"},
	{LevelDebug, "debug"},
	{LevelInfo, "info"},
	{LevelWarn, "warn"},
	{LevelError, "error"},
}

// Levels returns the names of the defined levels from least to most severe.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, l := range levelNames {
			if !yield(l.name) {
				return
			}
		}
	}
}

// String returns the lowercase level name, with a signed offset for levels
// between the named ones ("info+2").
func (l Level) String() string {
	base := levelNames[0]

	for _, n := range levelNames {
		if n.level <= l {
			base = n
		}
	}

	if d := int(l - base.level); d != 0 {
		return fmt.Sprintf("%s%+d", base.name, d)
	}

	return base.name
}

// ParseLevel parses a level name, case-insensitively, optionally followed
// by a signed integer offset. Unknown input yields [DefaultLevel].
func ParseLevel(s string) Level {
	l, err := parseLevel(s)
	if err != nil {
		return DefaultLevel
	}

	return l
}

func parseLevel(s string) (Level, error) {
	name, off := strings.ToLower(strings.TrimSpace(s)), 0

	if i := strings.IndexAny(name, "+-"); i > 0 {
		n, err := strconv.Atoi(name[i:])
		if err != nil {
			return 0, fmt.Errorf("invalid level offset %q: %w", s, err)
		}

		name, off = name[:i], n
	}

	for _, n := range levelNames {
		if n.name == name {
			return n.level + Level(off), nil
		}
	}

	return 0, fmt.Errorf("unknown level %q", s)
}

// MarshalText implements [encoding.TextMarshaler].
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler]. Unlike [ParseLevel]
// it rejects unknown names.
func (l *Level) UnmarshalText(text []byte) error {
	v, err := parseLevel(string(text))
	if err != nil {
		return err
	}

	*l = v

	return nil
}

// Format selects the encoding of log records.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the format of a logger created without [WithFormat].
const DefaultFormat = FormatJSON

var formatNames = [...]string{FormatText: "text", FormatJSON: "json"}

// Formats returns the names of the defined formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range []string{"json", "text"} {
			if !yield(name) {
				return
			}
		}
	}
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// ParseFormat parses a format name. Unknown input yields [DefaultFormat].
func ParseFormat(s string) Format {
	for f, name := range formatNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Format(f)
		}
	}

	return DefaultFormat
}

// MarshalText implements [encoding.TextMarshaler].
func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *Format) UnmarshalText(text []byte) error {
	for i, name := range formatNames {
		if strings.EqualFold(strings.TrimSpace(string(text)), name) {
			*f = Format(i)

			return nil
		}
	}

	return fmt.Errorf("unknown format %q", text)
}
