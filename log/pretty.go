package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"
)

// ANSI escapes used by the pretty handler.
const (
	ansiReset   = "\033[0m"
	ansiGray    = "\033[90m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
)

// prettyHandler writes colorized records for a terminal, either as
// key=value pairs on one line or as an indented object. Groups, including
// those produced by [slog.LogValuer] values, are flattened into dotted keys.
type prettyHandler struct {
	opts   slog.HandlerOptions
	json   bool
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	prefix string
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, json bool) *prettyHandler {
	return &prettyHandler{opts: *opts, json: json, mu: &sync.Mutex{}, w: w}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = slices.Clip(c.attrs)

	for _, a := range attrs {
		c.attrs = append(c.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix += name + "."

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var fields []slog.Attr

	add := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			fields = append(fields, a)
		}
	}

	if !r.Time.IsZero() {
		add(slog.Time(slog.TimeKey, r.Time))
	}

	add(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			add(slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	add(slog.String(slog.MessageKey, r.Message))

	fields = flatten(fields, "", h.attrs)

	var own []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		own = append(own, a)

		return true
	})

	fields = flatten(fields, h.prefix, own)

	buf := new(bytes.Buffer)

	if h.json {
		writeObject(buf, fields, r.Level)
	} else {
		writeLine(buf, fields, r.Level)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// flatten appends attrs to dst, resolving values and expanding groups into
// dotted keys.
func flatten(dst []slog.Attr, prefix string, attrs []slog.Attr) []slog.Attr {
	for _, a := range attrs {
		v := a.Value.Resolve()

		if v.Kind() == slog.KindGroup {
			p := prefix
			if a.Key != "" {
				p += a.Key + "."
			}

			dst = flatten(dst, p, v.Group())

			continue
		}

		if a.Key == "" {
			continue
		}

		dst = append(dst, slog.Attr{Key: prefix + a.Key, Value: v})
	}

	return dst
}

func writeLine(buf *bytes.Buffer, fields []slog.Attr, level slog.Level) {
	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(ansiGray + a.Key + ansiReset + "=")
		writeValue(buf, a, level, false)
	}

	buf.WriteByte('\n')
}

func writeObject(buf *bytes.Buffer, fields []slog.Attr, level slog.Level) {
	buf.WriteString("{\n")

	for i, a := range fields {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  " + ansiGray + strconv.Quote(a.Key) + ansiReset + ": ")
		writeValue(buf, a, level, true)
	}

	buf.WriteString("\n}\n")
}

func writeValue(buf *bytes.Buffer, a slog.Attr, level slog.Level, quote bool) {
	v := a.Value

	color, text := ansiCyan, ""

	switch v.Kind() {
	case slog.KindString:
		text = v.String()

		if a.Key == slog.LevelKey {
			color = levelColor(level)
		} else if quote {
			text = strconv.Quote(text)
		}

	case slog.KindInt64:
		color, text = ansiYellow, strconv.FormatInt(v.Int64(), 10)

	case slog.KindUint64:
		color, text = ansiYellow, strconv.FormatUint(v.Uint64(), 10)

	case slog.KindFloat64:
		color, text = ansiYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindBool:
		color, text = ansiRed, "false"
		if v.Bool() {
			color, text = ansiGreen, "true"
		}

	case slog.KindDuration:
		color, text = ansiMagenta, v.Duration().String()

	case slog.KindTime:
		color, text = ansiBlue, v.Time().Format(time.RFC3339Nano)

	default:
		if l, ok := v.Any().(slog.Level); ok {
			color, text = levelColor(l), Level(l).String()
		} else if err, ok := v.Any().(error); ok {
			color, text = ansiRed, err.Error()
		} else {
			text = v.String()
		}

		if quote {
			text = strconv.Quote(text)
		}
	}

	buf.WriteString(color + text + ansiReset)
}

func levelColor(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return ansiRed
	case l >= slog.LevelWarn:
		return ansiYellow
	case l >= slog.LevelInfo:
		return ansiGreen
	default:
		return ansiBlue
	}
}
