package builtin

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"hash"
	"maps"
	"math"
	"math/rand/v2"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/shibo/lang"
)

func mathGroup() map[string]lang.Value {
	m := members(
		unaryMath("sqrt", math.Sqrt),
		unaryMath("sin", math.Sin),
		unaryMath("cos", math.Cos),
		unaryMath("exp", math.Exp),
		native("pow", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("pow", args, 2, 2); err != nil {
				return nil, err
			}

			x, err := number("pow", args, 0)
			if err != nil {
				return nil, err
			}

			y, err := number("pow", args, 1)
			if err != nil {
				return nil, err
			}

			return lang.Float(math.Pow(x, y)), nil
		}),
		roundMath("floor", math.Floor),
		roundMath("ceil", math.Ceil),
		native("abs", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("abs", args, 1, 1); err != nil {
				return nil, err
			}

			if n, ok := args[0].(lang.Int); ok {
				if n < 0 {
					return -n, nil
				}

				return n, nil
			}

			x, err := number("abs", args, 0)
			if err != nil {
				return nil, err
			}

			return lang.Float(math.Abs(x)), nil
		}),
	)
	m["pi"] = lang.Float(math.Pi)
	m["e"] = lang.Float(math.E)

	return m
}

func unaryMath(name string, fn func(float64) float64) *lang.Native {
	return native(name, func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}

		x, err := number(name, args, 0)
		if err != nil {
			return nil, err
		}

		if name == "sqrt" && x < 0 {
			return nil, lang.Faultf("math domain error")
		}

		return lang.Float(fn(x)), nil
	})
}

// roundMath returns an int when the rounded value fits in one.
func roundMath(name string, fn func(float64) float64) *lang.Native {
	return native(name, func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}

		x, err := number(name, args, 0)
		if err != nil {
			return nil, err
		}

		r := fn(x)
		if r >= math.MinInt64 && r < math.MaxInt64 {
			return lang.Int(r), nil
		}

		return lang.Float(r), nil
	})
}

func fileGroup() map[string]lang.Value {
	return members(
		native("read", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("read", args, 1, 1); err != nil {
				return nil, err
			}

			path, err := str("read", args, 0)
			if err != nil {
				return nil, err
			}

			b, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}

			return lang.Str(b), nil
		}),
		native("write", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("write", args, 2, 2); err != nil {
				return nil, err
			}

			path, err := str("write", args, 0)
			if err != nil {
				return nil, err
			}

			return lang.Null{}, os.WriteFile(path, []byte(lang.Display(args[1])), 0o644)
		}),
		native("exists", existsFn),
	)
}

func existsFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("exists", args, 1, 1); err != nil {
		return nil, err
	}

	path, err := str("exists", args, 0)
	if err != nil {
		return nil, err
	}

	_, err = os.Stat(path)

	return lang.Bool(!os.IsNotExist(err)), nil
}

func cryptoGroup() map[string]lang.Value {
	return members(
		digest("md5", md5.New),
		digest("sha1", sha1.New),
		digest("sha256", sha256.New),
	)
}

// digest returns the hex digest of the UTF-8 bytes of a string.
func digest(name string, h func() hash.Hash) *lang.Native {
	return native(name, func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}

		s, err := str(name, args, 0)
		if err != nil {
			return nil, err
		}

		d := h()
		d.Write([]byte(s))

		return lang.Str(hex.EncodeToString(d.Sum(nil))), nil
	})
}

const alnum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomGroup() map[string]lang.Value {
	return members(
		// int(lo, hi) is inclusive of both bounds.
		native("int", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("int", args, 2, 2); err != nil {
				return nil, err
			}

			lo, err := integer("int", args, 0)
			if err != nil {
				return nil, err
			}

			hi, err := integer("int", args, 1)
			if err != nil {
				return nil, err
			}

			if hi < lo {
				return nil, lang.Faultf("empty range for random.int(%d, %d)", lo, hi)
			}

			return lang.Int(lo + rand.Int64N(hi-lo+1)), nil
		}),
		native("string", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("string", args, 1, 1); err != nil {
				return nil, err
			}

			n, err := integer("string", args, 0)
			if err != nil {
				return nil, err
			}

			var sb strings.Builder
			for range max(n, 0) {
				sb.WriteByte(alnum[rand.IntN(len(alnum))])
			}

			return lang.Str(sb.String()), nil
		}),
	)
}

func urlGroup() map[string]lang.Value {
	return members(
		native("parse", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("parse", args, 1, 1); err != nil {
				return nil, err
			}

			s, err := str("parse", args, 0)
			if err != nil {
				return nil, err
			}

			u, err := url.Parse(s)
			if err != nil {
				return nil, err
			}

			query := lang.NewDict()
			q := u.Query()

			for _, k := range slices.Sorted(maps.Keys(q)) {
				query.SetStr(k, strList(q[k]))
			}

			d := lang.NewDict()
			d.SetStr("scheme", lang.Str(u.Scheme))
			d.SetStr("netloc", lang.Str(u.Host))
			d.SetStr("path", lang.Str(u.Path))
			d.SetStr("query", query)
			d.SetStr("fragment", lang.Str(u.Fragment))

			return d, nil
		}),
		strFunc("encode", func(s string) (string, error) {
			return strings.ReplaceAll(url.QueryEscape(s), "+", "%20"), nil
		}),
		strFunc("decode", url.PathUnescape),
	)
}

func base64Group() map[string]lang.Value {
	return members(
		strFunc("encode", func(s string) (string, error) {
			return base64.StdEncoding.EncodeToString([]byte(s)), nil
		}),
		strFunc("decode", func(s string) (string, error) {
			b, err := base64.StdEncoding.DecodeString(s)

			return string(b), err
		}),
	)
}

func jsonGroup() map[string]lang.Value {
	return members(
		native("encode", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("encode", args, 1, 1); err != nil {
				return nil, err
			}

			b, err := json.Marshal(lang.ToNative(args[0]))
			if err != nil {
				return nil, err
			}

			return lang.Str(b), nil
		}),
		native("decode", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("decode", args, 1, 1); err != nil {
				return nil, err
			}

			s, err := str("decode", args, 0)
			if err != nil {
				return nil, err
			}

			dec := json.NewDecoder(strings.NewReader(s))
			dec.UseNumber()

			var x any
			if err := dec.Decode(&x); err != nil {
				return nil, lang.Faultf("invalid JSON: %v", err)
			}

			return lang.FromNative(x)
		}),
	)
}

func yamlGroup() map[string]lang.Value {
	return members(
		native("encode", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("encode", args, 1, 1); err != nil {
				return nil, err
			}

			b, err := yaml.Marshal(lang.ToNative(args[0]))
			if err != nil {
				return nil, err
			}

			return lang.Str(b), nil
		}),
		native("decode", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("decode", args, 1, 1); err != nil {
				return nil, err
			}

			s, err := str("decode", args, 0)
			if err != nil {
				return nil, err
			}

			var x any
			if err := yaml.NewDecoder(bytes.NewBufferString(s)).Decode(&x); err != nil {
				return nil, lang.Faultf("invalid YAML: %v", err)
			}

			return lang.FromNative(x)
		}),
	)
}

func timeGroup() map[string]lang.Value {
	return members(
		// now() returns seconds since the Unix epoch.
		native("now", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("now", args, 0, 0); err != nil {
				return nil, err
			}

			return lang.Float(float64(time.Now().UnixNano()) / float64(time.Second)), nil
		}),
		native("sleep", func(c lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("sleep", args, 1, 1); err != nil {
				return nil, err
			}

			sec, err := number("sleep", args, 0)
			if err != nil {
				return nil, err
			}

			t := time.NewTimer(time.Duration(sec * float64(time.Second)))
			defer t.Stop()

			select {
			case <-t.C:
				return lang.Null{}, nil
			case <-c.Context().Done():
				return nil, c.Context().Err()
			}
		}),
		// format(seconds[, layout]) formats a Unix time with a Go layout,
		// RFC 3339 by default.
		native("format", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("format", args, 1, 2); err != nil {
				return nil, err
			}

			sec, err := number("format", args, 0)
			if err != nil {
				return nil, err
			}

			layout, err := optional[lang.Str]("format", args, 1, time.RFC3339)
			if err != nil {
				return nil, err
			}

			whole, frac := math.Modf(sec)
			t := time.Unix(int64(whole), int64(frac*float64(time.Second)))

			return lang.Str(t.UTC().Format(string(layout))), nil
		}),
	)
}

// strFunc adapts a string transform that may fail.
func strFunc(name string, fn func(string) (string, error)) *lang.Native {
	return native(name, func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}

		s, err := str(name, args, 0)
		if err != nil {
			return nil, err
		}

		out, err := fn(s)
		if err != nil {
			return nil, err
		}

		return lang.Str(out), nil
	})
}
