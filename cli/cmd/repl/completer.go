package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/shibo/lang"
	"github.com/ardnew/shibo/lang/token"
)

// isWordBoundary reports whether r ends a completable word. Dots are
// boundaries so members complete separately from their receiver.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!', '~',
		'&', '|', '^', ',', '?', ':', ';', '"':
		return true
	}

	return false
}

// wordBounds returns the word around cursor and its byte offsets in input.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member chain before the word starting at
// wordStart: "os" for "x + os.ge". It is empty for a top-level word.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// lookup resolves a global name, falling back to the natives.
func lookup(in *lang.Interpreter, name string) (lang.Value, bool) {
	if v, ok := in.Globals().Get(name); ok {
		return v, true
	}

	v, ok := in.Natives()[name]

	return v, ok
}

// resolve follows a dotted path from the globals.
func resolve(in *lang.Interpreter, path string) (lang.Value, bool) {
	segs := strings.Split(path, ".")

	v, ok := lookup(in, segs[0])

	for _, seg := range segs[1:] {
		if !ok {
			break
		}

		v, ok = member(v, seg)
	}

	return v, ok
}

func member(v lang.Value, name string) (lang.Value, bool) {
	switch v := v.(type) {
	case *lang.Dict:
		return v.GetStr(name)

	case *lang.Instance:
		if f, ok := v.Fields[name]; ok {
			return f, true
		}

		if def, ok := v.Class.Method(name); ok {
			return &lang.Function{Def: def, Self: v}, true
		}
	}

	return nil, false
}

// members lists the names reachable with a dot from v.
func members(v lang.Value) []string {
	var names []string

	switch v := v.(type) {
	case *lang.Dict:
		for _, k := range v.Keys() {
			if s, ok := k.(lang.Str); ok {
				names = append(names, string(s))
			}
		}

	case *lang.Instance:
		names = slices.Collect(maps.Keys(v.Fields))

		for k := v.Class; k != nil; k = k.Base() {
			names = append(names, slices.Collect(maps.Keys(k.Methods))...)
		}

		slices.Sort(names)
		names = slices.Compact(names)
	}

	return names
}

// candidates returns the completions for the word at wordStart.
func candidates(in *lang.Interpreter, input string, wordStart int) []string {
	if strings.HasPrefix(strings.TrimSpace(input), ":") {
		names := make([]string, len(commands))
		for i, c := range commands {
			names[i] = strings.TrimPrefix(c.name, ":")
		}

		return names
	}

	if parent := parentPath(input, wordStart); parent != "" {
		v, ok := resolve(in, parent)
		if !ok {
			return nil
		}

		return members(v)
	}

	names := token.Keywords()
	names = append(names, in.Globals().Names()...)
	names = append(names, slices.Sorted(maps.Keys(in.Natives()))...)

	slices.Sort(names)

	return slices.Compact(names)
}

// complete ranks the candidates for the word at cursor. An empty top-level
// word has no matches, so the hint line stays visible; an empty word after
// a dot lists every member.
func complete(in *lang.Interpreter, input string, cursor int) (
	matches fuzzy.Matches,
	start, end int,
) {
	word, start, end := wordBounds(input, cursor)

	names := candidates(in, input, start)
	if len(names) == 0 {
		return nil, start, end
	}

	if word == "" {
		if parentPath(input, start) == "" {
			return nil, start, end
		}

		matches = make(fuzzy.Matches, len(names))
		for i, n := range names {
			matches[i] = fuzzy.Match{Str: n, Index: i}
		}

		return matches, start, end
	}

	return fuzzy.Find(word, names), start, end
}

// renderCandidateBar renders matches on one line no wider than width,
// ending with an ellipsis when some do not fit.
func renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		cell := renderCandidate(match, tabActive && i == selected)

		w := lipgloss.Width(cell)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		if i > 0 && i < len(matches)-1 && used+w+reserve > width {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(cell)

		used += w
	}

	return b.String()
}

// renderCandidate highlights the characters of match that the typed word
// matched.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, mark := suggestionStyle, matchStyle
	if selected {
		base, mark = selectedStyle, selectedMatchStyle
	}

	hit := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		hit[i] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if hit[i] {
			b.WriteString(mark.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
