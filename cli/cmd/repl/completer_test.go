package repl

import (
	"slices"
	"testing"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"member", "bar.baz", 7, "baz", 4, 7},
		{"after plus", "a + fo", 6, "fo", 4, 6},
		{"after paren", "double(fo", 9, "fo", 7, 9},
		{"after comma", "add(a, fo", 9, "fo", 7, 9},
		{"after comparison", "a >= fo", 7, "fo", 5, 7},
		{"after minus", "a-b", 3, "b", 2, 3},
		{"empty at boundary", "a + ", 4, "", 4, 4},
		{"mid word", "foobar", 3, "foobar", 0, 6},
		{"at start", "foo", 0, "foo", 0, 3},
		{"underscore", "snake_case", 10, "snake_case", 0, 10},
		{"empty after dot", "config.", 7, "", 7, 7},
		{"cursor past end", "ab", 9, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top level", "fo", 0, ""},
		{"simple chain", "bar.baz.", 8, "bar.baz"},
		{"after operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after paren", "(bar.baz.", 9, "bar.baz"},
		{"no chain", "a + ", 4, ""},
		{"deep chain", "a.b.c.", 6, "a.b.c"},
		{"after assignment", "x = a.b.", 8, "a.b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestComplete(t *testing.T) {
	s := newTestSession(t)

	for _, line := range []string{
		`var config = {"level": 1, "label": "x"}`,
		`class Box { func init(self, v) { self.value = v } func get(self) { return self.value } }`,
		`var box = Box(3)`,
		`var counter = 0`,
	} {
		if r := s.Feed(t.Context(), line); r.Err != nil {
			t.Fatalf("Feed(%q): %v", line, r.Err)
		}
	}

	tests := []struct {
		name    string
		input   string
		want    []string // must all appear
		wantNot []string
	}{
		{"global", "cou", []string{"counter"}, []string{"config"}},
		{"keyword", "whi", []string{"while"}, nil},
		{"dict keys", "config.l", []string{"level", "label"}, nil},
		{"all dict keys", "config.", []string{"level", "label"}, nil},
		{"instance members", "box.", []string{"value", "get", "init"}, nil},
		{"unknown parent", "nope.", nil, []string{"level"}},
		{"command", ":qu", []string{"quit"}, []string{"help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, _, end := complete(s.Interpreter(), tt.input, len(tt.input))

			if end != len(tt.input) {
				t.Errorf("end = %d, want %d", end, len(tt.input))
			}

			var got []string
			for _, m := range matches {
				got = append(got, m.Str)
			}

			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("complete(%q) = %q, missing %q", tt.input, got, w)
				}
			}

			for _, w := range tt.wantNot {
				if slices.Contains(got, w) {
					t.Errorf("complete(%q) = %q, unexpected %q", tt.input, got, w)
				}
			}
		})
	}

	if matches, _, _ := complete(s.Interpreter(), "", 0); len(matches) != 0 {
		t.Errorf("empty input: %d matches, want none", len(matches))
	}
}

func TestRenderCandidateBar(t *testing.T) {
	s := newTestSession(t)
	s.Feed(t.Context(), "var alpha = 1")
	s.Feed(t.Context(), "var alps = 2")

	matches, _, _ := complete(s.Interpreter(), "al", 2)
	if len(matches) < 2 {
		t.Fatalf("matches = %v, want at least 2", matches)
	}

	if got := renderCandidateBar(matches, 0, false, 0); got != "" {
		t.Errorf("zero width: %q, want empty", got)
	}

	if got := renderCandidateBar(nil, 0, false, 80); got != "" {
		t.Errorf("no matches: %q, want empty", got)
	}

	if got := renderCandidateBar(matches, 0, true, 80); got == "" {
		t.Error("bar is empty")
	}
}
