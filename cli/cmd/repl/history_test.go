package repl

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"testing"
)

func TestHistory_Add(t *testing.T) {
	tests := []struct {
		name string
		add  []string
		want []string
	}{
		{"append", []string{"a", "b"}, []string{"a", "b"}},
		{"skip blank", []string{"a", "  ", ""}, []string{"a"}},
		{"skip repeat", []string{"a", "a"}, []string{"a"}},
		{"move earlier copy", []string{"a", "b", "a"}, []string{"b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory("")

			for _, e := range tt.add {
				if err := h.Add(e); err != nil {
					t.Fatalf("Add(%q): %v", e, err)
				}
			}

			if got := h.Entries(); !slices.Equal(got, tt.want) {
				t.Errorf("Entries() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHistory_Persist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history")

	h := NewHistory(path)
	for _, e := range []string{"var x = 1", "print(\"a\\nb\")", "x", "var x = 1"} {
		if err := h.Add(e); err != nil {
			t.Fatalf("Add(%q): %v", e, err)
		}
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"print(\"a\\nb\")", "x", "var x = 1"}
	if got := loaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("loaded = %q, want %q", got, want)
	}

	if e, ok := loaded.Entry(0); !ok || e != want[0] {
		t.Errorf("Entry(0) = %q, %v", e, ok)
	}

	if _, ok := loaded.Entry(loaded.Len()); ok {
		t.Error("Entry(Len()) ok = true")
	}
}

func TestHistory_LoadMissing(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "none"))
	if err := h.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistory_Cap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	h := NewHistory(path)
	for i := range maxHistory + 10 {
		if err := h.Add(strconv.Itoa(i)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if h.Len() != maxHistory {
		t.Fatalf("Len() = %d, want %d", h.Len(), maxHistory)
	}

	if e, _ := h.Entry(0); e != "10" {
		t.Errorf("oldest = %q, want %q", e, "10")
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("history file: %v", err)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Len() != maxHistory {
		t.Errorf("loaded Len() = %d, want %d", loaded.Len(), maxHistory)
	}
}
