package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// maxHistory bounds the number of entries kept.
const maxHistory = 1000

// History is the list of submitted lines, oldest first, optionally
// persisted to a file with one quoted entry per line.
type History struct {
	path    string
	entries []string
	mu      sync.RWMutex
}

// NewHistory returns a History stored at path. An empty path keeps the
// history in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with the contents of the history file. A
// missing file is an empty history.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		if s, err := strconv.Unquote(line); err == nil {
			line = s
		}

		h.entries = append(h.entries, line)
	}

	h.trim()

	return scanner.Err()
}

// Add appends entry. An earlier copy of the same entry is dropped, so
// repeated input moves to the end.
func (h *History) Add(entry string) error {
	if strings.TrimSpace(entry) == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.entries)
	if n > 0 && h.entries[n-1] == entry {
		return nil
	}

	i := slices.Index(h.entries, entry)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, entry)

	if i >= 0 || h.trim() {
		return h.rewrite()
	}

	return h.appendFile(entry)
}

// Entry returns the entry at index i, where 0 is the oldest.
func (h *History) Entry(i int) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return "", false
	}

	return h.entries[i], true
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of the entries.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// trim drops the oldest entries beyond maxHistory and reports whether any
// were dropped. h.mu must be held.
func (h *History) trim() bool {
	if len(h.entries) <= maxHistory {
		return false
	}

	h.entries = slices.Clone(h.entries[len(h.entries)-maxHistory:])

	return true
}

func (h *History) appendFile(entry string) error {
	if h.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0o700); err != nil {
		return err
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(strconv.Quote(entry) + "\n")

	return err
}

// rewrite replaces the history file with the current entries. h.mu must be
// held.
func (h *History) rewrite() error {
	if h.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0o700); err != nil {
		return err
	}

	var b strings.Builder

	for _, e := range h.entries {
		b.WriteString(strconv.Quote(e) + "\n")
	}

	return os.WriteFile(h.path, []byte(b.String()), 0o600)
}
