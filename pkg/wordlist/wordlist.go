package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
)

const commentPrefix = "#"

var (
	//go:embed words.txt
	defaultWords string

	defaultOnce sync.Once
	defaultList *List
)

// List is an immutable reference vocabulary. Safe for concurrent use.
type List struct {
	words map[string]struct{}
}

// Default returns the built-in reference list. It is parsed once per process.
func Default() *List {
	defaultOnce.Do(func() {
		l, err := Read(strings.NewReader(defaultWords))
		if err != nil {
			// embedded content, read from memory
			panic(fmt.Sprintf("parsing embedded word list: %v", err))
		}
		slog.Debug("reference word list loaded", "words", l.Len())
		defaultList = l
	})
	return defaultList
}

// New creates a list from the given words.
func New(words ...string) *List {
	l := &List{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		l.add(w)
	}
	return l
}

// Read parses whitespace separated words from r. Lines starting with # are skipped.
func Read(r io.Reader) (*List, error) {
	l := New()
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		for _, w := range strings.Fields(line) {
			l.add(w)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scanning word list: %w", err)
	}
	return l, nil
}

// ReadFile parses the word list file at path.
func ReadFile(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening word list %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Merge returns a new list holding the words of l and all others.
func (l *List) Merge(others ...*List) *List {
	m := New()
	for w := range l.words {
		m.words[w] = struct{}{}
	}
	for _, o := range others {
		if o == nil {
			continue
		}
		for w := range o.words {
			m.words[w] = struct{}{}
		}
	}
	return m
}

// Contains reports whether w is in the list. The lookup is exact.
func (l *List) Contains(w string) bool {
	if l == nil {
		return false
	}
	_, ok := l.words[w]
	return ok
}

// Len returns the number of distinct words.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.words)
}

// Words returns the sorted words of the list.
func (l *List) Words() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.words))
	for w := range l.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func (l *List) add(w string) {
	w = strings.ToLower(strings.TrimSpace(w))
	if w == "" {
		return
	}
	l.words[w] = struct{}{}
}
