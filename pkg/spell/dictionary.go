package spell

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

var (
	//go:embed dictionary.txt
	defaultDictionary string

	dictOnce    sync.Once
	defaultDict *Dictionary
)

// Dictionary is a word frequency list the spelling model is trained on.
type Dictionary struct {
	counts map[string]int
}

// DefaultDictionary returns the built-in English frequency list, parsed once per process.
func DefaultDictionary() *Dictionary {
	dictOnce.Do(func() {
		d, err := ReadDictionary(strings.NewReader(defaultDictionary))
		if err != nil {
			panic(fmt.Sprintf("parsing embedded dictionary: %v", err))
		}
		slog.Debug("spelling dictionary loaded", "words", d.Len())
		defaultDict = d
	})
	return defaultDict
}

// ReadDictionary parses lines of "word [count]" from r. A missing count
// means 1, lines starting with # are skipped and repeated words add up.
func ReadDictionary(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{counts: make(map[string]int)}
	s := bufio.NewScanner(r)
	n := 0
	for s.Scan() {
		n++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) > 2 {
			return nil, fmt.Errorf("line %d: expected word and count, got %q", n, line)
		}
		count := 1
		if len(parts) == 2 {
			c, err := strconv.Atoi(parts[1])
			if err != nil || c < 1 {
				return nil, fmt.Errorf("line %d: invalid count %q", n, parts[1])
			}
			count = c
		}
		d.counts[strings.ToLower(parts[0])] += count
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scanning dictionary: %w", err)
	}
	return d, nil
}

// ReadDictionaryFile parses the dictionary file at path.
func ReadDictionaryFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dictionary %s: %w", path, err)
	}
	defer f.Close()
	return ReadDictionary(f)
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.counts)
}

// Count returns how often w occurs, 0 when unknown.
func (d *Dictionary) Count(w string) int {
	if d == nil {
		return 0
	}
	return d.counts[strings.ToLower(w)]
}

// Words returns the words in lexical order.
func (d *Dictionary) Words() []string {
	if d == nil {
		return nil
	}
	list := make([]string, 0, len(d.counts))
	for w := range d.counts {
		list = append(list, w)
	}
	sort.Strings(list)
	return list
}
