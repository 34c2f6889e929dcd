package text

import (
	_ "embed"
	"strings"
	"unicode"
)

const sentenceMark = '.'

var (
	//go:embed stopwords.txt
	stopWordsFile string
)

// Tokenizer splits text into the ordered sequence of scored tokens.
type Tokenizer interface {
	Tokenize(s string) []string
}

// Standard keeps ASCII letters, digits and periods, lowercases,
// splits on whitespace and drops stop words. Duplicates and order are kept.
type Standard struct {
	stop map[string]struct{}
}

// NewStandard returns a tokenizer with the built-in English stop words
// plus any extra words provided.
func NewStandard(extra ...string) *Standard {
	t := &Standard{stop: make(map[string]struct{})}
	for _, w := range strings.Fields(stopWordsFile) {
		t.stop[w] = struct{}{}
	}
	for _, w := range extra {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			t.stop[w] = struct{}{}
		}
	}
	return t
}

// IsStopWord reports whether w (ignoring case and surrounding periods) is a stop word.
func (t *Standard) IsStopWord(w string) bool {
	_, ok := t.stop[strings.Trim(strings.ToLower(w), ".")]
	return ok
}

// StopWords returns the number of stop words known to the tokenizer.
func (t *Standard) StopWords() int {
	return len(t.stop)
}

// Tokenize implements Tokenizer.
func (t *Standard) Tokenize(s string) []string {
	cleaned := Clean(s)

	tokens := make([]string, 0)
	for _, f := range strings.Fields(cleaned) {
		bare := strings.Trim(f, ".")
		if bare == "" {
			continue
		}
		if _, ok := t.stop[bare]; ok {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Clean lowercases s and removes every rune other than ASCII letters,
// digits, periods and whitespace. Any whitespace becomes a single space.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == sentenceMark:
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// HasSentenceMark reports whether the token carries a period.
func HasSentenceMark(token string) bool {
	return strings.ContainsRune(token, sentenceMark)
}

// Words returns the stop words in no particular order.
func (t *Standard) Words() []string {
	out := make([]string, 0, len(t.stop))
	for w := range t.stop {
		out = append(out, w)
	}
	return out
}
