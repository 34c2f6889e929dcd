package spell

import (
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/sajari/fuzzy"
)

const (
	// DepthDefault is the maximum edit distance considered for a correction.
	DepthDefault = 2
	// MinWordLenDefault is the shortest word the corrector will touch.
	MinWordLenDefault = 2

	// known words need a count above the threshold, every trained count is lifted past it
	trainThreshold = 1
	// candidates sharing the first letter of the input are preferred
	firstLetterBonus = 100
)

// Corrector rewrites text with misspelled words replaced.
type Corrector interface {
	Correct(s string) string
}

// Options configures the fuzzy corrector.
type Options struct {
	// Depth is the maximum edit distance, DepthDefault when zero.
	Depth int
	// MinWordLen skips words shorter than this, MinWordLenDefault when zero.
	MinWordLen int
	// Dictionary is the frequency list to train on, DefaultDictionary when nil.
	Dictionary *Dictionary
	// Extra words accepted as correctly spelled, typically stop words and
	// the reference vocabulary.
	Extra []string
}

// Fuzzy is a Corrector backed by a symmetric-delete spelling model
// trained on a word frequency list. Safe for concurrent use.
type Fuzzy struct {
	model  *fuzzy.Model
	minLen int
}

// NewFuzzy trains a model on the dictionary and extra words of opt.
func NewFuzzy(opt Options) *Fuzzy {
	if opt.Depth <= 0 {
		opt.Depth = DepthDefault
	}
	if opt.MinWordLen <= 0 {
		opt.MinWordLen = MinWordLenDefault
	}

	dict := opt.Dictionary
	if dict == nil {
		dict = DefaultDictionary()
	}

	m := fuzzy.NewModel()
	m.SetThreshold(trainThreshold)
	m.SetDepth(opt.Depth)

	words := dict.Words()
	for _, w := range words {
		m.SetCount(w, dict.Count(w)+trainThreshold, true)
	}
	extra := 0
	for _, w := range opt.Extra {
		w = strings.ToLower(w)
		if w == "" || dict.Count(w) > 0 {
			continue
		}
		m.SetCount(w, trainThreshold+1, true)
		extra++
	}
	slog.Debug("spelling model trained", "words", len(words), "extra", extra, "depth", opt.Depth)

	return &Fuzzy{model: m, minLen: opt.MinWordLen}
}

// Correct implements Corrector. Only runs of letters are considered words;
// everything else in s is copied through unchanged.
func (f *Fuzzy) Correct(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	rs := []rune(s)
	for i := 0; i < len(rs); {
		if !isWordRune(rs[i]) {
			b.WriteRune(rs[i])
			i++
			continue
		}
		j := i
		for j < len(rs) && isWordRune(rs[j]) {
			j++
		}
		b.WriteString(f.CorrectWord(string(rs[i:j])))
		i = j
	}
	return b.String()
}

// CorrectWord returns the most likely spelling of w, keeping its capitalization.
// Words that are too short, contain apostrophes or have no suggestion are returned as is.
func (f *Fuzzy) CorrectWord(w string) string {
	if len(w) < f.minLen || strings.ContainsRune(w, '\'') {
		return w
	}

	lower := strings.ToLower(w)
	fixed := pick(lower, f.model.Potentials(lower, false))
	if fixed == "" || fixed == lower {
		return w
	}
	slog.Debug("spelling corrected", "from", w, "to", fixed)
	return matchCase(w, fixed)
}

// pick returns the closest candidate, then the most frequent one with a bonus
// for keeping the first letter, then the lexically smallest, so the same
// input always gets the same correction.
func pick(input string, potentials map[string]*fuzzy.Potential) string {
	if len(potentials) == 0 {
		return ""
	}
	if p, ok := potentials[input]; ok && p.Leven == 0 {
		return input
	}

	list := make([]*fuzzy.Potential, 0, len(potentials))
	for _, p := range potentials {
		list = append(list, p)
	}
	weight := func(p *fuzzy.Potential) int {
		if p.Term != "" && p.Term[0] == input[0] {
			return p.Score + firstLetterBonus
		}
		return p.Score
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Leven != b.Leven {
			return a.Leven < b.Leven
		}
		if wa, wb := weight(a), weight(b); wa != wb {
			return wa > wb
		}
		return a.Term < b.Term
	})
	return list[0].Term
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || r == '\''
}

func matchCase(orig, fixed string) string {
	switch {
	case strings.ToUpper(orig) == orig && len(orig) > 1:
		return strings.ToUpper(fixed)
	case unicode.IsUpper([]rune(orig)[0]):
		r := []rune(fixed)
		r[0] = unicode.ToUpper(r[0])
		return string(r)
	default:
		return fixed
	}
}
