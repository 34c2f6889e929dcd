package score

import (
	"strings"

	"github.com/mchmarny/textscore/pkg/pos"
	"github.com/mchmarny/textscore/pkg/text"
	"github.com/mchmarny/textscore/pkg/wordlist"
)

// lengthScale turns character and token counts into ~[0,1] scores.
const lengthScale = 10.0

// changedWords counts entries of original that do not occur anywhere in
// corrected. Membership is by set, so a word that is both misspelled and
// correctly spelled elsewhere in the text is not counted.
func changedWords(original, corrected []string) int {
	seen := make(map[string]struct{}, len(corrected))
	for _, w := range corrected {
		seen[w] = struct{}{}
	}
	n := 0
	for _, w := range original {
		if _, ok := seen[w]; !ok {
			n++
		}
	}
	return n
}

func efficiency(total, changed int) float64 {
	if total == 0 {
		return 0
	}
	return float64(total-changed) / float64(total)
}

func uniqueWords(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	return float64(len(distinct(tokens))) / float64(len(tokens))
}

// avgSentenceLength is token count / 10 divided by the number of tokens
// carrying a period, or undivided when there are none.
func avgSentenceLength(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	marks := 0
	for _, w := range tokens {
		if text.HasSentenceMark(w) {
			marks++
		}
	}
	v := float64(len(tokens)) / lengthScale
	if marks == 0 {
		return v
	}
	return v / float64(marks)
}

func avgLenWords(tokens []string, mode Mode) float64 {
	if len(tokens) == 0 {
		return 0
	}
	if mode == ModeLegacy {
		return float64(len(tokens[0])) / lengthScale
	}
	return meanLen(tokens) / lengthScale
}

func vocabLength(tokens []string, mode Mode) float64 {
	if len(tokens) == 0 {
		return 0
	}
	if mode == ModeLegacy {
		return float64(len(tokens[0])) / lengthScale
	}
	return meanLen(distinct(tokens)) / lengthScale
}

// goodVocab is the share of tokens found in the reference list. Legacy mode
// reports the ratio as of the last matching token.
func goodVocab(tokens []string, list *wordlist.List, mode Mode) float64 {
	if len(tokens) == 0 {
		return 0
	}
	matched := 0
	ratio := 0.0
	for i, w := range tokens {
		if mode != ModeLegacy {
			w = strings.Trim(w, ".")
		}
		if list.Contains(w) {
			matched++
			ratio = float64(matched) / float64(i+1)
		}
	}
	if mode == ModeLegacy {
		return ratio
	}
	return float64(matched) / float64(len(tokens))
}

// descriptiveness is (verbs + adjectives + adverbs) / (nouns + proper nouns).
func descriptiveness(tags []pos.Token) float64 {
	c := pos.Count(tags)
	nouns := c[pos.Noun] + c[pos.ProperNoun]
	if nouns == 0 {
		return 0
	}
	return float64(c[pos.Verb]+c[pos.Adjective]+c[pos.Adverb]) / float64(nouns)
}

// distinct returns the unique tokens in first-seen order.
func distinct(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, w := range tokens {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func meanLen(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	sum := 0
	for _, w := range tokens {
		sum += len(w)
	}
	return float64(sum) / float64(len(tokens))
}
