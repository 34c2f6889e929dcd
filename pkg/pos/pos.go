package pos

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jdkato/prose/v2"
)

// Category is a coarse part-of-speech class.
type Category string

const (
	ProperNoun Category = "PROPN"
	Noun       Category = "NOUN"
	Verb       Category = "VERB"
	Auxiliary  Category = "AUX"
	Adjective  Category = "ADJ"
	Adverb     Category = "ADV"
	Other      Category = "OTHER"
)

// Token is a word with its fine-grained tag and coarse category.
type Token struct {
	Text     string   `json:"text" yaml:"text"`
	Tag      string   `json:"tag" yaml:"tag"`
	Category Category `json:"category" yaml:"category"`
}

// Tagger assigns parts of speech to the words of a text.
type Tagger interface {
	Tag(s string) ([]Token, error)
}

var (
	modelOnce sync.Once
	model     *prose.Model
)

// sharedModel loads the perceptron weights once per process.
func sharedModel() *prose.Model {
	modelOnce.Do(func() {
		doc, err := prose.NewDocument("",
			prose.WithExtraction(false),
			prose.WithSegmentation(false),
		)
		if err != nil {
			// the empty document never fails, keep the per-call default
			slog.Debug("preloading tagger model", "error", err)
			return
		}
		model = doc.Model
	})
	return model
}

// Prose tags text with the averaged perceptron model shipped in prose.
// The model is only read after loading so Prose is safe for concurrent use.
type Prose struct {
	model *prose.Model
}

// NewProse returns a prose backed Tagger sharing the process-wide model.
func NewProse() *Prose {
	return &Prose{model: sharedModel()}
}

// Tag implements Tagger.
func (p *Prose) Tag(s string) ([]Token, error) {
	if strings.TrimSpace(s) == "" {
		return []Token{}, nil
	}

	opts := []prose.DocOpt{
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	}
	if p.model != nil {
		opts = append(opts, prose.UsingModel(p.model))
	}

	doc, err := prose.NewDocument(s, opts...)
	if err != nil {
		return nil, fmt.Errorf("tagging text: %w", err)
	}

	list := make([]Token, 0)
	for _, t := range doc.Tokens() {
		list = append(list, Token{
			Text:     t.Text,
			Tag:      t.Tag,
			Category: Classify(t.Text, t.Tag),
		})
	}
	return list, nil
}

var auxiliaries = map[string]struct{}{
	"be": {}, "am": {}, "is": {}, "are": {}, "was": {}, "were": {}, "been": {}, "being": {},
	"'m": {}, "'s": {}, "'re": {},
}

// Classify maps a Penn Treebank tag onto a Category. Forms of "be" and modals
// are auxiliaries, never verbs.
func Classify(word, tag string) Category {
	switch {
	case tag == "NNP" || tag == "NNPS":
		return ProperNoun
	case tag == "NN" || tag == "NNS":
		return Noun
	case tag == "MD":
		return Auxiliary
	case strings.HasPrefix(tag, "VB"):
		if _, ok := auxiliaries[strings.ToLower(word)]; ok {
			return Auxiliary
		}
		return Verb
	case strings.HasPrefix(tag, "JJ"):
		return Adjective
	case strings.HasPrefix(tag, "RB") || tag == "WRB":
		return Adverb
	default:
		return Other
	}
}

// Count returns how many tokens fall into each category.
func Count(tokens []Token) map[Category]int {
	m := make(map[Category]int)
	for _, t := range tokens {
		m[t.Category]++
	}
	return m
}
