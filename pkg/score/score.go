package score

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mchmarny/textscore/pkg/pos"
	"github.com/mchmarny/textscore/pkg/spell"
	"github.com/mchmarny/textscore/pkg/text"
	"github.com/mchmarny/textscore/pkg/wordlist"
)

// ErrEmptyInput is returned by callers refusing to score blank text.
var ErrEmptyInput = errors.New("no text to score")

// Mode selects how the length and vocabulary metrics are computed.
type Mode string

const (
	// ModeStandard averages over all tokens.
	ModeStandard Mode = "standard"
	// ModeLegacy reproduces the historical first-token averages, the
	// last-match good vocabulary ratio and the store labels verbatim.
	ModeLegacy Mode = "legacy"
)

// ParseMode parses a user-provided mode value.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(ModeStandard):
		return ModeStandard, nil
	case string(ModeLegacy):
		return ModeLegacy, nil
	default:
		return "", fmt.Errorf("unknown mode %q (supported: standard, legacy)", raw)
	}
}

// Weights are the coefficients of the aggregate score. The defaults sum
// to 0.6, so the aggregate is not a weighted average.
type Weights struct {
	VocabLength       float64 `json:"vocab_length" yaml:"vocabLength"`
	GoodVocab         float64 `json:"good_vocab" yaml:"goodVocab"`
	AvgSentenceLength float64 `json:"avg_sentence_length" yaml:"avgSentenceLength"`
	Efficiency        float64 `json:"efficiency" yaml:"efficiency"`
	Descriptiveness   float64 `json:"descriptiveness" yaml:"descriptiveness"`
}

// DefaultWeights returns the standard coefficients.
func DefaultWeights() Weights {
	return Weights{
		VocabLength:       0.1,
		GoodVocab:         0.2,
		AvgSentenceLength: 0.1,
		Efficiency:        0.1,
		Descriptiveness:   0.1,
	}
}

// Sum returns the total of all coefficients.
func (w Weights) Sum() float64 {
	return w.VocabLength + w.GoodVocab + w.AvgSentenceLength + w.Efficiency + w.Descriptiveness
}

// Report holds every metric computed for one text.
type Report struct {
	Tokens            int     `json:"tokens" yaml:"tokens"`
	Spellchecked      int     `json:"spellchecked" yaml:"spellchecked"`
	Efficiency        float64 `json:"efficiency" yaml:"efficiency"`
	UniqueWords       float64 `json:"unique_words" yaml:"uniqueWords"`
	AvgSentenceLength float64 `json:"avg_sentence_length" yaml:"avgSentenceLength"`
	AvgLenWords       float64 `json:"avg_len_words" yaml:"avgLenWords"`
	VocabLength       float64 `json:"vocab_length" yaml:"vocabLength"`
	GoodVocab         float64 `json:"good_vocab" yaml:"goodVocab"`
	Descriptiveness   float64 `json:"descriptiveness" yaml:"descriptiveness"`
	Score             float64 `json:"score" yaml:"score"`
	Mode              Mode    `json:"mode" yaml:"mode"`
	Corrected         string  `json:"corrected,omitempty" yaml:"corrected,omitempty"`
}

// Scorer computes writing quality metrics. Safe for concurrent use as long
// as its collaborators are.
type Scorer struct {
	tokenizer text.Tokenizer
	corrector spell.Corrector
	tagger    pos.Tagger
	words     *wordlist.List
	weights   Weights
	mode      Mode
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithTokenizer sets the tokenizer.
func WithTokenizer(t text.Tokenizer) Option {
	return func(s *Scorer) { s.tokenizer = t }
}

// WithCorrector sets the spelling corrector.
func WithCorrector(c spell.Corrector) Option {
	return func(s *Scorer) { s.corrector = c }
}

// WithTagger sets the part-of-speech tagger.
func WithTagger(t pos.Tagger) Option {
	return func(s *Scorer) { s.tagger = t }
}

// WithWordList sets the reference word list.
func WithWordList(l *wordlist.List) Option {
	return func(s *Scorer) { s.words = l }
}

// WithWeights sets the aggregate coefficients.
func WithWeights(w Weights) Option {
	return func(s *Scorer) { s.weights = w }
}

// WithMode sets the computation mode.
func WithMode(m Mode) Option {
	return func(s *Scorer) { s.mode = m }
}

var (
	defaultOnce   sync.Once
	defaultScorer *Scorer
)

// Default returns the process-wide scorer built from the built-in stop
// words, reference list, spelling model and tagger. It is built on first
// use; training the spelling model is the expensive part.
func Default() *Scorer {
	defaultOnce.Do(func() {
		defaultScorer = New()
	})
	return defaultScorer
}

// New creates a Scorer. Collaborators not provided as options fall back to
// the built-in ones.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		weights: DefaultWeights(),
		mode:    ModeStandard,
	}
	for _, o := range opts {
		o(s)
	}

	if s.words == nil {
		s.words = wordlist.Default()
	}

	std := text.NewStandard()
	if s.tokenizer == nil {
		s.tokenizer = std
	}
	if s.corrector == nil {
		s.corrector = spell.NewFuzzy(spell.Options{Extra: append(std.Words(), s.words.Words()...)})
	}
	if s.tagger == nil {
		s.tagger = pos.NewProse()
	}
	return s
}

// Mode returns the computation mode.
func (s *Scorer) Mode() Mode {
	return s.mode
}

// Weights returns the aggregate coefficients.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Tokenize returns the scored tokens of in.
func (s *Scorer) Tokenize(in string) []string {
	return s.tokenizer.Tokenize(in)
}

// Spellcheck returns in with misspelled words corrected.
func (s *Scorer) Spellcheck(in string) string {
	return s.corrector.Correct(in)
}

// SpellcheckedWords returns how many tokens of in were changed by spellcheck.
func (s *Scorer) SpellcheckedWords(in string) int {
	return changedWords(s.Tokenize(in), s.Tokenize(s.Spellcheck(in)))
}

// Efficiency returns the fraction of tokens not changed by spellcheck.
func (s *Scorer) Efficiency(in string) float64 {
	return efficiency(len(s.Tokenize(in)), s.SpellcheckedWords(in))
}

// UniqueWords returns distinct tokens divided by total tokens.
func (s *Scorer) UniqueWords(in string) float64 {
	return uniqueWords(s.Tokenize(in))
}

// AvgSentenceLength returns the period-based sentence length approximation.
func (s *Scorer) AvgSentenceLength(in string) float64 {
	return avgSentenceLength(s.Tokenize(in))
}

// AvgLenWords returns the average token length divided by 10.
func (s *Scorer) AvgLenWords(in string) float64 {
	return avgLenWords(s.Tokenize(in), s.mode)
}

// VocabLength returns the average length of the distinct tokens divided by 10.
func (s *Scorer) VocabLength(in string) float64 {
	return vocabLength(s.Tokenize(in), s.mode)
}

// GoodVocab returns the fraction of tokens found in the reference list.
func (s *Scorer) GoodVocab(in string) float64 {
	return goodVocab(s.Tokenize(in), s.words, s.mode)
}

// Descriptiveness returns the ratio of verbs, adjectives and adverbs to nouns
// in the spellchecked text.
func (s *Scorer) Descriptiveness(in string) (float64, error) {
	tags, err := s.tagger.Tag(s.Spellcheck(in))
	if err != nil {
		return 0, fmt.Errorf("computing descriptiveness: %w", err)
	}
	return descriptiveness(tags), nil
}

// Evaluate returns the weighted aggregate score of in.
func (s *Scorer) Evaluate(in string) (float64, error) {
	r, err := s.Analyze(in)
	if err != nil {
		return 0, err
	}
	return r.Score, nil
}

// Store returns the labeled display strings for in.
func (s *Scorer) Store(in string) ([]string, error) {
	r, err := s.Analyze(in)
	if err != nil {
		return nil, err
	}
	return Labels(r), nil
}

// Analyze computes every metric of in with a single spelling pass.
func (s *Scorer) Analyze(in string) (*Report, error) {
	corrected := s.Spellcheck(in)
	tokens := s.Tokenize(in)
	fixedTokens := s.Tokenize(corrected)

	tags, err := s.tagger.Tag(corrected)
	if err != nil {
		return nil, fmt.Errorf("computing descriptiveness: %w", err)
	}

	changed := changedWords(tokens, fixedTokens)
	r := &Report{
		Tokens:            len(tokens),
		Spellchecked:      changed,
		Efficiency:        efficiency(len(tokens), changed),
		UniqueWords:       uniqueWords(tokens),
		AvgSentenceLength: avgSentenceLength(tokens),
		AvgLenWords:       avgLenWords(tokens, s.mode),
		VocabLength:       vocabLength(tokens, s.mode),
		GoodVocab:         goodVocab(tokens, s.words, s.mode),
		Descriptiveness:   descriptiveness(tags),
		Mode:              s.mode,
		Corrected:         corrected,
	}
	r.Score = s.weights.apply(r)

	slog.Debug("text analyzed",
		"tokens", r.Tokens,
		"spellchecked", r.Spellchecked,
		"efficiency", r.Efficiency,
		"vocab_length", r.VocabLength,
		"good_vocab", r.GoodVocab,
		"avg_sentence_length", r.AvgSentenceLength,
		"descriptiveness", r.Descriptiveness,
		"score", r.Score)

	return r, nil
}

func (w Weights) apply(r *Report) float64 {
	return w.VocabLength*r.VocabLength +
		w.GoodVocab*r.GoodVocab +
		w.AvgSentenceLength*r.AvgSentenceLength +
		w.Efficiency*r.Efficiency +
		w.Descriptiveness*r.Descriptiveness
}

// Labels renders a report as human-readable "label: value" strings with the
// values JSON encoded. Legacy reports reproduce the historical output,
// including the descriptiveness entry carrying the vocab_length value.
func Labels(r *Report) []string {
	if r == nil {
		return nil
	}
	if r.Mode == ModeLegacy {
		return []string{
			fmt.Sprintf("vocab_length: %s ", jsonNumber(r.VocabLength)),
			fmt.Sprintf("avg_sentence_length score: %s", jsonNumber(r.AvgSentenceLength)),
			fmt.Sprintf("efficiency score: %s", jsonNumber(r.Efficiency)),
			fmt.Sprintf("descriptiveness score: %s ", jsonNumber(r.VocabLength)),
			fmt.Sprintf("good_vocab: %s", jsonNumber(r.GoodVocab)),
			fmt.Sprintf("evaluate: %s", jsonNumber(r.Score)),
		}
	}
	return []string{
		fmt.Sprintf("vocab_length: %s", jsonNumber(r.VocabLength)),
		fmt.Sprintf("avg_sentence_length score: %s", jsonNumber(r.AvgSentenceLength)),
		fmt.Sprintf("efficiency score: %s", jsonNumber(r.Efficiency)),
		fmt.Sprintf("descriptiveness score: %s", jsonNumber(r.Descriptiveness)),
		fmt.Sprintf("good_vocab: %s", jsonNumber(r.GoodVocab)),
		fmt.Sprintf("evaluate: %s", jsonNumber(r.Score)),
	}
}

func jsonNumber(v float64) string {
	b, err := json.Marshal(v)
	if err != nil {
		// NaN or Inf, none of the metrics produce them
		return "null"
	}
	return string(b)
}
