package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mchmarny/textscore/pkg/config"
	"github.com/mchmarny/textscore/pkg/net"
	"github.com/mchmarny/textscore/pkg/pos"
	"github.com/mchmarny/textscore/pkg/score"
	"github.com/mchmarny/textscore/pkg/spell"
	"github.com/mchmarny/textscore/pkg/text"
	"github.com/mchmarny/textscore/pkg/wordlist"
)

// scorerParts are the expensive collaborators shared by every scorer the
// app hands out; only the mode differs between them.
type scorerParts struct {
	tokenizer text.Tokenizer
	corrector spell.Corrector
	tagger    pos.Tagger
	words     *wordlist.List
	weights   score.Weights
	mode      score.Mode
}

func (p *scorerParts) scorer(mode score.Mode) *score.Scorer {
	if mode == "" {
		mode = p.mode
	}
	return score.New(
		score.WithTokenizer(p.tokenizer),
		score.WithCorrector(p.corrector),
		score.WithTagger(p.tagger),
		score.WithWordList(p.words),
		score.WithWeights(p.weights),
		score.WithMode(mode),
	)
}

func buildScorerParts(ctx context.Context, cfg *config.Config) (*scorerParts, error) {
	mode, err := score.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	words := wordlist.Default()
	for _, src := range cfg.WordLists {
		l, err := loadWordList(ctx, src)
		if err != nil {
			return nil, err
		}
		words = words.Merge(l)
	}

	stop := make([]string, 0)
	for _, src := range cfg.StopWords {
		l, err := loadWordList(ctx, src)
		if err != nil {
			return nil, err
		}
		stop = append(stop, l.Words()...)
	}
	tokenizer := text.NewStandard(stop...)

	var dict *spell.Dictionary
	if cfg.Spell.Dictionary != "" {
		if dict, err = loadDictionary(ctx, cfg.Spell.Dictionary); err != nil {
			return nil, err
		}
	}

	corrector := spell.NewFuzzy(spell.Options{
		Depth:      cfg.Spell.Depth,
		MinWordLen: cfg.Spell.MinWordLen,
		Dictionary: dict,
		Extra:      append(tokenizer.Words(), words.Words()...),
	})

	slog.Debug("scorer ready", "words", words.Len(), "stop_words", tokenizer.StopWords(), "mode", mode)

	return &scorerParts{
		tokenizer: tokenizer,
		corrector: corrector,
		tagger:    pos.NewProse(),
		words:     words,
		weights:   cfg.Weights,
		mode:      mode,
	}, nil
}

// loadWordList reads a word list from a local file or an http(s) URL.
func loadWordList(ctx context.Context, src string) (*wordlist.List, error) {
	if !isURL(src) {
		return wordlist.ReadFile(src)
	}
	s, err := net.GetText(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("fetching word list %s: %w", src, err)
	}
	return wordlist.Read(strings.NewReader(s))
}

// loadDictionary reads a spelling frequency list from a local file or an http(s) URL.
func loadDictionary(ctx context.Context, src string) (*spell.Dictionary, error) {
	if !isURL(src) {
		return spell.ReadDictionaryFile(src)
	}
	s, err := net.GetText(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("fetching dictionary %s: %w", src, err)
	}
	return spell.ReadDictionary(strings.NewReader(s))
}

func isURL(s string) bool {
	s = strings.ToLower(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
