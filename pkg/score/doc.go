// Package score computes a heuristic writing-quality score for a block of
// text. It combines spelling-correction statistics, vocabulary richness, a
// sentence-length approximation and part-of-speech ratios into a single
// weighted value via [Scorer.Evaluate], or all of them at once via
// [Scorer.Analyze].
//
// Collaborators (tokenizer, spelling corrector, tagger, reference word list)
// are injected with options. [Default] builds the standard set once per
// process; nothing needs to be released.
package score
