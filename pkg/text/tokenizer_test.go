package text

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var tokenPattern = regexp.MustCompile(`^[a-z0-9.]+$`)

func TestTokenize(t *testing.T) {
	tok := NewStandard()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"only stop words", "the the the.", []string{}},
		{"punctuation stripped", "Hello, World!", []string{"hello", "world"}},
		{"period kept", "Summer came running. Then", []string{"summer", "came", "running."}},
		{"duplicates kept", "cat dog cat", []string{"cat", "dog", "cat"}},
		{"digits kept", "made 2 w", []string{"2", "w"}},
		{"newline is a separator", "cat\ndog", []string{"cat", "dog"}},
		{"lone periods dropped", "cat . ... dog", []string{"cat", "dog"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tok.Tokenize(tt.in))
		})
	}
}

func TestTokenize_Alphabet(t *testing.T) {
	tok := NewStandard()
	in := "Café — naïve résumé; 100% «quoted» text... with\ttabs & símbolos!"
	for _, w := range tok.Tokenize(in) {
		assert.Regexp(t, tokenPattern, w)
	}
}

func TestNewStandard_Extra(t *testing.T) {
	tok := NewStandard(" Genie ", "")
	assert.True(t, tok.IsStopWord("genie"))
	assert.True(t, tok.IsStopWord("The."))
	assert.False(t, tok.IsStopWord("summer"))
	assert.Equal(t, []string{"wishes"}, tok.Tokenize("a genie. three wishes"))
	assert.Greater(t, tok.StopWords(), 300)
}

func TestHasSentenceMark(t *testing.T) {
	assert.True(t, HasSentenceMark("over."))
	assert.False(t, HasSentenceMark("over"))
}
