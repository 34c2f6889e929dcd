package pos

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		word string
		tag  string
		want Category
	}{
		{"April", "NNP", ProperNoun},
		{"Alps", "NNPS", ProperNoun},
		{"genie", "NN", Noun},
		{"wishes", "NNS", Noun},
		{"ran", "VBD", Verb},
		{"running", "VBG", Verb},
		{"was", "VBD", Auxiliary},
		{"is", "VBZ", Auxiliary},
		{"can", "MD", Auxiliary},
		{"strong", "JJ", Adjective},
		{"stronger", "JJR", Adjective},
		{"suddenly", "RB", Adverb},
		{"where", "WRB", Adverb},
		{"the", "DT", Other},
		{".", ".", Other},
	}

	for _, tt := range tests {
		t.Run(tt.word+"/"+tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.word, tt.tag))
		})
	}
}

func TestProse_Empty(t *testing.T) {
	toks, err := NewProse().Tag("  ")
	require.NoError(t, err)
	assert.Empty(t, toks)
}

func TestProse_Tag(t *testing.T) {
	toks, err := NewProse().Tag("The strong man quickly walked to the old house.")
	require.NoError(t, err)
	require.NotEmpty(t, toks)

	counts := Count(toks)
	assert.Greater(t, counts[Noun], 0)
	for _, tok := range toks {
		assert.NotEmpty(t, tok.Tag)
		assert.Equal(t, Classify(tok.Text, tok.Tag), tok.Category)
	}
}

func TestProse_SharesModel(t *testing.T) {
	a, b := NewProse(), NewProse()
	require.NotNil(t, a.model)
	assert.Same(t, a.model, b.model)

	first, err := a.Tag("The cat sat.")
	require.NoError(t, err)
	second, err := b.Tag("The cat sat.")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProse_ConcurrentTag(t *testing.T) {
	p := NewProse()
	want, err := p.Tag("Summer came running.")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Tag("Summer came running.")
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestCount(t *testing.T) {
	c := Count([]Token{{Category: Noun}, {Category: Noun}, {Category: Verb}})
	assert.Equal(t, 2, c[Noun])
	assert.Equal(t, 1, c[Verb])
	assert.Equal(t, 0, c[Adverb])
}
