package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTranscript = "After a long toalk. comprehension insider ith the was Summer seperated " +
	"Then side April was over. Suddenly before them. He mad at April that they diffeent sidles. " +
	"from the on. Summer came running strong muscular mon stood a genie. I three wishes. was. " +
	"onto completely a huge fla sh a Said. am here to grant you am made 2 w "

func TestDefault_SampleTranscript(t *testing.T) {
	if testing.Short() {
		t.Skip("trains the spelling model")
	}

	s := Default()
	require.Same(t, s, Default())

	r, err := s.Analyze(sampleTranscript)
	require.NoError(t, err)

	assert.Equal(t, len(s.Tokenize(sampleTranscript)), r.Tokens)
	assert.Greater(t, r.Tokens, 20)
	assert.Greater(t, r.Spellchecked, 0)
	assert.Less(t, r.Efficiency, 1.0)
	assert.Greater(t, r.Efficiency, 0.0)
	assert.Greater(t, r.GoodVocab, 0.0)
	assert.LessOrEqual(t, r.GoodVocab, 1.0)
	assert.Greater(t, r.Score, 0.0)
	assert.Contains(t, r.Corrected, "talk")
	assert.Contains(t, r.Corrected, "separated")

	labels := Labels(r)
	assert.Len(t, labels, 6)
}

func TestDefault_Reproducible(t *testing.T) {
	if testing.Short() {
		t.Skip("trains the spelling model")
	}

	s := Default()
	first, err := s.Analyze(sampleTranscript)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		r, err := s.Analyze(sampleTranscript)
		require.NoError(t, err)
		require.Equal(t, first.Corrected, r.Corrected)
		require.Equal(t, first.Score, r.Score)
	}
}

func TestDefault_CleanProse(t *testing.T) {
	if testing.Short() {
		t.Skip("trains the spelling model")
	}

	in := "The whale swam through the cold ocean while scientists measured the rates in northern forests."
	s := Default()

	assert.Equal(t, in, s.Spellcheck(in))
	assert.Equal(t, 0, s.SpellcheckedWords(in))
	assert.Equal(t, 1.0, s.Efficiency(in))

	r, err := s.Analyze(in)
	require.NoError(t, err)
	assert.Equal(t, 1.0, r.Efficiency)
}
