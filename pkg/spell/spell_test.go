package spell

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	englishOnce sync.Once
	english     *Fuzzy
)

// englishCorrector trains on the built-in dictionary once for the package.
func englishCorrector(t *testing.T) *Fuzzy {
	t.Helper()
	if testing.Short() {
		t.Skip("trains the spelling model")
	}
	englishOnce.Do(func() {
		english = NewFuzzy(Options{Extra: []string{"genie"}})
	})
	return english
}

func TestCorrectWord(t *testing.T) {
	c := englishCorrector(t)

	tests := []struct {
		in   string
		want string
	}{
		{"toalk", "talk"},
		{"seperated", "separated"},
		{"diffeent", "different"},
		{"Summer", "Summer"},
		{"Sumer", "Summer"},
		{"GENI", "GENIE"},
		{"ith", "with"},
		{"then", "then"},
		{"a", "a"},
		{"don't", "don't"},
		{"zzzzzzzz", "zzzzzzzz"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CorrectWord(tt.in))
		})
	}
}

func TestCorrect_PreservesLayout(t *testing.T) {
	c := englishCorrector(t)
	in := "After a long toalk.\nThe genie was seperated, 2 zq!"
	want := "After a long talk.\nThe genie was separated, 2 zq!"
	assert.Equal(t, want, c.Correct(in))
}

func TestCorrect_KeepsKnownWords(t *testing.T) {
	c := englishCorrector(t)
	in := "The whale swam through the cold ocean while scientists measured the rates in northern forests."
	assert.Equal(t, in, c.Correct(in))
}

func TestCorrect_Empty(t *testing.T) {
	c := NewFuzzy(Options{Dictionary: mustDictionary(t, "word 1")})
	assert.Equal(t, "", c.Correct(""))
}

func TestCorrectWord_TiesAreStable(t *testing.T) {
	dict := mustDictionary(t, "flag 5\nflat 5\nflap 5")
	c := NewFuzzy(Options{Dictionary: dict})

	for i := 0; i < 100; i++ {
		require.Equal(t, "flag", c.CorrectWord("fla"))
	}
}

func TestCorrectWord_PrefersFrequent(t *testing.T) {
	dict := mustDictionary(t, "flag 5\nflat 50")
	c := NewFuzzy(Options{Dictionary: dict})
	assert.Equal(t, "flat", c.CorrectWord("fla"))
}

func TestNewFuzzy_ExtraWords(t *testing.T) {
	dict := mustDictionary(t, "gene 10")
	c := NewFuzzy(Options{Dictionary: dict, Extra: []string{"Genie"}})
	assert.Equal(t, "genie", c.CorrectWord("genie"))
	assert.Equal(t, "gene", c.CorrectWord("gen"))
}

func TestNewFuzzy_Defaults(t *testing.T) {
	c := NewFuzzy(Options{Dictionary: mustDictionary(t, "word")})
	assert.Equal(t, MinWordLenDefault, c.minLen)
}

func TestReadDictionary(t *testing.T) {
	d := mustDictionary(t, "# header\nThe 10\nthe 2\n\nwhale\n")
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 12, d.Count("the"))
	assert.Equal(t, 1, d.Count("WHALE"))
	assert.Equal(t, 0, d.Count("kelp"))
	assert.Equal(t, []string{"the", "whale"}, d.Words())

	_, err := ReadDictionary(strings.NewReader("the ten"))
	assert.Error(t, err)
	_, err = ReadDictionary(strings.NewReader("the 1 2"))
	assert.Error(t, err)
	_, err = ReadDictionary(strings.NewReader("the 0"))
	assert.Error(t, err)

	_, err = ReadDictionaryFile("/does/not/exist.txt")
	assert.Error(t, err)
}

func TestDefaultDictionary(t *testing.T) {
	d := DefaultDictionary()
	require.Same(t, d, DefaultDictionary())
	assert.Greater(t, d.Len(), 30000)
	assert.Greater(t, d.Count("the"), d.Count("whale"))
	assert.Greater(t, d.Count("photograph"), 0)
}

func mustDictionary(t *testing.T, s string) *Dictionary {
	t.Helper()
	d, err := ReadDictionary(strings.NewReader(s))
	require.NoError(t, err)
	return d
}
