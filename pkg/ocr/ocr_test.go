package ocr

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTranscriber struct {
	err error
}

func (e echoTranscriber) Transcribe(_ context.Context, r io.Reader) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	b, err := io.ReadAll(r)
	return string(b), err
}

func (echoTranscriber) Close() error { return nil }

func TestCredentials_ClientOptions(t *testing.T) {
	assert.True(t, Credentials{}.IsZero())
	assert.Empty(t, Credentials{}.ClientOptions())
	assert.Len(t, Credentials{APIKey: "k"}.ClientOptions(), 1)
	assert.Len(t, Credentials{Token: "t"}.ClientOptions(), 1)
	assert.Len(t, Credentials{APIKey: "k", Token: "t"}.ClientOptions(), 1)
	assert.False(t, Credentials{Token: "t"}.IsZero())
}

func TestBearerTokenSource(t *testing.T) {
	tok, err := bearerTokenSource("test-token").Token()
	require.NoError(t, err)
	assert.Equal(t, "test-token", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.Type())
	assert.True(t, tok.Valid())
}

func TestNew_Engines(t *testing.T) {
	ctx := context.Background()

	tr, err := New(ctx, Options{Engine: "Tesseract", LanguageHints: []string{"en"}})
	require.NoError(t, err)
	ts, ok := tr.(*Tesseract)
	require.True(t, ok)
	assert.Equal(t, []string{"eng"}, ts.Languages)

	_, err = New(ctx, Options{Engine: "paper"})
	assert.Error(t, err)
}

func TestNewVision_APIKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping vision client creation in short mode")
	}
	v, err := NewVision(context.Background(), Credentials{APIKey: "test-key"})
	require.NoError(t, err)
	assert.NoError(t, v.Close())

	var nilVision *Vision
	assert.NoError(t, nilVision.Close())
}

func TestNewTesseract_Languages(t *testing.T) {
	ts := NewTesseract([]string{" EN ", "", "fr", "chi_sim"})
	assert.Equal(t, []string{"eng", "fra", "chi_sim"}, ts.Languages)
	assert.Equal(t, []string{"stdin", "stdout", "-l", "eng+fra+chi_sim", "quiet"}, ts.args())

	assert.Equal(t, []string{"stdin", "stdout", "quiet"}, NewTesseract(nil).args())
}

func TestTesseract_MissingBinary(t *testing.T) {
	ts := &Tesseract{Binary: filepath.Join(t.TempDir(), "no-such-tesseract")}
	_, err := ts.Transcribe(context.Background(), strings.NewReader("img"))
	assert.Error(t, err)
}

func TestTranscribeFile(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(p, []byte("After a long toalk."), 0600))

	s, err := TranscribeFile(ctx, echoTranscriber{}, p)
	require.NoError(t, err)
	assert.Equal(t, "After a long toalk.", s)

	_, err = TranscribeFile(ctx, echoTranscriber{err: ErrNoText}, p)
	assert.True(t, errors.Is(err, ErrNoText))

	_, err = TranscribeFile(ctx, echoTranscriber{}, filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	_, err = TranscribeFile(ctx, nil, p)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b\nc", normalize("  a   b\r\n\n\nc  "))
	assert.Equal(t, "", normalize(" \n\t "))
}
