package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

const (
	// EngineVision transcribes with the Google Cloud Vision API.
	EngineVision = "vision"
	// EngineTesseract transcribes with a local tesseract binary.
	EngineTesseract = "tesseract"
)

var (
	// ErrNoText is returned when an image contains no recognizable text.
	ErrNoText = errors.New("no text found in image")

	multiNewlinesRegex = regexp.MustCompile("[\r\n]+")
	multiSpacesRegex   = regexp.MustCompile("[ \t]+")
)

// Transcriber extracts text from an image.
type Transcriber interface {
	Transcribe(ctx context.Context, r io.Reader) (string, error)
	Close() error
}

// Options selects and configures the transcription engine.
type Options struct {
	Engine        string
	Credentials   Credentials
	LanguageHints []string
}

// New creates the transcriber for opt.Engine. Vision is used when no
// engine is named.
func New(ctx context.Context, opt Options) (Transcriber, error) {
	switch strings.ToLower(strings.TrimSpace(opt.Engine)) {
	case "", EngineVision:
		return NewVision(ctx, opt.Credentials)
	case EngineTesseract:
		return NewTesseract(opt.LanguageHints), nil
	default:
		return nil, fmt.Errorf("unknown OCR engine %q (supported: %s, %s)", opt.Engine, EngineVision, EngineTesseract)
	}
}

// TranscribeFile opens path and transcribes it with t.
func TranscribeFile(ctx context.Context, t Transcriber, path string) (string, error) {
	if t == nil {
		return "", errors.New("transcriber required")
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening image %s: %w", path, err)
	}
	defer f.Close()

	s, err := t.Transcribe(ctx, f)
	if err != nil {
		return "", fmt.Errorf("transcribing %s: %w", path, err)
	}
	return s, nil
}

// normalize collapses blank lines and repeated spaces.
func normalize(s string) string {
	s = multiNewlinesRegex.ReplaceAllString(s, "\n")
	s = multiSpacesRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
