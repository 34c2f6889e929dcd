package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

const tesseractBinary = "tesseract"

// tesseract expects ISO 639-2 language codes
var tesseractLangs = map[string]string{
	"en": "eng",
	"de": "deu",
	"es": "spa",
	"fr": "fra",
	"it": "ita",
	"pt": "por",
	"nl": "nld",
}

// Tesseract transcribes images with a locally installed tesseract binary.
type Tesseract struct {
	Binary    string
	Languages []string
}

// NewTesseract creates a local transcriber for the given language hints.
func NewTesseract(hints []string) *Tesseract {
	langs := make([]string, 0, len(hints))
	for _, h := range hints {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if l, ok := tesseractLangs[h]; ok {
			h = l
		}
		langs = append(langs, h)
	}
	return &Tesseract{
		Binary:    tesseractBinary,
		Languages: langs,
	}
}

func (t *Tesseract) args() []string {
	args := []string{"stdin", "stdout"}
	if len(t.Languages) > 0 {
		args = append(args, "-l", strings.Join(t.Languages, "+"))
	}
	return append(args, "quiet")
}

func (t *Tesseract) Transcribe(ctx context.Context, r io.Reader) (string, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.Binary, t.args()...)
	cmd.Stdin = r
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("running %s: %w: %s", t.Binary, err, strings.TrimSpace(stderr.String()))
	}

	s := normalize(string(out))
	if s == "" {
		return "", ErrNoText
	}
	slog.Debug("image transcribed", "engine", EngineTesseract, "chars", len(s))
	return s, nil
}

func (t *Tesseract) Close() error {
	return nil
}
