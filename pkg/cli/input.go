package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
	"github.com/mchmarny/textscore/pkg/auth"
	"github.com/mchmarny/textscore/pkg/net"
	"github.com/mchmarny/textscore/pkg/ocr"
)

const (
	stdinSource   = "stdin"
	textSource    = "text"
	inputStdin    = "-"
	maxInputBytes = net.MaxTextBytes
)

type inputKind int

const (
	kindFile inputKind = iota
	kindStdin
	kindText
	kindURL
	kindImage
)

// input is one thing to score, resolved into text lazily so fetching
// and transcription run inside the worker pool.
type input struct {
	kind  inputKind
	value string
}

func (in input) source() string {
	switch in.kind {
	case kindStdin:
		return stdinSource
	case kindText:
		return textSource
	default:
		return in.value
	}
}

// hasGlobChars returns true if the string contains glob meta-characters.
func hasGlobChars(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// expandFiles expands ** capable patterns in args and drops paths matching
// any of the exclude patterns. Plain paths are kept as given.
func expandFiles(args, exclude []string) ([]string, error) {
	excl := make([]glob.Glob, 0, len(exclude))
	for _, p := range exclude {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		excl = append(excl, g)
	}

	list := make([]string, 0, len(args))
	for _, a := range args {
		if a == inputStdin || !hasGlobChars(a) {
			list = append(list, a)
			continue
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(a)) {
			return nil, fmt.Errorf("invalid pattern: %s", a)
		}
		matches, err := doublestar.FilepathGlob(a, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", a, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %s", a)
		}
		slog.Debug("pattern expanded", "pattern", a, "files", len(matches))
		list = append(list, matches...)
	}

	out := list[:0]
	for _, p := range list {
		if p != inputStdin && excluded(excl, p) {
			slog.Debug("file excluded", "path", p)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func excluded(patterns []glob.Glob, path string) bool {
	clean := filepath.Clean(path)
	for _, g := range patterns {
		if g.Match(path) || g.Match(clean) || g.Match(filepath.Base(path)) {
			return true
		}
	}
	return false
}

type resolver struct {
	stdin       io.Reader
	transcriber func(ctx context.Context) (ocr.Transcriber, error)
}

func (r *resolver) resolve(ctx context.Context, in input) (string, error) {
	switch in.kind {
	case kindText:
		return in.value, nil
	case kindStdin:
		if r.stdin == nil {
			return "", fmt.Errorf("no stdin available")
		}
		b, err := io.ReadAll(io.LimitReader(r.stdin, maxInputBytes))
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	case kindFile:
		b, err := os.ReadFile(in.value)
		if err != nil {
			return "", fmt.Errorf("reading file %s: %w", in.value, err)
		}
		switch strings.ToLower(filepath.Ext(in.value)) {
		case ".html", ".htm":
			return net.StripHTML(string(b)), nil
		case ".md", ".markdown":
			return net.StripMarkdown(string(b))
		default:
			return string(b), nil
		}
	case kindURL:
		return net.GetText(ctx, in.value)
	case kindImage:
		return r.transcribe(ctx, in.value)
	default:
		return "", fmt.Errorf("unknown input kind: %d", in.kind)
	}
}

func (r *resolver) transcribe(ctx context.Context, src string) (string, error) {
	t, err := r.transcriber(ctx)
	if err != nil {
		return "", err
	}

	if !isURL(src) {
		return ocr.TranscribeFile(ctx, t, src)
	}

	dir, err := os.MkdirTemp("", appName)
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	local := filepath.Join(dir, "image"+path.Ext(src))
	slog.Debug("downloading image", "url", src, "path", local)
	if err := net.Download(ctx, src, local); err != nil {
		return "", fmt.Errorf("downloading image %s: %w", src, err)
	}
	return ocr.TranscribeFile(ctx, t, local)
}

// lazyTranscriber creates the configured OCR engine on first use.
type lazyTranscriber struct {
	mu   sync.Mutex
	cfg  *appConfig
	t    ocr.Transcriber
	err  error
	done bool
}

func (l *lazyTranscriber) get(ctx context.Context) (ocr.Transcriber, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return l.t, l.err
	}
	l.done = true

	creds, err := auth.NewStore(l.cfg.HomeDir).Resolve()
	if err != nil {
		l.err = fmt.Errorf("loading credentials: %w", err)
		return nil, l.err
	}
	l.t, l.err = ocr.New(ctx, ocr.Options{
		Engine:        l.cfg.Config.OCR.Engine,
		Credentials:   creds,
		LanguageHints: l.cfg.Config.OCR.LanguageHints,
	})
	return l.t, l.err
}

func (l *lazyTranscriber) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.t != nil {
		l.t.Close()
	}
}
