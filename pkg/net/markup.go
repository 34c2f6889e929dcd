package net

import (
	"bytes"
	"fmt"
	"html"
	"mime"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	strictPolicy = bluemonday.StrictPolicy()

	// tags whose text must not run into the text of their neighbours
	blockTagRegex = regexp.MustCompile(`(?i)</?(address|article|aside|blockquote|br|caption|dd|div|dl|dt|figcaption|figure|footer|h[1-6]|header|hr|li|main|nav|ol|p|pre|section|table|tbody|td|tfoot|th|thead|title|tr|ul)\b[^>]*>`)
)

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}

// IsHTML reports whether the content type is an HTML document.
func IsHTML(contentType string) bool {
	mt := mediaType(contentType)
	return mt == "text/html" || mt == "application/xhtml+xml"
}

// IsMarkdown reports whether the content type is a Markdown document.
func IsMarkdown(contentType string) bool {
	mt := mediaType(contentType)
	return mt == "text/markdown" || mt == "text/x-markdown"
}

// StripHTML removes all markup from s and decodes entities. Script and
// style contents are dropped. Block elements and line breaks end a line.
func StripHTML(s string) string {
	s = blockTagRegex.ReplaceAllString(s, "\n$0")
	s = html.UnescapeString(strictPolicy.Sanitize(s))

	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// StripMarkdown renders s and returns its text without markup.
func StripMarkdown(s string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(s), &buf); err != nil {
		return "", fmt.Errorf("error rendering markdown: %w", err)
	}
	return StripHTML(buf.String()), nil
}
