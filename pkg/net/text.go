package net

import (
	"context"
	"fmt"
	"io"
)

// MaxTextBytes caps how much of a remote document is read.
const MaxTextBytes = 5 << 20

// GetText retrieves url and returns its content as plain text. HTML
// and Markdown documents are stripped of markup.
func GetText(ctx context.Context, url string) (string, error) {
	resp, err := getResp(ctx, url)
	if err != nil {
		return "", fmt.Errorf("error creating HTTP Get request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, url); err != nil {
		return "", err
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxTextBytes))
	if err != nil {
		return "", fmt.Errorf("error reading content: %w", err)
	}

	ct := resp.Header.Get("Content-Type")
	switch {
	case IsHTML(ct):
		return StripHTML(string(b)), nil
	case IsMarkdown(ct):
		return StripMarkdown(string(b))
	default:
		return string(b), nil
	}
}
