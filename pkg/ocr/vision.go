package ocr

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	vision "cloud.google.com/go/vision/apiv1"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// Credentials authenticate Vision API calls. The API key wins when both are
// set; with neither, application default credentials are used.
type Credentials struct {
	APIKey string `json:"api_key,omitempty" yaml:"apiKey,omitempty"`
	Token  string `json:"token,omitempty" yaml:"token,omitempty"`
}

// IsZero reports whether no credential is set.
func (c Credentials) IsZero() bool {
	return c.APIKey == "" && c.Token == ""
}

// ClientOptions converts c into Google API client options.
func (c Credentials) ClientOptions() []option.ClientOption {
	switch {
	case c.APIKey != "":
		return []option.ClientOption{option.WithAPIKey(c.APIKey)}
	case c.Token != "":
		return []option.ClientOption{option.WithTokenSource(bearerTokenSource(c.Token))}
	default:
		return nil
	}
}

// bearerTokenSource always returns the given access token.
func bearerTokenSource(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		TokenType:   "Bearer",
		AccessToken: token,
	})
}

// Vision transcribes images with document text detection.
type Vision struct {
	client *vision.ImageAnnotatorClient
}

// NewVision creates a Vision API client.
func NewVision(ctx context.Context, c Credentials) (*Vision, error) {
	if c.IsZero() {
		slog.Debug("no vision credentials, using application defaults")
	}
	client, err := vision.NewImageAnnotatorClient(ctx, c.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("creating vision client: %w", err)
	}
	return &Vision{client: client}, nil
}

func (v *Vision) Transcribe(ctx context.Context, r io.Reader) (string, error) {
	img, err := vision.NewImageFromReader(r)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}

	annotation, err := v.client.DetectDocumentText(ctx, img, nil)
	if err != nil {
		return "", fmt.Errorf("detecting document text: %w", err)
	}

	s := normalize(annotation.GetText())
	if s == "" {
		return "", ErrNoText
	}
	slog.Debug("image transcribed", "engine", EngineVision, "chars", len(s))
	return s, nil
}

func (v *Vision) Close() error {
	if v == nil || v.client == nil {
		return nil
	}
	return v.client.Close()
}
