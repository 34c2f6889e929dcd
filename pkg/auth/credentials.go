package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/textscore/pkg/ocr"
	"github.com/zalando/go-keyring"
)

const (
	credentialsFileName = "vision_credentials"
	keyringService      = "textscore"
	keyringUser         = "vision_credentials"
	fileMode            = 0600

	// EnvAPIKey overrides the stored Vision API key.
	EnvAPIKey = "TEXTSCORE_VISION_API_KEY"
	// EnvToken overrides the stored Vision access token.
	EnvToken = "TEXTSCORE_VISION_TOKEN"
)

// ErrNoCredentials is returned when no credentials were saved.
var ErrNoCredentials = errors.New("no credentials saved, run the auth command first")

// Store keeps Vision credentials in the OS keychain and falls back to a
// file in dir when the keychain is unavailable.
type Store struct {
	dir string
}

// NewStore creates a credential store using dir for the file fallback.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) filePath() string {
	return filepath.Join(s.dir, credentialsFileName)
}

// Save persists c, preferring the keychain.
func (s *Store) Save(c ocr.Credentials) error {
	if c.IsZero() {
		return errors.New("api key or token required")
	}

	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := keyring.Set(keyringService, keyringUser, string(b)); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		return s.saveFile(b)
	}

	// clean up legacy file if it exists
	os.Remove(s.filePath())

	return nil
}

// Load returns the saved credentials. Credentials found only in the file
// are migrated into the keychain.
func (s *Store) Load() (ocr.Credentials, error) {
	var c ocr.Credentials

	// try keychain first
	v, err := keyring.Get(keyringService, keyringUser)
	if err == nil && v != "" {
		if err := json.Unmarshal([]byte(v), &c); err != nil {
			return c, fmt.Errorf("parsing keychain credentials: %w", err)
		}
		return c, nil
	}

	// fall back to file
	b, err := os.ReadFile(s.filePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, ErrNoCredentials
		}
		return c, fmt.Errorf("reading credentials file %s: %w", s.filePath(), err)
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parsing credentials file %s: %w", s.filePath(), err)
	}

	// migrate to keychain
	if migrateErr := keyring.Set(keyringService, keyringUser, string(b)); migrateErr == nil {
		slog.Info("migrated credentials from file to OS keychain")
		os.Remove(s.filePath())
	}

	return c, nil
}

// Resolve returns credentials from the environment when set, the saved
// ones otherwise. Missing credentials are not an error: the zero value
// selects application default credentials.
func (s *Store) Resolve() (ocr.Credentials, error) {
	env := ocr.Credentials{
		APIKey: strings.TrimSpace(os.Getenv(EnvAPIKey)),
		Token:  strings.TrimSpace(os.Getenv(EnvToken)),
	}
	if !env.IsZero() {
		return env, nil
	}

	c, err := s.Load()
	if errors.Is(err, ErrNoCredentials) {
		return ocr.Credentials{}, nil
	}
	return c, err
}

// Delete removes saved credentials from both the keychain and the file.
func (s *Store) Delete() error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		slog.Debug("error deleting keychain credentials", "error", err)
	}
	if err := os.Remove(s.filePath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting credentials file: %w", err)
	}
	return nil
}

func (s *Store) saveFile(b []byte) error {
	if s.dir == "" {
		return errors.New("credentials directory required")
	}
	if err := os.WriteFile(s.filePath(), b, fileMode); err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}
	return nil
}
