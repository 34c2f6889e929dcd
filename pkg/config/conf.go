package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mchmarny/textscore/pkg/score"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600

	// PortDefault is the default HTTP server port.
	PortDefault = 8080
	// ConcurrencyDefault bounds how many inputs are scored at once.
	ConcurrencyDefault = 4

	envPrefix = "TEXTSCORE_"
)

// Config represents the app config file.
type Config struct {
	Mode        string        `json:"mode" yaml:"mode"`
	Weights     score.Weights `json:"weights" yaml:"weights"`
	Spell       Spell         `json:"spell" yaml:"spell"`
	WordLists   []string      `json:"word_lists,omitempty" yaml:"wordLists,omitempty"`
	StopWords   []string      `json:"stop_words,omitempty" yaml:"stopWords,omitempty"`
	DSN         string        `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	Concurrency int           `json:"concurrency" yaml:"concurrency"`
	Server      Server        `json:"server" yaml:"server"`
	OCR         OCR           `json:"ocr" yaml:"ocr"`
}

// Spell configures the spelling corrector.
type Spell struct {
	Depth      int `json:"depth" yaml:"depth"`
	MinWordLen int `json:"min_word_len" yaml:"minWordLen"`
	// Dictionary is a "word count" frequency file or URL replacing the built-in English list.
	Dictionary string `json:"dictionary,omitempty" yaml:"dictionary,omitempty"`
}

// Server configures the HTTP API.
type Server struct {
	Port int `json:"port" yaml:"port"`
}

// OCR configures image transcription.
type OCR struct {
	Engine        string   `json:"engine" yaml:"engine"`
	LanguageHints []string `json:"language_hints,omitempty" yaml:"languageHints,omitempty"`
}

// Default returns the config used when no file exists.
func Default() *Config {
	return &Config{
		Mode:        string(score.ModeStandard),
		Weights:     score.DefaultWeights(),
		Spell:       Spell{Depth: 2, MinWordLen: 2},
		Concurrency: ConcurrencyDefault,
		Server:      Server{Port: PortDefault},
		OCR:         OCR{Engine: "vision", LanguageHints: []string{"en"}},
	}
}

// Validate checks the config values.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config required")
	}
	if _, err := score.ParseMode(c.Mode); err != nil {
		return err
	}
	w := c.Weights
	for name, v := range map[string]float64{
		"vocabLength":       w.VocabLength,
		"goodVocab":         w.GoodVocab,
		"avgSentenceLength": w.AvgSentenceLength,
		"efficiency":        w.Efficiency,
		"descriptiveness":   w.Descriptiveness,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative: %v", name, v)
		}
	}
	switch c.OCR.Engine {
	case "", "vision", "tesseract":
	default:
		return fmt.Errorf("unknown OCR engine: %s", c.OCR.Engine)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1: %d", c.Concurrency)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}

// Save writes c into dirPath.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a default one.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if err := os.MkdirAll(dirPath, dirMode); err != nil {
		return nil, fmt.Errorf("creating dir %s: %w", dirPath, err)
	}

	path := filepath.Join(dirPath, configFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(dirPath, Default()); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return c, nil
}

// ApplyEnv overlays TEXTSCORE_* variables onto c. Variables are read from
// the process environment and from the given .env files, if they exist;
// existing process variables win.
func (c *Config) ApplyEnv(envFiles ...string) error {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading env file %s: %w", f, err)
		}
		slog.Debug("env file loaded", "path", f)
	}

	if v, ok := lookup("MODE"); ok {
		c.Mode = v
	}
	if v, ok := lookup("DSN"); ok {
		c.DSN = v
	}
	if v, ok := lookup("WORD_LISTS"); ok {
		c.WordLists = splitList(v)
	}
	if v, ok := lookup("STOP_WORDS"); ok {
		c.StopWords = splitList(v)
	}
	if v, ok := lookup("OCR_ENGINE"); ok {
		c.OCR.Engine = v
	}
	if v, ok := lookup("PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %sPORT: %w", envPrefix, err)
		}
		c.Server.Port = n
	}
	if v, ok := lookup("CONCURRENCY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %sCONCURRENCY: %w", envPrefix, err)
		}
		c.Concurrency = n
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetOrCreateHomeDir returns the app directory under the user home.
// The created flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("getting user home dir: %w", err)
	}

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, fmt.Errorf("creating dir %s: %w", dir, err)
		}
		created = true
	}
	return dir, created, nil
}
