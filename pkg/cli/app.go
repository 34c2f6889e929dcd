package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mchmarny/textscore/pkg/config"
	"github.com/mchmarny/textscore/pkg/data"
	"github.com/mchmarny/textscore/pkg/logging"
	"github.com/mchmarny/textscore/pkg/score"
	urfave "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "textscore"
	appConfigKey = "app-config"
	envFileName  = ".env"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	dbFilePathFlag = &urfave.StringFlag{
		Name:  "db",
		Usage: "Path to the Sqlite database file (default: $HOME/.textscore/data.db)",
	}

	dsnFlag = &urfave.StringFlag{
		Name:    "dsn",
		Usage:   "Postgres connection string, takes precedence over --db",
		Sources: urfave.EnvVars("TEXTSCORE_DSN"),
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}

	configDirFlag = &urfave.StringFlag{
		Name:  "config",
		Usage: "Config directory (default: $HOME/.textscore)",
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	initLogging(false)

	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	HomeDir string
	DBPath  string
	Debug   bool
	Format  string
	Config  *config.Config

	storeOnce sync.Once
	store     *data.Store
	storeErr  error

	partsOnce sync.Once
	parts     *scorerParts
	partsErr  error
}

// Store opens the database on first use.
func (c *appConfig) Store(ctx context.Context) (*data.Store, error) {
	c.storeOnce.Do(func() {
		c.store, c.storeErr = data.Open(ctx, c.DBPath)
		if c.storeErr != nil {
			c.storeErr = fmt.Errorf("opening database: %w", c.storeErr)
		}
	})
	return c.store, c.storeErr
}

// Scorer returns a scorer in mode sharing the trained components.
func (c *appConfig) Scorer(ctx context.Context, mode score.Mode) (*score.Scorer, error) {
	c.partsOnce.Do(func() {
		c.parts, c.partsErr = buildScorerParts(ctx, c.Config)
	})
	if c.partsErr != nil {
		return nil, c.partsErr
	}
	return c.parts.scorer(mode), nil
}

func (c *appConfig) close() {
	if c.store != nil {
		c.store.Close()
		c.store = nil
	}
}

func getConfig(cmd *urfave.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.Command {
	return &urfave.Command{
		Name:            appName,
		Version:         fmt.Sprintf("%s (%s - %s)", version, commit, date),
		HideHelpCommand: true,
		Usage:           "Heuristic writing quality scores for text, web pages and scanned images",
		Metadata:        map[string]any{},
		Flags: []urfave.Flag{
			debugFlag,
			dbFilePathFlag,
			dsnFlag,
			formatFlag,
			configDirFlag,
		},
		Commands: []*urfave.Command{
			scoreCmd,
			historyCmd,
			serverCmd,
			authCmd,
			resetCmd,
			configCmd,
		},
		Before: func(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
			debug := cmd.Bool(debugFlag.Name)
			if debug {
				initLogging(true)
			}

			format := strings.ToLower(cmd.String(formatFlag.Name))
			switch format {
			case formatJSON:
			case formatYAML, "yml":
				format = formatYAML
			default:
				return ctx, fmt.Errorf("unsupported format: %s", format)
			}

			homeDir := cmd.String(configDirFlag.Name)
			if homeDir == "" {
				dir, _, err := config.GetOrCreateHomeDir(appName)
				if err != nil {
					return ctx, fmt.Errorf("resolving home dir: %w", err)
				}
				homeDir = dir
			}

			cfg, err := config.ReadOrCreate(homeDir)
			if err != nil {
				return ctx, fmt.Errorf("reading config: %w", err)
			}
			if err := cfg.ApplyEnv(envFileName, filepath.Join(homeDir, envFileName)); err != nil {
				return ctx, fmt.Errorf("applying environment: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return ctx, fmt.Errorf("invalid config: %w", err)
			}

			dbPath := cmd.String(dsnFlag.Name)
			if dbPath == "" {
				dbPath = cfg.DSN
			}
			if dbPath == "" {
				dbPath = cmd.String(dbFilePathFlag.Name)
			}
			if dbPath == "" {
				dbPath = filepath.Join(homeDir, data.DataFileName)
			}

			cmd.Metadata[appConfigKey] = &appConfig{
				HomeDir: homeDir,
				DBPath:  dbPath,
				Debug:   debug,
				Format:  format,
				Config:  cfg,
			}
			slog.Debug("app configured", "home", homeDir, "dialect", data.DialectFor(dbPath), "mode", cfg.Mode)
			return ctx, nil
		},
		After: func(_ context.Context, cmd *urfave.Command) error {
			if cfg, ok := cmd.Metadata[appConfigKey].(*appConfig); ok {
				cfg.close()
			}
			return nil
		},
	}
}

func initLogging(debug bool) {
	level := "info"
	if debug {
		level = "debug"
	}
	logging.SetDefaultCLILogger(level)
}

func encode(cmd *urfave.Command, v any) error {
	return encodeTo(cmd.Root().Writer, getConfig(cmd).Format, v)
}

func encodeTo(w io.Writer, format string, v any) error {
	if w == nil {
		w = os.Stdout
	}
	if format == formatYAML {
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
