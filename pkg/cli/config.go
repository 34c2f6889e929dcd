package cli

import (
	"context"
	"net/url"

	"github.com/mchmarny/textscore/pkg/config"
	"github.com/mchmarny/textscore/pkg/data"
	urfave "github.com/urfave/cli/v3"
)

var configCmd = &urfave.Command{
	Name:            "config",
	HideHelpCommand: true,
	Usage:           "Print the effective configuration",
	Action:          cmdConfig,
}

type effectiveConfig struct {
	HomeDir  string         `json:"home_dir" yaml:"homeDir"`
	Database string         `json:"database" yaml:"database"`
	Config   *config.Config `json:"config" yaml:"config"`
}

func cmdConfig(_ context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)
	c := *cfg.Config
	if c.DSN != "" {
		c.DSN = displayDatabase(c.DSN)
	}
	return encode(cmd, &effectiveConfig{
		HomeDir:  cfg.HomeDir,
		Database: displayDatabase(cfg.DBPath),
		Config:   &c,
	})
}

const redacted = "<redacted>"

// displayDatabase returns the database target without the Postgres password.
func displayDatabase(target string) string {
	if data.DialectFor(target) != data.Postgres {
		return target
	}
	u, err := url.Parse(target)
	if err != nil {
		return redacted
	}
	if q := u.Query(); q.Has("password") {
		q.Set("password", "xxxxx")
		u.RawQuery = q.Encode()
	}
	return u.Redacted()
}
