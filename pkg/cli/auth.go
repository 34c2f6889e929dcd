package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mchmarny/textscore/pkg/auth"
	"github.com/mchmarny/textscore/pkg/ocr"
	urfave "github.com/urfave/cli/v3"
)

var (
	apiKeyFlag = &urfave.StringFlag{
		Name:  "key",
		Usage: "Google Cloud Vision API key",
	}

	tokenFlag = &urfave.StringFlag{
		Name:  "token",
		Usage: "Google Cloud OAuth2 access token",
	}

	deleteFlag = &urfave.BoolFlag{
		Name:  "delete",
		Usage: "Delete saved credentials",
	}

	authCmd = &urfave.Command{
		Name:            "auth",
		HideHelpCommand: true,
		Usage:           "Save the credentials used to transcribe images",
		Action:          cmdAuth,
		Flags: []urfave.Flag{
			apiKeyFlag,
			tokenFlag,
			deleteFlag,
		},
	}
)

func cmdAuth(_ context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)
	store := auth.NewStore(cfg.HomeDir)

	if cmd.Bool(deleteFlag.Name) {
		if err := store.Delete(); err != nil {
			return fmt.Errorf("deleting credentials: %w", err)
		}
		fmt.Fprintln(cmd.Root().Writer, "Credentials deleted")
		return nil
	}

	creds := ocr.Credentials{
		APIKey: cmd.String(apiKeyFlag.Name),
		Token:  cmd.String(tokenFlag.Name),
	}
	if creds.IsZero() {
		return errors.New("either --key or --token is required")
	}
	if creds.APIKey != "" && creds.Token != "" {
		return errors.New("only one of --key or --token can be set")
	}

	if err := store.Save(creds); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	slog.Debug("credentials saved", "dir", cfg.HomeDir)
	fmt.Fprintln(cmd.Root().Writer, "Credentials saved")
	return nil
}
