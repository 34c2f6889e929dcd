package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	urfave "github.com/urfave/cli/v3"
)

var (
	yesFlag = &urfave.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Skip the confirmation prompt",
	}

	resetCmd = &urfave.Command{
		Name:            "reset",
		Usage:           "Delete all saved reports",
		HideHelpCommand: true,
		Flags:           []urfave.Flag{yesFlag},
		Action:          cmdReset,
	}
)

func cmdReset(ctx context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)
	out := cmd.Root().Writer

	if !cmd.Bool(yesFlag.Name) {
		ok, err := confirmReset(out, cmd.Root().Reader, cfg.DBPath)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	store, err := cfg.Store(ctx)
	if err != nil {
		return err
	}

	n, err := store.DeleteReports(ctx)
	if err != nil {
		return err
	}

	slog.Info("reports deleted", "count", n, "dialect", store.Dialect())
	fmt.Fprintln(out, "Reset complete.")
	return nil
}

func confirmReset(w io.Writer, r io.Reader, target string) (bool, error) {
	fmt.Fprintf(w, "This will permanently delete all reports in %s\n", displayDatabase(target))
	fmt.Fprint(w, "Are you sure? [y/N]: ")

	answer, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && answer == "" {
		return false, fmt.Errorf("reading input: %w", err)
	}
	return strings.ToLower(strings.TrimSpace(answer)) == "y", nil
}
