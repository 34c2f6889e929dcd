package cli

import (
	"context"
	"errors"

	"github.com/mchmarny/textscore/pkg/data"
	urfave "github.com/urfave/cli/v3"
)

var (
	likeFlag = &urfave.StringFlag{
		Name:  "like",
		Usage: "Only reports whose source contains this value",
	}

	limitFlag = &urfave.IntFlag{
		Name:  "limit",
		Usage: "Limit the number of results",
		Value: data.ListLimitDefault,
	}

	idFlag = &urfave.IntFlag{
		Name:     "id",
		Usage:    "Report ID",
		Required: true,
	}

	historyCmd = &urfave.Command{
		Name:            "history",
		Aliases:         []string{"h"},
		HideHelpCommand: true,
		Usage:           "Query saved reports",
		Commands: []*urfave.Command{
			{
				Name:   "list",
				Usage:  "List the most recent reports",
				Action: cmdHistoryList,
				Flags: []urfave.Flag{
					likeFlag,
					limitFlag,
				},
			},
			{
				Name:   "get",
				Usage:  "Get a single report",
				Action: cmdHistoryGet,
				Flags: []urfave.Flag{
					idFlag,
				},
			},
			{
				Name:   "stats",
				Usage:  "Summarize all reports",
				Action: cmdHistoryStats,
			},
		},
	}
)

func cmdHistoryList(ctx context.Context, cmd *urfave.Command) error {
	store, err := getConfig(cmd).Store(ctx)
	if err != nil {
		return err
	}

	list, err := store.ListReports(ctx, cmd.String(likeFlag.Name), cmd.Int(limitFlag.Name))
	if err != nil {
		return err
	}
	return encode(cmd, list)
}

func cmdHistoryGet(ctx context.Context, cmd *urfave.Command) error {
	store, err := getConfig(cmd).Store(ctx)
	if err != nil {
		return err
	}

	id := cmd.Int(idFlag.Name)
	if id <= 0 {
		return errors.New("id must be positive")
	}

	rec, err := store.GetReport(ctx, int64(id))
	if err != nil {
		return err
	}
	return encode(cmd, rec)
}

func cmdHistoryStats(ctx context.Context, cmd *urfave.Command) error {
	store, err := getConfig(cmd).Store(ctx)
	if err != nil {
		return err
	}

	st, err := store.GetStats(ctx)
	if err != nil {
		return err
	}
	return encode(cmd, st)
}
