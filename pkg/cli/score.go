package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mchmarny/textscore/pkg/data"
	"github.com/mchmarny/textscore/pkg/score"
	urfave "github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

var (
	textFlag = &urfave.StringSliceFlag{
		Name:    "text",
		Aliases: []string{"t"},
		Usage:   "Text to score, can be repeated",
	}

	urlFlag = &urfave.StringSliceFlag{
		Name:    "url",
		Aliases: []string{"u"},
		Usage:   "URL of a page to score, markup is stripped, can be repeated",
	}

	imageFlag = &urfave.StringSliceFlag{
		Name:    "image",
		Aliases: []string{"i"},
		Usage:   "Path or URL of an image to transcribe and score, can be repeated",
	}

	excludeFlag = &urfave.StringSliceFlag{
		Name:  "exclude",
		Usage: "Skip files matching this glob pattern, can be repeated",
	}

	labelsFlag = &urfave.BoolFlag{
		Name:  "labels",
		Usage: "Print the labeled display strings instead of the full report",
	}

	noSaveFlag = &urfave.BoolFlag{
		Name:  "no-save",
		Usage: "Do not persist the reports",
	}

	legacyFlag = &urfave.BoolFlag{
		Name:  "legacy",
		Usage: "Use the legacy metric computation",
	}

	concurrencyFlag = &urfave.IntFlag{
		Name:  "concurrency",
		Usage: "Number of inputs scored at once (default: from config)",
	}

	scoreCmd = &urfave.Command{
		Name:            "score",
		HideHelpCommand: true,
		Usage:           "Score text from files (- for stdin), flags, URLs or images",
		ArgsUsage:       "[FILE|PATTERN...]",
		Action:          cmdScore,
		Flags: []urfave.Flag{
			textFlag,
			urlFlag,
			imageFlag,
			excludeFlag,
			labelsFlag,
			noSaveFlag,
			legacyFlag,
			concurrencyFlag,
		},
	}
)

type scoreResult struct {
	ID     int64         `json:"id,omitempty" yaml:"id,omitempty"`
	Source string        `json:"source" yaml:"source"`
	Report *score.Report `json:"report,omitempty" yaml:"report,omitempty"`
	Labels []string      `json:"labels,omitempty" yaml:"labels,omitempty"`
}

func collectInputs(cmd *urfave.Command) ([]input, error) {
	files, err := expandFiles(cmd.Args().Slice(), cmd.StringSlice(excludeFlag.Name))
	if err != nil {
		return nil, err
	}

	list := make([]input, 0)
	stdin := false
	for _, a := range files {
		if a == inputStdin {
			if stdin {
				return nil, errors.New("stdin can only be read once")
			}
			stdin = true
			list = append(list, input{kind: kindStdin})
			continue
		}
		list = append(list, input{kind: kindFile, value: a})
	}
	for _, v := range cmd.StringSlice(textFlag.Name) {
		list = append(list, input{kind: kindText, value: v})
	}
	for _, v := range cmd.StringSlice(urlFlag.Name) {
		list = append(list, input{kind: kindURL, value: v})
	}
	for _, v := range cmd.StringSlice(imageFlag.Name) {
		list = append(list, input{kind: kindImage, value: v})
	}
	return list, nil
}

func cmdScore(ctx context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)

	inputs, err := collectInputs(cmd)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return errors.New("nothing to score, provide files, --text, --url or --image")
	}

	var mode score.Mode
	if cmd.Bool(legacyFlag.Name) {
		mode = score.ModeLegacy
	}
	sc, err := cfg.Scorer(ctx, mode)
	if err != nil {
		return fmt.Errorf("creating scorer: %w", err)
	}

	var store *data.Store
	if !cmd.Bool(noSaveFlag.Name) {
		if store, err = cfg.Store(ctx); err != nil {
			return err
		}
	}

	lt := &lazyTranscriber{cfg: cfg}
	defer lt.close()
	r := &resolver{stdin: cmd.Root().Reader, transcriber: lt.get}

	limit := cmd.Int(concurrencyFlag.Name)
	if limit <= 0 {
		limit = cfg.Config.Concurrency
	}

	results, err := scoreInputs(ctx, sc, store, r, inputs, limit, cmd.Bool(labelsFlag.Name))
	if err != nil {
		return err
	}

	if len(results) == 1 {
		return encode(cmd, results[0])
	}
	return encode(cmd, results)
}

// scoreInputs resolves and scores inputs with at most limit running at
// once. Results keep the order of inputs.
func scoreInputs(ctx context.Context, sc *score.Scorer, store *data.Store, r *resolver, inputs []input, limit int, labels bool) ([]*scoreResult, error) {
	results := make([]*scoreResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	for i, in := range inputs {
		g.Go(func() error {
			txt, err := r.resolve(ctx, in)
			if err != nil {
				return fmt.Errorf("reading %s: %w", in.source(), err)
			}
			res, err := scoreText(ctx, sc, store, in.source(), txt, labels)
			if err != nil {
				return fmt.Errorf("scoring %s: %w", in.source(), err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// scoreText analyzes txt and, when store is set, persists the report.
func scoreText(ctx context.Context, sc *score.Scorer, store *data.Store, source, txt string, labels bool) (*scoreResult, error) {
	if strings.TrimSpace(txt) == "" {
		return nil, score.ErrEmptyInput
	}

	rep, err := sc.Analyze(txt)
	if err != nil {
		return nil, err
	}

	res := &scoreResult{Source: source, Report: rep}
	if store != nil {
		rec, err := store.SaveReport(ctx, source, txt, rep)
		if err != nil {
			return nil, err
		}
		res.ID = rec.ID
	}
	if labels {
		res.Labels = score.Labels(rep)
		res.Report = nil
	}

	slog.Debug("scored", "source", source, "score", rep.Score, "id", res.ID)
	return res, nil
}
