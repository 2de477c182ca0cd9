package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spboyer/tagx/internal/history"
	"github.com/spboyer/tagx/internal/report"
	"github.com/spboyer/tagx/internal/tagcounter"
)

// Flags shared by several commands. Each falls back to the project config
// when not given on the command line.

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "Output format: table | lines | json | yaml (default from config, else table)")
	cmd.Flags().String("sort", "", "Sort tags by: first-seen | count | word (default from config, else first-seen)")
	cmd.Flags().Int("top", 0, "Show only the first n tags after sorting (0 shows all)")
}

func addExtractFlags(cmd *cobra.Command) {
	cmd.Flags().String("stop-words", "", "Stop word file, one word per line")
	cmd.Flags().Bool("fold-accents", false, "Fold accented letters to ASCII before filtering")
	cmd.Flags().Int("min-length", 0, "Drop tags shorter than n letters")
	cmd.Flags().Bool("trim-stop-words", false, "Trim surrounding whitespace from stop words")
}

func addHistoryFlag(cmd *cobra.Command) {
	cmd.Flags().String("history", "", "SQLite database recording extraction runs")
}

func (o *rootOptions) reportOptions(cmd *cobra.Command) (report.Options, error) {
	format := o.cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}
	f, err := report.ParseFormat(format)
	if err != nil {
		return report.Options{}, err
	}

	sortBy := o.cfg.Output.Sort
	if cmd.Flags().Changed("sort") {
		sortBy, _ = cmd.Flags().GetString("sort")
	}
	order, err := tagcounter.ParseSortOrder(sortBy)
	if err != nil {
		return report.Options{}, err
	}

	top := o.cfg.Output.Top
	if cmd.Flags().Changed("top") {
		top, _ = cmd.Flags().GetInt("top")
	}
	if top < 0 {
		return report.Options{}, fmt.Errorf("--top must not be negative")
	}
	return report.Options{Format: f, Sort: order, Top: top}, nil
}

func (o *rootOptions) extractOptions(cmd *cobra.Command) (tagcounter.Options, tagcounter.StopWordOptions, error) {
	opts := tagcounter.Options{
		FoldAccents: o.cfg.Extract.FoldAccents,
		MinLength:   o.cfg.Extract.MinLength,
	}
	if cmd.Flags().Changed("fold-accents") {
		opts.FoldAccents, _ = cmd.Flags().GetBool("fold-accents")
	}
	if cmd.Flags().Changed("min-length") {
		opts.MinLength, _ = cmd.Flags().GetInt("min-length")
	}
	if opts.MinLength < 0 {
		return tagcounter.Options{}, tagcounter.StopWordOptions{}, fmt.Errorf("--min-length must not be negative")
	}

	stop := tagcounter.StopWordOptions{TrimSpace: o.cfg.StopWords.Trim}
	if cmd.Flags().Changed("trim-stop-words") {
		stop.TrimSpace, _ = cmd.Flags().GetBool("trim-stop-words")
	}
	return opts, stop, nil
}

func (o *rootOptions) stopWordsPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("stop-words"); p != "" {
		return p
	}
	return o.cfg.StopWords.Path
}

func (o *rootOptions) historyPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("history"); p != "" {
		return p
	}
	return o.cfg.History.Path
}

// openHistory opens the run log when one is configured. A nil store means
// history is disabled.
func (o *rootOptions) openHistory(ctx context.Context, cmd *cobra.Command) (*history.Store, error) {
	path := o.historyPath(cmd)
	if path == "" {
		return nil, nil
	}
	return history.Open(ctx, path)
}
