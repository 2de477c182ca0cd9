package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/spboyer/tagx/internal/history"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded extraction runs",
		Long: `List recorded extraction runs, newest first.

Runs are recorded by extract, interactive and serve when a history database
is configured with --history or history.path in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			if limit < 0 {
				return errors.New("--limit must not be negative")
			}
			store, err := opts.openHistory(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("no history database configured (use --history or history.path)")
			}
			defer store.Close() //nolint:errcheck

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			writeRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().Int("limit", 10, "Show at most n runs (0 shows all)")
	addHistoryFlag(cmd)
	return cmd
}

const historyTopTags = 3

func writeRuns(w io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	width := runewidth.StringWidth("Text")
	for _, r := range runs {
		width = max(width, runewidth.StringWidth(r.TextPath))
	}
	fmt.Fprintf(w, "%-20s  %s  %8s  %8s  %s\n", "When", runewidth.FillRight("Text", width), "Distinct", "Total", "Top tags")
	for _, r := range runs {
		top := make([]string, 0, historyTopTags)
		for i, t := range r.Top {
			if i == historyTopTags {
				break
			}
			top = append(top, fmt.Sprintf("%s (%d)", t.Word, t.Count))
		}
		fmt.Fprintf(w, "%-20s  %s  %8d  %8d  %s\n",
			r.RunAt.Local().Format("2006-01-02 15:04:05"),
			runewidth.FillRight(r.TextPath, width),
			r.Distinct, r.Total, strings.Join(top, ", "))
	}
}
