package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/spboyer/tagx/internal/report"
	"github.com/spboyer/tagx/internal/source"
	"github.com/spboyer/tagx/internal/tagcounter"
)

func newBatchCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [files...]",
		Short: "Count the tags of several text files",
		Long: `Count the tags of several text files against one stop word list.

Files are read concurrently, up to --workers at a time. A summary line is
printed per file, followed by the merged tags of all files in the chosen
format. Merged tags appear in the order of the file arguments. --out saves
every merged tag regardless of --sort and --top.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, opts, args)
		},
	}
	cmd.Flags().String("out", "", "Save the merged tags to this file")
	cmd.Flags().Int("workers", 0, "Files read in parallel (default from config, else 4)")
	addExtractFlags(cmd)
	addReportFlags(cmd)
	return cmd
}

type batchResult struct {
	path  string
	table *tagcounter.FrequencyTable
}

func runBatch(cmd *cobra.Command, opts *rootOptions, files []string) error {
	display, err := opts.reportOptions(cmd)
	if err != nil {
		return err
	}
	extractOpts, stopOpts, err := opts.extractOptions(cmd)
	if err != nil {
		return err
	}
	outPath, _ := cmd.Flags().GetString("out")

	workers := opts.cfg.Batch.Workers
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}
	if workers < 1 {
		return fmt.Errorf("--workers must be at least 1")
	}

	stopPath := opts.stopWordsPath(cmd)
	if stopPath == "" {
		return &tagcounter.MissingInputError{Input: tagcounter.InputStopWords}
	}
	stopWords, err := tagcounter.ReadStopWords(stopPath, stopOpts)
	if err != nil {
		return err
	}

	results := make([]batchResult, len(files))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			table, err := extractFile(path, stopWords, extractOpts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			slog.Debug("file extracted", "path", path, "distinct", table.Len())
			results[i] = batchResult{path: path, table: table}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	merged := tagcounter.NewFrequencyTable()
	for _, r := range results {
		merged.Merge(r.table)
	}

	out := cmd.OutOrStdout()
	writeBatchSummary(out, results)
	fmt.Fprintln(out)
	if err := report.Write(out, merged, display); err != nil {
		return fmt.Errorf("writing tags: %w", err)
	}

	if outPath != "" {
		if err := report.WriteFile(outPath, merged, report.Options{Format: report.FormatLines}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Tags saved to: %s\n", outPath)
	}
	return nil
}

func extractFile(path string, stopWords tagcounter.StopWordSet, opts tagcounter.Options) (*tagcounter.FrequencyTable, error) {
	rc, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck
	return tagcounter.ExtractTags(rc, stopWords, opts)
}

func writeBatchSummary(w io.Writer, results []batchResult) {
	width := runewidth.StringWidth("File")
	for _, r := range results {
		width = max(width, runewidth.StringWidth(r.path))
	}
	fmt.Fprintf(w, "%s  %8s  %8s\n", runewidth.FillRight("File", width), "Distinct", "Total")
	for _, r := range results {
		fmt.Fprintf(w, "%s  %8d  %8d\n", runewidth.FillRight(r.path, width), r.table.Len(), r.table.Total())
	}
}
