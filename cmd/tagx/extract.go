package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spboyer/tagx/internal/report"
	"github.com/spboyer/tagx/internal/session"
	"github.com/spboyer/tagx/internal/source"
	"github.com/spboyer/tagx/internal/spinner"
)

func newExtractCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Count the tags of one text file",
		Long: `Count the tags of one text file.

The text may be plain text or markdown (.md, .markdown), optionally gzip
compressed (.gz). Markdown is reduced to its prose first; code blocks and raw
HTML are skipped.

The tags are printed to stdout in the chosen format. With --out every tag is
also saved as a "<word> : <count>" line in first-seen order (gzip compressed
when the name ends in .gz); --sort and --top only change what is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts)
		},
	}
	cmd.Flags().String("text", "", "Text file to extract tags from")
	cmd.Flags().String("out", "", "Save the tags to this file")
	addExtractFlags(cmd)
	addReportFlags(cmd)
	addHistoryFlag(cmd)
	return cmd
}

func runExtract(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	textPath, _ := cmd.Flags().GetString("text")
	outPath, _ := cmd.Flags().GetString("out")

	display, err := opts.reportOptions(cmd)
	if err != nil {
		return err
	}
	extractOpts, stopOpts, err := opts.extractOptions(cmd)
	if err != nil {
		return err
	}

	sopts := session.Options{
		Extract:   extractOpts,
		StopWords: stopOpts,
		Save:      report.Options{Format: report.FormatLines},
	}
	store, err := opts.openHistory(ctx, cmd)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close() //nolint:errcheck
		sopts.Recorder = store
	}
	s := session.New(sopts)

	if textPath != "" {
		if err := s.SelectTextSource(textPath); err != nil {
			return err
		}
	}
	if stopPath := opts.stopWordsPath(cmd); stopPath != "" {
		if err := s.SelectStopWordSource(stopPath); err != nil {
			return err
		}
	}

	sp := spinner.StartOnTerminal(cmd.ErrOrStderr(), fmt.Sprintf("Extracting tags from %s...", source.Describe(textPath)))
	table, err := s.RunExtraction(ctx)
	sp.Stop()
	if err != nil {
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), table, display); err != nil {
		return fmt.Errorf("writing tags: %w", err)
	}

	if outPath != "" {
		if err := s.SaveResults(outPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Tags saved to: %s\n", outPath)
	}
	return nil
}
