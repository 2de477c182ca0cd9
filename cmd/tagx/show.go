package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spboyer/tagx/internal/report"
	"github.com/spboyer/tagx/internal/source"
	"github.com/spboyer/tagx/internal/tagcounter"
)

func newShowCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <tags-file>",
		Short: "Print a saved tags file",
		Long: `Print a file of "<word> : <count>" lines written by extract or batch.

Use --format, --sort and --top to render it differently.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			display, err := opts.reportOptions(cmd)
			if err != nil {
				return err
			}
			rc, err := source.Open(args[0])
			if err != nil {
				return err
			}
			defer rc.Close() //nolint:errcheck

			table, err := tagcounter.ParseTags(rc)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return report.Write(cmd.OutOrStdout(), table, display)
		},
	}
	addReportFlags(cmd)
	return cmd
}
