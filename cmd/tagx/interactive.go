package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spboyer/tagx/internal/report"
	"github.com/spboyer/tagx/internal/session"
	"github.com/spboyer/tagx/internal/wizard"
)

func newInteractiveCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Select files and extract tags from a menu",
		Long: `Select files and extract tags from a menu.

Choose a text file and a stop word file, extract the tags, and save them.
Steps can be repeated in any order; a failed step leaves the previous
selection in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			extractOpts, stopOpts, err := opts.extractOptions(cmd)
			if err != nil {
				return err
			}
			sopts := session.Options{
				Extract:   extractOpts,
				StopWords: stopOpts,
				Save:      report.Options{Format: report.FormatLines},
			}
			store, err := opts.openHistory(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close() //nolint:errcheck
				sopts.Recorder = store
			}
			if journalPath, _ := cmd.Flags().GetString("journal"); journalPath != "" {
				j, err := session.NewJSONJournal(journalPath)
				if err != nil {
					return err
				}
				defer j.Close() //nolint:errcheck
				sopts.Journal = j
			}

			in, out := cmd.InOrStdin(), cmd.OutOrStdout()
			sh := &shell{
				s:   session.New(sopts),
				out: out,
				choose: func(st session.State) (wizard.Action, error) {
					return wizard.ChooseAction(in, out, st)
				},
				ask: func(title string, mustExist bool) (string, error) {
					return wizard.AskPath(in, out, title, mustExist)
				},
			}
			if p := opts.stopWordsPath(cmd); p != "" {
				sh.apply(cmd.Context(), wizard.ActionSelectStopWords, p)
			}
			return sh.loop(cmd.Context())
		},
	}
	cmd.Flags().String("journal", "", "Append every step of the session to this NDJSON file")
	addExtractFlags(cmd)
	addHistoryFlag(cmd)
	return cmd
}

// shell drives a session from menu choices. Errors from a step are shown
// and the loop continues.
type shell struct {
	s      *session.Session
	out    io.Writer
	choose func(session.State) (wizard.Action, error)
	ask    func(title string, mustExist bool) (string, error)
}

func (sh *shell) loop(ctx context.Context) error {
	for {
		action, err := sh.choose(sh.s.State())
		if errors.Is(err, wizard.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if action == wizard.ActionQuit {
			return nil
		}

		var path string
		switch action {
		case wizard.ActionSelectText:
			path, err = sh.ask("Text file", true)
		case wizard.ActionSelectStopWords:
			path, err = sh.ask("Stop words file", true)
		case wizard.ActionSave:
			if sh.s.Table() != nil {
				path, err = sh.ask("Save tags to", false)
			}
		}
		if errors.Is(err, wizard.ErrAborted) {
			continue
		}
		if err != nil {
			return err
		}
		sh.apply(ctx, action, path)
	}
}

func (sh *shell) apply(ctx context.Context, action wizard.Action, path string) {
	switch action {
	case wizard.ActionSelectText:
		if err := sh.s.SelectTextSource(path); err != nil {
			sh.fail(err)
			return
		}
		fmt.Fprintf(sh.out, "Selected Text File: %s\n", path)
	case wizard.ActionSelectStopWords:
		if err := sh.s.SelectStopWordSource(path); err != nil {
			sh.fail(err)
			return
		}
		fmt.Fprintf(sh.out, "Selected Stop Words File: %s\n", path)
	case wizard.ActionExtract:
		table, err := sh.s.RunExtraction(ctx)
		if err != nil {
			sh.fail(err)
			return
		}
		fmt.Fprintln(sh.out, "Tags and Frequencies:")
		if err := report.Write(sh.out, table, report.Options{Format: report.FormatLines}); err != nil {
			sh.fail(err)
		}
	case wizard.ActionSave:
		if err := sh.s.SaveResults(path); err != nil {
			sh.fail(err)
			return
		}
		fmt.Fprintf(sh.out, "Tags saved to: %s\n", path)
	}
}

func (sh *shell) fail(err error) {
	fmt.Fprintf(sh.out, "Error: %v\n", err)
}
