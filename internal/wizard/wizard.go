package wizard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/spboyer/tagx/internal/session"
)

// Action is one step of the interactive workflow.
type Action string

const (
	ActionSelectText      Action = "select-text"
	ActionSelectStopWords Action = "select-stop-words"
	ActionExtract         Action = "extract"
	ActionSave            Action = "save"
	ActionQuit            Action = "quit"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted")

// ActionOptions lists the menu entries, labelled with what is already in place.
func ActionOptions(state session.State) []huh.Option[Action] {
	textLabel := "Select text file"
	if state.TextSelected {
		textLabel += fmt.Sprintf(" (%s)", filepath.Base(state.TextPath))
	}
	stopLabel := "Select stop words file"
	if state.StopWordsLoaded {
		stopLabel += fmt.Sprintf(" (%s, %d words)", filepath.Base(state.StopWordsPath), state.StopWordCount)
	}
	extractLabel := "Extract tags"
	if state.Extracted {
		extractLabel += fmt.Sprintf(" (last run: %d tags)", state.DistinctTags)
	}
	return []huh.Option[Action]{
		huh.NewOption(textLabel, ActionSelectText),
		huh.NewOption(stopLabel, ActionSelectStopWords),
		huh.NewOption(extractLabel, ActionExtract),
		huh.NewOption("Save tags", ActionSave),
		huh.NewOption("Quit", ActionQuit),
	}
}

// ChooseAction asks which step to run next.
func ChooseAction(in io.Reader, out io.Writer, state session.State) (Action, error) {
	var action Action
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Action]().
				Title("Tag Extractor").
				Options(ActionOptions(state)...).
				Value(&action),
		),
	)
	if err := run(form, in, out); err != nil {
		return "", err
	}
	return action, nil
}

// AskPath prompts for a file path. When mustExist is set the path has to
// name an existing regular file.
func AskPath(in io.Reader, out io.Writer, title string, mustExist bool) (string, error) {
	var path string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("path/to/file.txt").
				Value(&path).
				Validate(ValidatePath(mustExist)),
		),
	)
	if err := run(form, in, out); err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

// ValidatePath returns the validator AskPath uses.
func ValidatePath(mustExist bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("a path is required")
		}
		if !mustExist {
			return nil
		}
		info, err := os.Stat(s)
		if err != nil {
			return fmt.Errorf("cannot open %s", s)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("%s is not a file", s)
		}
		return nil
	}
}

func run(form *huh.Form, in io.Reader, out io.Writer) error {
	form = form.WithInput(in).WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}
