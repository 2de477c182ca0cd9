package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spboyer/tagx/internal/tagcounter"
)

// Exit codes for different failure modes
const (
	ExitSuccess      = 0 // Command completed
	ExitMissingInput = 1 // Text, stop words or tags were not provided
	ExitError        = 2 // Configuration, I/O or runtime error
)

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var missing *tagcounter.MissingInputError
	if errors.As(err, &missing) {
		return ExitMissingInput
	}
	return ExitError
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
