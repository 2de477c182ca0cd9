package tagcounter

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput matches any *MissingInputError via errors.Is.
	ErrMissingInput = errors.New("missing input")
	// ErrIO matches any *IOError via errors.Is.
	ErrIO = errors.New("i/o failure")
)

// Input names a piece of session state that has to exist before an operation can run.
type Input string

const (
	InputText      Input = "text"
	InputStopWords Input = "stop words"
	InputTags      Input = "tags"
)

// MissingInputError is returned when an operation is requested before the
// input it depends on has been configured.
type MissingInputError struct {
	Input Input
}

func (e *MissingInputError) Error() string {
	switch e.Input {
	case InputText:
		return "no text file selected"
	case InputStopWords:
		return "no stop words file selected"
	case InputTags:
		return "no tags extracted yet"
	}
	return fmt.Sprintf("missing %s", e.Input)
}

func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

// IOError wraps a failed read or write on a file or stream.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
