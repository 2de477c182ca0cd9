package tagcounter

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// StopWordSet holds lowercased words excluded from counting. A nil set means
// no stop words have been loaded, which is not the same as an empty set.
type StopWordSet map[string]struct{}

// NewStopWordSet builds a set from words, lowercasing each one.
func NewStopWordSet(words ...string) StopWordSet {
	set := make(StopWordSet, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

func (s StopWordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

func (s StopWordSet) Len() int {
	return len(s)
}

// StopWordOptions controls how stop word lines are read.
type StopWordOptions struct {
	// TrimSpace strips surrounding whitespace from every line. Off by default:
	// a line " the" is stored with its leading space and never matches "the".
	TrimSpace bool
}

// LoadStopWords reads one stop word per line from r. Lines are lowercased and
// otherwise kept verbatim unless opts.TrimSpace is set.
func LoadStopWords(r io.Reader, opts StopWordOptions) (StopWordSet, error) {
	set := make(StopWordSet)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			if opts.TrimSpace {
				line = strings.TrimSpace(line)
			}
			set[strings.ToLower(line)] = struct{}{}
		}
		if errors.Is(err, io.EOF) {
			return set, nil
		}
		if err != nil {
			return nil, &IOError{Op: "read stop words", Err: err}
		}
	}
}

// ReadStopWords loads the stop word file at path.
func ReadStopWords(path string, opts StopWordOptions) (StopWordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open stop words", Path: path, Err: err}
	}
	defer f.Close() //nolint:errcheck

	set, err := LoadStopWords(f, opts)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
		}
		return nil, err
	}
	return set, nil
}
