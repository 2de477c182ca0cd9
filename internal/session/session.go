// Package session tracks which inputs a user has selected and gates the
// extraction pipeline on them.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spboyer/tagx/internal/history"
	"github.com/spboyer/tagx/internal/report"
	"github.com/spboyer/tagx/internal/source"
	"github.com/spboyer/tagx/internal/tagcounter"
)

//go:generate go tool mockgen -source session.go -destination recorder_mock.go -package session

// Recorder receives a summary of every successful extraction.
type Recorder interface {
	Record(ctx context.Context, run history.Run) error
}

// Options configures a Session.
type Options struct {
	Extract   tagcounter.Options
	StopWords tagcounter.StopWordOptions
	// Save controls the format of SaveResults.
	Save report.Options
	// Recorder and Journal are optional.
	Recorder Recorder
	Journal  Journal
	Logger   *slog.Logger
}

// State reports which inputs are in place.
type State struct {
	TextSelected    bool   `json:"textSelected"`
	StopWordsLoaded bool   `json:"stopWordsLoaded"`
	Extracted       bool   `json:"extracted"`
	TextPath        string `json:"textPath,omitempty"`
	StopWordsPath   string `json:"stopWordsPath,omitempty"`
	StopWordCount   int    `json:"stopWordCount"`
	DistinctTags    int    `json:"distinctTags"`
}

// Session holds the current text selection, stop word set and last table.
// A Session is not safe for concurrent use.
type Session struct {
	opts          Options
	logger        *slog.Logger
	textPath      string
	stopWords     tagcounter.StopWordSet
	stopWordsPath string
	table         *tagcounter.FrequencyTable
}

func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Save.Format == "" {
		opts.Save.Format = report.FormatLines
	}
	if opts.Journal == nil {
		opts.Journal = NopJournal{}
	}
	return &Session{opts: opts, logger: logger}
}

func (s *Session) journal(t EventType, data map[string]any) {
	if err := s.opts.Journal.Log(NewEvent(t, data)); err != nil {
		s.logger.Warn("failed to write journal event", "type", t, "error", err)
	}
}

func (s *Session) fail(op string, err error) error {
	s.journal(EventError, ErrorData(op, err))
	return err
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	st := State{
		TextSelected:    s.textPath != "",
		StopWordsLoaded: s.stopWords != nil,
		Extracted:       s.table != nil,
		TextPath:        s.textPath,
		StopWordsPath:   s.stopWordsPath,
		StopWordCount:   s.stopWords.Len(),
	}
	if s.table != nil {
		st.DistinctTags = s.table.Len()
	}
	return st
}

// SelectTextSource records path as the text to extract from. The path must
// name a regular file; on failure the previous selection is kept.
func (s *Session) SelectTextSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return s.fail("select text", &tagcounter.IOError{Op: "select text", Path: path, Err: err})
	}
	if !info.Mode().IsRegular() {
		return s.fail("select text", &tagcounter.IOError{Op: "select text", Path: path, Err: fmt.Errorf("not a regular file")})
	}
	s.textPath = path
	kind := source.Describe(path)
	s.logger.Debug("text source selected", "path", path, "kind", kind)
	s.journal(EventTextSelected, map[string]any{"path": path, "kind": kind})
	return nil
}

// SelectStopWordSource loads the stop words at path. On failure the
// previously loaded set, if any, stays in place.
func (s *Session) SelectStopWordSource(path string) error {
	set, err := tagcounter.ReadStopWords(path, s.opts.StopWords)
	if err != nil {
		s.logger.Warn("stop words not loaded, keeping previous set", "path", path, "error", err)
		return s.fail("select stop words", err)
	}
	s.stopWords = set
	s.stopWordsPath = path
	s.logger.Debug("stop words loaded", "path", path, "count", set.Len())
	s.journal(EventStopWordsLoaded, map[string]any{"path": path, "count": set.Len()})
	return nil
}

// RunExtraction counts the tags of the selected text. The new table replaces
// the previous one only on success.
func (s *Session) RunExtraction(ctx context.Context) (*tagcounter.FrequencyTable, error) {
	if s.textPath == "" {
		return nil, s.fail("extract", &tagcounter.MissingInputError{Input: tagcounter.InputText})
	}
	if s.stopWords == nil {
		return nil, s.fail("extract", &tagcounter.MissingInputError{Input: tagcounter.InputStopWords})
	}

	rc, err := source.Open(s.textPath)
	if err != nil {
		return nil, s.fail("extract", err)
	}
	defer rc.Close() //nolint:errcheck

	table, err := tagcounter.ExtractTags(rc, s.stopWords, s.opts.Extract)
	if err != nil {
		var ioErr *tagcounter.IOError
		if errors.As(err, &ioErr) && ioErr.Path == "" {
			ioErr.Path = s.textPath
		}
		return nil, s.fail("extract", err)
	}
	s.table = table
	s.logger.Info("tags extracted", "path", s.textPath, "distinct", table.Len(), "total", table.Total())
	s.journal(EventExtractionComplete, map[string]any{"path": s.textPath, "distinct": table.Len(), "total": table.Total()})

	if s.opts.Recorder != nil {
		run := history.NewRun(s.textPath, s.stopWordsPath, table, history.DefaultTopTags)
		if err := s.opts.Recorder.Record(ctx, run); err != nil {
			s.logger.Warn("failed to record run", "error", err)
		}
	}
	return table, nil
}

// SaveResults writes the last table to path.
func (s *Session) SaveResults(path string) error {
	if s.table == nil {
		return s.fail("save", &tagcounter.MissingInputError{Input: tagcounter.InputTags})
	}
	if err := report.WriteFile(path, s.table, s.opts.Save); err != nil {
		return s.fail("save", err)
	}
	s.logger.Info("tags saved", "path", path, "distinct", s.table.Len())
	s.journal(EventTagsSaved, map[string]any{"path": path, "distinct": s.table.Len()})
	return nil
}

// Table returns the last extracted table, or nil.
func (s *Session) Table() *tagcounter.FrequencyTable {
	return s.table
}
