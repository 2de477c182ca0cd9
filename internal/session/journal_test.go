package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONJournal_WriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "journal.jsonl")
	j, err := NewJSONJournal(path)
	require.NoError(t, err)
	assert.Equal(t, path, j.Path())

	require.NoError(t, j.Log(NewEvent(EventTextSelected, map[string]any{"path": "a.txt"})))
	require.NoError(t, j.Log(NewEvent(EventError, ErrorData("extract", errors.New("boom")))))
	require.NoError(t, j.Close())

	events, err := ReadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventTextSelected, events[0].Type)
	assert.Equal(t, "a.txt", events[0].Data["path"])
	assert.Equal(t, "boom", events[1].Data["message"])
	assert.Equal(t, "extract", events[1].Data["op"])
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestReadEvents_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"type\":\"tags_saved\"}\nnot json\n"), 0o644))

	events, err := ReadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventTagsSaved, events[0].Type)

	_, err = ReadEvents(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestSession_WritesJournal(t *testing.T) {
	dir := t.TempDir()
	text := writeFile(t, dir, "text.txt", "alpha beta alpha")
	stop := writeFile(t, dir, "stop.txt", "beta\n")
	path := filepath.Join(dir, "journal.jsonl")

	j, err := NewJSONJournal(path)
	require.NoError(t, err)
	s := New(Options{Journal: j})

	_, err = s.RunExtraction(context.Background())
	require.Error(t, err)
	require.NoError(t, s.SelectTextSource(text))
	require.NoError(t, s.SelectStopWordSource(stop))
	_, err = s.RunExtraction(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.SaveResults(filepath.Join(dir, "tags.txt")))
	require.NoError(t, j.Close())

	events, err := ReadEvents(path)
	require.NoError(t, err)
	var types []EventType
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []EventType{
		EventError,
		EventTextSelected,
		EventStopWordsLoaded,
		EventExtractionComplete,
		EventTagsSaved,
	}, types)
	assert.Equal(t, "no text file selected", events[0].Data["message"])
	assert.Equal(t, float64(1), events[2].Data["count"])
	assert.Equal(t, float64(1), events[3].Data["distinct"])
	assert.Equal(t, float64(2), events[3].Data["total"])
}

type failingJournal struct{}

func (failingJournal) Log(Event) error { return errors.New("disk full") }
func (failingJournal) Close() error    { return nil }

func TestSession_JournalFailureDoesNotFailSteps(t *testing.T) {
	dir := t.TempDir()
	text := writeFile(t, dir, "text.txt", "alpha")
	stop := writeFile(t, dir, "stop.txt", "")

	s := New(Options{Journal: failingJournal{}})
	require.NoError(t, s.SelectTextSource(text))
	require.NoError(t, s.SelectStopWordSource(stop))
	table, err := s.RunExtraction(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}
