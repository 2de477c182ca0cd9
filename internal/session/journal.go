package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType identifies the kind of journal event.
type EventType string

const (
	EventTextSelected       EventType = "text_selected"
	EventStopWordsLoaded    EventType = "stop_words_loaded"
	EventExtractionComplete EventType = "extraction_complete"
	EventTagsSaved          EventType = "tags_saved"
	EventError              EventType = "error"
)

// Event is a single timestamped entry in a session journal.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent creates an event with the current timestamp.
func NewEvent(t EventType, data map[string]any) Event {
	return Event{
		Timestamp: time.Now().UTC(),
		Type:      t,
		Data:      data,
	}
}

// ErrorData returns event data for a failed step.
func ErrorData(op string, err error) map[string]any {
	return map[string]any{
		"op":      op,
		"message": err.Error(),
	}
}

// Journal records the steps taken in a session.
type Journal interface {
	Log(event Event) error
	Close() error
}

// JSONJournal writes events as newline-delimited JSON (NDJSON).
type JSONJournal struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	path string
}

// NewJSONJournal appends NDJSON events to the file at path.
// Parent directories are created automatically.
func NewJSONJournal(path string) (*JSONJournal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	return &JSONJournal{file: f, enc: json.NewEncoder(f), path: path}, nil
}

// Log writes a single event as one JSON line.
func (j *JSONJournal) Log(event Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(event)
}

func (j *JSONJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// Path returns the file path of the journal.
func (j *JSONJournal) Path() string {
	return j.path
}

// NopJournal discards all events.
type NopJournal struct{}

func (NopJournal) Log(Event) error { return nil }
func (NopJournal) Close() error    { return nil }

// ReadEvents parses all events from a journal file. Malformed lines are
// skipped.
func ReadEvents(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	return events, nil
}
