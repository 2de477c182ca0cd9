// Package report renders frequency tables for display and persistence.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/spboyer/tagx/internal/tagcounter"
)

// Format is an output format name.
type Format string

const (
	FormatLines Format = "lines"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var printer = message.NewPrinter(language.English)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatLines, FormatTable, FormatJSON, FormatYAML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q (want lines, table, json or yaml)", s)
}

// Options selects how a table is rendered.
type Options struct {
	Format Format
	Sort   tagcounter.SortOrder
	// Top keeps only the first N tags after sorting; 0 keeps all.
	Top int
}

// Document is the json and yaml shape of a table.
type Document struct {
	Tags     []tagcounter.Tag `json:"tags" yaml:"tags"`
	Distinct int              `json:"distinct" yaml:"distinct"`
	Total    int              `json:"total" yaml:"total"`
}

// Select returns the tags opts asks for.
func Select(table *tagcounter.FrequencyTable, opts Options) []tagcounter.Tag {
	tags := table.Sorted(opts.Sort)
	if opts.Top > 0 && len(tags) > opts.Top {
		tags = tags[:opts.Top]
	}
	return tags
}

// NewDocument builds the json/yaml document for table.
func NewDocument(table *tagcounter.FrequencyTable, opts Options) Document {
	return Document{
		Tags:     Select(table, opts),
		Distinct: table.Len(),
		Total:    table.Total(),
	}
}

// Write renders table to w.
func Write(w io.Writer, table *tagcounter.FrequencyTable, opts Options) error {
	switch opts.Format {
	case FormatLines, "":
		return writeLines(w, table, opts)
	case FormatTable:
		return writeTable(w, table, opts)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(table, opts))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(table, opts)); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", opts.Format)
}

func writeLines(w io.Writer, table *tagcounter.FrequencyTable, opts Options) error {
	if (opts.Sort == "" || opts.Sort == tagcounter.SortFirstSeen) && opts.Top == 0 {
		return tagcounter.SaveTags(w, table)
	}
	view := tagcounter.NewFrequencyTable()
	for _, tag := range Select(table, opts) {
		view.Add(tag.Word, tag.Count)
	}
	return tagcounter.SaveTags(w, view)
}

func writeTable(w io.Writer, table *tagcounter.FrequencyTable, opts Options) error {
	tags := Select(table, opts)
	if len(tags) == 0 {
		_, err := fmt.Fprintln(w, "No tags found.")
		return err
	}

	wordWidth := runewidth.StringWidth("Total")
	for _, tag := range tags {
		if sw := runewidth.StringWidth(tag.Word); sw > wordWidth {
			wordWidth = sw
		}
	}
	total := printer.Sprintf("%d", table.Total())
	countWidth := max(len("Count"), len(total))

	var b strings.Builder
	header := padRight("Tag", wordWidth) + "  " + padLeft("Count", countWidth)
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("-", len(header)) + "\n")
	for _, tag := range tags {
		b.WriteString(padRight(tag.Word, wordWidth) + "  " + padLeft(printer.Sprintf("%d", tag.Count), countWidth) + "\n")
	}
	b.WriteString(strings.Repeat("-", len(header)) + "\n")
	b.WriteString(padRight("Total", wordWidth) + "  " + padLeft(total, countWidth) + "\n")
	b.WriteString(printer.Sprintf("\n%d distinct tag(s)", table.Len()))
	if len(tags) < table.Len() {
		b.WriteString(printer.Sprintf(", showing %d", len(tags)))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

func padLeft(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return strings.Repeat(" ", width-sw) + s
}

// WriteFile writes table to path, gzip-compressed when path ends in ".gz".
// Failures are *tagcounter.IOError; a partially written file may remain.
func WriteFile(path string, table *tagcounter.FrequencyTable, opts Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &tagcounter.IOError{Op: "create output", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &tagcounter.IOError{Op: "close output", Path: path, Err: cerr}
		}
	}()

	var w io.Writer = f
	var zw *gzip.Writer
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		zw = gzip.NewWriter(f)
		w = zw
	}

	if err := Write(w, table, opts); err != nil {
		var ioErr *tagcounter.IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
			return ioErr
		}
		return &tagcounter.IOError{Op: "write output", Path: path, Err: err}
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return &tagcounter.IOError{Op: "compress output", Path: path, Err: err}
		}
	}
	return nil
}
