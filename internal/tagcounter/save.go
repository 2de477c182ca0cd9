package tagcounter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Separator sits between word and count in the saved format.
const Separator = " : "

// maxLineSize bounds one line of a saved tags file.
const maxLineSize = 1 << 20

// SaveTags writes one "<word> : <count>" line per tag in first-seen order.
func SaveTags(w io.Writer, table *FrequencyTable) error {
	bw := bufio.NewWriter(w)
	for _, tag := range table.Tags() {
		if _, err := fmt.Fprintf(bw, "%s%s%d\n", tag.Word, Separator, tag.Count); err != nil {
			return &IOError{Op: "write tags", Err: err}
		}
	}
	if err := bw.Flush(); err != nil {
		return &IOError{Op: "write tags", Err: err}
	}
	return nil
}

// ParseTags reads the format written by SaveTags. Blank lines are skipped.
func ParseTags(r io.Reader) (*FrequencyTable, error) {
	table := NewFrequencyTable()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		i := strings.LastIndex(line, Separator)
		if i <= 0 {
			return nil, fmt.Errorf("line %d: missing %q in %q", lineNo, Separator, line)
		}
		word := line[:i]
		count, err := strconv.Atoi(line[i+len(Separator):])
		if err != nil || count <= 0 {
			return nil, fmt.Errorf("line %d: invalid count in %q", lineNo, line)
		}
		table.Add(word, count)
	}
	if err := scanner.Err(); err != nil {
		return nil, &IOError{Op: "read tags", Err: err}
	}
	return table, nil
}
