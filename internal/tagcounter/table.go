package tagcounter

import (
	"fmt"
	"sort"
)

// Tag is one counted word.
type Tag struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// SortOrder selects how Sorted orders tags.
type SortOrder string

const (
	SortFirstSeen SortOrder = "first-seen"
	SortCount     SortOrder = "count"
	SortWord      SortOrder = "word"
)

// ParseSortOrder validates a sort order name. An empty name means first-seen.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", SortFirstSeen:
		return SortFirstSeen, nil
	case SortCount, SortWord:
		return SortOrder(s), nil
	}
	return "", fmt.Errorf("unknown sort order %q (want first-seen, count or word)", s)
}

// FrequencyTable maps words to counts and remembers the order in which each
// word was first seen. The zero value is not usable; call NewFrequencyTable.
type FrequencyTable struct {
	order  []string
	counts map[string]int
}

func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: make(map[string]int)}
}

// Add increments word by n. Empty words and non-positive n are ignored so
// every stored key stays non-empty with a positive count.
func (t *FrequencyTable) Add(word string, n int) {
	if word == "" || n <= 0 {
		return
	}
	if _, ok := t.counts[word]; !ok {
		t.order = append(t.order, word)
	}
	t.counts[word] += n
}

// Count returns the count for word and whether it is present.
func (t *FrequencyTable) Count(word string) (int, bool) {
	n, ok := t.counts[word]
	return n, ok
}

// Len is the number of distinct words.
func (t *FrequencyTable) Len() int {
	return len(t.order)
}

// Total is the sum of all counts.
func (t *FrequencyTable) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Tags returns the entries in first-seen order.
func (t *FrequencyTable) Tags() []Tag {
	tags := make([]Tag, 0, len(t.order))
	for _, w := range t.order {
		tags = append(tags, Tag{Word: w, Count: t.counts[w]})
	}
	return tags
}

// Map returns a copy of the counts.
func (t *FrequencyTable) Map() map[string]int {
	m := make(map[string]int, len(t.counts))
	for w, n := range t.counts {
		m[w] = n
	}
	return m
}

// Sorted returns the entries in the requested order. Count order is
// descending with ties kept in first-seen order.
func (t *FrequencyTable) Sorted(order SortOrder) []Tag {
	tags := t.Tags()
	switch order {
	case SortCount:
		sort.SliceStable(tags, func(i, j int) bool {
			return tags[i].Count > tags[j].Count
		})
	case SortWord:
		sort.Slice(tags, func(i, j int) bool {
			return tags[i].Word < tags[j].Word
		})
	}
	return tags
}

// Merge adds every count from other. Words new to t are appended in other's
// first-seen order.
func (t *FrequencyTable) Merge(other *FrequencyTable) {
	if other == nil {
		return
	}
	for _, w := range other.order {
		t.Add(w, other.counts[w])
	}
}
