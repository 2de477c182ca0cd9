package tagcounter

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		stopWords StopWordSet
		opts      Options
		expected  []Tag
	}{
		{
			name:      "sentence with stop words",
			text:      "The Cat sat on the MAT.",
			stopWords: NewStopWordSet("the", "on"),
			expected:  []Tag{{"cat", 1}, {"sat", 1}, {"mat", 1}},
		},
		{
			name:      "repeated word with empty stop list",
			text:      "a a a",
			stopWords: NewStopWordSet(),
			expected:  []Tag{{"a", 3}},
		},
		{
			name:      "punctuation only token dropped",
			text:      "--- hello --- ... !!",
			stopWords: NewStopWordSet(),
			expected:  []Tag{{"hello", 1}},
		},
		{
			name:      "digits and symbols stripped inside tokens",
			text:      "r2d2 don't e-mail 42",
			stopWords: NewStopWordSet(),
			expected:  []Tag{{"rd", 1}, {"dont", 1}, {"email", 1}},
		},
		{
			name:      "whitespace runs and newlines",
			text:      "  go\t\tgo\n\n  Go\r\nstop",
			stopWords: NewStopWordSet("stop"),
			expected:  []Tag{{"go", 3}},
		},
		{
			name:      "stop word matched after normalization",
			text:      "The, THE; the!",
			stopWords: NewStopWordSet("the"),
			expected:  []Tag{},
		},
		{
			name:      "accents stripped by default",
			text:      "café naïve",
			stopWords: NewStopWordSet(),
			expected:  []Tag{{"caf", 1}, {"nave", 1}},
		},
		{
			name:      "accents folded",
			text:      "café naïve Café",
			stopWords: NewStopWordSet(),
			opts:      Options{FoldAccents: true},
			expected:  []Tag{{"cafe", 2}, {"naive", 1}},
		},
		{
			name:      "min length",
			text:      "a an ant ants",
			stopWords: NewStopWordSet(),
			opts:      Options{MinLength: 3},
			expected:  []Tag{{"ant", 1}, {"ants", 1}},
		},
		{
			name:      "empty text",
			text:      "",
			stopWords: NewStopWordSet("the"),
			expected:  []Tag{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ExtractTags(strings.NewReader(tt.text), tt.stopWords, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, table.Tags())
		})
	}
}

func TestExtractTags_NilStopWords(t *testing.T) {
	_, err := ExtractTags(strings.NewReader("anything"), nil, Options{})
	require.Error(t, err)

	var missing *MissingInputError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, InputStopWords, missing.Input)
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestExtractTags_EmptySetIsNotUnset(t *testing.T) {
	table, err := ExtractTags(strings.NewReader("word"), StopWordSet{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestExtractTags_ReadFailure(t *testing.T) {
	boom := errors.New("disk gone")
	_, err := ExtractTags(iotest.ErrReader(boom), NewStopWordSet(), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, boom)
}

func TestExtractTags_ReadFailureMidStream(t *testing.T) {
	boom := errors.New("disk gone")
	r := io.MultiReader(strings.NewReader("alpha beta"), iotest.ErrReader(boom))
	_, err := ExtractTags(r, NewStopWordSet(), Options{})
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, boom)
}

func TestExtractTags_LongTokens(t *testing.T) {
	const n = 1<<20 + 10

	t.Run("punctuation run", func(t *testing.T) {
		text := "hello " + strings.Repeat("-", n) + " world"
		table, err := ExtractTags(strings.NewReader(text), NewStopWordSet(), Options{})
		require.NoError(t, err)
		assert.Equal(t, []Tag{{"hello", 1}, {"world", 1}}, table.Tags())
	})

	t.Run("letter run", func(t *testing.T) {
		long := strings.Repeat("x", n)
		text := "hello " + long + " world"
		table, err := ExtractTags(strings.NewReader(text), NewStopWordSet(), Options{})
		require.NoError(t, err)
		assert.Equal(t, 3, table.Len())
		count, ok := table.Count(long)
		assert.True(t, ok)
		assert.Equal(t, 1, count)
		count, _ = table.Count("world")
		assert.Equal(t, 1, count)
	})

	t.Run("mixed blob", func(t *testing.T) {
		blob := strings.Repeat("ab12+/", n/6+1)
		text := "start " + blob + "\nend"
		table, err := ExtractTags(strings.NewReader(text), NewStopWordSet(), Options{})
		require.NoError(t, err)
		require.Equal(t, 3, table.Len())
		tags := table.Tags()
		assert.Equal(t, "start", tags[0].Word)
		assert.Equal(t, strings.Repeat("ab", n/6+1), tags[1].Word)
		assert.Equal(t, "end", tags[2].Word)
	})
}

func TestExtractTags_SplitsOnASCIIWhitespaceOnly(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []Tag
	}{
		{"ascii whitespace", "a\tb\nc\vd\fe\rf g", []Tag{{"a", 1}, {"b", 1}, {"c", 1}, {"d", 1}, {"e", 1}, {"f", 1}, {"g", 1}}},
		{"crlf lines", "one\r\ntwo\r\n", []Tag{{"one", 1}, {"two", 1}}},
		{"no-break space joins", "foo\u00a0bar", []Tag{{"foobar", 1}}},
		{"next line joins", "foo\u0085bar", []Tag{{"foobar", 1}}},
		{"em space joins", "foo\u2003bar baz", []Tag{{"foobar", 1}, {"baz", 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ExtractTags(strings.NewReader(tt.text), NewStopWordSet(), Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, table.Tags())
		})
	}
}

func TestExtractTags_KeysAreLowercaseLetters(t *testing.T) {
	inputs := []string{
		"Hello, World! 123 ___ ---",
		"MiXeD-CaSe\twith\ttabs and ünïcödé",
		"'quoted' \"double\" (parens) [brackets] {braces}",
		"... ,,, ;;; ::: !!! ???",
		strings.Repeat("x1y2z3 ", 50),
	}
	for _, text := range inputs {
		for _, fold := range []bool{false, true} {
			table, err := ExtractTags(strings.NewReader(text), NewStopWordSet(), Options{FoldAccents: fold})
			require.NoError(t, err)
			for _, tag := range table.Tags() {
				require.NotEmpty(t, tag.Word, "input %q", text)
				require.Greater(t, tag.Count, 0)
				for _, r := range tag.Word {
					require.True(t, r >= 'a' && r <= 'z', "unexpected rune %q in %q", r, tag.Word)
				}
			}
		}
	}
}

func TestExtractTags_NoStopWordInResult(t *testing.T) {
	text := "It was the best of times, it was the worst of times; IT WAS the age of wisdom."
	stop := NewStopWordSet("it", "was", "the", "of")

	table, err := ExtractTags(strings.NewReader(text), stop, Options{})
	require.NoError(t, err)
	for w := range stop {
		_, ok := table.Count(w)
		assert.False(t, ok, "stop word %q leaked into result", w)
	}
	assert.Equal(t, map[string]int{"best": 1, "times": 2, "worst": 1, "age": 1, "wisdom": 1}, table.Map())
}

func TestExtractTags_Idempotent(t *testing.T) {
	text := "one two two three three three"
	stop := NewStopWordSet("two")

	first, err := ExtractTags(strings.NewReader(text), stop, Options{})
	require.NoError(t, err)
	second, err := ExtractTags(strings.NewReader(text), stop, Options{})
	require.NoError(t, err)
	assert.Equal(t, first.Tags(), second.Tags())
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer(Options{})
	assert.Equal(t, "", n.Normalize("---"))
	assert.Equal(t, "mat", n.Normalize("MAT."))
	assert.Equal(t, "cant", n.Normalize("can't"))

	folded := NewNormalizer(Options{FoldAccents: true})
	assert.Equal(t, "resume", folded.Normalize("Résumé"))
}
