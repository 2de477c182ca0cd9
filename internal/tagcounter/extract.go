// Package tagcounter implements the tokenize, normalize, filter and count
// pipeline that turns a text and a stop word list into tag frequencies.
package tagcounter

import (
	"bufio"
	"errors"
	"io"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options tunes normalization.
type Options struct {
	// FoldAccents removes combining marks before stripping, so "café"
	// counts as "cafe" rather than "caf".
	FoldAccents bool
	// MinLength drops normalized words shorter than this many letters.
	MinLength int
}

// Normalizer turns raw tokens into tags. A Normalizer is not safe for
// concurrent use; each extraction creates its own.
type Normalizer struct {
	fold transform.Transformer
}

func NewNormalizer(opts Options) *Normalizer {
	n := &Normalizer{}
	if opts.FoldAccents {
		n.fold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	}
	return n
}

// Normalize strips every character outside a-z and A-Z and lowercases the
// rest. The result may be empty.
func (n *Normalizer) Normalize(token string) string {
	var b []byte
	for _, r := range token {
		b = n.appendLetters(b, r)
	}
	return string(b)
}

// appendLetters appends the lowercase ASCII letters r contributes to a tag.
// With folding on, a non-ASCII rune is decomposed first so its base letter
// survives.
func (n *Normalizer) appendLetters(dst []byte, r rune) []byte {
	if r < utf8.RuneSelf {
		return appendLetter(dst, byte(r))
	}
	if n.fold == nil {
		return dst
	}
	folded, _, err := transform.String(n.fold, string(r))
	if err != nil {
		return dst
	}
	for i := 0; i < len(folded); i++ {
		dst = appendLetter(dst, folded[i])
	}
	return dst
}

func appendLetter(dst []byte, c byte) []byte {
	switch {
	case c >= 'a' && c <= 'z':
		return append(dst, c)
	case c >= 'A' && c <= 'Z':
		return append(dst, c+('a'-'A'))
	}
	return dst
}

// isSpace reports whether r separates tokens. Only ASCII whitespace does;
// a no-break space or other Unicode space is part of the token and is
// dropped by normalization like any other non-letter.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// ExtractTags counts the words in r that survive normalization and are not
// in stopWords. A nil stopWords set is a *MissingInputError.
//
// Tokens are normalized as they are read, so memory grows with the letters
// of a token rather than its raw length.
func ExtractTags(r io.Reader, stopWords StopWordSet, opts Options) (*FrequencyTable, error) {
	if stopWords == nil {
		return nil, &MissingInputError{Input: InputStopWords}
	}

	normalizer := NewNormalizer(opts)
	table := NewFrequencyTable()

	var word []byte
	flush := func() {
		if len(word) == 0 {
			return
		}
		w := string(word)
		word = word[:0]
		// Tags are ASCII, so bytes and letters coincide.
		if opts.MinLength > 0 && len(w) < opts.MinLength {
			return
		}
		if stopWords.Contains(w) {
			return
		}
		table.Add(w, 1)
	}

	br := bufio.NewReader(r)
	for {
		c, _, err := br.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				flush()
				return table, nil
			}
			return nil, &IOError{Op: "read text", Err: err}
		}
		if isSpace(c) {
			flush()
			continue
		}
		word = normalizer.appendLetters(word, c)
	}
}
