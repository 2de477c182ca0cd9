// Package source opens text sources for tag extraction. Gzip files are
// decompressed on the fly and markdown is reduced to its prose.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/spboyer/tagx/internal/tagcounter"
)

// Kind is the format of a text source.
type Kind string

const (
	KindPlain    Kind = "plain"
	KindMarkdown Kind = "markdown"
)

// Detect reports the format of path and whether it is gzip-compressed.
func Detect(path string) (Kind, bool) {
	name := strings.ToLower(filepath.Base(path))
	compressed := strings.HasSuffix(name, ".gz")
	name = strings.TrimSuffix(name, ".gz")
	switch filepath.Ext(name) {
	case ".md", ".markdown":
		return KindMarkdown, compressed
	}
	return KindPlain, compressed
}

// Open returns a reader over the text of path. Failures are *tagcounter.IOError.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &tagcounter.IOError{Op: "open text", Path: path, Err: err}
	}

	kind, compressed := Detect(path)
	var r io.Reader = f
	closers := []io.Closer{f}
	if compressed {
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close() //nolint:errcheck
			return nil, &tagcounter.IOError{Op: "decompress text", Path: path, Err: err}
		}
		r = zr
		closers = append([]io.Closer{zr}, closers...)
	}

	if kind == KindMarkdown {
		data, err := io.ReadAll(r)
		closeAll(closers)
		if err != nil {
			return nil, &tagcounter.IOError{Op: "read text", Path: path, Err: err}
		}
		return io.NopCloser(bytes.NewReader(MarkdownText(data))), nil
	}

	return &readCloser{Reader: r, closers: closers}, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	return closeAll(rc.closers)
}

func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// MarkdownText returns the prose of a markdown document. Code blocks and raw
// HTML are dropped and every block ends with a newline.
func MarkdownText(source []byte) []byte {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				buf.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			buf.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(v.Value)
		case *ast.AutoLink:
			buf.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	return buf.Bytes()
}

// Describe is a short human label for the source at path.
func Describe(path string) string {
	kind, compressed := Detect(path)
	if compressed {
		return fmt.Sprintf("%s (gzip)", kind)
	}
	return string(kind)
}
