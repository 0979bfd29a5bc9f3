package buffer

import (
	"fmt"
	"unicode/utf8"

	"github.com/hupe1980/enginecore/arena"
)

// Text builds UTF-8 text in a byte buffer. It implements io.Writer,
// io.ByteWriter and io.StringWriter.
type Text struct {
	buf *Buffer[byte]
}

// NewText creates a text builder. A nil arena uses the Go heap.
func NewText(a *arena.Arena) *Text {
	return &Text{buf: New[byte](a, 0)}
}

// Write appends p.
func (t *Text) Write(p []byte) (int, error) {
	t.buf.AppendSlice(p...)
	return len(p), nil
}

// WriteString appends s.
func (t *Text) WriteString(s string) (int, error) {
	if len(s) == 0 {
		return 0, nil
	}
	t.buf.Grow(len(s))
	n := copy(t.buf.data[t.buf.n:], s)
	t.buf.n += n
	return n, nil
}

// WriteByte appends c.
func (t *Text) WriteByte(c byte) error {
	t.buf.Append(c)
	return nil
}

// WriteRune appends the UTF-8 encoding of r.
func (t *Text) WriteRune(r rune) (int, error) {
	t.buf.Grow(utf8.UTFMax)
	n := utf8.EncodeRune(t.buf.data[t.buf.n:], r)
	t.buf.n += n
	return n, nil
}

// Appendf appends formatted text.
func (t *Text) Appendf(format string, args ...any) {
	_, _ = fmt.Fprintf(t, format, args...)
}

// Len returns the number of bytes written.
func (t *Text) Len() int { return t.buf.Len() }

// Bytes returns the written bytes without copying.
func (t *Text) Bytes() []byte { return t.buf.Slice() }

// String returns a heap copy of the text.
func (t *Text) String() string { return string(t.buf.Slice()) }

// Reset empties the builder and keeps its storage.
func (t *Text) Reset() { t.buf.Reset() }
