package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"chartlint/internal/source"
)

// cursor walks the bytes of one file. Reads past the end yield 0.
type cursor struct {
	src  []byte
	file source.FileID
	off  uint32
}

func newCursor(f *source.File) cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return cursor{src: f.Content, file: f.ID}
}

func (c *cursor) eof() bool { return int(c.off) >= len(c.src) }

func (c *cursor) peek() byte { return c.at(0) }

// at returns the byte n positions ahead.
func (c *cursor) at(n uint32) byte {
	if i := int(c.off) + int(n); i < len(c.src) {
		return c.src[i]
	}
	return 0
}

func (c *cursor) next() byte {
	b := c.peek()
	if !c.eof() {
		c.off++
	}
	return b
}

func (c *cursor) skip(n uint32) {
	c.off = min(c.off+n, uint32(len(c.src))) //nolint:gosec // проверено в newCursor
}

func (c *cursor) mark() uint32 { return c.off }

func (c *cursor) rewind(m uint32) { c.off = m }

// span covers everything read since mark m.
func (c *cursor) span(m uint32) source.Span {
	return source.Span{File: c.file, Start: m, End: c.off}
}

// accept consumes bs when the input continues with exactly those bytes.
func (c *cursor) accept(bs ...byte) bool {
	for i, b := range bs {
		if c.at(uint32(i)) != b { //nolint:gosec // операторы короче 4 байт
			return false
		}
	}
	c.skip(uint32(len(bs))) //nolint:gosec
	return true
}

func (c *cursor) peekRune() (rune, int) {
	if c.eof() {
		return utf8.RuneError, 0
	}
	if b := c.peek(); b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.src[c.off:])
}

func (c *cursor) nextRune() {
	_, size := c.peekRune()
	c.skip(uint32(size)) //nolint:gosec // size <= utf8.UTFMax
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b|0x20 >= 'a' && b|0x20 <= 'z')
}

func isIdentContinueByte(b byte) bool { return isIdentStartByte(b) || isDec(b) }

func isIdentStartRune(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isDec(b byte) bool { return '0' <= b && b <= '9' }

func isHex(b byte) bool { return isDec(b) || ('a' <= b|0x20 && b|0x20 <= 'f') }
