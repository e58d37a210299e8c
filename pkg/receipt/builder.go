package receipt

import (
	"strings"
	"unicode/utf8"
)

// DefaultWidth is the receipt line width in characters when none is requested.
const DefaultWidth = 40

// valueColumn is the width of the right-aligned amount column.
const valueColumn = 10

// Builder assembles a fixed-width plain-text receipt line by line.
type Builder struct {
	sb    strings.Builder
	width int
}

// NewBuilder creates a receipt builder with the given character width.
func NewBuilder(width int) *Builder {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Builder{width: width}
}

// Width returns the configured line width.
func (b *Builder) Width() int {
	return b.width
}

// Line writes a raw line.
func (b *Builder) Line(s string) *Builder {
	b.sb.WriteString(s)
	b.sb.WriteByte('\n')
	return b
}

// Center writes a line centered within the receipt width.
func (b *Builder) Center(s string) *Builder {
	return b.Line(center(s, b.width))
}

// Divider writes a full-width divider line, e.g. "========" or "--------".
func (b *Builder) Divider(char byte) *Builder {
	return b.Line(strings.Repeat(string(char), b.width))
}

// Row writes a left-aligned label against a right-aligned value.
// The value occupies the last valueColumn characters of the line.
func (b *Builder) Row(left, value string) *Builder {
	return b.Line(padRight(left, b.width-valueColumn) + padLeft(value, valueColumn))
}

// String returns the accumulated receipt text without a trailing newline.
func (b *Builder) String() string {
	return strings.TrimSuffix(b.sb.String(), "\n")
}

// Padding is rune-aware so non-ASCII names keep the columns aligned.

func padRight(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}

func padLeft(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	return strings.Repeat(" ", n) + s
}

func center(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	left := n / 2
	return strings.Repeat(" ", left) + s
}
