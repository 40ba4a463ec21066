// Package layout packs tokens into centered display lines.
package layout

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/verte-zerg/typlap/internal/translit"
)

// EndOfLine terminates every display line. Typing it advances to the next line.
const EndOfLine = '↵'

// ErrNoText is returned when the source yields no tokens at all.
var ErrNoText = errors.New("no text to lay out")

// TokenSource yields tokens until exhausted.
type TokenSource interface {
	Next() (string, bool)
}

// Pushback is implemented by sources that accept a token back.
// Build uses it to return a token that was read but did not fit.
type Pushback interface {
	Unread(token string)
}

// Transliterator converts a source token into its typed form.
type Transliterator interface {
	Transform(token string) (translit.Result, error)
}

// Anchor is the screen cell where a line starts.
type Anchor struct {
	Col int
	Row int
}

// Line is one laid-out line of text.
type Line struct {
	// Rendered is what the user types, terminated by EndOfLine.
	Rendered []rune
	// Original is the source form, also terminated by EndOfLine.
	Original string
	// Annotation is the original text centered token by token above Rendered.
	// Empty when the line has no transliterated content.
	Annotation string
	Anchor     Anchor
}

// Len returns the rune count of the rendered line, terminator included.
func (l Line) Len() int {
	return len(l.Rendered)
}

// Annotated reports whether the line has an annotation row.
func (l Line) Annotated() bool {
	return l.Annotation != ""
}

// AnnotationRow returns the screen row of the annotation.
func (l Line) AnnotationRow() int {
	return l.Anchor.Row - 1
}

// Bounds limits the layout.
type Bounds struct {
	// Width is the exclusive maximum rendered width of a line.
	Width int
	// MaxLines caps the number of display lines.
	MaxLines int
	// Cols is the viewport width used for centering.
	Cols int
	// Top is the first screen row.
	Top int
}

// BoundsFor derives layout bounds from viewport dimensions.
func BoundsFor(cols, rows int) Bounds {
	lines := rows / 4
	if lines < 1 {
		lines = 1
	}
	top := (rows-lines)/2 - rows/6
	if top < 2 {
		top = 2
	}
	return Bounds{
		Width:    cols / 5 * 3,
		MaxLines: lines,
		Cols:     cols,
		Top:      top,
	}
}

type token struct {
	original string
	rendered string
	weight   int
}

// Build fills up to b.MaxLines lines greedily from src.
func Build(src TokenSource, tr Transliterator, b Bounds) ([]Line, error) {
	var (
		lines     []Line
		carry     *token
		exhausted bool
	)
	next := func() (token, bool, error) {
		if carry != nil {
			tok := *carry
			carry = nil
			return tok, true, nil
		}
		word, ok := src.Next()
		if !ok {
			return token{}, false, nil
		}
		res, err := tr.Transform(word)
		if err != nil {
			return token{}, false, fmt.Errorf("failed to transliterate: %w", err)
		}
		return token{original: word, rendered: res.Rendered, weight: res.Weight}, true, nil
	}

	for len(lines) < b.MaxLines && !exhausted {
		var toks []token
		width := 0
		for {
			tok, ok, err := next()
			if err != nil {
				return nil, err
			}
			if !ok {
				exhausted = true
				break
			}
			n := utf8.RuneCountInString(tok.rendered)
			// An oversized first token still gets a line of its own.
			if len(toks) == 0 || width+n+1 < b.Width {
				toks = append(toks, tok)
				width += n + 1
				continue
			}
			carry = &tok
			break
		}
		if len(toks) == 0 {
			break
		}
		lines = append(lines, newLine(toks))
	}

	if carry != nil {
		if pb, ok := src.(Pushback); ok {
			pb.Unread(carry.original)
		}
	}
	if len(lines) == 0 {
		return nil, ErrNoText
	}
	Reanchor(lines, b.Cols, b.Top)
	return lines, nil
}

func newLine(toks []token) Line {
	rendered := make([]string, len(toks))
	original := make([]string, len(toks))
	for i, tok := range toks {
		rendered[i] = tok.rendered
		original[i] = tok.original
	}
	line := Line{
		Rendered: []rune(strings.Join(rendered, " ") + string(EndOfLine)),
		Original: strings.Join(original, " ") + string(EndOfLine),
	}
	if line.Original != string(line.Rendered) {
		line.Annotation = Align(rendered, original)
	}
	return line
}

// Align centers each original token over its rendered counterpart.
func Align(rendered, original []string) string {
	n := len(rendered)
	if len(original) < n {
		n = len(original)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = Center(rendered[i], original[i])
	}
	return strings.Join(out, " ")
}

// Center pads original with spaces so it sits in the middle of rendered.
// A token already as wide as its rendering is returned unchanged.
func Center(rendered, original string) string {
	length := utf8.RuneCountInString(rendered)
	footprint := utf8.RuneCountInString(original)
	if footprint >= length {
		return original
	}
	left := (length - footprint) / 2
	right := length - footprint - left
	return strings.Repeat(" ", left) + original + strings.Repeat(" ", right)
}

// Reanchor recomputes anchors for a viewport of the given width.
// Annotated lines take an extra row above them.
func Reanchor(lines []Line, cols, top int) {
	row := top
	for i := range lines {
		if lines[i].Annotated() {
			row++
		}
		col := (cols - lines[i].Len()) / 2
		if col < 0 {
			col = 0
		}
		lines[i].Anchor = Anchor{Col: col, Row: row}
		row++
	}
}

// CountRunes returns the total rendered rune count across lines.
func CountRunes(lines []Line) int {
	total := 0
	for _, l := range lines {
		total += l.Len()
	}
	return total
}
