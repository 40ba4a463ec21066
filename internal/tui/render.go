package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typlap/internal/layout"
)

func isSeparator(r rune) bool {
	return r == ' ' || r == layout.EndOfLine
}

// buildStyledRunes styles one display line. Typed runes show the expected
// rune colored by correctness; cursorIndex < 0 hides the cursor.
func buildStyledRunes(targetRunes, inputRunes []rune, cursorIndex int) []string {
	words := findWords(targetRunes)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]string, 0, len(targetRunes))
	for i, target := range targetRunes {
		displayed := target
		style := pendingStyle
		typed := i < len(inputRunes)
		if typed {
			switch {
			case target == ' ' && inputRunes[i] != ' ':
				displayed = '•'
				style = incorrectStyle
			case inputRunes[i] == target:
				style = correctStyle
			default:
				style = incorrectStyle
			}
		} else if !isSeparator(target) {
			if currentWord != nil && i >= currentWord.start && i < currentWord.end {
				style = currentWordStyle
			}
		}
		if i == cursorIndex && !typed {
			style = style.Underline(true)
		}
		out = append(out, style.Render(string(displayed)))
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(targetRunes []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range targetRunes {
		if isSeparator(r) {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(targetRunes)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return nil
}

// canvas is a fixed-size screen addressed by row.
type canvas struct {
	width int
	rows  []string
}

func newCanvas(width, height int) *canvas {
	return &canvas{width: width, rows: make([]string, height)}
}

// put places pre-rendered content at a column. Rows outside the canvas are dropped.
func (c *canvas) put(col, row int, content string) {
	if row < 0 || row >= len(c.rows) {
		return
	}
	if col < 0 {
		col = 0
	}
	c.rows[row] = strings.Repeat(" ", col) + content
}

// center places content horizontally centered on a row.
func (c *canvas) center(row int, content string) {
	if row < 0 || row >= len(c.rows) {
		return
	}
	c.rows[row] = lipgloss.PlaceHorizontal(c.width, lipgloss.Center, content)
}

func (c *canvas) String() string {
	return strings.Join(c.rows, "\n")
}

// clip truncates text containing wide glyphs to the columns left after col.
func clip(text string, col, width int) string {
	avail := width - col
	if avail <= 0 {
		return ""
	}
	return runewidth.Truncate(text, avail, "")
}
