package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// ResultLines formats a completed session as a headline and an aligned
// label/value table.
func ResultLines(f Final) []string {
	headline := fmt.Sprintf("Took %ds for %d characters", int(f.Elapsed/time.Second), f.Chars)
	rows := [][]string{
		{"Accuracy", f.Accuracy.Percent()},
		{"Real accuracy", f.RealTimeAccuracy.Percent()},
		{"Speed", f.WPM.String() + " wpm"},
	}
	lines := []string{headline, ""}
	return append(lines, formatTable(rows, map[int]bool{1: true})...)
}

// SnapshotLine formats the live metrics line.
func SnapshotLine(s Snapshot) string {
	return fmt.Sprintf("current Accuracy: %s, current Wpm: %s", s.RealTimeAccuracy.Percent(), s.RealTimeWPM)
}

func formatTable(rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := runewidth.StringWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}
