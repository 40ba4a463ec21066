package metrics

import (
	"testing"
	"time"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	rows := [][]string{
		{"Accuracy", "97.5%"},
		{"Real accuracy", "8.0%"},
	}
	lines := formatTable(rows, map[int]bool{1: true})
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "Accuracy       97.5%" {
		t.Fatalf("unexpected row line: %q", lines[0])
	}
	if lines[1] != "Real accuracy   8.0%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}

func TestResultLines(t *testing.T) {
	f := Final{
		Elapsed:          12*time.Second + 400*time.Millisecond,
		Chars:            84,
		RealTimeAccuracy: Metric{Value: 1, Valid: true},
		Accuracy:         Metric{Value: 0.964, Valid: true},
		WPM:              Metric{Value: 55.34, Valid: true},
	}
	lines := ResultLines(f)
	want := []string{
		"Took 12s for 84 characters",
		"",
		"Accuracy          96.4%",
		"Real accuracy    100.0%",
		"Speed          55.3 wpm",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestSnapshotLineUndefined(t *testing.T) {
	got := SnapshotLine(Snapshot{})
	if got != "current Accuracy: N/A, current Wpm: N/A" {
		t.Fatalf("unexpected snapshot line: %q", got)
	}
}
