// Package metrics tracks keystroke counters and derives accuracy and speed.
package metrics

import (
	"errors"
	"fmt"
	"time"
)

// ErrDivisionUndefined is returned when a metric has a zero denominator.
var ErrDivisionUndefined = errors.New("metric undefined: nothing typed yet")

// Event is a correctness event emitted per keystroke.
type Event int

const (
	Correct Event = iota
	Incorrect
	// UndoCorrect reverses a Correct tally removed by backspace.
	UndoCorrect
	// UndoIncorrect reverses an Incorrect tally removed by backspace.
	UndoIncorrect
)

// Undo returns the event that reverses a keystroke of the given correctness.
func Undo(wasCorrect bool) Event {
	if wasCorrect {
		return UndoCorrect
	}
	return UndoIncorrect
}

func (e Event) String() string {
	switch e {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case UndoCorrect:
		return "undo-correct"
	case UndoIncorrect:
		return "undo-incorrect"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Counters are the session tallies.
//
// TotalTyped and TotalErrors count every keystroke ever made in the session
// and never decrease. FinalCorrect and FinalErrors describe what is currently
// committed on screen and follow backspace.
type Counters struct {
	TotalTyped   int
	TotalErrors  int
	FinalCorrect int
	FinalErrors  int
}

// Committed returns the number of keystrokes currently on screen.
func (c Counters) Committed() int {
	return c.FinalCorrect + c.FinalErrors
}

// Metric is a value that may be undefined.
type Metric struct {
	Value float64
	Valid bool
}

func metricOf(v float64, err error) Metric {
	if err != nil {
		return Metric{}
	}
	return Metric{Value: v, Valid: true}
}

// Percent formats the metric as a percentage, or N/A.
func (m Metric) Percent() string {
	if !m.Valid {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", m.Value*100)
}

// String formats the metric with one decimal, or N/A.
func (m Metric) String() string {
	if !m.Valid {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", m.Value)
}

// Snapshot is the live view shown while typing.
type Snapshot struct {
	RealTimeAccuracy Metric
	RealTimeWPM      Metric
}

// Final is the result view shown on completion.
type Final struct {
	Elapsed          time.Duration
	Chars            int
	RealTimeAccuracy Metric
	Accuracy         Metric
	WPM              Metric
}

// Evaluator owns the session counters and clock.
type Evaluator struct {
	counters  Counters
	now       func() time.Time
	startedAt time.Time
	stoppedAt time.Time
}

// NewEvaluator returns an Evaluator using the wall clock.
func NewEvaluator() *Evaluator {
	return NewEvaluatorWithClock(time.Now)
}

// NewEvaluatorWithClock returns an Evaluator reading time from now.
func NewEvaluatorWithClock(now func() time.Time) *Evaluator {
	return &Evaluator{now: now}
}

// Record applies a correctness event to the counters.
func (e *Evaluator) Record(ev Event) {
	switch ev {
	case Correct:
		e.counters.TotalTyped++
		e.counters.FinalCorrect++
	case Incorrect:
		e.counters.TotalTyped++
		e.counters.TotalErrors++
		e.counters.FinalErrors++
	case UndoCorrect:
		if e.counters.FinalCorrect > 0 {
			e.counters.FinalCorrect--
		}
	case UndoIncorrect:
		if e.counters.FinalErrors > 0 {
			e.counters.FinalErrors--
		}
	}
}

// Counters returns a copy of the current counters.
func (e *Evaluator) Counters() Counters {
	return e.counters
}

// Reset clears the counters. The clock is left alone.
func (e *Evaluator) Reset() {
	e.counters = Counters{}
}

// Start starts the session clock.
func (e *Evaluator) Start() {
	e.startedAt = e.now()
	e.stoppedAt = time.Time{}
}

// Stop freezes the session clock.
func (e *Evaluator) Stop() {
	if e.startedAt.IsZero() || !e.stoppedAt.IsZero() {
		return
	}
	e.stoppedAt = e.now()
}

// ResetClock returns the clock to its not-started state.
func (e *Evaluator) ResetClock() {
	e.startedAt = time.Time{}
	e.stoppedAt = time.Time{}
}

// Running reports whether the clock has started and not stopped.
func (e *Evaluator) Running() bool {
	return !e.startedAt.IsZero() && e.stoppedAt.IsZero()
}

// Elapsed returns the session duration so far without stopping the clock.
func (e *Evaluator) Elapsed() time.Duration {
	if e.startedAt.IsZero() {
		return 0
	}
	end := e.stoppedAt
	if end.IsZero() {
		end = e.now()
	}
	return end.Sub(e.startedAt)
}

// Accuracy is the share of all keystrokes that were correct when made.
func (e *Evaluator) Accuracy() (float64, error) {
	if e.counters.TotalTyped == 0 {
		return 0, ErrDivisionUndefined
	}
	return float64(e.counters.TotalTyped-e.counters.TotalErrors) / float64(e.counters.TotalTyped), nil
}

// RealTimeAccuracy is the share of currently committed keystrokes that are correct.
func (e *Evaluator) RealTimeAccuracy() (float64, error) {
	den := e.counters.Committed()
	if den == 0 {
		return 0, ErrDivisionUndefined
	}
	return float64(e.counters.FinalCorrect) / float64(den), nil
}

// WPM is the net speed over all keystrokes.
func (e *Evaluator) WPM(elapsed time.Duration) (float64, error) {
	return netWPM(e.counters.TotalTyped, e.counters.TotalErrors, elapsed)
}

// RealTimeWPM is the net speed over the committed keystrokes.
func (e *Evaluator) RealTimeWPM(elapsed time.Duration) (float64, error) {
	return netWPM(e.counters.FinalCorrect, e.counters.FinalErrors, elapsed)
}

func netWPM(chars, errs int, elapsed time.Duration) (float64, error) {
	minutes := elapsed.Minutes()
	if minutes <= 0 {
		return 0, ErrDivisionUndefined
	}
	words := float64(chars)/5.0 - float64(errs)
	if words < 0 {
		words = 0
	}
	return words / minutes, nil
}

// Snapshot returns the live metrics.
func (e *Evaluator) Snapshot(elapsed time.Duration) Snapshot {
	return Snapshot{
		RealTimeAccuracy: metricOf(e.RealTimeAccuracy()),
		RealTimeWPM:      metricOf(e.RealTimeWPM(elapsed)),
	}
}

// Finalize returns the result metrics for a completed session of chars runes.
func (e *Evaluator) Finalize(elapsed time.Duration, chars int) Final {
	return Final{
		Elapsed:          elapsed,
		Chars:            chars,
		RealTimeAccuracy: metricOf(e.RealTimeAccuracy()),
		Accuracy:         metricOf(e.Accuracy()),
		WPM:              metricOf(e.WPM(elapsed)),
	}
}
