// Package typing implements the per-keystroke input state machine.
package typing

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/typlap/internal/layout"
	"github.com/verte-zerg/typlap/internal/metrics"
	"github.com/verte-zerg/typlap/internal/translit"
)

var (
	// ErrInputMethod is returned when a source glyph is typed instead of its
	// transliteration, usually because a Chinese input method is active.
	ErrInputMethod = errors.New("turn off the Chinese input method and type the pinyin")
	// ErrCompleted is returned for mutations after the text is finished.
	ErrCompleted = errors.New("session completed")
)

// State is the session state.
type State int

const (
	NotStarted State = iota
	Running
	Completed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Recorder receives correctness events and drives the session clock.
// *metrics.Evaluator satisfies it.
type Recorder interface {
	Record(metrics.Event)
	Start()
	Stop()
}

// Cursor is a position within the laid-out text.
type Cursor struct {
	Line   int
	Offset int
}

// Outcome describes the effect of a keystroke.
type Outcome struct {
	// Applied is false when the keystroke had no effect.
	Applied bool
	// Correct is set for applied keystrokes that matched the expected rune.
	Correct bool
	// Started is set on the keystroke that started the session.
	Started bool
	// Completed is set on the keystroke that finished the text.
	Completed bool
}

// Machine matches keystrokes against laid-out lines.
type Machine struct {
	lines   []layout.Line
	buffers [][]rune
	cursor  Cursor
	state   State
	rec     Recorder
}

// New returns a Machine for lines reporting to rec.
func New(lines []layout.Line, rec Recorder) *Machine {
	m := &Machine{lines: lines, rec: rec}
	m.Restart()
	return m
}

// Restart clears cursor, buffers and state, keeping the text.
func (m *Machine) Restart() {
	m.buffers = make([][]rune, len(m.lines))
	m.cursor = Cursor{}
	m.state = NotStarted
}

// Lines returns the laid-out text.
func (m *Machine) Lines() []layout.Line {
	return m.lines
}

// Cursor returns the current cursor.
func (m *Machine) Cursor() Cursor {
	return m.cursor
}

// State returns the session state.
func (m *Machine) State() State {
	return m.state
}

// Input returns the typed runes of line i.
func (m *Machine) Input(i int) []rune {
	if i < 0 || i >= len(m.buffers) {
		return nil
	}
	return m.buffers[i]
}

// Committed returns the number of typed runes across all lines.
func (m *Machine) Committed() int {
	total := 0
	for _, b := range m.buffers {
		total += len(b)
	}
	return total
}

// TypeChar matches r against the rune under the cursor.
func (m *Machine) TypeChar(r rune) (Outcome, error) {
	if m.state == Completed {
		return Outcome{}, ErrCompleted
	}
	if translit.Classify(r) != translit.Plain {
		return Outcome{}, fmt.Errorf("%w: got %q", ErrInputMethod, r)
	}
	return m.typeRune(r), nil
}

func (m *Machine) typeRune(r rune) Outcome {
	line := m.lines[m.cursor.Line]
	if m.cursor.Offset >= line.Len() {
		return Outcome{}
	}
	out := Outcome{Applied: true}
	if m.state == NotStarted {
		m.state = Running
		m.rec.Start()
		out.Started = true
	}
	out.Correct = line.Rendered[m.cursor.Offset] == r
	m.buffers[m.cursor.Line] = append(m.buffers[m.cursor.Line], r)
	m.cursor.Offset++
	if out.Correct {
		m.rec.Record(metrics.Correct)
	} else {
		m.rec.Record(metrics.Incorrect)
	}
	return out
}

// Backspace removes the last typed rune of the current line. At the start of
// a line it moves the cursor to the end of the previous line without
// touching what was typed there.
func (m *Machine) Backspace() (Outcome, error) {
	if m.state == Completed {
		return Outcome{}, ErrCompleted
	}
	if m.cursor.Offset > 0 {
		buf := m.buffers[m.cursor.Line]
		typed := buf[len(buf)-1]
		m.buffers[m.cursor.Line] = buf[:len(buf)-1]
		m.cursor.Offset--
		wasCorrect := m.lines[m.cursor.Line].Rendered[m.cursor.Offset] == typed
		m.rec.Record(metrics.Undo(wasCorrect))
		return Outcome{Applied: true, Correct: wasCorrect}, nil
	}
	if m.cursor.Line > 0 {
		m.cursor.Line--
		m.cursor.Offset = m.lines[m.cursor.Line].Len()
		return Outcome{Applied: true}, nil
	}
	return Outcome{}, nil
}

// AdvanceLine types the line terminator. A correct terminator moves to the
// next line; on the last line it completes the session.
func (m *Machine) AdvanceLine() (Outcome, error) {
	if m.state == Completed {
		return Outcome{}, ErrCompleted
	}
	line := m.lines[m.cursor.Line]
	last := m.cursor.Line == len(m.lines)-1
	atTerminator := m.cursor.Offset == line.Len()-1

	if m.cursor.Offset == line.Len() {
		// Only reachable by backspacing across a boundary: the line was
		// already finished, so step forward again.
		if !last && m.lineFinished(m.cursor.Line) {
			m.cursor = Cursor{Line: m.cursor.Line + 1}
			return Outcome{Applied: true, Correct: true}, nil
		}
		return Outcome{}, nil
	}

	out := m.typeRune(layout.EndOfLine)
	if !out.Correct {
		return out, nil
	}
	if !last {
		m.cursor = Cursor{Line: m.cursor.Line + 1}
		return out, nil
	}
	if atTerminator {
		m.state = Completed
		m.rec.Stop()
		out.Completed = true
	}
	return out, nil
}

func (m *Machine) lineFinished(i int) bool {
	buf := m.buffers[i]
	return len(buf) == m.lines[i].Len() && buf[len(buf)-1] == layout.EndOfLine
}
