// Package tui provides the Bubble Tea typing session.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/typlap/internal/audio"
	"github.com/verte-zerg/typlap/internal/generator"
	"github.com/verte-zerg/typlap/internal/layout"
	"github.com/verte-zerg/typlap/internal/metrics"
	"github.com/verte-zerg/typlap/internal/typing"
)

const (
	// MinCols is the narrowest usable terminal.
	MinCols = 45
	// MinRows is the shortest usable terminal.
	MinRows = 6

	snapshotInterval = 200 * time.Millisecond
	snapshotRow      = 1
)

// ErrViewportTooSmall is reported while the terminal is below MinCols x MinRows.
var ErrViewportTooSmall = errors.New("terminal too small")

// CheckViewport reports whether a terminal of cols x rows can host a session.
func CheckViewport(cols, rows int) error {
	if cols < MinCols || rows < MinRows {
		return fmt.Errorf("%w: need at least %dx%d, have %dx%d", ErrViewportTooSmall, MinCols, MinRows, cols, rows)
	}
	return nil
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true)
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Copy().Underline(true)
	annotationStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	liveStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#D75FD7"))
	messageStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	resultStyle      = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F0F0F0")).
				Padding(1, 3).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#5FAFD7"))
)

type snapshotTickMsg struct {
	id int
}

// Options configures a session Model.
type Options struct {
	// Words is the vocabulary, already validated for transliteration.
	Words          []string
	Generator      *generator.Generator
	Transliterator layout.Transliterator
	Cue            audio.Cue
	Logger         zerolog.Logger
	// Now overrides the session clock, for tests.
	Now func() time.Time
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	words  []string
	gen    *generator.Generator
	tr     layout.Transliterator
	cue    audio.Cue
	logger zerolog.Logger

	stream  *generator.Stream
	eval    *metrics.Evaluator
	machine *typing.Machine
	final   *metrics.Final

	width    int
	height   int
	tooSmall error
	message  string
	err      error
	tickID   int

	keys keyMap
	help help.Model
}

// NewModel constructs a typing session. Text is laid out on the first
// window size message.
func NewModel(opts Options) *Model {
	cue := opts.Cue
	if cue == nil {
		cue = audio.Nop{}
	}
	eval := metrics.NewEvaluator()
	if opts.Now != nil {
		eval = metrics.NewEvaluatorWithClock(opts.Now)
	}
	m := &Model{
		words:  opts.Words,
		gen:    opts.Generator,
		tr:     opts.Transliterator,
		cue:    cue,
		logger: opts.Logger,
		eval:   eval,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
	m.stream = m.gen.Stream(m.words)
	return m
}

// Err returns the error that ended the session, if any.
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.resize(msg.Width, msg.Height)
	case snapshotTickMsg:
		if msg.id != m.tickID || m.machine == nil || m.machine.State() != typing.Running {
			return m, nil
		}
		return m, m.snapshotTick()
	case tea.KeyMsg:
		var cmds []tea.Cmd
		for _, ev := range m.keys.translateKey(msg) {
			cmd := m.handleKey(ev)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)
	default:
		return m, nil
	}
}

func (m *Model) resize(width, height int) tea.Cmd {
	m.width = width
	m.height = height
	m.help.Width = width
	m.tooSmall = CheckViewport(width, height)
	if m.tooSmall != nil {
		m.logger.Warn().Err(m.tooSmall).Msg("viewport too small")
		return nil
	}
	if m.machine == nil {
		return m.newText()
	}
	b := layout.BoundsFor(width, height)
	layout.Reanchor(m.machine.Lines(), b.Cols, b.Top)
	return nil
}

func (m *Model) handleKey(ev KeyEvent) tea.Cmd {
	if _, ok := ev.(QuitKey); ok {
		return tea.Quit
	}
	if m.tooSmall != nil || m.machine == nil {
		return nil
	}

	var (
		out typing.Outcome
		err error
	)
	switch ev := ev.(type) {
	case NewTextKey:
		return m.newText()
	case RestartKey:
		m.restart()
		return nil
	case CharKey:
		out, err = m.machine.TypeChar(ev.Rune)
	case BackspaceKey:
		out, err = m.machine.Backspace()
	case EnterKey:
		out, err = m.machine.AdvanceLine()
	}

	switch {
	case errors.Is(err, typing.ErrInputMethod):
		m.message = typing.ErrInputMethod.Error()
		m.logger.Debug().Err(err).Msg("rejected keystroke")
		return nil
	case errors.Is(err, typing.ErrCompleted):
		return nil
	case err != nil:
		m.logger.Error().Err(err).Msg("keystroke failed")
		return nil
	}

	if !out.Applied {
		return nil
	}
	m.message = ""
	m.cue.Play()
	if out.Completed {
		m.finish()
		return nil
	}
	if out.Started {
		m.logger.Info().Msg("session started")
		return m.snapshotTick()
	}
	return nil
}

func (m *Model) snapshotTick() tea.Cmd {
	id := m.tickID
	return tea.Tick(snapshotInterval, func(time.Time) tea.Msg {
		return snapshotTickMsg{id: id}
	})
}

func (m *Model) newText() tea.Cmd {
	b := layout.BoundsFor(m.width, m.height)
	lines, err := layout.Build(m.stream, m.tr, b)
	if errors.Is(err, layout.ErrNoText) {
		// The shuffled vocabulary ran dry: reshuffle.
		m.stream = m.gen.Stream(m.words)
		lines, err = layout.Build(m.stream, m.tr, b)
	}
	if err != nil {
		m.err = fmt.Errorf("failed to lay out text: %w", err)
		m.logger.Error().Err(err).Msg("layout failed")
		return tea.Quit
	}
	m.machine = typing.New(lines, m.eval)
	m.resetSession()
	m.logger.Debug().Int("lines", len(lines)).Int("chars", layout.CountRunes(lines)).Msg("new text")
	return nil
}

func (m *Model) restart() {
	m.machine.Restart()
	m.resetSession()
	m.logger.Debug().Msg("restart")
}

func (m *Model) resetSession() {
	m.eval.Reset()
	m.eval.ResetClock()
	m.final = nil
	m.message = ""
	// Orphan any running snapshot tick.
	m.tickID++
}

func (m *Model) finish() {
	final := m.eval.Finalize(m.eval.Elapsed(), layout.CountRunes(m.machine.Lines()))
	m.final = &final
	m.tickID++
	m.logger.Info().
		Dur("elapsed", final.Elapsed).
		Str("accuracy", final.Accuracy.Percent()).
		Str("real_accuracy", final.RealTimeAccuracy.Percent()).
		Str("wpm", final.WPM.String()).
		Msg("session completed")
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 || m.err != nil {
		return ""
	}
	if m.tooSmall != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, messageStyle.Render(m.tooSmall.Error()))
	}
	if m.machine == nil {
		return ""
	}
	if m.final != nil {
		return m.renderResult()
	}

	c := newCanvas(m.width, m.height)
	if m.machine.State() != typing.NotStarted {
		c.center(snapshotRow, liveStyle.Render(metrics.SnapshotLine(m.eval.Snapshot(m.eval.Elapsed()))))
	}
	cursor := m.machine.Cursor()
	for i, line := range m.machine.Lines() {
		if line.Annotated() {
			c.put(line.Anchor.Col, line.AnnotationRow(), annotationStyle.Render(clip(line.Annotation, line.Anchor.Col, m.width)))
		}
		cursorIndex := -1
		if i == cursor.Line && cursor.Offset < line.Len() {
			cursorIndex = cursor.Offset
		}
		styled := buildStyledRunes(line.Rendered, m.machine.Input(i), cursorIndex)
		c.put(line.Anchor.Col, line.Anchor.Row, strings.Join(styled, ""))
	}
	if m.message != "" {
		c.center(m.height-2, messageStyle.Render(m.message))
	}
	c.center(m.height-1, m.renderFooter())
	return c.String()
}

func (m *Model) renderResult() string {
	content := resultStyle.Render(strings.Join(metrics.ResultLines(*m.final), "\n"))
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footer := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.renderFooter())
	return body + "\n" + footer
}

func (m *Model) renderFooter() string {
	return m.help.View(m.keys)
}
