package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typlap/internal/generator"
	"github.com/verte-zerg/typlap/internal/layout"
	"github.com/verte-zerg/typlap/internal/metrics"
	"github.com/verte-zerg/typlap/internal/translit"
	"github.com/verte-zerg/typlap/internal/typing"
)

type countingCue struct {
	plays int
}

func (c *countingCue) Play() { c.plays++ }

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

type harness struct {
	m     *Model
	cue   *countingCue
	clock *testClock
}

func newHarness(t *testing.T, tr layout.Transliterator, words ...string) *harness {
	t.Helper()
	h := &harness{cue: &countingCue{}, clock: &testClock{t: time.Unix(0, 0)}}
	h.m = NewModel(Options{
		Words:          words,
		Generator:      generator.NewSeeded(1),
		Transliterator: tr,
		Cue:            h.cue,
		Logger:         zerolog.Nop(),
		Now:            h.clock.now,
	})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.m.Update(msg)
	return cmd
}

func (h *harness) typeRune(r rune) tea.Cmd {
	if r == ' ' {
		return h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	}
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (h *harness) typeLine(i int) {
	line := h.m.machine.Lines()[i]
	for _, r := range line.Rendered[:line.Len()-1] {
		h.typeRune(r)
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestSessionCompletes(t *testing.T) {
	h := newHarness(t, translit.New(), "ab", "cd")
	h.send(tea.WindowSizeMsg{Width: 80, Height: 24})
	require.NotNil(t, h.m.machine)
	require.Len(t, h.m.machine.Lines(), 1)

	h.typeLine(0)
	assert.Equal(t, typing.Running, h.m.machine.State())
	h.clock.t = h.clock.t.Add(6 * time.Second)
	h.send(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, h.m.final)
	assert.Equal(t, typing.Completed, h.m.machine.State())
	assert.Equal(t, 6, h.cue.plays)
	assert.Equal(t, 6, h.m.final.Chars)
	assert.Equal(t, 6*time.Second, h.m.final.Elapsed)
	assert.InDelta(t, 1.0, h.m.final.Accuracy.Value, 1e-9)
	assert.InDelta(t, 1.0, h.m.final.RealTimeAccuracy.Value, 1e-9)

	view := h.m.View()
	assert.Contains(t, view, "Took 6s for 6 characters")
	assert.Contains(t, view, "100.0%")

	// Further typing is ignored once complete.
	h.typeRune('a')
	assert.Equal(t, 6, h.cue.plays)
	assert.Equal(t, 6, h.m.eval.Counters().TotalTyped)
}

func TestLiveSnapshotShownAfterFirstKey(t *testing.T) {
	h := newHarness(t, translit.New(), "ab", "cd")
	h.send(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.NotContains(t, h.m.View(), "current Accuracy")

	cmd := h.typeRune('z')
	require.NotNil(t, cmd, "first keystroke schedules a snapshot tick")
	assert.Contains(t, h.m.View(), "current Accuracy: 0.0%")

	assert.NotNil(t, h.send(snapshotTickMsg{id: h.m.tickID}))
	assert.Nil(t, h.send(snapshotTickMsg{id: h.m.tickID - 1}), "stale ticks are dropped")
}

func TestInputMethodMessage(t *testing.T) {
	h := newHarness(t, translit.New(), "ab", "cd")
	h.send(tea.WindowSizeMsg{Width: 80, Height: 24})

	h.typeRune('中')
	assert.Equal(t, typing.ErrInputMethod.Error(), h.m.message)
	assert.Contains(t, h.m.View(), "pinyin")
	assert.Equal(t, typing.NotStarted, h.m.machine.State())
	assert.Zero(t, h.cue.plays)

	first := h.m.machine.Lines()[0].Rendered[0]
	h.typeRune(first)
	assert.Empty(t, h.m.message)
}

func TestRestartKeepsText(t *testing.T) {
	h := newHarness(t, translit.New(), "ab", "cd")
	h.send(tea.WindowSizeMsg{Width: 80, Height: 24})
	lines := h.m.machine.Lines()

	h.typeRune('x')
	h.send(tea.KeyMsg{Type: tea.KeyBackspace})
	h.typeRune('y')
	h.send(tea.KeyMsg{Type: tea.KeyCtrlR})

	assert.Equal(t, lines, h.m.machine.Lines())
	assert.Equal(t, typing.NotStarted, h.m.machine.State())
	assert.Equal(t, metrics.Counters{}, h.m.eval.Counters())
	assert.Zero(t, h.m.eval.Elapsed())
}

func TestNewTextReshufflesWhenExhausted(t *testing.T) {
	h := newHarness(t, translit.New(), "ab", "cd")
	h.send(tea.WindowSizeMsg{Width: 80, Height: 24})
	before := h.m.machine

	h.typeRune('a')
	h.send(tea.KeyMsg{Type: tea.KeyCtrlN})

	require.NotSame(t, before, h.m.machine)
	require.Len(t, h.m.machine.Lines(), 1)
	assert.Equal(t, 6, h.m.machine.Lines()[0].Len())
	assert.Equal(t, metrics.Counters{}, h.m.eval.Counters())
	assert.NoError(t, h.m.Err())
}

func TestViewportTooSmall(t *testing.T) {
	h := newHarness(t, translit.New(), "ab", "cd")
	h.send(tea.WindowSizeMsg{Width: 40, Height: 5})
	assert.ErrorIs(t, h.m.tooSmall, ErrViewportTooSmall)
	assert.Nil(t, h.m.machine)
	assert.Contains(t, h.m.View(), "terminal too small")

	h.typeRune('a')
	assert.Zero(t, h.cue.plays)

	h.send(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.NoError(t, h.m.tooSmall)
	require.NotNil(t, h.m.machine)
}

func TestResizeReanchors(t *testing.T) {
	h := newHarness(t, translit.New(), "ab", "cd")
	h.send(tea.WindowSizeMsg{Width: 80, Height: 24})
	h.typeRune('a')
	h.send(tea.WindowSizeMsg{Width: 100, Height: 24})

	line := h.m.machine.Lines()[0]
	assert.Equal(t, (100-6)/2, line.Anchor.Col)
	assert.Equal(t, 1, h.m.machine.Cursor().Offset, "resize keeps progress")
}

func TestQuit(t *testing.T) {
	h := newHarness(t, translit.New(), "ab")
	assert.True(t, isQuit(h.send(tea.KeyMsg{Type: tea.KeyEsc})))
	assert.True(t, isQuit(h.send(tea.KeyMsg{Type: tea.KeyCtrlC})))
}

func TestLayoutFailureQuits(t *testing.T) {
	none := translit.NewWithLookup(func(rune) (string, bool) { return "", false })
	h := newHarness(t, none, "测")
	cmd := h.send(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.True(t, isQuit(cmd))
	assert.ErrorIs(t, h.m.Err(), translit.ErrEncoding)
	assert.Empty(t, h.m.View())
}

func TestAnnotationRendered(t *testing.T) {
	h := newHarness(t, translit.New(), "中文")
	h.send(tea.WindowSizeMsg{Width: 80, Height: 24})
	line := h.m.machine.Lines()[0]
	require.True(t, line.Annotated())
	assert.Contains(t, h.m.View(), "中文")
	assert.Contains(t, h.m.View(), "zhongwen")
}

func TestTranslateKey(t *testing.T) {
	k := defaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want []KeyEvent
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")}, []KeyEvent{CharKey{Rune: 'a'}, CharKey{Rune: 'b'}}},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, []KeyEvent{CharKey{Rune: ' '}}},
		{tea.KeyMsg{Type: tea.KeyBackspace}, []KeyEvent{BackspaceKey{}}},
		{tea.KeyMsg{Type: tea.KeyEnter}, []KeyEvent{EnterKey{}}},
		{tea.KeyMsg{Type: tea.KeyCtrlN}, []KeyEvent{NewTextKey{}}},
		{tea.KeyMsg{Type: tea.KeyCtrlR}, []KeyEvent{RestartKey{}}},
		{tea.KeyMsg{Type: tea.KeyEsc}, []KeyEvent{QuitKey{}}},
		{tea.KeyMsg{Type: tea.KeyTab}, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, k.translateKey(tt.msg), tt.msg.String())
	}
}

func TestCheckViewport(t *testing.T) {
	assert.NoError(t, CheckViewport(MinCols, MinRows))
	assert.ErrorIs(t, CheckViewport(MinCols-1, MinRows), ErrViewportTooSmall)
	assert.ErrorIs(t, CheckViewport(MinCols, MinRows-1), ErrViewportTooSmall)
}
