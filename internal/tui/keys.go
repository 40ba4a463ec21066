package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyEvent is one of CharKey, BackspaceKey, EnterKey, NewTextKey, RestartKey
// or QuitKey.
type KeyEvent interface {
	isKeyEvent()
}

// CharKey is a printable character.
type CharKey struct {
	Rune rune
}

// BackspaceKey deletes the previous character.
type BackspaceKey struct{}

// EnterKey types the end of a line.
type EnterKey struct{}

// NewTextKey lays out a fresh text.
type NewTextKey struct{}

// RestartKey restarts the current text.
type RestartKey struct{}

// QuitKey leaves the program.
type QuitKey struct{}

func (CharKey) isKeyEvent()      {}
func (BackspaceKey) isKeyEvent() {}
func (EnterKey) isKeyEvent()     {}
func (NewTextKey) isKeyEvent()   {}
func (RestartKey) isKeyEvent()   {}
func (QuitKey) isKeyEvent()      {}

type keyMap struct {
	Restart   key.Binding
	NewText   key.Binding
	Quit      key.Binding
	Backspace key.Binding
	Enter     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Restart:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl-r", "restart")),
		NewText:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl-n", "next")),
		Quit:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("ESC", "quit")),
		Backspace: key.NewBinding(key.WithKeys("backspace", "delete")),
		Enter:     key.NewBinding(key.WithKeys("enter")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.NewText, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// translateKey maps a terminal key message to key events. Pasted text
// arrives as several runes and yields one CharKey each.
func (k keyMap) translateKey(msg tea.KeyMsg) []KeyEvent {
	switch {
	case key.Matches(msg, k.Quit):
		return []KeyEvent{QuitKey{}}
	case key.Matches(msg, k.Restart):
		return []KeyEvent{RestartKey{}}
	case key.Matches(msg, k.NewText):
		return []KeyEvent{NewTextKey{}}
	case key.Matches(msg, k.Backspace):
		return []KeyEvent{BackspaceKey{}}
	case key.Matches(msg, k.Enter):
		return []KeyEvent{EnterKey{}}
	}
	switch msg.Type {
	case tea.KeySpace:
		return []KeyEvent{CharKey{Rune: ' '}}
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		events := make([]KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, CharKey{Rune: r})
		}
		return events
	}
	return nil
}
