package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/osa030/pobre/internal/app/shell"
)

type keyMap struct {
	// Player
	PlayPause   key.Binding
	AddTime     key.Binding
	MarkLeft    key.Binding
	MarkRight   key.Binding
	SeekBack    key.Binding
	SeekForward key.Binding
	VolumeUp    key.Binding
	VolumeDown  key.Binding
	Open        key.Binding
	Highlight   key.Binding
	About       key.Binding
	Help        key.Binding
	Quit        key.Binding

	// Highlight tool
	AddRow    key.Binding
	PlayAll   key.Binding
	Stop      key.Binding
	Next      key.Binding
	Prev      key.Binding
	Edit      key.Binding
	Toggle    key.Binding
	Save      key.Binding
	CloseTool key.Binding

	toolOpen bool
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		AddTime:     key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("s", "add time")),
		MarkLeft:    key.NewBinding(key.WithKeys("l", "L"), key.WithHelp("l", "last=left")),
		MarkRight:   key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "last=right")),
		SeekBack:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "-3s")),
		SeekForward: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "+3s")),
		VolumeUp:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "vol+")),
		VolumeDown:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "vol-")),
		Open:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open file")),
		Highlight:   key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "highlight csv")),
		About:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "about")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		AddRow:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add row")),
		PlayAll:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play all")),
		Stop:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Next:      key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "next row")),
		Prev:      key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "prev row")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit time")),
		Toggle:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle side")),
		Save:      key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save csv")),
		CloseTool: key.NewBinding(key.WithKeys("c", "esc"), key.WithHelp("c", "close tool")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	if k.toolOpen {
		return []key.Binding{k.AddTime, k.MarkLeft, k.MarkRight, k.PlayAll, k.Save, k.Help, k.Quit}
	}
	return []key.Binding{k.PlayPause, k.SeekBack, k.SeekForward, k.Highlight, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	groups := [][]key.Binding{
		{k.PlayPause, k.SeekBack, k.SeekForward, k.VolumeUp, k.VolumeDown},
		{k.AddTime, k.MarkLeft, k.MarkRight, k.Highlight},
		{k.Open, k.About, k.Help, k.Quit},
	}
	if k.toolOpen {
		groups = append(groups,
			[]key.Binding{k.AddRow, k.Next, k.Prev, k.Edit, k.Toggle},
			[]key.Binding{k.PlayAll, k.Stop, k.Save, k.CloseTool},
		)
	}
	return groups
}

// shellKey maps a key press to a player shortcut.
func (k keyMap) shellKey(msg tea.KeyMsg) shell.Key {
	switch {
	case key.Matches(msg, k.PlayPause):
		return shell.KeySpace
	case key.Matches(msg, k.AddTime):
		return shell.KeyS
	case key.Matches(msg, k.MarkLeft):
		return shell.KeyL
	case key.Matches(msg, k.MarkRight):
		return shell.KeyR
	case key.Matches(msg, k.SeekBack):
		return shell.KeyLeft
	case key.Matches(msg, k.SeekForward):
		return shell.KeyRight
	case key.Matches(msg, k.VolumeUp):
		return shell.KeyUp
	case key.Matches(msg, k.VolumeDown):
		return shell.KeyDown
	}
	return shell.KeyUnknown
}
