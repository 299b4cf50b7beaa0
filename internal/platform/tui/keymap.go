package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tankduel/internal/core"
)

// PlayerKeys are the held keys of one player.
type PlayerKeys struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Fire  key.Binding
}

// KeyMap defines the key bindings for a hotseat duel.
type KeyMap struct {
	Player1 PlayerKeys
	Player2 PlayerKeys
	Pause   key.Binding
	NewGame key.Binding
	Save    key.Binding
	Load    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.NewGame, k.Save, k.Load, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Player1.Up, k.Player1.Down, k.Player1.Left, k.Player1.Right, k.Player1.Fire},
		{k.Player2.Up, k.Player2.Down, k.Player2.Left, k.Player2.Right, k.Player2.Fire},
		{k.Pause, k.NewGame, k.Save, k.Load, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the standard bindings: red drives with the
// arrow keys, cyan with WASD.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Player1: PlayerKeys{
			Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "red up")),
			Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "red down")),
			Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "red left")),
			Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "red right")),
			Fire:  key.NewBinding(key.WithKeys("0", "enter"), key.WithHelp("0/enter", "red fire")),
		},
		Player2: PlayerKeys{
			Up:    key.NewBinding(key.WithKeys("w", "W"), key.WithHelp("w", "cyan up")),
			Down:  key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("s", "cyan down")),
			Left:  key.NewBinding(key.WithKeys("a", "A"), key.WithHelp("a", "cyan left")),
			Right: key.NewBinding(key.WithKeys("d", "D"), key.WithHelp("d", "cyan right")),
			Fire:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "cyan fire")),
		},
		Pause: key.NewBinding(
			key.WithKeys("p", "P", "esc"),
			key.WithHelp("p", "pause"),
		),
		NewGame: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "new game"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("^s", "save"),
		),
		Load: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("^l", "load"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Resolve translates a key to a player's held action. Keys bound to
// session commands return ActionPause, ActionRestart, ActionSave,
// ActionLoad, ActionHelp or ActionQuit with a zero player.
func (k KeyMap) Resolve(msg tea.KeyMsg) (core.PlayerID, core.Action) {
	switch {
	case key.Matches(msg, k.Quit):
		return 0, core.ActionQuit
	case key.Matches(msg, k.Pause):
		return 0, core.ActionPause
	case key.Matches(msg, k.NewGame):
		return 0, core.ActionRestart
	case key.Matches(msg, k.Save):
		return 0, core.ActionSave
	case key.Matches(msg, k.Load):
		return 0, core.ActionLoad
	case key.Matches(msg, k.Help):
		return 0, core.ActionHelp
	}

	for _, p := range core.Players {
		if a := k.player(p).resolve(msg); a != core.ActionNone {
			return p, a
		}
	}
	return 0, core.ActionNone
}

func (k KeyMap) player(p core.PlayerID) PlayerKeys {
	if p == core.Player2 {
		return k.Player2
	}
	return k.Player1
}

func (pk PlayerKeys) resolve(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, pk.Up):
		return core.ActionUp
	case key.Matches(msg, pk.Down):
		return core.ActionDown
	case key.Matches(msg, pk.Left):
		return core.ActionLeft
	case key.Matches(msg, pk.Right):
		return core.ActionRight
	case key.Matches(msg, pk.Fire):
		return core.ActionFire
	}
	return core.ActionNone
}
