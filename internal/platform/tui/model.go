package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tankduel/internal/core"
	"github.com/vovakirdan/tankduel/internal/games/tanks"
	"github.com/vovakirdan/tankduel/internal/loop"
)

// loadTimeout bounds how long a load waits for the loop to apply it.
const loadTimeout = 2 * time.Second

// Controller is the part of the loop runner the model drives.
type Controller interface {
	Press(p core.PlayerID, a core.Action)
	Release(p core.PlayerID, a core.Action)
	ReleaseAll()
	TogglePause()
	NewGame()
	Save(path string) (string, error)
	Load(ctx context.Context, path string) error
	Snapshot() tanks.Snapshot
	Stop()
}

var _ Controller = (*loop.Runner)(nil)

type savedMsg struct {
	path string
	err  error
}

type loadedMsg struct {
	path string
	err  error
}

// Model is the Bubble Tea model for one hotseat duel.
type Model struct {
	ctrl     Controller
	sink     *loop.ChannelSink
	keys     KeyMap
	help     help.Model
	latch    *KeyLatch
	interval time.Duration
	now      func() time.Time

	screen   *core.Screen
	snap     tanks.Snapshot
	savePath string

	status    string
	statusErr bool
	showHelp  bool
	width     int
	height    int
	quitting  bool
}

// ModelOptions configures a Model.
type ModelOptions struct {
	Sink        *loop.ChannelSink // Frames to display; nil means none arrive
	SavePath    string
	Hold        time.Duration // Latch window for key repeats
	RepeatDelay time.Duration // Latch window for a fresh press
	Interval    time.Duration // How often held keys are checked for release
}

// NewModel creates a model driving ctrl.
func NewModel(ctrl Controller, opts ModelOptions) Model {
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second / 30
	}
	w, h := tanks.ScreenSize()
	hp := help.New()
	hp.ShowAll = false

	return Model{
		ctrl:     ctrl,
		sink:     opts.Sink,
		keys:     DefaultKeyMap(),
		help:     hp,
		latch:    NewKeyLatch(opts.Hold, opts.RepeatDelay),
		interval: interval,
		now:      time.Now,
		screen:   core.NewScreen(w, h),
		snap:     ctrl.Snapshot(),
		savePath: opts.SavePath,
	}
}

// Init starts listening for frames and key releases.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{latchTickCmd(m.interval)}
	if m.sink != nil {
		cmds = append(cmds, waitFrame(m.sink))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		m.snap = msg.Snapshot
		if m.sink == nil {
			return m, nil
		}
		return m, waitFrame(m.sink)

	case sinkClosedMsg:
		return m, nil

	case latchTickMsg:
		for _, k := range m.latch.Expire(time.Time(msg)) {
			m.ctrl.Release(k.Player, k.Action)
		}
		return m, latchTickCmd(m.interval)

	case savedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("save failed: %v", msg.err))
		} else {
			m.setStatus("saved to " + msg.path)
		}
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("load failed: %v", msg.err))
		} else {
			m.setStatus("loaded " + msg.path)
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	player, action := m.keys.Resolve(msg)

	switch action {
	case core.ActionNone:
		return m, nil

	case core.ActionQuit:
		m.quitting = true
		m.ctrl.Stop()
		return m, tea.Quit

	case core.ActionHelp:
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case core.ActionPause:
		m.ctrl.TogglePause()
		return m, nil

	case core.ActionRestart:
		m.latch.Clear()
		m.ctrl.ReleaseAll()
		m.ctrl.NewGame()
		m.setStatus("")
		return m, nil

	case core.ActionSave:
		return m, saveCmd(m.ctrl, m.savePath)

	case core.ActionLoad:
		return m, loadCmd(m.ctrl, m.savePath)
	}

	if m.latch.Press(HeldKey{Player: player, Action: action}, m.now()) {
		m.ctrl.Press(player, action)
	}
	return m, nil
}

func saveCmd(ctrl Controller, path string) tea.Cmd {
	return func() tea.Msg {
		written, err := ctrl.Save(path)
		return savedMsg{path: written, err: err}
	}
}

func loadCmd(ctrl Controller, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		err := ctrl.Load(ctx, path)
		if errors.Is(err, context.DeadlineExceeded) {
			err = errors.New("game loop not responding")
		}
		return loadedMsg{path: path, err: err}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

// View renders the arena, the status line and the key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w, h := tanks.ScreenSize()
	if m.width > 0 && (m.width < w || m.height < h+2) {
		return fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d", w, h+2, m.width, m.height)
	}

	m.snap.Render(m.screen)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Snapshot returns the frame the model last received.
func (m Model) Snapshot() tanks.Snapshot {
	return m.snap
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.status
}

// IsQuitting returns true if the user asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}
