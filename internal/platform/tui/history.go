package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tankduel/internal/core"
	"github.com/vovakirdan/tankduel/internal/games/tanks"
	"github.com/vovakirdan/tankduel/internal/maps"
	"github.com/vovakirdan/tankduel/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show the map sidebar
	sidebarWidth       = 22  // Width of map sidebar
	maxMatches         = 100 // Max matches to load
	allMaps            = ""  // Filter value for every map
)

// HistoryKeyMap defines the key bindings for the match history.
type HistoryKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextMap key.Binding
	PrevMap key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMap, k.PrevMap, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextMap, k.PrevMap, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMap: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next map"),
		),
		PrevMap: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev map"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryColumns are the column titles of a match listing.
var HistoryColumns = []string{"When", "Map", "Result", "Lives", "Ticks", "Time", "Where"}

// MatchRow formats a match for display, in HistoryColumns order.
func MatchRow(m storage.Match) []string {
	result := "abandoned"
	if m.EndReason == "completed" {
		if m.Winner == 0 {
			result = "draw"
		} else {
			result = tanks.PlayerName(core.PlayerID(m.Winner)) + " wins"
		}
	}
	return []string{
		m.CreatedAt.Local().Format("Jan 02 15:04"),
		m.MapName,
		result,
		fmt.Sprintf("%d-%d", m.Lives1, m.Lives2),
		fmt.Sprintf("%d", m.Ticks),
		m.Duration.Round(time.Second).String(),
		m.Source,
	}
}

// HistoryModel is the Bubble Tea model for the match history screen.
type HistoryModel struct {
	filters     []string // Map ids, allMaps first
	cursor      int
	store       *storage.Store
	matches     []storage.Match
	stats       *storage.MapStats
	err         error
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewHistoryModel creates a history model.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	filters := []string{allMaps}
	for _, info := range maps.List() {
		filters = append(filters, info.ID)
	}

	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		filters:     filters,
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *HistoryModel) createTable() table.Model {
	widths := []int{13, 10, 12, 6, 7, 8, 12}
	columns := make([]table.Column, len(HistoryColumns))
	for i, title := range HistoryColumns {
		columns[i] = table.Column{Title: title, Width: widths[i]}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m HistoryModel) filter() string {
	return m.filters[m.cursor]
}

// load fetches the matches and stats of the selected map.
func (m *HistoryModel) load() {
	m.matches, m.stats, m.err = nil, nil, nil
	if m.store != nil {
		m.matches, m.err = m.store.RecentMatches(m.filter(), maxMatches)
		if m.err == nil && m.filter() != allMaps {
			m.stats, m.err = m.store.Stats(m.filter())
		}
	}

	rows := make([]table.Row, len(m.matches))
	for i, match := range m.matches {
		rows[i] = MatchRow(match)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMap):
			m.cursor = (m.cursor + 1) % len(m.filters)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevMap):
			m.cursor = (m.cursor - 1 + len(m.filters)) % len(m.filters)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.load()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	title := "MATCH HISTORY - ALL MAPS"
	if m.filter() != allMaps {
		title = "MATCH HISTORY - " + strings.ToUpper(m.filter())
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	content := boxStyle.Render(m.renderTableContent())

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content))
	} else {
		b.WriteString(centerText(m.renderTabs(), m.width))
		b.WriteString("\n\n")
		b.WriteString(content)
	}

	if m.stats != nil && m.stats.Matches > 0 {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(formatStats(m.stats)))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m HistoryModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sb strings.Builder
	sb.WriteString("Maps\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	for i, id := range m.filters {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sb.WriteString(style.Render(cursor + filterName(id)))
		sb.WriteString("\n")
	}
	return sidebarStyle.Render(sb.String())
}

func (m HistoryModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.filters))
	for i, id := range m.filters {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(filterName(id))
		} else {
			tabs[i] = tabStyle.Render(" " + filterName(id) + " ")
		}
	}

	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 {
		line = fmt.Sprintf("< %s >", filterName(m.filter()))
	}
	return line
}

func (m HistoryModel) renderTableContent() string {
	if m.err != nil {
		return errorStyle.Render("Cannot read history: " + m.err.Error())
	}
	if len(m.matches) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No matches recorded yet.\nFinish a duel to see it here!")
	}
	return m.table.View()
}

func filterName(id string) string {
	if id == allMaps {
		return "all"
	}
	return id
}

func formatStats(s *storage.MapStats) string {
	return fmt.Sprintf("%d matches  RED %d  CYAN %d  draws %d  abandoned %d  avg %.0f ticks",
		s.Matches, s.Wins1, s.Wins2, s.Draws, s.Abandoned, s.AvgTicks)
}

func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunHistory runs the match history screen.
func RunHistory(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
