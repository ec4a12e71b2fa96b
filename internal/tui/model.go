// Package tui implements the live connection dashboard. It is a pure
// consumer of the engine: every tick it asks for a fresh connection set
// and renders a sortable table.
package tui

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jgrady/netmon/internal/netstat"
)

// Engine is the surface the dashboard needs from the refresh pipeline.
type Engine interface {
	Refresh(now time.Time) []netstat.Connection
	SetResolveHosts(enabled bool)
	ResolveHosts() bool
}

// ViewMode defines the current display mode of the dashboard.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
)

// Model is the Bubble Tea model for the connection dashboard.
type Model struct {
	engine   Engine
	conns    []netstat.Connection
	interval time.Duration

	width      int
	height     int
	selected   int
	sortOrder  SortOrder
	viewMode   ViewMode
	paused     bool
	quitting   bool
	showHelp   bool
	lastUpdate time.Time

	// Detail view viewport for scrollable content
	detailViewport viewport.Model
	viewportReady  bool
}

// tickMsg signals a periodic refresh.
type tickMsg time.Time

// connsMsg carries a fresh connection set from the engine.
type connsMsg struct {
	conns []netstat.Connection
	time  time.Time
}

// NewModel creates a dashboard model driving the given engine.
func NewModel(e Engine, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second
	}
	return Model{
		engine:   e,
		interval: interval,
		selected: 0,
	}
}

// Init starts the tick timer and triggers the initial refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.refreshCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		if m.viewMode == ViewDetail {
			m.updateDetailContent()
		}

	case tickMsg:
		if m.paused {
			return m, m.tickCmd()
		}
		return m, tea.Batch(m.tickCmd(), m.refreshCmd())

	case connsMsg:
		m.lastUpdate = msg.time
		m.setConnections(msg.conns)
		if m.viewMode == ViewDetail {
			m.updateDetailContent()
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// tickCmd returns a command that sends a tick after the refresh interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd runs one engine refresh off the render loop.
func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		now := time.Now()
		return connsMsg{conns: m.engine.Refresh(now), time: now}
	}
}

// setConnections installs a fresh connection set, re-applies the sort, and
// clamps the selection to the new bounds.
func (m *Model) setConnections(conns []netstat.Connection) {
	m.conns = conns
	m.sortConnections()
	if m.selected >= len(m.conns) {
		m.selected = len(m.conns) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// sortConnections orders the table by the current sort key. Ties fall back
// to local address so the table is stable across refreshes.
func (m *Model) sortConnections() {
	less := func(a, b netstat.Connection) bool { return a.Local < b.Local }
	switch m.sortOrder {
	case SortByProgram:
		less = func(a, b netstat.Connection) bool {
			if a.Program != b.Program {
				return a.Program < b.Program
			}
			return a.Local < b.Local
		}
	case SortByRx:
		less = func(a, b netstat.Connection) bool {
			if a.RxRate != b.RxRate {
				return a.RxRate > b.RxRate
			}
			return a.Local < b.Local
		}
	case SortByTx:
		less = func(a, b netstat.Connection) bool {
			if a.TxRate != b.TxRate {
				return a.TxRate > b.TxRate
			}
			return a.Local < b.Local
		}
	case SortByRemote:
		less = func(a, b netstat.Connection) bool {
			if a.Remote != b.Remote {
				return a.Remote < b.Remote
			}
			return a.Local < b.Local
		}
	}
	sort.SliceStable(m.conns, func(i, j int) bool { return less(m.conns[i], m.conns[j]) })
}

// resizeViewport sizes the detail viewport to the terminal, reserving rows
// for the header and footer.
func (m *Model) resizeViewport() {
	headerHeight := 3
	footerHeight := 2
	viewportHeight := m.height - headerHeight - footerHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.viewportReady {
		m.detailViewport = viewport.New(m.width, viewportHeight)
		m.detailViewport.YPosition = headerHeight
		m.viewportReady = true
	} else {
		m.detailViewport.Width = m.width
		m.detailViewport.Height = viewportHeight
	}
}

// updateDetailContent refreshes the viewport with the selected connection.
func (m *Model) updateDetailContent() {
	if !m.viewportReady {
		m.resizeViewport()
	}
	m.detailViewport.SetContent(m.renderDetail())
}

// SelectedConnection returns the connection under the cursor.
func (m Model) SelectedConnection() (netstat.Connection, bool) {
	if m.selected >= 0 && m.selected < len(m.conns) {
		return m.conns[m.selected], true
	}
	return netstat.Connection{}, false
}

// ActiveCount returns the number of connections with nonzero throughput.
func (m Model) ActiveCount() int {
	count := 0
	for _, c := range m.conns {
		if c.IsActive() {
			count++
		}
	}
	return count
}

// SecondsSinceUpdate returns how many seconds have passed since the last refresh.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return 0
	}
	return int(time.Since(m.lastUpdate).Seconds())
}
