package tui

import tea "github.com/charmbracelet/bubbletea"

// SortOrder defines how connections are sorted in the dashboard.
type SortOrder int

const (
	SortByProgram SortOrder = iota
	SortByRx
	SortByTx
	SortByRemote
)

// String returns a human-readable label for the sort order.
func (s SortOrder) String() string {
	switch s {
	case SortByProgram:
		return "program"
	case SortByRx:
		return "rx"
	case SortByTx:
		return "tx"
	case SortByRemote:
		return "remote"
	default:
		return "program"
	}
}

// Next cycles to the next sort order.
func (s SortOrder) Next() SortOrder {
	return SortOrder((int(s) + 1) % 4)
}

// Key bindings as constants for consistency.
const (
	KeyQuit          = "q"
	KeyQuitAlt       = "ctrl+c"
	KeyRefresh       = "r"
	KeyCycleSort     = "s"
	KeyToggleResolve = "h"
	KeyTogglePause   = "p"
	KeySelectPrev    = "up"
	KeySelectPrevK   = "k"
	KeySelectNext    = "down"
	KeySelectNextJ   = "j"
	KeySelectFirst   = "home"
	KeySelectLast    = "end"
	KeyExpand        = "enter"
	KeyCollapse      = "esc"
	KeyToggleHelp    = "?"
)

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	// If help is showing, Esc closes it
	if m.showHelp && key == KeyCollapse {
		m.showHelp = false
		return true, nil
	}

	// Detail view: Esc returns to list
	if m.viewMode == ViewDetail && key == KeyCollapse {
		m.viewMode = ViewList
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		return true, m.refreshCmd()

	case KeyCycleSort:
		m.sortOrder = m.sortOrder.Next()
		m.sortConnections()
		return true, nil

	case KeyToggleResolve:
		m.engine.SetResolveHosts(!m.engine.ResolveHosts())
		return true, m.refreshCmd()

	case KeyTogglePause:
		m.paused = !m.paused
		return true, nil

	case KeySelectPrev, KeySelectPrevK:
		if m.selected > 0 {
			m.selected--
		}
		return true, nil

	case KeySelectNext, KeySelectNextJ:
		if m.selected < len(m.conns)-1 {
			m.selected++
		}
		return true, nil

	case KeySelectFirst:
		m.selected = 0
		return true, nil

	case KeySelectLast:
		if len(m.conns) > 0 {
			m.selected = len(m.conns) - 1
		}
		return true, nil

	case KeyExpand:
		if m.viewMode == ViewList && len(m.conns) > 0 {
			m.viewMode = ViewDetail
			m.updateDetailContent()
		}
		return true, nil

	case KeyCollapse:
		m.viewMode = ViewList
		return true, nil
	}

	return false, nil
}
