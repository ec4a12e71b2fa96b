package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jgrady/netmon/internal/netstat"
)

// Column widths for the connection table.
const (
	colProto   = 6
	colState   = 12
	colAddr    = 28
	colProgram = 22
	colRate    = 12
)

// render renders the complete dashboard view.
func (m Model) render() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(m.renderHelp())
	} else if m.viewMode == ViewDetail {
		b.WriteString(m.detailViewport.View())
	} else {
		b.WriteString(m.renderTable())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the dashboard header with summary stats.
func (m Model) renderHeader() string {
	lastUpdate := m.SecondsSinceUpdate()

	var updateText string
	switch lastUpdate {
	case 0:
		updateText = "just now"
	case 1:
		updateText = "1s ago"
	default:
		updateText = fmt.Sprintf("%ds ago", lastUpdate)
	}

	title := TitleStyle.Render("netmon")
	stats := StatsStyle.Render(fmt.Sprintf(" | %d connections | %d active | sort: %s | updated %s",
		len(m.conns), m.ActiveCount(), m.sortOrder, updateText))

	header := title + stats
	if m.paused {
		header += PausedStyle.Render("  PAUSED")
	}
	if m.engine.ResolveHosts() {
		header += StatsStyle.Render("  [resolving hosts]")
	}
	return HeaderStyle.Render(header)
}

// renderTable renders the connection table with the selected row highlighted.
func (m Model) renderTable() string {
	if len(m.conns) == 0 {
		return MutedStyle.Render("No connections")
	}

	var b strings.Builder
	b.WriteString(ColumnHeaderStyle.Render(formatRow(
		"PROTO", "STATE", "LOCAL", "REMOTE", "PROGRAM", "RX", "TX")))
	b.WriteString("\n")

	visible := m.visibleRows()
	start, end := m.scrollWindow(visible)
	for i := start; i < end; i++ {
		c := m.conns[i]
		row := formatRow(
			c.Protocol,
			c.State,
			c.Local,
			c.Remote,
			c.ProcessDisplay(),
			FormatRate(float64(c.RxRate)),
			FormatRate(float64(c.TxRate)),
		)

		style := RowStyle
		switch {
		case i == m.selected:
			style = RowSelectedStyle
		case c.IsActive():
			style = ActiveRateStyle
		case c.State == "LISTEN":
			style = ListenStateStyle
		}
		b.WriteString(style.Render(row))
		b.WriteString("\n")
	}

	return b.String()
}

// visibleRows returns how many table rows fit in the terminal.
func (m Model) visibleRows() int {
	// Header block, column header, footer
	rows := m.height - 6
	if rows < 1 {
		rows = len(m.conns)
	}
	return rows
}

// scrollWindow keeps the selected row inside the visible window.
func (m Model) scrollWindow(visible int) (int, int) {
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := start + visible
	if end > len(m.conns) {
		end = len(m.conns)
	}
	return start, end
}

// renderDetail renders the expanded view of the selected connection.
func (m Model) renderDetail() string {
	c, ok := m.SelectedConnection()
	if !ok {
		return MutedStyle.Render("No connection selected")
	}

	line := func(label, value string) string {
		return LabelStyle.Render(fmt.Sprintf("%-10s", label)) + RowStyle.Render(value)
	}

	content := strings.Join([]string{
		line("Protocol", c.Protocol),
		line("State", c.State),
		line("Local", c.Local),
		line("Remote", c.Remote),
		line("Program", c.Program),
		line("PID", c.PID),
		line("Command", c.Command),
		line("RX", FormatRate(float64(c.RxRate))),
		line("TX", FormatRate(float64(c.TxRate))),
	}, "\n")

	return DetailBorderStyle.Render(content)
}

// renderHelp renders the keybinding reference.
func (m Model) renderHelp() string {
	bindings := [][2]string{
		{"q", "quit"},
		{"r", "force refresh"},
		{"s", "cycle sort (program/rx/tx/remote)"},
		{"h", "toggle hostname resolution"},
		{"p", "pause/resume refresh"},
		{"↑/k ↓/j", "move selection"},
		{"enter", "connection detail"},
		{"esc", "back"},
		{"?", "toggle this help"},
	}

	var b strings.Builder
	for _, bind := range bindings {
		b.WriteString(LabelStyle.Render(fmt.Sprintf("  %-10s", bind[0])))
		b.WriteString(RowStyle.Render(bind[1]))
		b.WriteString("\n")
	}
	return b.String()
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"s sort",
		"h resolve",
		"p pause",
		"? help",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

// formatRow pads the table columns to fixed widths.
func formatRow(proto, state, local, remote, program, rx, tx string) string {
	return fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %*s %*s",
		colProto, truncate(proto, colProto),
		colState, truncate(state, colState),
		colAddr, truncate(local, colAddr),
		colAddr, truncate(remote, colAddr),
		colProgram, truncate(program, colProgram),
		colRate, rx,
		colRate, tx,
	)
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	runes := []rune(s)
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// FormatRate formats a bytes-per-second rate as a human-readable string.
func FormatRate(bytesPerSecond float64) string {
	if bytesPerSecond < 1024 {
		return fmt.Sprintf("%.0f B/s", bytesPerSecond)
	} else if bytesPerSecond < 1024*1024 {
		return fmt.Sprintf("%.1f KB/s", bytesPerSecond/1024)
	} else if bytesPerSecond < 1024*1024*1024 {
		return fmt.Sprintf("%.1f MB/s", bytesPerSecond/(1024*1024))
	}
	return fmt.Sprintf("%.1f GB/s", bytesPerSecond/(1024*1024*1024))
}

// FormatTable renders a plain-text connection table for non-TTY output.
// Used by the one-shot list command.
func FormatTable(conns []netstat.Connection) string {
	var b strings.Builder
	b.WriteString(formatRow("PROTO", "STATE", "LOCAL", "REMOTE", "PROGRAM", "RX", "TX"))
	b.WriteString("\n")
	for _, c := range conns {
		b.WriteString(formatRow(
			c.Protocol, c.State, c.Local, c.Remote, c.ProcessDisplay(),
			FormatRate(float64(c.RxRate)), FormatRate(float64(c.TxRate))))
		b.WriteString("\n")
	}
	return b.String()
}
