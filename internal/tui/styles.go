package tui

import "github.com/charmbracelet/lipgloss"

// Dashboard color palette
const (
	ColorSurfaceBg = lipgloss.Color("#12121A") // Dark surface
	ColorBorder    = lipgloss.Color("#2A2A4A") // Glass border (purple tint)

	// Semantic colors
	ColorActive   = lipgloss.Color("#39FF14") // Neon green - traffic flowing
	ColorListen   = lipgloss.Color("#00FFFF") // Neon cyan - listening sockets
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	// Accent
	ColorAccent = lipgloss.Color("#FF2E97") // Neon pink
)

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StatsStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	ColumnHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorTextSecondary).
				Bold(true)

	RowStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	RowSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Background(ColorBorder).
				Bold(true)

	ActiveRateStyle = lipgloss.NewStyle().
			Foreground(ColorActive)

	ListenStateStyle = lipgloss.NewStyle().
				Foreground(ColorListen)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	PausedStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	DetailBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)
