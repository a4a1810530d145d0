package tui

import "github.com/charmbracelet/lipgloss"

const sidebarWidth = 30

var (
	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, true, false, false).
			Padding(0, 1).
			Width(sidebarWidth)
	titleStyle     = lipgloss.NewStyle().Bold(true)
	headingStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	activeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
