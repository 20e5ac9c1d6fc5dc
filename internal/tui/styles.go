package tui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	BulletStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(1)
	TextStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	MutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	SpinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	RowStyle      = lipgloss.NewStyle().PaddingLeft(2)
	SelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	PlayingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	InvalidStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Underline(true)
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	SuccessStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)
