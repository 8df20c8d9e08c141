package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Tab bar styles
	TabStyle       = lipgloss.NewStyle().Padding(0, 2)
	ActiveTabStyle = TabStyle.Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))
	InactiveTabStyle = TabStyle.
				Foreground(lipgloss.Color("#888888"))

	// Verdict colors
	BullishStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	BearishStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	IgnoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))

	// Pair board cells
	BullishCell  = lipgloss.Color("#00AA00")
	BearishCell  = lipgloss.Color("#AA0000")
	IgnoreCell   = lipgloss.Color("#AAAA00")
	UnknownCell  = lipgloss.Color("#555555")
	SelectedCell = lipgloss.Color("#7D56F4")

	// General styles
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	SubtextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	BorderStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#555555"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	SpinnerColor = lipgloss.Color("#7D56F4")

	// Chat styles
	UserMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	BotMsgStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true)

	// Outcome bar colors
	OutcomeGoodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	OutcomeBadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	OutcomeIdleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
)
