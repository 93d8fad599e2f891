package viz

import "github.com/charmbracelet/lipgloss"

var (
	chartStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle      = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeGainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)
