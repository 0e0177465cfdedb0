package ui

import "github.com/charmbracelet/lipgloss/v2"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	availableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	offHoursStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	focusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	taskStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	acceptedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	declinedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	tentativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)

	activeMarkerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	headerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	recHeaderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	recDetailStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	overlayStyle      = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Padding(0, 1)
)
