package dashboard

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPrimary   = lipgloss.Color("12")  // bright blue
	colorRecording = lipgloss.Color("9")   // bright red
	colorOK        = lipgloss.Color("10")  // bright green
	colorDim       = lipgloss.Color("240") // gray
	colorHighlight = lipgloss.Color("11")  // bright yellow
	colorBorder    = lipgloss.Color("238") // dark gray

	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleSubtitle = lipgloss.NewStyle().
			Foreground(colorDim)

	styleStatusReady = lipgloss.NewStyle().
				Foreground(colorOK).
				Bold(true)

	styleStatusRecording = lipgloss.NewStyle().
				Foreground(colorRecording).
				Bold(true)

	// Sensor cards
	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(24)

	styleCardTitle = lipgloss.NewStyle().
			Foreground(colorDim).
			Bold(true)

	styleAxis = lipgloss.NewStyle().
			Width(7)

	styleValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(12).
			Align(lipgloss.Right)

	// Mode selector
	styleModeActive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Foreground(colorHighlight).
			Padding(0, 1)

	styleModeInactive = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Foreground(colorDim).
				Padding(0, 1)

	styleNotification = lipgloss.NewStyle().
				Foreground(colorHighlight).
				Bold(true)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(1, 0, 0, 0)
)
