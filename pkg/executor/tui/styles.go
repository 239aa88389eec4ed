package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // headers and accents
	mintGreen   = lipgloss.Color("#A8E6CF") // valid selection
	alertRed    = lipgloss.Color("#FF5F5F") // conflicting selection, now line, errors
	mutedGray   = lipgloss.Color("#6B7280") // secondary text and gridlines
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
	inkBlack    = lipgloss.Color("#111827") // text on colored blocks
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	tipsStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	gutterStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	hourStyle = lipgloss.NewStyle().
			Foreground(brightWhite)

	gridStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Faint(true)

	nowStyle = lipgloss.NewStyle().
			Foreground(alertRed).
			Bold(true)

	selectionStyle = lipgloss.NewStyle().
			Background(mintGreen).
			Foreground(inkBlack)

	conflictStyle = lipgloss.NewStyle().
			Background(alertRed).
			Foreground(brightWhite)

	statusStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(alertRed)
)

// blockStyle colors a reservation from its lab's background and outline.
func blockStyle(background, outline string) (body, edge lipgloss.Style) {
	body = lipgloss.NewStyle().
		Background(lipgloss.Color(background)).
		Foreground(inkBlack)
	edge = body.Foreground(lipgloss.Color(outline))
	return body, edge
}
