package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/geniusprep/internal/ui/components"
	"github.com/abhisek/geniusprep/internal/ui/theme"
)

const titleFull = ` ╔═╗┌─┐┌┐┌┬┬ ┬┌─┐  ╔═╗┬─┐┌─┐┌─┐
 ║ ╦├┤ │││││ │└─┐  ╠═╝├┬┘├┤ ├─┘
 ╚═╝└─┘┘└┘┴└─┘└─┘  ╩  ┴└─└─┘┴  `

const titleCompact = "G E N I U S P R E P"

const tagline = "JEE · NEET · UPSC study companion"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	// frame border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 60)
}

func renderTitle(cw int, compact bool) string {
	title := titleFull
	if compact {
		title = titleCompact
	}
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)
	return center.Render(theme.Title.Render(title)) + "\n" + center.Render(theme.Subtitle.Render(tagline))
}

// renderKeyBanner warns that no API key is configured.
func renderKeyBanner(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Warning.Render("⚠ No API key set. Set GEMINI_API_KEY (see geniusprep --help)"))
}

func renderMenu(m components.Menu, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(1, 1).
		Render(m.View())
}

// renderFrame centers content inside a double border.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
