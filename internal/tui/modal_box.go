package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func modalBodyWidth(width int) int {
	w := width - 12
	if w > 64 {
		w = 64
	}
	if w < 32 {
		w = 32
	}
	return w
}

// renderModalBox renders a titled surface for modal content. No borders:
// some terminals show background artifacts when nesting bordered components
// inside a modal with a background color.
func renderModalBox(width int, title string, content string) string {
	bodyW := modalBodyWidth(width)

	header := lipgloss.NewStyle().
		Width(bodyW+4).
		Padding(0, 2).
		Bold(true).
		Foreground(colorSurfaceFg).
		Background(colorControlBg).
		Render(title)

	body := lipgloss.NewStyle().
		Width(bodyW+4).
		Padding(1, 2).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Render(content)

	return strings.Join([]string{header, body}, "\n")
}

// placeCentered positions a modal in the middle of the screen.
func (m appModel) placeCentered(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
