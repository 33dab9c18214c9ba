package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/claimsdash/internal/tui/theme"
)

// Tab represents a single view in the tab bar.
type Tab struct {
	Name string
}

// Tabs lists the dashboard views in display order.
var Tabs = []Tab{
	{Name: "Table"},
	{Name: "Cards"},
}

// TabVisualWidth returns the rendered width of a tab, including padding.
func TabVisualWidth(tab Tab) int {
	return lipgloss.Width(tab.Name) + 2
}

// RenderTabBar renders the view switcher with the given active index. Tabs
// are separated by a single column.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Padding(0, 1)

	sep := lipgloss.NewStyle().Foreground(t.TextDim).Render("│")

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tab.Name))
		} else {
			parts = append(parts, inactiveStyle.Render(tab.Name))
		}
	}

	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, sep))
}
