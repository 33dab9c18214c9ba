package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/claimsdash/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar with left-aligned hints and
// right-aligned info.
func RenderStatusBar(width int, left, right string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left = " " + left
	if right != "" {
		right += " "
	}

	left = lipgloss.NewStyle().MaxWidth(max(0, width-lipgloss.Width(right))).Render(left)
	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return style.Render(left + strings.Repeat(" ", padding) + right)
}

// Toast renders a one-line notification pill.
func Toast(msg string, isError bool) string {
	t := theme.Active
	fg := t.Green
	icon := "✓ "
	if isError {
		fg = t.Red
		icon = "✗ "
	}
	return lipgloss.NewStyle().
		Foreground(fg).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1).
		Render(icon + msg)
}
