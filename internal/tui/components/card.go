// Package components provides reusable TUI widgets for the claimsdash dashboard.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/claimsdash/internal/claim"
	"github.com/theirongolddev/claimsdash/internal/cli"
	"github.com/theirongolddev/claimsdash/internal/tui/theme"
)

// ClaimCardLines is the number of text lines inside a claim card.
const ClaimCardLines = 6

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

// ContentCard renders a bordered content card with an optional title.
// outerWidth controls the total rendered width including border.
func ContentCard(title, body string, outerWidth int) string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Width(max(outerWidth-2, 10)).
		Padding(0, 1)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Bold(true)

	content := ""
	if title != "" {
		content = titleStyle.Render(title) + "\n"
	}
	content += body

	return cardStyle.Render(content)
}

// CardRow joins pre-rendered card strings horizontally.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// CardInnerWidth returns the usable text width inside a ContentCard
// given its outer width (subtracts border + padding).
func CardInnerWidth(outerWidth int) int {
	return max(outerWidth-4, 10)
}

// StatusBadge renders a claim status in its color.
func StatusBadge(status string) string {
	t := theme.Active
	return lipgloss.NewStyle().
		Foreground(t.Status(status)).
		Bold(true).
		Render("● " + status)
}

// ClaimCard renders one claim as a fixed-height card. The rendered height
// is always ClaimCardLines plus the border.
func ClaimCard(c claim.FormattedClaim, outerWidth int, selected bool) string {
	t := theme.Active
	inner := CardInnerWidth(outerWidth)

	border := t.Border
	if selected {
		border = t.BorderAccent
	}
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(max(outerWidth-2, 10)).
		Height(ClaimCardLines).
		Padding(0, 1)
	if selected {
		cardStyle = cardStyle.Background(t.SurfaceHover)
	}

	label := lipgloss.NewStyle().Foreground(t.TextMuted)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary)
	strong := value.Bold(true)

	head := cli.Truncate(c.Number, max(inner-lipgloss.Width(c.Status)-4, 4))
	gap := max(1, inner-lipgloss.Width(head)-lipgloss.Width(c.Status)-2)
	lines := []string{
		strong.Render(head) + fmt.Sprintf("%*s", gap, "") + StatusBadge(c.Status),
		value.Render(cli.Truncate(c.Holder, inner)),
		label.Render(cli.Truncate("Policy "+c.PolicyNumber+" · "+c.InsuredName, inner)),
		label.Render("Amount ") + value.Render(c.FormattedClaimAmount) +
			label.Render("  Total ") + strong.Render(c.FormattedTotalAmount),
		label.Render(cli.Truncate("Incident "+c.FormattedIncidentDate+" · Filed "+c.FormattedCreatedDate, inner)),
		label.Render(cli.Truncate(c.Description, inner)),
	}

	body := ""
	for i, l := range lines {
		if i > 0 {
			body += "\n"
		}
		body += lipgloss.NewStyle().MaxWidth(inner).Render(l)
	}
	return cardStyle.Render(body)
}
