package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/claimsdash/internal/api"
	"github.com/theirongolddev/claimsdash/internal/chunks"
	"github.com/theirongolddev/claimsdash/internal/claim"
	"github.com/theirongolddev/claimsdash/internal/cli"
	"github.com/theirongolddev/claimsdash/internal/tui/components"
	"github.com/theirongolddev/claimsdash/internal/tui/theme"
)

const appTitle = "◈ Claims Dashboard"

func titleWidth() int {
	return lipgloss.Width(appTitle) + 2
}

func tabs() []components.Tab { return components.Tabs }

func tabWidth(tab components.Tab) int { return components.TabVisualWidth(tab) }

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	var body string
	switch {
	case a.confirm != nil:
		body = a.overlay(a.confirm.View())
	case a.screen == screenForm && a.form != nil:
		body = a.viewForm()
	case !a.loader.HasData() && a.loader.State() == chunks.Error:
		body = a.viewError()
	case !a.loader.HasData():
		body = a.viewLoading()
	case a.showHelp:
		body = a.viewHelp()
	case a.detail != nil:
		body = a.overlay(a.renderDetail(*a.detail))
	case a.filterForm != nil:
		body = a.overlay(a.filterForm.View())
	default:
		body = a.viewMain()
	}
	return body
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  claimsdash needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) overlay(content string) string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(content)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoading() string {
	t := theme.Active

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent)

	var b strings.Builder
	b.WriteString(logoStyle.Render(appTitle))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Loading claims..."))
	return a.overlay(b.String())
}

func (a App) viewError() string {
	t := theme.Active
	kind := api.Classify(a.loader.Err())

	titleStyle := lipgloss.NewStyle().Foreground(t.Red).Bold(true)
	msgStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Width(min(a.width-12, 60))
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("✗ " + kind.Title()))
	b.WriteString("\n\n")
	b.WriteString(msgStyle.Render(kind.Message()))
	b.WriteString("\n\n")
	if err := a.loader.Err(); err != nil {
		b.WriteString(dimStyle.Render(cli.Truncate(err.Error(), min(a.width-12, 60))))
		b.WriteString("\n\n")
	}
	hint := "[r] Try again  [q] Quit"
	if !kind.Retryable() {
		hint = "[r] Reload  [q] Quit"
	}
	b.WriteString(dimStyle.Render(hint))
	return a.overlay(b.String())
}

func (a App) viewHelp() string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	h := a.help
	h.ShowAll = true

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(h.View(keys))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("1-9 sort by column · c then 1-9 shows or hides a column"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))
	return a.overlay(b.String())
}

func (a App) renderDetail(c claim.FormattedClaim) string {
	t := theme.Active
	w := min(a.contentWidth()-8, 64)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Width(16)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	totalStyle := valueStyle.Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	row := func(label, value string, style lipgloss.Style) string {
		return labelStyle.Render(label) + style.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Claim Details"))
	b.WriteString("\n\n")
	b.WriteString(row("Status", components.StatusBadge(c.Status), lipgloss.NewStyle()))
	b.WriteString(row("Claim Number", c.Number, valueStyle))
	b.WriteString(row("Policy Holder", c.Holder, valueStyle))
	b.WriteString(row("Policy Number", c.PolicyNumber, valueStyle))
	b.WriteString(row("Insured Item", c.InsuredName, valueStyle))
	b.WriteString(row("Incident Date", c.FormattedIncidentDate, valueStyle))
	b.WriteString(row("Created Date", c.FormattedCreatedDate, valueStyle))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Description"))
	b.WriteString("\n")
	b.WriteString(valueStyle.Width(w).Render(c.Description))
	b.WriteString("\n\n")
	b.WriteString(sectionStyle.Render("Financial Details"))
	b.WriteString("\n")
	b.WriteString(row("Claim Amount", c.FormattedClaimAmount, valueStyle))
	b.WriteString(row("Processing Fee", c.FormattedProcessingFee, valueStyle))
	b.WriteString(row("Total Amount", c.FormattedTotalAmount, totalStyle))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("[esc] Close"))
	return b.String()
}

func (a App) viewForm() string {
	t := theme.Active
	w := a.width
	h := a.height

	content := a.form.view(a.spinner.View())
	status := components.RenderStatusBar(w, a.help.ShortHelpView(formKeys.ShortHelp()), "")

	contentH := max(h-lipgloss.Height(status), minListHeight)
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))
	return lipgloss.JoinVertical(lipgloss.Left, content, status)
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	// 1. Header: title + view tabs, then the toolbar
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	header := titleStyle.Render(appTitle) + "  " + components.RenderTabBar(int(a.mode), cw-titleWidth())
	header = lipgloss.NewStyle().MaxWidth(cw).Render(header)

	// 2. List, with the column header in table mode
	list := a.renderList(cw)
	if a.mode == viewTable && len(a.results) > 0 {
		list = a.renderTableHeader(cw) + "\n" + list
	} else if a.mode == viewTable {
		list = "\n" + list
	}

	// 3. Footer: perf line + status bar
	perf := lipgloss.NewStyle().Foreground(t.TextDim).MaxWidth(cw).Render(" " + a.perfFooter())
	status := components.RenderStatusBar(w, a.statusLeft(), a.statusRight())

	output := lipgloss.JoinVertical(lipgloss.Left,
		header,
		a.renderToolbar(cw),
		fillLinesWithBackground(list, cw, t.Background),
		perf,
		status,
	)
	return lipgloss.Place(w, a.height, lipgloss.Center, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderToolbar(w int) string {
	t := theme.Active
	pill := lipgloss.NewStyle().Foreground(t.TextDim)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	var parts []string

	switch {
	case a.searching:
		parts = append(parts, a.searchInput.View())
	case a.view.Query != "" || a.debounce.Raw() != "":
		parts = append(parts, pill.Render("search ")+accent.Render(a.debounce.Raw()))
	}
	if a.debounce.Searching() {
		parts = append(parts, a.spinner.View()+pill.Render(" searching"))
	}
	if len(a.view.Statuses) > 0 {
		parts = append(parts, pill.Render("status ")+accent.Render(strings.Join(a.view.Statuses, ", ")))
	}
	parts = append(parts, pill.Render("sort ")+accent.Render(a.view.Effective().Label()))

	page := fmt.Sprintf("claims %s–%s",
		cli.FormatNumber(int64(a.loader.CurrentStart()+1)),
		cli.FormatNumber(int64(a.loader.CurrentStart()+len(a.loader.Claims()))))
	parts = append(parts, pill.Render(page))

	if a.loader.Busy() {
		parts = append(parts, a.spinner.View()+pill.Render(" loading"))
	}
	if a.columnPick {
		parts = append(parts, accent.Render("column? 1-9"))
	}

	return lipgloss.NewStyle().MaxWidth(w).Render(" " + strings.Join(parts, pill.Render(" │ ")))
}

func (a App) statusLeft() string {
	if a.toast != "" {
		return components.Toast(a.toast, a.toastErr)
	}
	var hints []string
	if a.loader.CanLoadOlder() && a.atTop() {
		hints = append(hints, "[ load older")
	}
	if a.loader.CanLoadMore() && a.atBottom() {
		hints = append(hints, "] load more")
	}
	hints = append(hints, a.help.ShortHelpView(keys.ShortHelp()))
	return strings.Join(hints, "  ")
}

func (a App) statusRight() string {
	return fmt.Sprintf("%s claims", cli.FormatNumber(int64(len(a.results))))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
