package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/claimsdash/internal/claim"
	"github.com/theirongolddev/claimsdash/internal/cli"
	"github.com/theirongolddev/claimsdash/internal/pipeline"
	"github.com/theirongolddev/claimsdash/internal/tui/components"
	"github.com/theirongolddev/claimsdash/internal/tui/theme"
	"github.com/theirongolddev/claimsdash/internal/virtual"
)

// Column widths in cells; the holder column absorbs the remainder.
var columnWidths = map[string]int{
	"number":        12,
	"status":        11,
	"holder":        0,
	"policyNumber":  10,
	"amount":        12,
	"processingFee": 10,
	"totalAmount":   12,
	"incidentDate":  13,
	"createdAt":     14,
}

const minHolderWidth = 12

// ─── Geometry ───────────────────────────────────────────────────

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// listHeight is the number of lines available to list items.
func (a App) listHeight() int {
	h := a.height - chromeLines
	if a.mode == viewTable {
		h-- // column header
	}
	return max(h, minListHeight)
}

func (a App) itemHeight() int {
	if a.mode == viewCards {
		return virtual.CardHeight
	}
	return virtual.RowHeight(a.view.HasActiveFilters())
}

func (a App) perRow() int {
	if a.mode == viewCards {
		return a.resize.CardsPerRow()
	}
	return 1
}

// lineCount is the number of list lines: rows for the table, card rows for
// the grid.
func (a App) lineCount() int {
	per := a.perRow()
	return (len(a.results) + per - 1) / per
}

func (a App) contentHeight() int {
	return virtual.ContentHeight(a.lineCount(), a.itemHeight())
}

func (a App) renderRange() virtual.Range {
	if a.mode == viewCards {
		return virtual.CardRange(len(a.results), a.perRow(), virtual.CardHeight, a.scroll, a.listHeight())
	}
	return virtual.TableRange(len(a.results), a.itemHeight(), a.scroll, a.listHeight())
}

// ─── Navigation ─────────────────────────────────────────────────

func (a App) atTop() bool {
	return virtual.AtTop(a.scroll)
}

func (a App) atBottom() bool {
	return virtual.AtBottom(a.scroll, a.listHeight(), a.contentHeight())
}

func (a App) rowStep() int {
	return a.perRow()
}

func (a *App) clampScroll() {
	a.scroll = virtual.ClampScroll(a.scroll, a.contentHeight(), a.listHeight())
}

func (a *App) scrollBy(delta int) {
	a.scroll += delta
	a.clampScroll()
}

// firstVisible is the first item whose line is at or below the scroll top.
func (a App) firstVisible() int {
	h := a.itemHeight()
	line := (a.scroll + h - 1) / h
	return min(line*a.perRow(), max(len(a.results)-1, 0))
}

// moveSelection moves the selection by delta items. With nothing selected
// the first visible item is selected instead.
func (a *App) moveSelection(delta int) {
	if len(a.results) == 0 {
		return
	}
	if a.selected < 0 {
		a.selectIndex(a.firstVisible())
		return
	}
	a.selectIndex(a.selected + delta)
}

func (a *App) selectIndex(i int) {
	if len(a.results) == 0 {
		a.selected = -1
		return
	}
	a.selected = min(max(i, 0), len(a.results)-1)
	a.revealSelected()
}

func (a *App) revealSelected() {
	if a.selected >= 0 {
		line := a.selected / a.perRow()
		a.scroll = virtual.Reveal(line, a.itemHeight(), a.scroll, a.listHeight())
	}
	a.clampScroll()
}

// ─── Rendering ──────────────────────────────────────────────────

// renderList renders exactly listHeight lines of the virtualized list.
func (a App) renderList(w int) string {
	h := a.listHeight()
	if len(a.results) == 0 {
		return a.renderEmpty(w, h)
	}

	r := a.renderRange()
	var block []string
	var top int
	if a.mode == viewCards {
		block = a.renderCards(r, w)
		top = (r.Start / a.perRow()) * virtual.CardHeight
	} else {
		block = a.renderRows(r, w)
		top = r.Start * a.itemHeight()
	}

	// block starts at line top of the full list; cut the viewport from it.
	from := min(max(a.scroll-top, 0), len(block))
	to := min(from+h, len(block))
	out := block[from:to]
	for len(out) < h {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

func (a App) renderEmpty(w, h int) string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true).Render("No claims found")
	hint := "No claims have been filed yet. Press n to create one."
	if a.view.HasActiveFilters() {
		hint = "Try adjusting your search or filters. Press F to clear them."
	}
	body := title + "\n" + lipgloss.NewStyle().Foreground(t.TextMuted).Render(hint)
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, body)
}

type tableColumn struct {
	pipeline.Column
	index int // position in pipeline.Columns, for the digit shortcut
	width int
}

func (a App) tableColumns(w int) []tableColumn {
	visible := a.prefs.VisibleColumns()
	cols := make([]tableColumn, 0, len(visible))
	used := 0
	for _, c := range visible {
		idx := 0
		for i, pc := range pipeline.Columns {
			if pc.Key == c.Key {
				idx = i
			}
		}
		cw := columnWidths[c.Key]
		cols = append(cols, tableColumn{Column: c, index: idx, width: cw})
		used += cw + 1
	}
	for i := range cols {
		if cols[i].Key == "holder" {
			cols[i].width = max(minHolderWidth, w-used-1)
		}
	}
	return cols
}

func cellValue(c claim.FormattedClaim, key string) string {
	switch key {
	case "number":
		return c.Number
	case "status":
		return c.Status
	case "holder":
		return c.Holder
	case "policyNumber":
		return c.PolicyNumber
	case "amount":
		return c.FormattedClaimAmount
	case "processingFee":
		return c.FormattedProcessingFee
	case "totalAmount":
		return c.FormattedTotalAmount
	case "incidentDate":
		return c.FormattedIncidentDate
	case "createdAt":
		return c.FormattedCreatedDate
	}
	return ""
}

func fitCell(s string, width int, right bool) string {
	s = cli.Truncate(s, width)
	pad := max(0, width-lipgloss.Width(s))
	if right {
		return strings.Repeat(" ", pad) + s
	}
	return s + strings.Repeat(" ", pad)
}

func (a App) renderTableHeader(w int) string {
	t := theme.Active
	digit := lipgloss.NewStyle().Foreground(t.TextDim)
	title := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	var cells []string
	for _, c := range a.tableColumns(w) {
		label := c.Title
		if ind := a.prefs.Sort.Indicator(c.Key); ind != "" {
			label += " " + ind
		}
		label = fitCell(fmt.Sprintf("%d %s", c.index+1, label), c.width, c.Right)
		// Style the digit apart from the title.
		if i := strings.IndexByte(label, ' '); i > 0 && !c.Right {
			cells = append(cells, digit.Render(label[:i])+title.Render(label[i:]))
			continue
		}
		cells = append(cells, title.Render(label))
	}
	return lipgloss.NewStyle().MaxWidth(w).Render(" " + strings.Join(cells, " "))
}

func (a App) renderRows(r virtual.Range, w int) []string {
	t := theme.Active
	cols := a.tableColumns(w)
	dense := a.itemHeight() == virtual.DenseRowHeight

	clip := lipgloss.NewStyle().MaxWidth(w)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selStyle := rowStyle.Background(t.SurfaceHover).Bold(true)
	rule := lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", max(w-2, 0)))

	lines := make([]string, 0, r.Len()*a.itemHeight())
	for i := r.Start; i < r.End; i++ {
		c := a.results[i]
		cells := make([]string, 0, len(cols))
		for _, col := range cols {
			cell := fitCell(cellValue(c, col.Key), col.width, col.Right)
			if col.Key == "status" {
				cell = lipgloss.NewStyle().Foreground(t.Status(c.Status)).Render(cell)
			}
			cells = append(cells, cell)
		}
		line := clip.Render(" " + strings.Join(cells, " "))
		if i == a.selected {
			lines = append(lines, selStyle.Width(w).Render(line))
		} else {
			lines = append(lines, rowStyle.Render(line))
		}
		if !dense {
			lines = append(lines, " "+rule)
		}
	}
	return lines
}

func (a App) renderCards(r virtual.Range, w int) []string {
	per := a.perRow()
	widths := components.LayoutRow(w, per)
	gap := strings.Repeat(" ", w)

	var lines []string
	for rowStart := r.Start; rowStart < r.End; rowStart += per {
		cards := make([]string, 0, per)
		for j := 0; j < per && rowStart+j < r.End; j++ {
			i := rowStart + j
			cards = append(cards, components.ClaimCard(a.results[i], widths[j], i == a.selected))
		}
		lines = append(lines, strings.Split(components.CardRow(cards), "\n")...)
		// Pad each card row to the full card height, gap included.
		for len(lines)%virtual.CardHeight != 0 {
			lines = append(lines, gap)
		}
	}
	return lines
}

// perfFooter describes what the virtualized list is rendering.
func (a App) perfFooter() string {
	r := a.renderRange()
	kind := "table: Showing %s rendered rows of %s total claims."
	if a.mode == viewCards {
		kind = "cards: Showing %s rendered cards of %s total claims."
	}
	text := "Virtualized " + fmt.Sprintf(kind,
		cli.FormatNumber(int64(r.Len())),
		cli.FormatNumber(int64(len(a.results))))

	if r.Len() > 0 {
		base := a.loader.CurrentStart()
		text += fmt.Sprintf(" Rendered range: %s–%s",
			cli.FormatNumber(int64(base+r.Start+1)),
			cli.FormatNumber(int64(base+min(r.End, len(a.results)))))
	}
	return text
}
