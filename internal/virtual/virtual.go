// Package virtual computes which slice of a long list needs rendering for a
// given scroll position. Heights and offsets are in terminal lines.
package virtual

import "math"

const (
	// Buffer is the number of table rows rendered beyond each edge of the viewport.
	Buffer = 10

	// TableRowHeight is the height of a table row in the default layout.
	TableRowHeight = 2
	// DenseRowHeight is the table row height while filters are active.
	DenseRowHeight = 1

	// CardHeight is the height of one card including its gap.
	CardHeight = 9

	// Breakpoints in pixel-equivalent width for cards per row.
	MediumWidth = 768
	LargeWidth  = 1024

	// CellWidth converts terminal columns to a pixel-equivalent width.
	CellWidth = 8

	// EdgeSlack is how close to an edge the scroll position must be for
	// the list to count as at that edge.
	EdgeSlack = 1
)

// Range is a half-open index range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of items in the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether i falls in the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// RowHeight returns the table row height for the current filter state.
func RowHeight(activeFilters bool) int {
	if activeFilters {
		return DenseRowHeight
	}
	return TableRowHeight
}

// TableRange returns the rows to render for a table of total rows. The
// cost is constant in total.
func TableRange(total, itemHeight, scrollTop, viewportHeight int) Range {
	if total <= 0 {
		return Range{}
	}
	itemHeight = max(itemHeight, 1)
	scrollTop = max(scrollTop, 0)
	viewportHeight = max(viewportHeight, 0)

	visibleStart := scrollTop / itemHeight
	visibleEnd := min(visibleStart+ceilDiv(viewportHeight, itemHeight)+Buffer, total)

	start := min(max(0, visibleStart-Buffer), total)
	end := min(total, visibleEnd+Buffer)
	return Range{Start: start, End: end}
}

// CardRange returns the cards to render for a grid of total cards laid out
// cardsPerRow wide. One row of cards is buffered before the viewport and
// two after.
func CardRange(total, cardsPerRow, cardHeight, scrollTop, viewportHeight int) Range {
	if total <= 0 {
		return Range{}
	}
	cardsPerRow = max(cardsPerRow, 1)
	cardHeight = max(cardHeight, 1)
	scrollTop = max(scrollTop, 0)

	current := (scrollTop / cardHeight) * cardsPerRow
	visible := int(math.Ceil(float64(viewportHeight)/float64(cardHeight)*float64(cardsPerRow))) + cardsPerRow*2

	start := min(max(0, current-cardsPerRow), total)
	end := min(start+visible, total)
	return Range{Start: start, End: end}
}

// WidthToCardsPerRow maps a pixel-equivalent width to the card grid width.
func WidthToCardsPerRow(width int) int {
	switch {
	case width >= LargeWidth:
		return 3
	case width >= MediumWidth:
		return 2
	default:
		return 1
	}
}

// ColumnsToCardsPerRow maps a terminal width in columns to the card grid width.
func ColumnsToCardsPerRow(cols int) int {
	return WidthToCardsPerRow(cols * CellWidth)
}

// Spacers returns the heights standing in for the unrendered items above
// and below r.
func Spacers(r Range, total, itemHeight int) (top, bottom int) {
	top = r.Start * itemHeight
	bottom = max(0, total-r.End) * itemHeight
	return top, bottom
}

// ContentHeight is the full scrollable height of total items.
func ContentHeight(total, itemHeight int) int {
	return max(total, 0) * max(itemHeight, 1)
}

// ClampScroll limits scrollTop to [0, contentHeight-viewportHeight].
func ClampScroll(scrollTop, contentHeight, viewportHeight int) int {
	maxTop := max(0, contentHeight-viewportHeight)
	return min(max(scrollTop, 0), maxTop)
}

// Reveal adjusts scrollTop so the item at index is fully inside the viewport.
func Reveal(index, itemHeight, scrollTop, viewportHeight int) int {
	itemHeight = max(itemHeight, 1)
	top := index * itemHeight
	bottom := top + itemHeight
	switch {
	case top < scrollTop:
		return top
	case bottom > scrollTop+viewportHeight:
		return max(0, bottom-viewportHeight)
	}
	return scrollTop
}

// AtTop reports whether the scroll position is at the top edge.
func AtTop(scrollTop int) bool {
	return scrollTop <= EdgeSlack
}

// AtBottom reports whether the viewport reaches the end of the content.
func AtBottom(scrollTop, viewportHeight, contentHeight int) bool {
	return scrollTop+viewportHeight >= contentHeight-EdgeSlack
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// ResizeNotifier tracks the terminal width and reports when the card grid
// width changes. The zero value has not seen a size yet.
type ResizeNotifier struct {
	cols        int
	cardsPerRow int
}

// Update records a new terminal width and reports whether cards per row changed.
func (n *ResizeNotifier) Update(cols int) bool {
	n.cols = cols
	next := ColumnsToCardsPerRow(cols)
	if next == n.cardsPerRow {
		return false
	}
	n.cardsPerRow = next
	return true
}

// CardsPerRow returns the current grid width, defaulting to one.
func (n ResizeNotifier) CardsPerRow() int {
	if n.cardsPerRow == 0 {
		return 1
	}
	return n.cardsPerRow
}

// Cols returns the last recorded terminal width.
func (n ResizeNotifier) Cols() int { return n.cols }
