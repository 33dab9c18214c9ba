package virtual

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableRange(t *testing.T) {
	tests := []struct {
		name                                   string
		total, itemHeight, scrollTop, viewport int
		want                                   Range
	}{
		{"top", 1000, 64, 0, 600, Range{0, 30}},
		{"middle", 1000, 64, 6400, 600, Range{90, 130}},
		{"near end", 1000, 64, 64 * 995, 600, Range{985, 1000}},
		{"empty", 0, 64, 0, 600, Range{}},
		{"negative scroll", 1000, 64, -500, 600, Range{0, 30}},
		{"short list", 5, 2, 0, 40, Range{0, 5}},
		{"scrolled past end", 10, 2, 1000, 40, Range{10, 10}},
		{"zero height rows", 50, 0, 0, 10, Range{0, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TableRange(tt.total, tt.itemHeight, tt.scrollTop, tt.viewport)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableRange_ConstantInTotal(t *testing.T) {
	small := TableRange(1_000, 2, 200, 40)
	huge := TableRange(10_000_000, 2, 200, 40)
	assert.Equal(t, small, huge)
}

func TestCardRange(t *testing.T) {
	assert.Equal(t, Range{0, 14}, CardRange(100, 3, 240, 0, 600))
	assert.Equal(t, Range{27, 41}, CardRange(100, 3, 240, 2400, 600))
	assert.Equal(t, Range{0, 5}, CardRange(5, 3, 240, 0, 600))
	assert.Equal(t, Range{}, CardRange(0, 3, 240, 0, 600))
	assert.Equal(t, Range{0, 5}, CardRange(100, 1, 240, -10, 600), "1 per row: ceil(2.5)+2")
}

func TestWidthToCardsPerRow(t *testing.T) {
	assert.Equal(t, 1, WidthToCardsPerRow(0))
	assert.Equal(t, 1, WidthToCardsPerRow(767))
	assert.Equal(t, 2, WidthToCardsPerRow(768))
	assert.Equal(t, 2, WidthToCardsPerRow(1023))
	assert.Equal(t, 3, WidthToCardsPerRow(1024))
	assert.Equal(t, 3, ColumnsToCardsPerRow(128))
	assert.Equal(t, 2, ColumnsToCardsPerRow(100))
}

func TestSpacers(t *testing.T) {
	top, bottom := Spacers(Range{90, 130}, 1000, 2)
	assert.Equal(t, 180, top)
	assert.Equal(t, 1740, bottom)

	top, bottom = Spacers(Range{}, 0, 2)
	assert.Zero(t, top)
	assert.Zero(t, bottom)
}

func TestRowHeight(t *testing.T) {
	assert.Equal(t, TableRowHeight, RowHeight(false))
	assert.Equal(t, DenseRowHeight, RowHeight(true))
	assert.Less(t, RowHeight(true), RowHeight(false))
}

func TestScrollHelpers(t *testing.T) {
	assert.Equal(t, 0, ClampScroll(-5, 100, 20))
	assert.Equal(t, 80, ClampScroll(500, 100, 20))
	assert.Equal(t, 0, ClampScroll(10, 10, 20))

	assert.Equal(t, 10, Reveal(5, 2, 20, 10), "above viewport scrolls up")
	assert.Equal(t, 12, Reveal(10, 2, 0, 10), "below viewport scrolls down")
	assert.Equal(t, 4, Reveal(3, 2, 4, 10), "visible item keeps position")

	assert.True(t, AtTop(0))
	assert.False(t, AtTop(5))
	assert.True(t, AtBottom(80, 20, 100))
	assert.False(t, AtBottom(0, 20, 100))
}

func TestResizeNotifier(t *testing.T) {
	var n ResizeNotifier
	assert.Equal(t, 1, n.CardsPerRow())

	assert.True(t, n.Update(140))
	assert.Equal(t, 3, n.CardsPerRow())
	assert.False(t, n.Update(130), "same bucket is not a change")
	assert.True(t, n.Update(80))
	assert.Equal(t, 1, n.CardsPerRow())
	assert.Equal(t, 80, n.Cols())
}
