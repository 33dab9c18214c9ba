// Package chunks keeps a small sliding window of claim pages and the
// loader state machine that fills it.
package chunks

import (
	"slices"

	"github.com/theirongolddev/claimsdash/internal/claim"
)

// MaxChunks is the number of pages the window retains.
const MaxChunks = 3

// Chunk is one loaded page. End is exclusive: End == Start+len(Data).
type Chunk struct {
	Start int
	End   int
	Data  []claim.FormattedClaim
}

// NewChunk builds a chunk for data loaded at start.
func NewChunk(start int, data []claim.FormattedClaim) Chunk {
	return Chunk{Start: start, End: start + len(data), Data: data}
}

// Window holds at most MaxChunks chunks. The chunk at index 0 is the one
// currently displayed.
type Window struct {
	chunks []Chunk
}

// Put stores c as the current chunk. An existing chunk with the same start
// is replaced, and the oldest chunks beyond MaxChunks are dropped.
func (w *Window) Put(c Chunk) {
	next := make([]Chunk, 0, len(w.chunks)+1)
	for _, existing := range w.chunks {
		if existing.Start != c.Start {
			next = append(next, existing)
		}
	}
	next = append(next, c)
	if len(next) > MaxChunks {
		next = next[len(next)-MaxChunks:]
	}
	// c is always last here; move it to the front.
	last := len(next) - 1
	copy(next[1:], next[:last])
	next[0] = c
	w.chunks = next
}

// Find returns the chunk starting at start.
func (w Window) Find(start int) (Chunk, bool) {
	for _, c := range w.chunks {
		if c.Start == start {
			return c, true
		}
	}
	return Chunk{}, false
}

// Collapse keeps only the chunk starting at start. It reports false and
// leaves the window alone when there is no such chunk.
func (w *Window) Collapse(start int) bool {
	c, ok := w.Find(start)
	if !ok {
		return false
	}
	w.chunks = []Chunk{c}
	return true
}

// Reset replaces the window with the single chunk c.
func (w *Window) Reset(c Chunk) {
	w.chunks = []Chunk{c}
}

// Current returns the displayed chunk.
func (w Window) Current() (Chunk, bool) {
	if len(w.chunks) == 0 {
		return Chunk{}, false
	}
	return w.chunks[0], true
}

// Len returns the number of chunks held.
func (w Window) Len() int { return len(w.chunks) }

// Chunks returns a copy of the held chunks, current first.
func (w Window) Chunks() []Chunk { return slices.Clone(w.chunks) }

// Starts returns the start offsets of the held chunks, current first.
func (w Window) Starts() []int {
	out := make([]int, len(w.chunks))
	for i, c := range w.chunks {
		out[i] = c.Start
	}
	return out
}
