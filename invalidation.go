package floor

import (
	"sync"

	"github.com/willf/bitset"
)

// DirtySet is the deduplicating queue of chunks awaiting a rebuild.
//
// MarkDirty may be called from any goroutine. Drain and Reset belong to the
// render thread.
type DirtySet struct {
	mu      sync.Mutex
	pending *bitset.BitSet
	spare   *bitset.BitSet

	width, height   int // tiles
	chunksX, chunksY int
}

// NewDirtySet returns an empty set sized for a grid of w x h tiles.
func NewDirtySet(w, h int) *DirtySet {
	d := &DirtySet{}
	d.Reset(w, h)
	return d
}

// Reset clears the set and resizes it for a grid of w x h tiles.
func (d *DirtySet) Reset(w, h int) {
	cx, cy := ChunkCount(w, h)
	n := uint(cx * cy)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.width, d.height = w, h
	d.chunksX, d.chunksY = cx, cy
	d.pending = bitset.New(n)
	d.spare = bitset.New(n)
}

// MarkDirty queues the chunk owning tile (x, y). Tiles outside the grid
// are ignored. Marking the same chunk repeatedly queues it once.
func (d *DirtySet) MarkDirty(x, y int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return
	}
	cx, cy := ChunkOf(x, y)
	d.pending.Set(uint(cx*d.chunksY + cy))
}

// Len returns the number of queued chunks.
func (d *DirtySet) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int(d.pending.Count())
}

// Drain empties the set, calling fn once per queued chunk in ascending
// chunk index order, and returns the number of chunks visited. Chunks
// marked while fn runs are kept for the next Drain.
func (d *DirtySet) Drain(fn func(cx, cy int)) int {
	d.mu.Lock()
	if d.pending.None() {
		d.mu.Unlock()
		return 0
	}
	batch := d.pending
	d.pending, d.spare = d.spare, d.pending
	chunksY := d.chunksY
	d.mu.Unlock()

	n := 0
	for i, ok := batch.NextSet(0); ok; i, ok = batch.NextSet(i + 1) {
		fn(int(i)/chunksY, int(i)%chunksY)
		n++
	}
	batch.ClearAll()
	return n
}
