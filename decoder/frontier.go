package decoder

import (
	"container/heap"

	"github.com/katalvlaran/posegraph/field"
)

// frontierEntry is a pending connection from source to target.
//
// An unresolved entry carries an upper bound on the value the connection can
// reach and has not been evaluated yet. A resolved entry carries the
// evaluated candidate and its real priority.
type frontierEntry struct {
	priority float64
	resolved bool
	cand     field.Candidate
	source   int
	target   int
	seq      uint64 // insertion sequence, last tie-breaker
}

// frontier is a max-heap of frontierEntry ordered by priority.
// Ties prefer resolved entries, then lower source, lower target, and
// earlier insertion, so the pop order is fully deterministic.
//
// Like the lazy decrease-key queue of a shortest-path search, entries are
// never updated in place: a resolved entry is pushed again and stale
// entries are skipped when popped.
type frontier struct {
	items []frontierEntry
	seq   uint64
}

// Len returns the number of entries in the heap.
func (f *frontier) Len() int { return len(f.items) }

// Less orders by descending priority with the deterministic tie-breakers.
func (f *frontier) Less(i, j int) bool {
	a, b := &f.items[i], &f.items[j]
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	if a.resolved != b.resolved {
		return a.resolved
	}
	if a.source != b.source {
		return a.source < b.source
	}
	if a.target != b.target {
		return a.target < b.target
	}

	return a.seq < b.seq
}

// Swap swaps two entries.
func (f *frontier) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

// Push is called by heap.Push; x must be a frontierEntry.
func (f *frontier) Push(x interface{}) { f.items = append(f.items, x.(frontierEntry)) }

// Pop is called by heap.Pop.
func (f *frontier) Pop() interface{} {
	old := f.items
	n := len(old)
	item := old[n-1]
	f.items = old[:n-1]

	return item
}

// push stamps e with the next sequence number and adds it to the heap.
func (f *frontier) push(e frontierEntry) {
	e.seq = f.seq
	f.seq++
	heap.Push(f, e)
}

// pop removes the highest-priority entry. The caller checks Len first.
func (f *frontier) pop() frontierEntry {
	return heap.Pop(f).(frontierEntry)
}
