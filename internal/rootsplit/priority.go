package rootsplit

import "container/heap"

// candidateItem is one heap entry: a candidate move paired with the
// child lower bound that orders it (lower is more promising, matching
// the Search Worker's own best-first descent order — spec.md §4.4).
type candidateItem struct {
	childLB     int32
	knightIndex int
	from, to    int32
	index       int
}

// candidateHeap implements container/heap.Interface as a min-heap over
// childLB. This is the root-splitter's frontier-ordering structure,
// adapted from a generic thread-safe priority queue into a single-
// threaded min-heap: expandOne runs on one goroutine at a time (the
// coordinator, before any worker rank exists), so the mutex/condition-
// variable machinery a concurrent producer/consumer queue would need is
// dropped — only the heap.Interface core survives.
type candidateHeap []*candidateItem

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].childLB < h[j].childLB }
func (h candidateHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *candidateHeap) Push(x interface{}) {
	item := x.(*candidateItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[0 : n-1]
	return item
}

// drainSortedByLowerBound pops every candidate in ascending childLB
// order. Building the heap once and popping it all is equivalent to a
// full sort but reuses the teacher's heap.Interface shape rather than
// reaching for sort.Slice.
func drainSortedByLowerBound(items []*candidateItem) []*candidateItem {
	h := candidateHeap(items)
	heap.Init(&h)

	out := make([]*candidateItem, 0, len(items))
	for h.Len() > 0 {
		out = append(out, heap.Pop(&h).(*candidateItem))
	}
	return out
}
