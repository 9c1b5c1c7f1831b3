package pathfinding

// nodeHeap implements container/heap for the open list (min-heap by f, then insertion order).
type nodeHeap []*Node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	fi, fj := h[i].F(), h[j].F()
	if fi != fj {
		return fi < fj
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(*Node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil // GC
	*h = old[:n-1]
	return node
}
